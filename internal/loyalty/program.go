package loyalty

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed program.cue
var programCUE []byte

// Tier is a loyalty level. Earned points are multiplied by Multiplier.
type Tier struct {
	Name       string  `json:"name"`
	MinPoints  int     `json:"min_points"`
	Multiplier float64 `json:"multiplier"`
}

// Discount is the payload a reward grants. Applying it to an order is the
// checkout's job, not the loyalty engine's.
type Discount struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Reward is a catalog entry redeemable for points.
type Reward struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	PointsRequired int      `json:"points_required"`
	Discount       Discount `json:"discount"`
}

// Program is the compiled tier table and reward catalog.
type Program struct {
	Tiers   []Tier   `json:"tiers"`
	Rewards []Reward `json:"rewards"`
}

// defaultProgram is compiled once from the embedded CUE source.
var defaultProgram = mustCompileProgram(programCUE)

// CompileProgram compiles CUE source into a Program. The source must
// satisfy the #Tier and #Reward schemas, and tiers must start at 0 points
// and ascend strictly.
func CompileProgram(src []byte) (*Program, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename("program.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile program: %s", errors.Details(err, nil))
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate program: %s", errors.Details(err, nil))
	}

	var p Program
	if err := v.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}

	if len(p.Tiers) == 0 {
		return nil, fmt.Errorf("program has no tiers")
	}
	if p.Tiers[0].MinPoints != 0 {
		return nil, fmt.Errorf("lowest tier %q must start at 0 points, got %d", p.Tiers[0].Name, p.Tiers[0].MinPoints)
	}
	for i := 1; i < len(p.Tiers); i++ {
		if p.Tiers[i].MinPoints <= p.Tiers[i-1].MinPoints {
			return nil, fmt.Errorf("tier %q threshold %d does not ascend", p.Tiers[i].Name, p.Tiers[i].MinPoints)
		}
	}
	seen := make(map[string]bool, len(p.Rewards))
	for _, r := range p.Rewards {
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate reward id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return &p, nil
}

func mustCompileProgram(src []byte) *Program {
	p, err := CompileProgram(src)
	if err != nil {
		panic(fmt.Sprintf("loyalty: embedded program: %v", err))
	}
	return p
}

// Tiers returns the tier table in ascending threshold order.
func Tiers() []Tier {
	return append([]Tier(nil), defaultProgram.Tiers...)
}

// Rewards returns the static reward catalog.
func Rewards() []Reward {
	return append([]Reward(nil), defaultProgram.Rewards...)
}

// RewardByID looks up a catalog reward.
func RewardByID(id string) (Reward, bool) {
	for _, r := range defaultProgram.Rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}

// TierFor returns the tier with the highest threshold not above points.
func TierFor(points int) Tier {
	tiers := defaultProgram.Tiers
	for i := len(tiers) - 1; i >= 0; i-- {
		if points >= tiers[i].MinPoints {
			return tiers[i]
		}
	}
	return tiers[0]
}

// nextTier returns the tier after current, if any.
func nextTier(current Tier) (Tier, bool) {
	for i, t := range defaultProgram.Tiers {
		if t.Name == current.Name && i+1 < len(defaultProgram.Tiers) {
			return defaultProgram.Tiers[i+1], true
		}
	}
	return Tier{}, false
}
