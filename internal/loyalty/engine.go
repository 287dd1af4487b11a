// Package loyalty implements the points balance, tier multipliers and
// reward redemption.
//
// The tier is never stored; it is derived from the balance on demand.
// Points earned in one call are multiplied by the tier held before that
// call's credit, so a credit that crosses a threshold is not boosted by
// the tier it newly reaches.
package loyalty

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

// TransactionType is earn or redeem.
type TransactionType string

const (
	Earn   TransactionType = "earn"
	Redeem TransactionType = "redeem"
)

// Transaction is one entry of the points history.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Points      int             `json:"points"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Engine holds the points balance and its history. Balance and history are
// separate keys written one after the other.
type Engine struct {
	mu      sync.Mutex
	points  int
	history []Transaction

	pointsRec  *persist.Record[int]
	historyRec *persist.Record[[]Transaction]
	opts       persist.Options
}

// New creates a loyalty engine over gw. Call Load before use.
func New(gw kv.Gateway, opts persist.Options) *Engine {
	return &Engine{
		history:    []Transaction{},
		pointsRec:  persist.NewRecord(gw, kv.KeyLoyaltyPoints, persist.Int()),
		historyRec: persist.NewRecord(gw, kv.KeyLoyaltyTransactions, persist.JSON[[]Transaction]()),
		opts:       opts.WithDefaults(),
	}
}

// Load hydrates the balance and history. A new account starts at zero.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	points := persist.Hydrate(ctx, e.pointsRec, e.opts, nil, func() int { return 0 })
	if points < 0 {
		slog.Warn("stored loyalty balance is negative, clamping to zero", "points", points)
		points = 0
	}
	e.points = points

	history := persist.Hydrate(ctx, e.historyRec, e.opts, nil, func() []Transaction { return []Transaction{} })
	if history == nil {
		history = []Transaction{}
	}
	e.history = history
	slog.Debug("loyalty engine loaded", "points", e.points, "transactions", len(e.history))
}

// Points returns the current balance.
func (e *Engine) Points() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.points
}

// CurrentTier returns the tier for the current balance.
func (e *Engine) CurrentTier() Tier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return TierFor(e.points)
}

// NextTier returns the tier above the current one; ok is false at the top.
func (e *Engine) NextTier() (Tier, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return nextTier(TierFor(e.points))
}

// PointsToNextTier returns how many points are missing to reach the next
// tier, or 0 at the top tier.
func (e *Engine) PointsToNextTier() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, ok := nextTier(TierFor(e.points))
	if !ok {
		return 0
	}
	return next.MinPoints - e.points
}

// Transactions returns the history, newest first.
func (e *Engine) Transactions() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Transaction(nil), e.history...)
}

// Rewards returns the reward catalog.
func (e *Engine) Rewards() []Reward {
	return Rewards()
}

// PointsForPurchase previews the points a purchase of amount would earn at
// the current tier. It does not change any state.
func (e *Engine) PointsForPurchase(amount float64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !(amount > 0) {
		return 0
	}
	return int(math.Floor(amount * TierFor(e.points).Multiplier))
}

// AddPoints credits basePoints multiplied by the tier held before the
// credit, records an earn entry, and returns the points actually credited.
// Non-positive base points are ignored.
func (e *Engine) AddPoints(ctx context.Context, basePoints int, description string) int {
	if basePoints <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	tier := TierFor(e.points)
	actual := int(math.Floor(float64(basePoints) * tier.Multiplier))
	e.points += actual
	e.prepend(Transaction{
		ID:          e.opts.IDs.Generate(),
		Type:        Earn,
		Points:      actual,
		Description: description,
		Timestamp:   e.opts.Clock.Now(),
	})
	slog.Debug("loyalty points earned", "base", basePoints, "tier", tier.Name, "credited", actual, "balance", e.points)
	e.commit(ctx)
	return actual
}

// RedeemReward spends the reward's points. It returns false, changing
// nothing, when the balance is short. The discount itself is not applied
// anywhere.
func (e *Engine) RedeemReward(ctx context.Context, r Reward) bool {
	if r.PointsRequired <= 0 {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.points < r.PointsRequired {
		slog.Debug("reward redemption refused", "reward", r.ID, "required", r.PointsRequired, "balance", e.points)
		return false
	}
	e.points -= r.PointsRequired
	e.prepend(Transaction{
		ID:          e.opts.IDs.Generate(),
		Type:        Redeem,
		Points:      r.PointsRequired,
		Description: "Redeemed: " + r.Name,
		Timestamp:   e.opts.Clock.Now(),
	})
	e.commit(ctx)
	return true
}

func (e *Engine) prepend(t Transaction) {
	e.history = append([]Transaction{t}, e.history...)
}

func (e *Engine) commit(ctx context.Context) {
	persist.Commit(ctx, e.pointsRec, e.points, e.opts)
	persist.Commit(ctx, e.historyRec, append([]Transaction(nil), e.history...), e.opts)
}
