package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProgram_Tiers(t *testing.T) {
	tiers := Tiers()
	require.Len(t, tiers, 4)
	assert.Equal(t, Tier{Name: "Bronze", MinPoints: 0, Multiplier: 1}, tiers[0])
	assert.Equal(t, Tier{Name: "Silver", MinPoints: 500, Multiplier: 1.25}, tiers[1])
	assert.Equal(t, Tier{Name: "Gold", MinPoints: 1000, Multiplier: 1.5}, tiers[2])
	assert.Equal(t, Tier{Name: "Platinum", MinPoints: 2500, Multiplier: 2}, tiers[3])
}

func TestDefaultProgram_Rewards(t *testing.T) {
	rewards := Rewards()
	require.Len(t, rewards, 6)
	for _, r := range rewards {
		assert.NotEmpty(t, r.ID)
		assert.Positive(t, r.PointsRequired)
	}

	r, ok := RewardByID("reward-5-off")
	require.True(t, ok)
	assert.Equal(t, 500, r.PointsRequired)
	assert.Equal(t, Discount{Type: "fixed", Value: 5}, r.Discount)

	_, ok = RewardByID("nope")
	assert.False(t, ok)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "Bronze"},
		{499, "Bronze"},
		{500, "Silver"},
		{999, "Silver"},
		{1000, "Gold"},
		{2499, "Gold"},
		{2500, "Platinum"},
		{100000, "Platinum"},
		{-10, "Bronze"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.points).Name, "points=%d", tt.points)
	}
}

func TestCompileProgram_RejectsSchemaViolation(t *testing.T) {
	src := []byte(`
#Tier: {name: string, min_points: int & >=0, multiplier: number & >=1}
tiers: [...#Tier] & [{name: "Bronze", min_points: 0, multiplier: 0.5}]
rewards: []
`)
	_, err := CompileProgram(src)
	assert.Error(t, err)
}

func TestCompileProgram_RejectsNonAscendingTiers(t *testing.T) {
	src := []byte(`
tiers: [
	{name: "Bronze", min_points: 0, multiplier: 1},
	{name: "Silver", min_points: 0, multiplier: 2},
]
rewards: []
`)
	_, err := CompileProgram(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not ascend")
}

func TestCompileProgram_RejectsNonZeroBase(t *testing.T) {
	src := []byte(`
tiers: [{name: "Silver", min_points: 10, multiplier: 1}]
rewards: []
`)
	_, err := CompileProgram(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start at 0")
}

func TestCompileProgram_RejectsDuplicateRewards(t *testing.T) {
	src := []byte(`
tiers: [{name: "Bronze", min_points: 0, multiplier: 1}]
rewards: [
	{id: "a", name: "A", description: "", points_required: 1, discount: {type: "fixed", value: 1}},
	{id: "a", name: "B", description: "", points_required: 2, discount: {type: "fixed", value: 2}},
]
`)
	_, err := CompileProgram(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate reward id")
}

func TestCompileProgram_SyntaxError(t *testing.T) {
	_, err := CompileProgram([]byte(`tiers: [`))
	assert.Error(t, err)
}
