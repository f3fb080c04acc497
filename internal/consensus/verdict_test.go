package consensus

import (
	"testing"

	"checkmate/internal/models"

	"github.com/stretchr/testify/assert"
)

func ballotsOf(categories ...models.Category) []models.Ballot {
	ballots := make([]models.Ballot, len(categories))
	for i, c := range categories {
		ballots[i] = models.Ballot{Category: c}
	}
	return ballots
}

func TestComputeNoBallots(t *testing.T) {
	result := Compute(nil)

	assert.Equal(t, "Pass - No votes received", result.Verdict)
	assert.Empty(t, result.Correctness)
	assert.False(t, result.TieBroken)
}

func TestComputeMajority(t *testing.T) {
	result := Compute(ballotsOf(models.CategoryFalse, models.CategoryFalse, models.CategoryMisleading))

	assert.Equal(t, "False - 67% consensus", result.Verdict)
	assert.Equal(t, models.CategoryFalse, result.Majority)
	assert.Equal(t, int64(67), result.Percentage)
	assert.Equal(t, []bool{true, true, false}, result.Correctness)
	assert.False(t, result.TieBroken)
}

func TestComputeUnanimous(t *testing.T) {
	result := Compute(ballotsOf(models.CategoryScam))

	assert.Equal(t, "Scam - 100% consensus", result.Verdict)
	assert.Equal(t, []bool{true}, result.Correctness)
}

func TestComputeRoundsHalfUp(t *testing.T) {
	result := Compute(ballotsOf(
		models.CategoryFalse,
		models.CategoryScam, models.CategoryScam, models.CategoryScam,
		models.CategorySatire, models.CategorySatire,
		models.CategorySpam, models.CategoryLegitimate,
	))

	assert.Equal(t, models.CategoryScam, result.Majority)
	assert.Equal(t, "Scam - 38% consensus", result.Verdict) // 3/8 = 37.5%
}

func TestComputeTieBreakUsesCanonicalOrder(t *testing.T) {
	tests := []struct {
		name     string
		ballots  []models.Category
		expected models.Category
	}{
		{
			name:     "misleading before false",
			ballots:  []models.Category{models.CategoryFalse, models.CategoryMisleading},
			expected: models.CategoryMisleading,
		},
		{
			name:     "insertion order ignored",
			ballots:  []models.Category{models.CategoryMisleading, models.CategoryFalse},
			expected: models.CategoryMisleading,
		},
		{
			name: "three way tie",
			ballots: []models.Category{
				models.CategoryLegitimate, models.CategorySpam, models.CategorySatire,
				models.CategorySatire, models.CategorySpam, models.CategoryLegitimate,
			},
			expected: models.CategorySatire,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(ballotsOf(tt.ballots...))
			assert.Equal(t, tt.expected, result.Majority)
			assert.True(t, result.TieBroken)
			for i, c := range tt.ballots {
				assert.Equal(t, c == tt.expected, result.Correctness[i])
			}
		})
	}
}

func TestComputeUnknownCategoryNeverWinsTie(t *testing.T) {
	result := Compute(ballotsOf("Rumour", models.CategoryLegitimate))

	assert.Equal(t, models.CategoryLegitimate, result.Majority)
	assert.Equal(t, "Legitimate - 50% consensus", result.Verdict)
	assert.Equal(t, []bool{false, true}, result.Correctness)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	ballots := ballotsOf(models.CategorySpam, models.CategoryScam, models.CategorySpam)
	snapshot := append([]models.Ballot(nil), ballots...)

	Compute(ballots)

	assert.Equal(t, snapshot, ballots)
}
