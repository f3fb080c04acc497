package consensus

import (
	"fmt"
	"sort"

	"checkmate/internal/models"

	"github.com/shopspring/decimal"
)

// NoVotesVerdict is recorded for submissions that close without any ballot.
const NoVotesVerdict = "Pass - No votes received"

// Result is the output of Compute.
type Result struct {
	Verdict    string
	Majority   models.Category
	Percentage int64
	// TieBroken is true when more than one category reached the majority count
	// and the canonical order picked the winner.
	TieBroken   bool
	Correctness []bool
}

// Compute derives the verdict for a set of ballots. It is pure: the same
// ballots always produce the same result regardless of their order, except
// that Correctness is index-aligned with the input.
//
// Ties are broken by models.CanonicalCategories order. Labels outside the
// canonical set still count toward the total and rank after every canonical
// label, in lexical order.
func Compute(ballots []models.Ballot) Result {
	if len(ballots) == 0 {
		return Result{
			Verdict:     NoVotesVerdict,
			Correctness: []bool{},
		}
	}

	counts := make(map[models.Category]int, len(models.CanonicalCategories))
	for _, b := range ballots {
		counts[b.Category]++
	}

	var majority models.Category
	majorityCount := 0
	tied := 0
	for _, category := range rankingOrder(counts) {
		n := counts[category]
		switch {
		case n > majorityCount:
			majority, majorityCount, tied = category, n, 1
		case n == majorityCount:
			tied++
		}
	}

	percentage := decimal.NewFromInt(int64(majorityCount)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(len(ballots)))).
		Round(0).
		IntPart()

	correctness := make([]bool, len(ballots))
	for i, b := range ballots {
		correctness[i] = b.Category == majority
	}

	return Result{
		Verdict:     fmt.Sprintf("%s - %d%% consensus", majority, percentage),
		Majority:    majority,
		Percentage:  percentage,
		TieBroken:   tied > 1,
		Correctness: correctness,
	}
}

// rankingOrder returns every category present in counts, canonical labels
// first.
func rankingOrder(counts map[models.Category]int) []models.Category {
	order := make([]models.Category, 0, len(counts))
	for _, category := range models.CanonicalCategories {
		if counts[category] > 0 {
			order = append(order, category)
		}
	}

	var extra []models.Category
	for category := range counts {
		if !category.Valid() {
			extra = append(extra, category)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(order, extra...)
}
