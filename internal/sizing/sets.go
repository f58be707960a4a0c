package sizing

import (
	"sort"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
)

// maxSetDiff is the largest finger count a set may differ by and still be
// offered. Fixed product behavior, not configuration.
const maxSetDiff = 2

// RankSets compares a recommended profile against a chart's curated sets.
// The diff is the number of fingers whose sizes disagree. Sets differing on
// more than maxSetDiff fingers are dropped; survivors sort by ascending
// diff, stable, so equally-close sets keep their listed order.
func RankSets(sizes [5]int, sets []models.SizeSet) []SetMatch {
	out := make([]SetMatch, 0, len(sets))
	for _, s := range sets {
		diff := 0
		for i, f := range domain.FingerOrder {
			if s.Sizes.SizeFor(f) != sizes[i] {
				diff++
			}
		}
		if diff > maxSetDiff {
			continue
		}
		out = append(out, SetMatch{
			SetID:   s.ID,
			SetName: s.Name,
			Diff:    diff,
			Exact:   diff == 0,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Diff < out[j].Diff
	})
	return out
}
