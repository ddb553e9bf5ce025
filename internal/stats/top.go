package stats

import (
	"sort"

	"github.com/verte-zerg/reactrain/internal/model"
)

// TopTargetsByFrequency returns the top N targets by total presses evaluated.
func TopTargetsByFrequency(aggs []model.TargetAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	type item struct {
		target string
		total  int
	}
	items := make([]item, 0, len(aggs))
	for _, agg := range aggs {
		items = append(items, item{
			target: agg.Target,
			total:  agg.Hits + agg.Misses,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total == items[j].total {
			return items[i].target < items[j].target
		}
		return items[i].total > items[j].total
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].target)
	}
	return out
}
