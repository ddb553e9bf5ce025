package stats

import (
	"sort"

	"github.com/verte-zerg/reactrain/internal/model"
)

// WeaknessScores rates each target by its miss rate plus how much slower than the
// overall mean it is reacted to. Scores are zero or positive.
func WeaknessScores(aggs []model.TargetAggregate) map[string]float64 {
	scores := map[string]float64{}
	var sum, count int64
	for _, agg := range aggs {
		sum += agg.LatencySumMs
		count += agg.LatencyCount
	}
	overall := 0.0
	if count > 0 {
		overall = float64(sum) / float64(count)
	}
	for _, agg := range aggs {
		avg, acc, ok := SessionMetrics(agg.Hits, agg.Misses, agg.LatencySumMs, agg.LatencyCount)
		score := 0.0
		if agg.Hits+agg.Misses > 0 {
			score = 1 - acc
		}
		if ok && overall > 0 && avg > overall {
			score += avg/overall - 1
		}
		scores[agg.Target] = score
	}
	return scores
}

// SelectWeakTargets returns the top highest-scoring targets.
func SelectWeakTargets(aggs []model.TargetAggregate, top int) []string {
	scores := WeaknessScores(aggs)
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if scores[names[i]] == scores[names[j]] {
			return names[i] < names[j]
		}
		return scores[names[i]] > scores[names[j]]
	})
	if top <= 0 || top > len(names) {
		top = len(names)
	}
	return names[:top]
}
