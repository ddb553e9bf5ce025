// Package stats contains reaction history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/reactrain/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes the mean reaction latency and the hit accuracy. ok is false
// when no latency was recorded.
func SessionMetrics(hits, misses int, latencySumMs, latencyCount int64) (avgMs, accuracy float64, ok bool) {
	den := float64(hits + misses)
	if den > 0 {
		accuracy = float64(hits) / den
	}
	if latencyCount <= 0 {
		return 0, accuracy, false
	}
	return float64(latencySumMs) / float64(latencyCount), accuracy, true
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var hits, misses int
	var latencySum, latencyCount int64
	best := int64(0)
	for _, s := range sessions {
		hits += s.Hits
		misses += s.Misses
		latencySum += s.LatencySumMs
		latencyCount += s.LatencyCount
		if s.LatencyCount > 0 && (best == 0 || s.BestMs < best) {
			best = s.BestMs
		}
	}
	avg, acc, ok := SessionMetrics(hits, misses, latencySum, latencyCount)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Hits: %d", hits),
		fmt.Sprintf("Misses: %d", misses),
		"Avg reaction: " + formatMs(avg, ok),
		"Best reaction: " + formatMs(float64(best), best > 0),
		fmt.Sprintf("Accuracy: %.2f%%", acc*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatMs(v float64, ok bool) string {
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.0f ms", v)
}

// RenderTargetTable prints per-target aggregates, slowest first.
func RenderTargetTable(w io.Writer, aggs []model.TargetAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No target stats found.")
		return err
	}
	type row struct {
		target  string
		acc     float64
		latency float64
		hasLat  bool
		hits    int
		misses  int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		lat, acc, ok := SessionMetrics(agg.Hits, agg.Misses, agg.LatencySumMs, agg.LatencyCount)
		rows = append(rows, row{
			target:  agg.Target,
			acc:     acc,
			latency: lat,
			hasLat:  ok,
			hits:    agg.Hits,
			misses:  agg.Misses,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].latency == rows[j].latency {
			return rows[i].target < rows[j].target
		}
		return rows[i].latency > rows[j].latency
	})

	if _, err := fmt.Fprintln(w, "Per-Target (Windowed)"); err != nil {
		return err
	}

	headers := []string{"Target", "Avg Reaction (ms)", "Accuracy", "Hits", "Misses"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		latency := "—"
		if r.hasLat {
			latency = fmt.Sprintf("%.1f", r.latency)
		}
		tableRows = append(tableRows, []string{
			r.target,
			latency,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%d", r.hits),
			fmt.Sprintf("%d", r.misses),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
