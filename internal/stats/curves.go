package stats

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/reactrain/internal/model"
)

const (
	curveLabelWidth     = 14
	minCurveWidth       = 10
	terminalWidthBackup = 80
)

// Series represents a named data series.
type Series struct {
	Name   string
	Values []float64
}

// RenderCurves prints reaction and accuracy learning curves as sparklines.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int) error {
	if len(sessions) == 0 {
		return nil
	}
	lats := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		lat, acc, _ := SessionMetrics(s.Hits, s.Misses, s.LatencySumMs, s.LatencyCount)
		lats[i] = lat
		accs[i] = acc * 100
	}
	return renderSeries(w, "Learning Curves", []Series{
		{Name: "Reaction ms", Values: MovingAverage(lats, window)},
		{Name: "Accuracy %", Values: MovingAverage(accs, window)},
	}, totalWidth)
}

// RenderTargetCurves prints per-target latency curves.
func RenderTargetCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.TargetAggregate, targets []string, window, totalWidth int) error {
	if len(targets) == 0 || len(sessions) == 0 {
		return nil
	}
	series := make([]Series, 0, len(targets))
	for _, target := range targets {
		values := make([]float64, 0, len(sessions))
		for _, s := range sessions {
			agg, ok := perSession[s.SessionID][target]
			if !ok || agg.LatencyCount == 0 {
				continue
			}
			values = append(values, float64(agg.LatencySumMs)/float64(agg.LatencyCount))
		}
		series = append(series, Series{Name: target, Values: MovingAverage(values, window)})
	}
	return renderSeries(w, "Per-Target Reaction", series, totalWidth)
}

func renderSeries(w io.Writer, title string, series []Series, totalWidth int) error {
	width := CurveWidthFor(totalWidth)
	if totalWidth <= 0 {
		width = CurveWidthFor(terminalWidth())
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		minVal, maxVal := minMax(s.Values)
		line := Sparkline(resampleSeries(s.Values, width))
		if _, err := fmt.Fprintf(w, "%-*s %s  min=%.1f max=%.1f\n", curveLabelWidth, s.Name, line, minVal, maxVal); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CurveWidthFor computes a sparkline width that fits the label and range columns.
func CurveWidthFor(totalWidth int) int {
	width := totalWidth - curveLabelWidth - 1 - 30
	if width < minCurveWidth {
		width = minCurveWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func minMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

// resampleSeries averages buckets when values exceed width and leaves shorter
// series untouched.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) <= width || width <= 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
