package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/reactrain/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	avg, acc, ok := SessionMetrics(3, 1, 600, 3)
	if !ok || avg != 200 || acc != 0.75 {
		t.Fatalf("unexpected metrics %v %v %v", avg, acc, ok)
	}
	if _, _, ok := SessionMetrics(0, 2, 0, 0); ok {
		t.Fatalf("expected no latency data")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderSummaryWithoutHits(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, []model.SessionAggregate{{Misses: 3}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Avg reaction: —") {
		t.Fatalf("expected no-data marker, got %q", buf.String())
	}
}

func TestResampleSeries(t *testing.T) {
	got := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected resample %v", got)
	}
	short := resampleSeries([]float64{1}, 10)
	if len(short) != 1 {
		t.Fatalf("short series must not be stretched: %v", short)
	}
}

func TestCurveWidthFor(t *testing.T) {
	if got := CurveWidthFor(0); got != minCurveWidth {
		t.Fatalf("expected min width, got %d", got)
	}
	if got := CurveWidthFor(100); got != 100-curveLabelWidth-1-30 {
		t.Fatalf("unexpected width %d", got)
	}
}
