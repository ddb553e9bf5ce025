package trainer

import "testing"

func TestAverage(t *testing.T) {
	s := NewStats()
	if avg, ok := s.Average(); ok || avg != 0 {
		t.Fatalf("expected no-data sentinel, got %v %v", avg, ok)
	}
	for _, v := range []float64{100, 200, 300} {
		s.RecordHit("A", v)
	}
	avg, ok := s.Average()
	if !ok || avg != 200 {
		t.Fatalf("expected 200, got %v %v", avg, ok)
	}
	best, ok := s.Best()
	if !ok || best != 100 {
		t.Fatalf("expected best 100, got %v", best)
	}
}

func TestRecordMiss(t *testing.T) {
	s := NewStats()
	s.RecordMiss("A")
	if s.Misses() != 1 || s.Hits() != 0 || len(s.Latencies()) != 0 {
		t.Fatalf("unexpected counters after miss")
	}
	if _, ok := s.Average(); ok {
		t.Fatalf("miss must not produce an average")
	}
}

func TestTargetBreakdown(t *testing.T) {
	s := NewStats()
	s.RecordHit("B", 300)
	s.RecordHit("A", 100)
	s.RecordHit("B", 200)
	s.RecordMiss("A")
	tallies := s.Targets()
	if len(tallies) != 2 || tallies[0].Target != "B" || tallies[1].Target != "A" {
		t.Fatalf("unexpected order: %+v", tallies)
	}
	b := tallies[0]
	if b.Hits != 2 || b.BestMs != 200 {
		t.Fatalf("unexpected B tally: %+v", b)
	}
	if avg, ok := b.Average(); !ok || avg != 250 {
		t.Fatalf("expected B average 250, got %v", avg)
	}
	if tallies[1].Misses != 1 {
		t.Fatalf("unexpected A tally: %+v", tallies[1])
	}
}

func TestStatsReset(t *testing.T) {
	s := NewStats()
	s.RecordHit("A", 120)
	s.RecordMiss("A")
	s.Reset()
	if !s.Empty() || len(s.Targets()) != 0 || len(s.Latencies()) != 0 {
		t.Fatalf("expected empty stats after reset")
	}
}
