package trainer

import "math"

// TargetTally is the per-target breakdown kept by Stats.
type TargetTally struct {
	Target       string
	Hits         int
	Misses       int
	LatencySumMs float64
	BestMs       float64
}

// Average returns the mean hit latency for the target.
func (t TargetTally) Average() (float64, bool) {
	if t.Hits == 0 {
		return 0, false
	}
	return t.LatencySumMs / float64(t.Hits), true
}

// Stats tracks hits, misses and reaction latencies in milliseconds.
type Stats struct {
	hits      int
	misses    int
	latencies []float64
	order     []string
	targets   map[string]*TargetTally
}

// NewStats returns an empty tracker.
func NewStats() *Stats {
	return &Stats{targets: make(map[string]*TargetTally)}
}

// RecordHit counts a hit on target with the given latency.
func (s *Stats) RecordHit(target string, latencyMs float64) {
	s.hits++
	s.latencies = append(s.latencies, latencyMs)
	tally := s.tally(target)
	tally.Hits++
	tally.LatencySumMs += latencyMs
	if tally.Hits == 1 || latencyMs < tally.BestMs {
		tally.BestMs = latencyMs
	}
}

// RecordMiss counts a miss while target was displayed.
func (s *Stats) RecordMiss(target string) {
	s.misses++
	s.tally(target).Misses++
}

func (s *Stats) tally(target string) *TargetTally {
	if s.targets == nil {
		s.targets = make(map[string]*TargetTally)
	}
	tally, ok := s.targets[target]
	if !ok {
		tally = &TargetTally{Target: target}
		s.targets[target] = tally
		s.order = append(s.order, target)
	}
	return tally
}

// Average returns the arithmetic mean of all latencies. The boolean is false when
// no latency has been recorded.
func (s *Stats) Average() (float64, bool) {
	if len(s.latencies) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range s.latencies {
		sum += v
	}
	return sum / float64(len(s.latencies)), true
}

// Best returns the fastest latency recorded.
func (s *Stats) Best() (float64, bool) {
	if len(s.latencies) == 0 {
		return 0, false
	}
	best := math.Inf(1)
	for _, v := range s.latencies {
		best = math.Min(best, v)
	}
	return best, true
}

// Hits returns the hit count.
func (s *Stats) Hits() int { return s.hits }

// Misses returns the miss count.
func (s *Stats) Misses() int { return s.misses }

// Latencies returns a copy of the recorded latencies in order.
func (s *Stats) Latencies() []float64 {
	out := make([]float64, len(s.latencies))
	copy(out, s.latencies)
	return out
}

// Targets returns per-target tallies in first-seen order.
func (s *Stats) Targets() []TargetTally {
	out := make([]TargetTally, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.targets[name])
	}
	return out
}

// Empty reports whether nothing has been recorded.
func (s *Stats) Empty() bool {
	return s.hits == 0 && s.misses == 0
}

// Reset clears every counter.
func (s *Stats) Reset() {
	s.hits = 0
	s.misses = 0
	s.latencies = nil
	s.order = nil
	s.targets = make(map[string]*TargetTally)
}
