// Package model defines shared data structures.
package model

import "time"

// Config defines trainer settings.
type Config struct {
	Targets     []string
	Delay       time.Duration
	GlobalInput bool
	History     bool
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Targets     []string
}

// SessionStats captures one completed Running period.
type SessionStats struct {
	RunID        string
	StartedAt    time.Time
	EndedAt      time.Time
	Targets      []string
	DelayMs      int64
	Hits         int
	Misses       int
	LatencySumMs int64
	LatencyCount int64
	BestMs       int64
}

// TargetStats stores per-target stats for a session.
type TargetStats struct {
	Target       string
	Hits         int
	Misses       int
	LatencySumMs int64
	LatencyCount int64
}

// TargetAggregate aggregates target stats across sessions.
type TargetAggregate struct {
	Target       string
	Hits         int
	Misses       int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID    int64
	RunID        string
	EndedAt      time.Time
	Hits         int
	Misses       int
	LatencySumMs int64
	LatencyCount int64
	BestMs       int64
}
