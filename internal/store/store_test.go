package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/reactrain/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "reactrain.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertSession(t *testing.T, st *Store, ended time.Time, targets []model.TargetStats) int64 {
	t.Helper()
	stats := model.SessionStats{
		RunID:        uuid.NewString(),
		StartedAt:    ended.Add(-time.Minute),
		EndedAt:      ended,
		Targets:      []string{"A", "B"},
		DelayMs:      750,
		Hits:         3,
		Misses:       1,
		LatencySumMs: 900,
		LatencyCount: 3,
		BestMs:       250,
	}
	id, err := st.InsertSession(context.Background(), stats, targets)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := insertSession(t, st, base, []model.TargetStats{{Target: "A", Hits: 2, LatencySumMs: 600, LatencyCount: 2}})
	second := insertSession(t, st, base.Add(time.Hour), []model.TargetStats{{Target: "A", Hits: 1, Misses: 1, LatencySumMs: 300, LatencyCount: 1}})

	sessions, err := st.ListSessions(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != first || sessions[1].SessionID != second {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
	if sessions[0].RunID == "" || sessions[0].BestMs != 250 || sessions[0].Hits != 3 {
		t.Fatalf("unexpected aggregate: %+v", sessions[0])
	}

	since := base.Add(30 * time.Minute)
	sessions, err = st.ListSessions(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions since: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != second {
		t.Fatalf("expected only the later session, got %+v", sessions)
	}

	aggs, err := st.ListTargetAggregatesForSessions(ctx, []int64{first, second})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Hits != 3 || aggs[0].Misses != 1 || aggs[0].LatencyCount != 3 {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}

	weak, err := st.GetWeakTargets(ctx, 1)
	if err != nil {
		t.Fatalf("weak: %v", err)
	}
	if len(weak) != 1 || weak[0].Hits != 1 {
		t.Fatalf("expected only the latest session in window, got %+v", weak)
	}

	per, err := st.ListTargetStatsForSessions(ctx, []int64{first, second}, []string{"A"})
	if err != nil {
		t.Fatalf("per session: %v", err)
	}
	if per[first]["A"].Hits != 2 || per[second]["A"].Misses != 1 {
		t.Fatalf("unexpected per-session stats: %+v", per)
	}
}

func TestInsertDuplicateRunIDRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	stats := model.SessionStats{RunID: "run", StartedAt: time.Unix(0, 0), EndedAt: time.Unix(60, 0)}
	if _, err := st.InsertSession(ctx, stats, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertSession(ctx, stats, []model.TargetStats{{Target: "A"}}); err == nil {
		t.Fatalf("expected duplicate run id error")
	}
	sessions, err := st.ListSessions(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
}
