// Package store handles SQLite persistence of session history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/reactrain/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			targets TEXT NOT NULL,
			delay_ms INTEGER NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			best_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_target_stats (
			session_id INTEGER NOT NULL,
			target TEXT NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, target)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_target_stats_target ON session_target_stats(target);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its per-target stats.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, targets []model.TargetStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (run_id, started_at, ended_at, targets, delay_ms, hits, misses, latency_sum_ms, latency_count, best_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.RunID,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		strings.Join(stats.Targets, ","),
		stats.DelayMs,
		stats.Hits,
		stats.Misses,
		stats.LatencySumMs,
		stats.LatencyCount,
		stats.BestMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(targets) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_target_stats (session_id, target, hits, misses, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ts := range targets {
			if _, err = stmt.ExecContext(ctx, id, ts.Target, ts.Hits, ts.Misses, ts.LatencySumMs, ts.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakTargets aggregates target stats over the most recent sessions.
func (s *Store) GetWeakTargets(ctx context.Context, window int) ([]model.TargetAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT ts.target, SUM(ts.hits) AS hits, SUM(ts.misses) AS misses,
		SUM(ts.latency_sum_ms) AS latency_sum_ms, SUM(ts.latency_count) AS latency_count
	FROM session_target_stats ts
	JOIN recent_sessions r ON r.id = ts.session_id
	GROUP BY ts.target`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	return scanTargetAggregates(rows)
}

// ListSessions returns session aggregates filtered by history config.
func (s *Store) ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, run_id, ended_at, hits, misses, latency_sum_ms, latency_count, best_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.RunID, &endedAt, &agg.Hits, &agg.Misses, &agg.LatencySumMs, &agg.LatencyCount, &agg.BestMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListTargetAggregatesForSessions aggregates per-target stats across sessions.
func (s *Store) ListTargetAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.TargetAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT target, SUM(hits) AS hits, SUM(misses) AS misses,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM session_target_stats
		WHERE session_id IN (%s)
		GROUP BY target`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	return scanTargetAggregates(rows)
}

// ListTargetStatsForSessions returns per-session stats for selected targets.
func (s *Store) ListTargetStatsForSessions(ctx context.Context, sessionIDs []int64, targets []string) (map[int64]map[string]model.TargetAggregate, error) {
	if len(sessionIDs) == 0 || len(targets) == 0 {
		return map[int64]map[string]model.TargetAggregate{}, nil
	}
	idPlaceholders := make([]string, len(sessionIDs))
	args := make([]any, 0, len(sessionIDs)+len(targets))
	for i, id := range sessionIDs {
		idPlaceholders[i] = "?"
		args = append(args, id)
	}
	targetPlaceholders := make([]string, len(targets))
	for i, target := range targets {
		targetPlaceholders[i] = "?"
		args = append(args, target)
	}

	query := fmt.Sprintf(`SELECT session_id, target, hits, misses, latency_sum_ms, latency_count
		FROM session_target_stats
		WHERE session_id IN (%s) AND target IN (%s)`, strings.Join(idPlaceholders, ","), strings.Join(targetPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[string]model.TargetAggregate{}
	for rows.Next() {
		var sessionID int64
		var agg model.TargetAggregate
		if err := rows.Scan(&sessionID, &agg.Target, &agg.Hits, &agg.Misses, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.TargetAggregate{}
		}
		result[sessionID][agg.Target] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanTargetAggregates(rows *sql.Rows) ([]model.TargetAggregate, error) {
	var result []model.TargetAggregate
	for rows.Next() {
		var agg model.TargetAggregate
		if err := rows.Scan(&agg.Target, &agg.Hits, &agg.Misses, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
