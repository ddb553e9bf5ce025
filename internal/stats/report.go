package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/reactrain/internal/model"
	"github.com/verte-zerg/reactrain/internal/store"
)

const defaultCurveTargets = 5

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions          []model.SessionAggregate
	WindowSessionIDs  []int64
	TargetAggsAll     []model.TargetAggregate
	TargetAggsWindow  []model.TargetAggregate
	CurveTargets      []string
	TargetsPerSession map[int64]map[string]model.TargetAggregate
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	targetAggsAll, err := st.ListTargetAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	targetAggsWindow, err := st.ListTargetAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	curveTargets := cfg.Targets
	if len(curveTargets) == 0 {
		curveTargets = TopTargetsByFrequency(targetAggsAll, defaultCurveTargets)
	}
	perSession, err := st.ListTargetStatsForSessions(ctx, allIDs, curveTargets)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:          sessions,
		WindowSessionIDs:  windowIDs,
		TargetAggsAll:     targetAggsAll,
		TargetAggsWindow:  targetAggsWindow,
		CurveTargets:      curveTargets,
		TargetsPerSession: perSession,
	}, nil
}

// Render writes the full history report.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Sessions, window, width); err != nil {
		return err
	}
	if err := RenderTargetTable(w, r.TargetAggsWindow); err != nil {
		return err
	}
	return RenderTargetCurves(w, r.Sessions, r.TargetsPerSession, r.CurveTargets, window, width)
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
