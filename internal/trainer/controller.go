// Package trainer holds the reaction trainer state machine shared by every frontend.
// A Controller is not safe for concurrent use; frontends call it from their UI
// goroutine only.
package trainer

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/reactrain/internal/generator"
	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/model"
)

// Delay bounds.
const (
	MinDelay     = 50 * time.Millisecond
	MaxDelay     = 5000 * time.Millisecond
	DefaultDelay = 750 * time.Millisecond
)

// ErrNoTargets is returned when starting with an empty target set.
var ErrNoTargets = errors.New("add at least one key or mouse button first")

// Timer is a one-shot timer owned by the frontend. Reset re-arms it and drops any
// pending firing; Stop disarms it. A firing calls Controller.Expire.
type Timer interface {
	Reset(d time.Duration)
	Stop()
}

// Picker chooses the next target from a non-empty list.
type Picker func(targets []string) (string, bool)

// Outcome describes how an input was evaluated.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeHit
	OutcomeMiss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	default:
		return "ignored"
	}
}

// SessionEndFunc receives the summary of a finished Running period.
type SessionEndFunc func(model.SessionStats, []model.TargetStats)

// Controller owns the target set, the current target and the stats tracker.
type Controller struct {
	targets *TargetSet
	stats   *Stats
	timer   Timer
	now     func() time.Time
	pick    Picker
	log     *zap.Logger

	running bool
	current string
	shownAt time.Time
	delay   time.Duration

	runID     string
	startedAt time.Time
	session   *Stats
	onEnd     SessionEndFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithPicker overrides uniform target selection.
func WithPicker(p Picker) Option {
	return func(c *Controller) { c.pick = p }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithDelay sets the initial delay, clamped to the allowed range.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = ClampDelay(d) }
}

// WithTargets seeds the target set.
func WithTargets(names ...string) Option {
	return func(c *Controller) { c.targets.Add(names...) }
}

// New returns an idle controller driving timer.
func New(timer Timer, opts ...Option) *Controller {
	c := &Controller{
		targets: NewTargetSet(),
		stats:   NewStats(),
		session: NewStats(),
		timer:   timer,
		now:     time.Now,
		pick:    generator.New().Pick,
		log:     zap.NewNop(),
		delay:   DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("trainer")
	return c
}

// ClampDelay limits d to MinDelay..MaxDelay.
func ClampDelay(d time.Duration) time.Duration {
	if d < MinDelay {
		return MinDelay
	}
	if d > MaxDelay {
		return MaxDelay
	}
	return d
}

// OnSessionEnd registers fn to run when a session with recorded input stops.
func (c *Controller) OnSessionEnd(fn SessionEndFunc) {
	c.onEnd = fn
}

// Toggle starts an idle session or stops a running one. Starting with no targets
// returns ErrNoTargets and leaves the state untouched.
func (c *Controller) Toggle() error {
	if c.running {
		c.stop()
		return nil
	}
	if c.targets.Len() == 0 {
		return ErrNoTargets
	}
	c.running = true
	c.runID = uuid.NewString()
	c.startedAt = c.now()
	c.session.Reset()
	c.timer.Reset(c.delay)
	c.Next()
	c.log.Debug("session started",
		zap.String("run_id", c.runID),
		zap.Duration("delay", c.delay),
		zap.Int("targets", c.targets.Len()))
	return nil
}

func (c *Controller) stop() {
	c.running = false
	c.timer.Stop()
	c.current = ""
	c.log.Debug("session stopped",
		zap.String("run_id", c.runID),
		zap.Int("hits", c.session.Hits()),
		zap.Int("misses", c.session.Misses()))
	if c.onEnd != nil && !c.session.Empty() {
		session, targets := c.summary()
		c.onEnd(session, targets)
	}
}

// Next selects a new current target, or clears it when the set is empty.
func (c *Controller) Next() {
	name, ok := c.pick(c.targets.Names())
	if !ok {
		c.current = ""
		return
	}
	c.current = name
	c.shownAt = c.now()
}

// Expire handles a timer firing. It is ignored while idle.
func (c *Controller) Expire() {
	if !c.running {
		return
	}
	c.Next()
	c.timer.Reset(c.delay)
}

// Input evaluates a press against the current target.
func (c *Controller) Input(ev input.Event) Outcome {
	if c.current == "" {
		return OutcomeIgnored
	}
	if !strings.EqualFold(ev.Name, c.current) {
		c.stats.RecordMiss(c.current)
		c.session.RecordMiss(c.current)
		return OutcomeMiss
	}
	latency := float64(c.now().Sub(c.shownAt)) / float64(time.Millisecond)
	c.stats.RecordHit(c.current, latency)
	c.session.RecordHit(c.current, latency)
	if c.running {
		c.timer.Reset(c.delay)
		c.Next()
	}
	return OutcomeHit
}

// SetDelay updates the interval and returns the clamped value. A running timer is
// re-armed with the new interval at once.
func (c *Controller) SetDelay(d time.Duration) time.Duration {
	c.delay = ClampDelay(d)
	if c.running {
		c.timer.Reset(c.delay)
	}
	return c.delay
}

// Add inserts targets and returns how many were new.
func (c *Controller) Add(names ...string) int {
	return c.targets.Add(names...)
}

// Remove deletes targets. Removing the displayed target selects a new one.
func (c *Controller) Remove(names ...string) int {
	removedCurrent := false
	for _, name := range names {
		if c.current != "" && strings.EqualFold(canonical(name), c.current) {
			removedCurrent = true
		}
	}
	n := c.targets.Remove(names...)
	if removedCurrent {
		c.Next()
	}
	return n
}

// Clear removes every target and clears the display. A running session keeps
// running with nothing to show.
func (c *Controller) Clear() {
	c.targets.Clear()
	c.Next()
}

// ResetStats zeroes the counters.
func (c *Controller) ResetStats() {
	c.stats.Reset()
	c.session.Reset()
}

// Stats returns the tracker. Callers must not mutate it.
func (c *Controller) Stats() *Stats { return c.stats }

// Current returns the displayed target, or "" when none.
func (c *Controller) Current() string { return c.current }

// Running reports whether a session is active.
func (c *Controller) Running() bool { return c.running }

// Delay returns the configured interval.
func (c *Controller) Delay() time.Duration { return c.delay }

// Targets returns the target names in order.
func (c *Controller) Targets() []string { return c.targets.Names() }

// RunID identifies the current or last session.
func (c *Controller) RunID() string { return c.runID }

func (c *Controller) summary() (model.SessionStats, []model.TargetStats) {
	session := model.SessionStats{
		RunID:     c.runID,
		StartedAt: c.startedAt,
		EndedAt:   c.now(),
		Targets:   c.targets.Names(),
		DelayMs:   c.delay.Milliseconds(),
		Hits:      c.session.Hits(),
		Misses:    c.session.Misses(),
	}
	for _, v := range c.session.latencies {
		session.LatencySumMs += int64(math.Round(v))
	}
	session.LatencyCount = int64(len(c.session.latencies))
	if best, ok := c.session.Best(); ok {
		session.BestMs = int64(math.Round(best))
	}
	tallies := c.session.Targets()
	targets := make([]model.TargetStats, 0, len(tallies))
	for _, tally := range tallies {
		targets = append(targets, model.TargetStats{
			Target:       tally.Target,
			Hits:         tally.Hits,
			Misses:       tally.Misses,
			LatencySumMs: int64(math.Round(tally.LatencySumMs)),
			LatencyCount: int64(tally.Hits),
		})
	}
	return session, targets
}
