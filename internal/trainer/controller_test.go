package trainer

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/model"
)

type fakeTimer struct {
	armed  bool
	period time.Duration
	resets []time.Duration
	stops  int
}

func (f *fakeTimer) Reset(d time.Duration) {
	f.armed = true
	f.period = d
	f.resets = append(f.resets, d)
}

func (f *fakeTimer) Stop() {
	f.armed = false
	f.stops++
}

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

// cyclePicker returns targets in order so tests can predict the next target.
func cyclePicker() Picker {
	i := 0
	return func(targets []string) (string, bool) {
		if len(targets) == 0 {
			return "", false
		}
		name := targets[i%len(targets)]
		i++
		return name, true
	}
}

func newTestController(targets ...string) (*Controller, *fakeTimer, *fakeClock) {
	timer := &fakeTimer{}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(timer, WithClock(clock.now), WithPicker(cyclePicker()), WithTargets(targets...))
	return c, timer, clock
}

func TestToggleWithoutTargets(t *testing.T) {
	c, timer, _ := newTestController()
	if err := c.Toggle(); !errors.Is(err, ErrNoTargets) {
		t.Fatalf("expected ErrNoTargets, got %v", err)
	}
	if c.Running() || c.Current() != "" {
		t.Fatalf("expected idle with no target")
	}
	if timer.armed || len(timer.resets) != 0 {
		t.Fatalf("expected timer untouched")
	}
}

func TestToggleStartStop(t *testing.T) {
	c, timer, _ := newTestController("A", "B")
	if err := c.Toggle(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !c.Running() || c.Current() != "A" {
		t.Fatalf("expected running with A, got %v %q", c.Running(), c.Current())
	}
	if !timer.armed || timer.period != DefaultDelay {
		t.Fatalf("expected timer armed at default delay, got %+v", timer)
	}
	if err := c.Toggle(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if c.Running() || c.Current() != "" || timer.armed {
		t.Fatalf("expected idle with timer stopped")
	}
	if c.Input(input.Key("a")) != OutcomeIgnored {
		t.Fatalf("late input after stop must be ignored")
	}
	if c.Stats().Hits() != 0 || c.Stats().Misses() != 0 {
		t.Fatalf("late input changed stats")
	}
}

func TestHitScenario(t *testing.T) {
	c, timer, clock := newTestController("A", "B")
	c.SetDelay(750 * time.Millisecond)
	if err := c.Toggle(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	resetsBefore := len(timer.resets)
	clock.advance(300 * time.Millisecond)

	if got := c.Input(input.Key("a")); got != OutcomeHit {
		t.Fatalf("expected hit, got %v", got)
	}
	if c.Stats().Hits() != 1 {
		t.Fatalf("expected 1 hit, got %d", c.Stats().Hits())
	}
	lat := c.Stats().Latencies()
	if len(lat) != 1 || lat[0] != 300 {
		t.Fatalf("expected latency 300, got %v", lat)
	}
	if c.Current() != "B" {
		t.Fatalf("expected next target B, got %q", c.Current())
	}
	if len(timer.resets) != resetsBefore+1 || timer.period != 750*time.Millisecond {
		t.Fatalf("expected timer restarted at 750ms, got %v", timer.resets)
	}
}

func TestMissKeepsTarget(t *testing.T) {
	c, _, _ := newTestController("A", "B")
	_ = c.Toggle()
	if got := c.Input(input.Key("z")); got != OutcomeMiss {
		t.Fatalf("expected miss, got %v", got)
	}
	if c.Stats().Misses() != 1 || c.Stats().Hits() != 0 {
		t.Fatalf("unexpected counters")
	}
	if len(c.Stats().Latencies()) != 0 {
		t.Fatalf("miss must not record latency")
	}
	if c.Current() != "A" {
		t.Fatalf("miss changed target to %q", c.Current())
	}
}

func TestMatchIsExactIgnoringCase(t *testing.T) {
	c, _, _ := newTestController("MOUSE_LEFT")
	_ = c.Toggle()
	if got := c.Input(input.Event{Kind: input.KindMouse, Name: "mouse_left"}); got != OutcomeHit {
		t.Fatalf("expected case-insensitive hit, got %v", got)
	}
	c2, _, _ := newTestController("A")
	_ = c2.Toggle()
	if got := c2.Input(input.Event{Kind: input.KindKey, Name: "A "}); got != OutcomeMiss {
		t.Fatalf("expected near-miss to be a miss, got %v", got)
	}
}

func TestStaleTickAfterHitDoesNotDoubleAdvance(t *testing.T) {
	c, timer, clock := newTestController("A", "B", "C")
	_ = c.Toggle()
	clock.advance(100 * time.Millisecond)
	c.Input(input.Key("a"))
	if c.Current() != "B" {
		t.Fatalf("expected B after hit, got %q", c.Current())
	}
	// The frontend drops firings armed before the last Reset; only a firing of the
	// current arm reaches Expire.
	armsAfterHit := len(timer.resets)
	clock.advance(10 * time.Millisecond)
	c.Input(input.Key("b"))
	if c.Current() != "C" {
		t.Fatalf("expected C after second hit, got %q", c.Current())
	}
	if len(timer.resets) != armsAfterHit+1 {
		t.Fatalf("expected one re-arm per hit")
	}
	lat := c.Stats().Latencies()
	if len(lat) != 2 || lat[1] != 10 {
		t.Fatalf("expected second latency measured from B display, got %v", lat)
	}
}

func TestExpireAdvancesAndRearms(t *testing.T) {
	c, timer, _ := newTestController("A", "B")
	c.Expire()
	if c.Current() != "" || len(timer.resets) != 0 {
		t.Fatalf("expire while idle must be ignored")
	}
	_ = c.Toggle()
	c.Expire()
	if c.Current() != "B" {
		t.Fatalf("expected B after expiry, got %q", c.Current())
	}
	if !timer.armed || len(timer.resets) != 2 {
		t.Fatalf("expected timer re-armed, got %v", timer.resets)
	}
}

func TestSetDelayClampsAndRearms(t *testing.T) {
	c, timer, _ := newTestController("A")
	if got := c.SetDelay(10 * time.Millisecond); got != MinDelay {
		t.Fatalf("expected clamp to min, got %v", got)
	}
	if got := c.SetDelay(time.Minute); got != MaxDelay {
		t.Fatalf("expected clamp to max, got %v", got)
	}
	if len(timer.resets) != 0 {
		t.Fatalf("idle delay change must not arm timer")
	}
	_ = c.Toggle()
	c.SetDelay(1200 * time.Millisecond)
	if timer.period != 1200*time.Millisecond {
		t.Fatalf("expected live period change, got %v", timer.period)
	}
	if c.Delay() != 1200*time.Millisecond {
		t.Fatalf("unexpected delay %v", c.Delay())
	}
}

func TestRemoveCurrentSelectsNext(t *testing.T) {
	c, _, clock := newTestController("A", "B")
	_ = c.Toggle()
	if c.Current() != "A" {
		t.Fatalf("expected A, got %q", c.Current())
	}
	clock.advance(50 * time.Millisecond)
	c.Remove("a")
	if c.Current() != "B" {
		t.Fatalf("expected B after removing current, got %q", c.Current())
	}
	c.Remove("B")
	if c.Current() != "" {
		t.Fatalf("expected empty display, got %q", c.Current())
	}
	if !c.Running() {
		t.Fatalf("removing targets must not stop the session")
	}
}

func TestRemoveOtherKeepsCurrent(t *testing.T) {
	c, _, _ := newTestController("A", "B", "C")
	_ = c.Toggle()
	c.Remove("C")
	if c.Current() != "A" {
		t.Fatalf("expected current unchanged, got %q", c.Current())
	}
}

func TestClearWhileRunning(t *testing.T) {
	c, _, _ := newTestController("A", "B")
	_ = c.Toggle()
	c.Clear()
	if !c.Running() || c.Current() != "" || len(c.Targets()) != 0 {
		t.Fatalf("expected running with empty display")
	}
	c.Expire()
	if c.Current() != "" {
		t.Fatalf("expected display to stay empty")
	}
}

func TestSkipWhileIdle(t *testing.T) {
	c, timer, _ := newTestController("A", "B")
	c.Next()
	if c.Current() != "A" || c.Running() {
		t.Fatalf("expected idle with A shown")
	}
	if c.Input(input.Key("a")) != OutcomeHit {
		t.Fatalf("expected hit on idle target")
	}
	if c.Current() != "A" || len(timer.resets) != 0 {
		t.Fatalf("idle hit must not advance or arm the timer")
	}
}

func TestAddIgnoresDuplicates(t *testing.T) {
	c, _, _ := newTestController()
	if n := c.Add("a", "A", " b ", ""); n != 2 {
		t.Fatalf("expected 2 added, got %d", n)
	}
	got := c.Targets()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("unexpected targets %v", got)
	}
}

func TestResetStats(t *testing.T) {
	c, _, _ := newTestController("A")
	_ = c.Toggle()
	c.Input(input.Key("a"))
	c.Input(input.Key("x"))
	c.ResetStats()
	if c.Stats().Hits() != 0 || c.Stats().Misses() != 0 {
		t.Fatalf("expected zeroed counters")
	}
	if _, ok := c.Stats().Average(); ok {
		t.Fatalf("expected no-data average")
	}
}

func TestSessionEndHook(t *testing.T) {
	c, _, clock := newTestController("A", "B")
	var got model.SessionStats
	var targets []model.TargetStats
	calls := 0
	c.OnSessionEnd(func(s model.SessionStats, ts []model.TargetStats) {
		calls++
		got = s
		targets = ts
	})

	_ = c.Toggle()
	_ = c.Toggle()
	if calls != 0 {
		t.Fatalf("empty session must not be reported")
	}

	_ = c.Toggle()
	clock.advance(200 * time.Millisecond)
	c.Input(input.Key(c.Current()))
	c.Input(input.Key("z"))
	clock.advance(time.Second)
	_ = c.Toggle()
	if calls != 1 {
		t.Fatalf("expected one session report, got %d", calls)
	}
	if got.RunID == "" || got.Hits != 1 || got.Misses != 1 || got.LatencySumMs != 200 || got.BestMs != 200 {
		t.Fatalf("unexpected session summary: %+v", got)
	}
	if got.EndedAt.Sub(got.StartedAt) != 1200*time.Millisecond {
		t.Fatalf("unexpected session span: %v", got.EndedAt.Sub(got.StartedAt))
	}
	if len(targets) != 2 {
		t.Fatalf("expected two target rows, got %+v", targets)
	}
}
