package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/trainer"
)

func firstPicker(targets []string) (string, bool) {
	if len(targets) == 0 {
		return "", false
	}
	return targets[0], true
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func newTestModel(targets ...string) (*Model, *testClock, *input.Feed) {
	clock := &testClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	timer := NewTimer()
	ctrl := trainer.New(timer,
		trainer.WithClock(clock.now),
		trainer.WithPicker(rotatePicker()),
		trainer.WithTargets(targets...))
	feed := input.NewFeed()
	return NewModel(ctrl, timer, Options{Feed: feed}), clock, feed
}

func rotatePicker() trainer.Picker {
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

func ctrlKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestToggleArmsTimer(t *testing.T) {
	m, _, _ := newTestModel("A", "B")
	_, cmd := m.Update(ctrlKey(tea.KeyCtrlS))
	if cmd == nil {
		t.Fatalf("expected tick command after start")
	}
	if !m.ctrl.Running() || m.ctrl.Current() != "A" {
		t.Fatalf("expected running with A")
	}
	_, cmd = m.Update(ctrlKey(tea.KeyCtrlS))
	if cmd != nil || m.ctrl.Running() {
		t.Fatalf("expected stop without tick")
	}
}

func TestToggleWithoutTargetsShowsNotice(t *testing.T) {
	m, _, _ := newTestModel()
	m.Update(ctrlKey(tea.KeyCtrlS))
	if m.dialog.kind != dialogNotice {
		t.Fatalf("expected notice dialog")
	}
	if !strings.Contains(m.View(), "Add at least one key") {
		t.Fatalf("expected notice text in view")
	}
	m.Update(ctrlKey(tea.KeyEnter))
	if m.dialog.kind != dialogNone || m.ctrl.Running() {
		t.Fatalf("expected notice closed and state unchanged")
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m, clock, _ := newTestModel("A", "B", "C")
	m.Update(ctrlKey(tea.KeyCtrlS))
	staleGen := m.timer.gen

	clock.t = clock.t.Add(120 * time.Millisecond)
	m.Update(InputMsg{Event: input.Key("a")})
	if m.ctrl.Current() != "B" {
		t.Fatalf("expected B after hit, got %q", m.ctrl.Current())
	}

	m.Update(tickMsg{gen: staleGen})
	if m.ctrl.Current() != "B" {
		t.Fatalf("stale tick advanced target to %q", m.ctrl.Current())
	}

	_, cmd := m.Update(tickMsg{gen: m.timer.gen})
	if m.ctrl.Current() != "C" {
		t.Fatalf("current tick should advance, got %q", m.ctrl.Current())
	}
	if cmd == nil {
		t.Fatalf("expected re-armed tick")
	}
}

func TestTickAfterStopIsDropped(t *testing.T) {
	m, _, _ := newTestModel("A", "B")
	m.Update(ctrlKey(tea.KeyCtrlS))
	gen := m.timer.gen
	m.Update(ctrlKey(tea.KeyCtrlS))
	m.Update(tickMsg{gen: gen})
	if m.ctrl.Current() != "" {
		t.Fatalf("expected no target after stop")
	}
}

func TestInputFlashAndFooter(t *testing.T) {
	m, clock, _ := newTestModel("A", "B")
	m.Update(ctrlKey(tea.KeyCtrlS))
	clock.t = clock.t.Add(300 * time.Millisecond)
	m.Update(InputMsg{Event: input.Key("a")})
	if m.flash != "Hit 300 ms" || !m.flashHit {
		t.Fatalf("unexpected flash %q", m.flash)
	}
	m.Update(InputMsg{Event: input.Key("z")})
	if m.flash != "Miss: Z" || m.flashHit {
		t.Fatalf("unexpected flash %q", m.flash)
	}
	if got := m.renderStats(); got != "Hits: 1  Misses: 1  Avg reaction: 300 ms" {
		t.Fatalf("unexpected stats line %q", got)
	}
	m.Update(ctrlKey(tea.KeyCtrlE))
	if got := m.renderStats(); got != "Hits: 0  Misses: 0  Avg reaction: —" {
		t.Fatalf("unexpected reset stats line %q", got)
	}
}

func TestPlainKeysArePublished(t *testing.T) {
	m, _, feed := newTestModel("A")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan input.Event, 4)
	go func() {
		_ = feed.Stream(ctx, func(ev input.Event) error {
			got <- ev
			return nil
		})
	}()
	deadline := time.Now().Add(2 * time.Second)
	for feed.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber not registered")
		}
		time.Sleep(time.Millisecond)
	}

	m.Update(ctrlKey(tea.KeyCtrlK))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	for _, want := range []string{"Q", input.MouseRight} {
		select {
		case ev := <-got:
			if ev.Name != want {
				t.Fatalf("expected %q, got %+v", want, ev)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("event %q not published", want)
		}
	}
	select {
	case ev := <-got:
		t.Fatalf("control key leaked to trainer: %+v", ev)
	default:
	}
}

func TestGlobalModeDoesNotPublish(t *testing.T) {
	timer := NewTimer()
	ctrl := trainer.New(timer, trainer.WithTargets("A"))
	feed := input.NewFeed()
	m := NewModel(ctrl, timer, Options{Feed: feed, Global: true})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan input.Event, 1)
	go func() {
		_ = feed.Stream(ctx, func(ev input.Event) error {
			got <- ev
			return nil
		})
	}()
	for feed.Subscribers() == 0 {
		time.Sleep(time.Millisecond)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	select {
	case ev := <-got:
		t.Fatalf("unexpected publish in global mode: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAddDialog(t *testing.T) {
	m, _, _ := newTestModel()
	m.Update(ctrlKey(tea.KeyCtrlA))
	if m.dialog.kind != dialogAdd {
		t.Fatalf("expected add dialog")
	}
	m.dialog.input.SetValue("a, lmb, a")
	m.Update(ctrlKey(tea.KeyEnter))
	got := m.ctrl.Targets()
	if len(got) != 2 || got[0] != "A" || got[1] != "MOUSE_LEFT" {
		t.Fatalf("unexpected targets %v", got)
	}
	if m.dialog.kind != dialogNone {
		t.Fatalf("expected dialog closed")
	}
}

func TestInputIgnoredWhileDialogOpen(t *testing.T) {
	m, _, _ := newTestModel("A")
	m.Update(ctrlKey(tea.KeyCtrlS))
	m.Update(ctrlKey(tea.KeyCtrlA))
	m.Update(InputMsg{Event: input.Key("z")})
	if m.ctrl.Stats().Misses() != 0 {
		t.Fatalf("input must be ignored while a dialog is open")
	}
}

func TestDelayControls(t *testing.T) {
	m, _, _ := newTestModel("A")
	m.Update(ctrlKey(tea.KeyCtrlRight))
	if m.ctrl.Delay() != trainer.DefaultDelay+delayStep {
		t.Fatalf("unexpected delay %v", m.ctrl.Delay())
	}
	m.Update(ctrlKey(tea.KeyCtrlT))
	if m.dialog.kind != dialogDelay || m.dialog.input.Value() != "800" {
		t.Fatalf("expected delay dialog prefilled, got %q", m.dialog.input.Value())
	}
	m.dialog.input.SetValue("fast")
	m.Update(ctrlKey(tea.KeyEnter))
	if m.dialog.err == "" {
		t.Fatalf("expected validation error")
	}
	m.dialog.input.SetValue("20")
	m.Update(ctrlKey(tea.KeyEnter))
	if m.ctrl.Delay() != trainer.MinDelay || m.dialog.kind != dialogNone {
		t.Fatalf("expected clamped delay, got %v", m.ctrl.Delay())
	}
	if !strings.Contains(m.renderDelay(), "50 ms") {
		t.Fatalf("unexpected delay line %q", m.renderDelay())
	}
}

func TestRemoveSelected(t *testing.T) {
	m, _, _ := newTestModel("A", "B", "C")
	m.Update(ctrlKey(tea.KeyCtrlS))
	m.Update(ctrlKey(tea.KeyCtrlX))
	got := m.ctrl.Targets()
	if len(got) != 2 || got[0] != "B" {
		t.Fatalf("unexpected targets %v", got)
	}
	if m.ctrl.Current() == "A" || m.ctrl.Current() == "" {
		t.Fatalf("expected a new target after removing current, got %q", m.ctrl.Current())
	}
	m.Update(ctrlKey(tea.KeyCtrlN))
	m.Update(ctrlKey(tea.KeyCtrlN))
	if m.selected != 1 {
		t.Fatalf("expected selection clamped to 1, got %d", m.selected)
	}
	m.Update(ctrlKey(tea.KeyCtrlL))
	if len(m.ctrl.Targets()) != 0 || !m.ctrl.Running() {
		t.Fatalf("expected cleared targets with session still running")
	}
}

func TestRecordDialogCapture(t *testing.T) {
	m, _, feed := newTestModel()
	_, cmd := m.Update(ctrlKey(tea.KeyCtrlR))
	if m.dialog.kind != dialogRecord || cmd == nil {
		t.Fatalf("expected record dialog with listener")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	for feed.Subscribers() == 0 {
		time.Sleep(time.Millisecond)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyF7})

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("record did not finish")
	}
	_, closeCmd := m.Update(msg)
	if closeCmd == nil || !strings.Contains(m.View(), "Captured: F7") {
		t.Fatalf("expected captured feedback")
	}
	m.Update(recordCloseMsg{seq: m.recordSeq})
	if got := m.ctrl.Targets(); len(got) != 1 || got[0] != "F7" {
		t.Fatalf("expected F7 added, got %v", got)
	}
	if feed.Subscribers() != 0 {
		t.Fatalf("record subscription leaked")
	}
}

func TestRecordDialogEscape(t *testing.T) {
	m, _, feed := newTestModel()
	_, cmd := m.Update(ctrlKey(tea.KeyCtrlR))
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	for feed.Subscribers() == 0 {
		time.Sleep(time.Millisecond)
	}
	m.Update(ctrlKey(tea.KeyEsc))
	m.Update(<-done)
	if m.dialog.kind != dialogNone || len(m.ctrl.Targets()) != 0 {
		t.Fatalf("expected canceled recording")
	}
}

func TestRecordDialogClosedExternally(t *testing.T) {
	m, _, feed := newTestModel()
	_, cmd := m.Update(ctrlKey(tea.KeyCtrlR))
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	for feed.Subscribers() == 0 {
		time.Sleep(time.Millisecond)
	}
	_, quit := m.Update(ctrlKey(tea.KeyCtrlC))
	if quit == nil {
		t.Fatalf("expected quit command")
	}
	msg := (<-done).(recordDoneMsg)
	if msg.err == nil {
		t.Fatalf("expected context error after close")
	}
	if feed.Subscribers() != 0 {
		t.Fatalf("record subscription leaked")
	}
}
