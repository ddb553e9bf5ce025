package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	gen uint64
}

// Timer drives trainer.Controller from Bubble Tea ticks. Every arm carries a
// generation and a tick from an older arm is dropped, so a timer replaced by a hit
// can never advance the new target.
type Timer struct {
	gen     uint64
	pending tea.Cmd
}

// NewTimer returns a disarmed timer.
func NewTimer() *Timer {
	return &Timer{}
}

// Reset implements trainer.Timer.
func (t *Timer) Reset(d time.Duration) {
	t.gen++
	gen := t.gen
	t.pending = tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Stop implements trainer.Timer.
func (t *Timer) Stop() {
	t.gen++
	t.pending = nil
}

// take returns the command for the latest arm, if any, and clears it.
func (t *Timer) take() tea.Cmd {
	cmd := t.pending
	t.pending = nil
	return cmd
}

func (t *Timer) current(msg tickMsg) bool {
	return msg.gen == t.gen
}
