package gui

import (
	"time"

	"fyne.io/fyne/v2"
)

// Timer implements trainer.Timer on top of time.AfterFunc. Firings are marshalled
// onto the fyne main goroutine and dropped when a newer Reset or Stop happened.
type Timer struct {
	gen    uint64
	timer  *time.Timer
	expire func()

	// Overridable in tests.
	afterFunc func(time.Duration, func()) *time.Timer
	do        func(func())
}

// NewTimer returns a disarmed timer.
func NewTimer() *Timer {
	return &Timer{afterFunc: time.AfterFunc, do: fyne.Do}
}

// Reset implements trainer.Timer.
func (t *Timer) Reset(d time.Duration) {
	t.stopPending()
	t.gen++
	gen := t.gen
	t.timer = t.afterFunc(d, func() {
		t.do(func() { t.fire(gen) })
	})
}

// Stop implements trainer.Timer.
func (t *Timer) Stop() {
	t.stopPending()
	t.gen++
}

func (t *Timer) stopPending() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Timer) fire(gen uint64) {
	if gen != t.gen || t.expire == nil {
		return
	}
	t.timer = nil
	t.expire()
}
