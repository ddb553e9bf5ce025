package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/keylist"
	"github.com/verte-zerg/reactrain/internal/trainer"
)

// captureDelay keeps the captured name on screen before the record dialog closes.
const captureDelay = 200 * time.Millisecond

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogNotice
	dialogAdd
	dialogDelay
	dialogRecord
)

type dialog struct {
	kind     dialogKind
	message  string
	err      string
	input    textinput.Model
	captured string
	cancel   context.CancelFunc
}

type recordDoneMsg struct {
	seq   int
	event input.Event
	err   error
}

type recordCloseMsg struct {
	seq int
}

func newTextInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 40
	ti.SetValue(value)
	ti.Focus()
	return ti
}

func (m *Model) openNotice(message string) {
	m.closeDialog()
	m.dialog = dialog{kind: dialogNotice, message: message}
}

func (m *Model) openAdd() tea.Cmd {
	m.closeDialog()
	m.dialog = dialog{
		kind:    dialogAdd,
		message: "Add keys or mouse buttons (comma-separated, e.g. A, S, LMB)",
		input:   newTextInput("A, S, D, F", ""),
	}
	return textinput.Blink
}

func (m *Model) openDelay() tea.Cmd {
	m.closeDialog()
	ms := strconv.FormatInt(m.ctrl.Delay().Milliseconds(), 10)
	m.dialog = dialog{
		kind: dialogDelay,
		message: fmt.Sprintf("Delay in milliseconds (%d-%d)",
			trainer.MinDelay.Milliseconds(), trainer.MaxDelay.Milliseconds()),
		input: newTextInput("750", ms),
	}
	return textinput.Blink
}

// openRecord starts a single-event subscription on the record source. The
// subscription ends when the dialog closes on any path.
func (m *Model) openRecord() tea.Cmd {
	m.closeDialog()
	m.recordSeq++
	seq := m.recordSeq
	ctx, cancel := context.WithCancel(context.Background())
	m.dialog = dialog{
		kind:    dialogRecord,
		message: "Press a key or mouse button… (Esc to cancel)",
		cancel:  cancel,
	}
	src := m.record
	return func() tea.Msg {
		ev, err := input.Record(ctx, src)
		return recordDoneMsg{seq: seq, event: ev, err: err}
	}
}

func (m *Model) closeDialog() {
	if m.dialog.cancel != nil {
		m.dialog.cancel()
	}
	m.dialog = dialog{}
}

func (m *Model) handleRecordDone(msg recordDoneMsg) tea.Cmd {
	if msg.seq != m.recordSeq || m.dialog.kind != dialogRecord {
		return nil
	}
	switch {
	case msg.err == nil:
		m.dialog.captured = msg.event.Name
		m.dialog.message = "Captured: " + msg.event.Name
		seq := msg.seq
		return tea.Tick(captureDelay, func(time.Time) tea.Msg {
			return recordCloseMsg{seq: seq}
		})
	case errors.Is(msg.err, input.ErrCanceled), errors.Is(msg.err, context.Canceled):
		m.closeDialog()
	default:
		m.log.Warn("recording failed", zap.Error(msg.err))
		m.openNotice(fmt.Sprintf("Recording failed: %v", msg.err))
	}
	return nil
}

func (m *Model) handleRecordClose(msg recordCloseMsg) {
	if msg.seq != m.recordSeq || m.dialog.kind != dialogRecord || m.dialog.captured == "" {
		return
	}
	m.ctrl.Add(m.dialog.captured)
	m.closeDialog()
}

func (m *Model) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch m.dialog.kind {
	case dialogNotice:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
			m.closeDialog()
		}
		return nil
	case dialogRecord:
		if m.dialog.captured != "" {
			return nil
		}
		if m.global {
			if msg.Type == tea.KeyEsc {
				m.closeDialog()
			}
			return nil
		}
		m.publishKey(msg)
		return nil
	case dialogAdd, dialogDelay:
		switch msg.Type {
		case tea.KeyEsc:
			m.closeDialog()
			return nil
		case tea.KeyEnter:
			return m.submitDialog()
		}
		var cmd tea.Cmd
		m.dialog.input, cmd = m.dialog.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) submitDialog() tea.Cmd {
	value := strings.TrimSpace(m.dialog.input.Value())
	switch m.dialog.kind {
	case dialogAdd:
		names := keylist.ParseList(value)
		if len(names) > 0 {
			m.ctrl.Add(names...)
		}
		m.closeDialog()
		return nil
	case dialogDelay:
		ms, err := strconv.Atoi(value)
		if err != nil {
			m.dialog.err = "Enter a whole number of milliseconds."
			return nil
		}
		m.ctrl.SetDelay(time.Duration(ms) * time.Millisecond)
		m.closeDialog()
		return m.timer.take()
	}
	return nil
}
