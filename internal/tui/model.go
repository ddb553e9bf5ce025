// Package tui provides the Bubble Tea reaction trainer interface.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/trainer"
)

const (
	delayStep     = 50 * time.Millisecond
	delayBarWidth = 30
	helpText      = "Supports keyboard and mouse buttons. Settings apply instantly."
)

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	targetStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A"))
	idleTargetStyle   = targetStyle.BorderForeground(lipgloss.Color("#4A4A4A")).Foreground(lipgloss.Color("#6E6E6E"))
	hitStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	missStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statsStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	chipStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Background(lipgloss.Color("#2A2A2A"))
	currentChipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Background(lipgloss.Color("#2A2A2A")).Bold(true)
	selectedChipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A"))
	barFillStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	modalStyle        = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// InputMsg carries a normalized press from the input watcher into the UI loop.
type InputMsg struct {
	Event input.Event
}

// Options configures the terminal frontend.
type Options struct {
	// Feed receives presses read from the terminal. Nil disables publishing.
	Feed *input.Feed
	// Record is listened on by the record dialog. Defaults to Feed.
	Record input.Source
	// Global marks that presses come from a global source, so terminal keys are
	// not published.
	Global bool
	Log    *zap.Logger
}

// Model implements the Bubble Tea trainer UI. All controller access happens on the
// Update goroutine.
type Model struct {
	ctrl   *trainer.Controller
	timer  *Timer
	feed   *input.Feed
	record input.Source
	global bool
	log    *zap.Logger

	keys keyMap
	help help.Model

	width  int
	height int

	selected  int
	flash     string
	flashHit  bool
	dialog    dialog
	recordSeq int
}

// NewModel constructs the trainer TUI. timer must be the Timer that ctrl was built
// with.
func NewModel(ctrl *trainer.Controller, timer *Timer, opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	record := opts.Record
	if record == nil && opts.Feed != nil {
		record = opts.Feed
	}
	h := help.New()
	h.Styles.ShortKey = mutedStyle
	h.Styles.ShortDesc = mutedStyle
	return &Model{
		ctrl:   ctrl,
		timer:  timer,
		feed:   opts.Feed,
		record: record,
		global: opts.Global,
		log:    log.Named("tui"),
		keys:   defaultKeyMap(),
		help:   h,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if !m.timer.current(msg) {
			return m, nil
		}
		m.ctrl.Expire()
		return m, m.timer.take()
	case InputMsg:
		if m.dialog.kind != dialogNone {
			return m, nil
		}
		m.handleInput(msg.Event)
		return m, m.timer.take()
	case recordDoneMsg:
		return m, m.handleRecordDone(msg)
	case recordCloseMsg:
		m.handleRecordClose(msg)
		return m, nil
	case tea.MouseMsg:
		if m.dialog.kind == dialogNone || (m.dialog.kind == dialogRecord && m.dialog.captured == "") {
			m.publishMouse(msg)
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.closeDialog()
			return m, tea.Quit
		}
		if m.dialog.kind != dialogNone {
			return m, m.updateDialog(msg)
		}
		if cmd, ok := m.handleControl(msg); ok {
			return m, cmd
		}
		m.publishKey(msg)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleControl(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if err := m.ctrl.Toggle(); err != nil {
			if errors.Is(err, trainer.ErrNoTargets) {
				m.openNotice("Add at least one key or mouse button first.")
			}
			return nil, true
		}
		m.flash = ""
		return m.timer.take(), true
	case key.Matches(msg, m.keys.Skip):
		m.ctrl.Next()
		return nil, true
	case key.Matches(msg, m.keys.Add):
		return m.openAdd(), true
	case key.Matches(msg, m.keys.Record):
		return m.openRecord(), true
	case key.Matches(msg, m.keys.Remove):
		targets := m.ctrl.Targets()
		if m.selected >= 0 && m.selected < len(targets) {
			m.ctrl.Remove(targets[m.selected])
		}
		m.clampSelection()
		return m.timer.take(), true
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Clear()
		m.selected = 0
		return nil, true
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.ResetStats()
		m.flash = ""
		return nil, true
	case key.Matches(msg, m.keys.Prev):
		m.selected--
		m.clampSelection()
		return nil, true
	case key.Matches(msg, m.keys.Next):
		m.selected++
		m.clampSelection()
		return nil, true
	case key.Matches(msg, m.keys.Slower):
		m.ctrl.SetDelay(m.ctrl.Delay() + delayStep)
		return m.timer.take(), true
	case key.Matches(msg, m.keys.Faster):
		m.ctrl.SetDelay(m.ctrl.Delay() - delayStep)
		return m.timer.take(), true
	case key.Matches(msg, m.keys.Delay):
		return m.openDelay(), true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	}
	return nil, false
}

func (m *Model) clampSelection() {
	n := len(m.ctrl.Targets())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) handleInput(ev input.Event) {
	switch m.ctrl.Input(ev) {
	case trainer.OutcomeHit:
		lat := m.ctrl.Stats().Latencies()
		m.flash = fmt.Sprintf("Hit %.0f ms", lat[len(lat)-1])
		m.flashHit = true
	case trainer.OutcomeMiss:
		m.flash = "Miss: " + ev.Name
		m.flashHit = false
	}
}

func (m *Model) publishKey(msg tea.KeyMsg) {
	if m.global || m.feed == nil {
		return
	}
	if ev, ok := input.FromKeyMsg(msg); ok {
		m.feed.Publish(ev)
	}
}

func (m *Model) publishMouse(msg tea.MouseMsg) {
	if m.global || m.feed == nil {
		return
	}
	if ev, ok := input.FromMouseMsg(msg); ok {
		m.feed.Publish(ev)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.dialog.kind != dialogNone {
		content = m.renderDialog()
	} else {
		content = m.renderMain()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderMain() string {
	current := m.ctrl.Current()
	target := idleTargetStyle.Render("—")
	if current != "" {
		target = targetStyle.Render(current)
	}
	flash := " "
	if m.flash != "" {
		if m.flashHit {
			flash = hitStyle.Render(m.flash)
		} else {
			flash = missStyle.Render(m.flash)
		}
	}
	status := "Stopped"
	if m.ctrl.Running() {
		status = "Running"
	}
	listWidth := m.width - 4
	if m.width == 0 {
		listWidth = 0
	}
	targets := m.ctrl.Targets()
	list := mutedStyle.Render("No keys yet. Press ctrl+a to add or ctrl+r to record.")
	if len(targets) > 0 {
		list = wrapChips(buildChips(targets, m.selected, current), listWidth)
	}
	lines := []string{
		titleStyle.Render("reactrain") + "  " + mutedStyle.Render(status),
		"",
		target,
		flash,
		statsStyle.Render(m.renderStats()),
		m.renderDelay(),
		"",
		list,
		"",
		m.help.View(m.keys),
		mutedStyle.Render(helpText),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderStats() string {
	stats := m.ctrl.Stats()
	avg := "—"
	if v, ok := stats.Average(); ok {
		avg = fmt.Sprintf("%.0f ms", v)
	}
	return fmt.Sprintf("Hits: %d  Misses: %d  Avg reaction: %s", stats.Hits(), stats.Misses(), avg)
}

func (m *Model) renderDelay() string {
	delay := m.ctrl.Delay()
	span := float64(trainer.MaxDelay - trainer.MinDelay)
	filled := int(float64(delay-trainer.MinDelay) / span * delayBarWidth)
	if delay > trainer.MinDelay && filled == 0 {
		filled = 1
	}
	bar := barFillStyle.Render(strings.Repeat("━", filled)) + mutedStyle.Render(strings.Repeat("─", delayBarWidth-filled))
	return fmt.Sprintf("Delay %s %4d ms", bar, delay.Milliseconds())
}

func (m *Model) renderDialog() string {
	lines := []string{m.dialog.message}
	switch m.dialog.kind {
	case dialogAdd, dialogDelay:
		lines = append(lines, "", m.dialog.input.View())
		if m.dialog.err != "" {
			lines = append(lines, errorStyle.Render(m.dialog.err))
		}
		lines = append(lines, "", mutedStyle.Render("enter confirm · esc cancel"))
	case dialogNotice:
		lines = append(lines, "", mutedStyle.Render("enter ok"))
	case dialogRecord:
		if m.dialog.captured != "" {
			lines[0] = hitStyle.Render(m.dialog.message)
		}
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}
