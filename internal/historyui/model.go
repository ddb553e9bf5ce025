// Package historyui provides the Bubble Tea session history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/reactrain/internal/model"
	"github.com/verte-zerg/reactrain/internal/stats"
	"github.com/verte-zerg/reactrain/internal/store"
)

const (
	tabOverview = iota
	tabTargets
	tabCurves
)

const defaultWidth = 80

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Loader builds a report for the given filters.
type Loader func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error)

// StoreLoader returns a Loader reading from st.
func StoreLoader(st *store.Store) Loader {
	return func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
}

// Model implements the Bubble Tea history UI.
type Model struct {
	load Loader
	cfg  model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	targets   table.Model

	width  int
	height int
}

// NewModel constructs a history browser and loads the first report.
func NewModel(load Loader, cfg model.HistoryConfig) *Model {
	m := &Model{
		load:    load,
		cfg:     cfg,
		tabs:    []string{"Overview", "Targets", "Curves"},
		targets: newTargetTable(),
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		}
		if m.activeTab == tabTargets {
			var cmd tea.Cmd
			m.targets, cmd = m.targets.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, _ := m.layoutHeights()
	header := lipgloss.NewStyle().MaxHeight(headerHeight).Render(m.renderHeader())
	body := lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(m.renderBody())
	return strings.Join([]string{header, body, m.renderFooter()}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X")) + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.targets.SetWidth(m.width)
	m.targets.SetHeight(bodyHeight)
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if m.activeTab == tabTargets {
		m.targets.Focus()
	} else {
		m.targets.Blur()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return tabs + "\n" + headerStyle.Render(m.filterSummary())
}

func (m *Model) filterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Settings: since=%s  last=%s  window=%d  sessions=%d",
		since, last, m.cfg.CurveWindow, len(m.report.Sessions))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabTargets {
		if len(m.report.TargetAggsAll) == 0 {
			return "No target stats found."
		}
		return m.targets.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) refreshReport() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.targets.SetRows(targetRows(report.TargetAggsAll))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.viewports[tabCurves].SetContent(renderTargetCurves(m.report, m.cfg.CurveWindow, width))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, report.Sessions, window, width); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summaryCards(report.Sessions, width)+"\n\n"+buf.String(), "\n")
}

func summaryCards(sessions []model.SessionAggregate, width int) string {
	var hits, misses int
	var latSum, latCount int64
	var best int64
	for _, s := range sessions {
		hits += s.Hits
		misses += s.Misses
		latSum += s.LatencySumMs
		latCount += s.LatencyCount
		if s.BestMs > 0 && (best == 0 || s.BestMs < best) {
			best = s.BestMs
		}
	}
	avg, acc, ok := stats.SessionMetrics(hits, misses, latSum, latCount)
	avgText, bestText := "—", "—"
	if ok {
		avgText = fmt.Sprintf("%.0f ms", avg)
	}
	if best > 0 {
		bestText = fmt.Sprintf("%d ms", best)
	}
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(sessions))),
		metricCard("Avg reaction", avgText),
		metricCard("Best reaction", bestText),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", acc*100)),
	}
	if width < defaultWidth {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderTargetCurves(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	if len(report.CurveTargets) == 0 {
		return "No targets to plot."
	}
	var buf bytes.Buffer
	if err := stats.RenderTargetCurves(&buf, report.Sessions, report.TargetsPerSession, report.CurveTargets, window, width); err != nil {
		return fmt.Sprintf("Failed to render target curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func newTargetTable() table.Model {
	t := table.New(table.WithColumns([]table.Column{
		{Title: "Target", Width: 14},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg (ms)", Width: 9},
		{Title: "Hits", Width: 6},
		{Title: "Misses", Width: 7},
	}))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

// targetRows orders targets slowest first; targets without latency go last.
func targetRows(aggs []model.TargetAggregate) []table.Row {
	sorted := append([]model.TargetAggregate(nil), aggs...)
	avgOf := func(a model.TargetAggregate) (float64, bool) {
		avg, _, ok := stats.SessionMetrics(a.Hits, a.Misses, a.LatencySumMs, a.LatencyCount)
		return avg, ok
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, oki := avgOf(sorted[i])
		aj, okj := avgOf(sorted[j])
		if oki != okj {
			return oki
		}
		if ai != aj {
			return ai > aj
		}
		return sorted[i].Target < sorted[j].Target
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		avg, acc, ok := stats.SessionMetrics(agg.Hits, agg.Misses, agg.LatencySumMs, agg.LatencyCount)
		avgText := "—"
		if ok {
			avgText = fmt.Sprintf("%.0f", avg)
		}
		rows = append(rows, table.Row{
			agg.Target,
			fmt.Sprintf("%.1f%%", acc*100),
			avgText,
			strconv.Itoa(agg.Hits),
			strconv.Itoa(agg.Misses),
		})
	}
	return rows
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return n + 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	return n - 5
}
