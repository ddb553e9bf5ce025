package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2/app"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/reactrain/internal/config"
	"github.com/verte-zerg/reactrain/internal/gui"
	"github.com/verte-zerg/reactrain/internal/historyui"
	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/keylist"
	"github.com/verte-zerg/reactrain/internal/model"
	"github.com/verte-zerg/reactrain/internal/stats"
	"github.com/verte-zerg/reactrain/internal/store"
)

const (
	appID              = "io.github.verte-zerg.reactrain"
	defaultCurveWindow = 20
)

var (
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyTargets     string
	historyDB          string
	historyPlain       bool
)

func newGUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Run the trainer in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUICmd,
	}
	addTrainerFlags(cmd)
	return cmd
}

func runGUICmd(cmd *cobra.Command, _ []string) error {
	timer := gui.NewTimer()
	setup, err := setupTrainer(cmd, timer)
	if err != nil {
		return err
	}
	defer setup.close()

	window := gui.New(app.NewWithID(appID), setup.ctrl, timer, gui.Options{
		Feed:   setup.feed,
		Record: setup.source,
		Global: setup.global,
		Log:    setup.log,
	})
	watcher := input.NewWatcher(setup.source, window.Deliver, setup.log)
	watcher.Start()
	defer watcher.Stop()

	window.ShowAndRun()
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in target presets",
		Args:  cobra.NoArgs,
		RunE:  runPresetsCmd,
	}
}

func runPresetsCmd(cmd *cobra.Command, _ []string) error {
	for _, name := range keylist.PresetNames() {
		targets, err := keylist.Preset(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, strings.Join(targets, ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List keyboards and mice usable with --global",
		Args:  cobra.NoArgs,
		RunE:  runDevicesCmd,
	}
}

func runDevicesCmd(cmd *cobra.Command, _ []string) error {
	devices, err := input.ListDevices()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	if len(devices) == 0 {
		logErrln("No keyboard or mouse event devices found.")
		return nil
	}
	for _, dev := range devices {
		var kinds []string
		if dev.Keyboard {
			kinds = append(kinds, "keyboard")
		}
		if dev.Mouse {
			kinds = append(kinds, "mouse")
		}
		access := "readable"
		if f, err := os.Open(dev.Path); err != nil {
			access = "no access"
		} else {
			_ = f.Close()
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-16s %-10s %s\n",
			dev.Path, strings.Join(kinds, ","), access, dev.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored session history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyCurveWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&historyTargets, "targets", "", "targets for per-target curves")
	cmd.Flags().StringVar(&historyDB, "db", "", "history database path")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	dbPath := historyDB
	if dbPath == "" {
		fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if fileCfg.History.DB != nil {
			dbPath = *fileCfg.History.DB
		}
	}
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	st, err := store.Open(config.ExpandHome(dbPath))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cfg := model.HistoryConfig{
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
		Targets:     keylist.ParseList(historyTargets),
	}
	if !historyPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		program := tea.NewProgram(historyui.NewModel(historyui.StoreLoader(st), cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := report.Render(cmd.OutOrStdout(), cfg.CurveWindow, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
