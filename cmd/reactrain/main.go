// Package main provides the CLI entrypoint for reactrain.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/reactrain/internal/config"
	"github.com/verte-zerg/reactrain/internal/generator"
	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/keylist"
	"github.com/verte-zerg/reactrain/internal/logging"
	"github.com/verte-zerg/reactrain/internal/model"
	"github.com/verte-zerg/reactrain/internal/stats"
	"github.com/verte-zerg/reactrain/internal/store"
	"github.com/verte-zerg/reactrain/internal/trainer"
	"github.com/verte-zerg/reactrain/internal/tui"
)

const (
	defaultWeakFactor = 2.0
	defaultWeakWindow = 20
	defaultLogLevel   = "info"
)

var (
	trainTargets     string
	trainPreset      string
	trainTargetsFile string
	trainDelayMs     int
	trainGlobal      bool
	trainHistory     bool
	trainDB          string
	trainFocusWeak   bool
	trainWeakFactor  float64
	trainWeakWindow  int
	trainLogFile     string
	trainLogLevel    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reactrain",
		Short:         "Reaction-time trainer for keys and mouse buttons",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTerminalCmd,
	}
	addTrainerFlags(rootCmd)

	rootCmd.AddCommand(newGUICmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newDevicesCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// addTrainerFlags registers the flags shared by the terminal and desktop trainers.
func addTrainerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&trainTargets, "targets", "", "comma-separated keys and mouse buttons (LMB, RMB, MMB)")
	flags.StringVar(&trainPreset, "preset", "", "built-in target preset (see: reactrain presets)")
	flags.StringVar(&trainTargetsFile, "targets-file", "", "file or keylist name with targets")
	flags.IntVar(&trainDelayMs, "delay", int(trainer.DefaultDelay.Milliseconds()), "delay between targets in ms")
	flags.BoolVar(&trainGlobal, "global", false, "read input from /dev/input instead of the window (Linux)")
	flags.BoolVar(&trainHistory, "history", false, "store session summaries")
	flags.StringVar(&trainDB, "db", "", "history database path")
	flags.BoolVar(&trainFocusWeak, "focus-weak", false, "show slow or missed targets more often (needs --history)")
	flags.Float64Var(&trainWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak targets")
	flags.IntVar(&trainWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak targets")
	flags.StringVar(&trainLogFile, "log-file", "", "log file path")
	flags.StringVar(&trainLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
}

// trainerSetup holds everything a frontend needs besides its own timer and window.
type trainerSetup struct {
	log    *zap.Logger
	ctrl   *trainer.Controller
	store  *store.Store
	feed   *input.Feed
	source input.Source
	global bool
}

func (s *trainerSetup) close() {
	if s.ctrl.Running() {
		// Ends the session so the history hook sees it.
		_ = s.ctrl.Toggle()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logErrf("failed to close db: %v\n", err)
		}
	}
	_ = s.log.Sync()
}

func setupTrainer(cmd *cobra.Command, timer trainer.Timer) (*trainerSetup, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "targets", &trainTargets, fileCfg.Trainer.Targets)
	applyStringConfig(cmd, "preset", &trainPreset, fileCfg.Trainer.Preset)
	applyStringConfig(cmd, "targets-file", &trainTargetsFile, fileCfg.Trainer.TargetsFile)
	applyIntConfig(cmd, "delay", &trainDelayMs, fileCfg.Trainer.DelayMs)
	applyBoolConfig(cmd, "global", &trainGlobal, fileCfg.Trainer.GlobalInput)
	applyBoolConfig(cmd, "focus-weak", &trainFocusWeak, fileCfg.Trainer.FocusWeak)
	applyFloatConfig(cmd, "weak-factor", &trainWeakFactor, fileCfg.Trainer.WeakFactor)
	applyBoolConfig(cmd, "history", &trainHistory, fileCfg.History.Enabled)
	applyStringConfig(cmd, "db", &trainDB, fileCfg.History.DB)
	applyStringConfig(cmd, "log-file", &trainLogFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &trainLogLevel, fileCfg.Log.Level)

	targets, err := resolveTargets(trainTargets, trainPreset, trainTargetsFile)
	if err != nil {
		return nil, err
	}
	cfg := model.Config{
		Targets:     targets,
		Delay:       time.Duration(trainDelayMs) * time.Millisecond,
		GlobalInput: trainGlobal,
		History:     trainHistory,
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	logPath := trainLogFile
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	log, err := logging.New(config.ExpandHome(logPath), trainLogLevel)
	if err != nil {
		return nil, err
	}

	setup := &trainerSetup{log: log, global: cfg.GlobalInput}
	opts := []trainer.Option{
		trainer.WithLogger(log),
		trainer.WithDelay(cfg.Delay),
		trainer.WithTargets(cfg.Targets...),
	}

	if cfg.History {
		dbPath := trainDB
		if dbPath == "" {
			dbPath = config.DefaultDBPath()
		}
		st, err := store.Open(config.ExpandHome(dbPath))
		if err != nil {
			_ = log.Sync()
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		setup.store = st
		if trainFocusWeak {
			if picker, ok := weakPicker(st, log); ok {
				opts = append(opts, trainer.WithPicker(picker))
			}
		}
	} else if trainFocusWeak {
		logErrln("--focus-weak needs --history; using the uniform picker")
	}

	setup.ctrl = trainer.New(timer, opts...)
	if setup.store != nil {
		st := setup.store
		setup.ctrl.OnSessionEnd(func(summary model.SessionStats, perTarget []model.TargetStats) {
			if _, err := st.InsertSession(context.Background(), summary, perTarget); err != nil {
				log.Warn("failed to store session", zap.String("run_id", summary.RunID), zap.Error(err))
				return
			}
			log.Info("session stored", zap.String("run_id", summary.RunID), zap.Int("hits", summary.Hits))
		})
	}

	if cfg.GlobalInput {
		evdev, err := input.NewEvdev(log)
		if err != nil {
			setup.close()
			return nil, fmt.Errorf("failed to open global input: %w", err)
		}
		setup.source = evdev
	} else {
		setup.feed = input.NewFeed()
		setup.source = setup.feed
	}

	log.Info("trainer ready",
		zap.Strings("targets", cfg.Targets),
		zap.Duration("delay", cfg.Delay),
		zap.Bool("global", cfg.GlobalInput),
		zap.Bool("history", cfg.History))
	return setup, nil
}

func weakPicker(st *store.Store, log *zap.Logger) (trainer.Picker, bool) {
	aggs, err := st.GetWeakTargets(context.Background(), trainWeakWindow)
	if err != nil {
		logErrf("failed to load weak targets: %v\n", err)
		return nil, false
	}
	scores := stats.WeaknessScores(aggs)
	if len(scores) == 0 {
		logErrln("no history available for weak-target focus yet; using the uniform picker")
		return nil, false
	}
	log.Debug("weak-target focus enabled", zap.Int("scored", len(scores)))
	gen := generator.New()
	factor := trainWeakFactor
	return func(targets []string) (string, bool) {
		return gen.PickWeighted(targets, scores, factor)
	}, true
}

func runTerminalCmd(cmd *cobra.Command, _ []string) error {
	timer := tui.NewTimer()
	setup, err := setupTrainer(cmd, timer)
	if err != nil {
		return err
	}
	defer setup.close()

	m := tui.NewModel(setup.ctrl, timer, tui.Options{
		Feed:   setup.feed,
		Record: setup.source,
		Global: setup.global,
		Log:    setup.log,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	watcher := input.NewWatcher(setup.source, func(ev input.Event) {
		program.Send(tui.InputMsg{Event: ev})
	}, setup.log)
	watcher.Start()
	defer watcher.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolveTargets(list, preset, file string) ([]string, error) {
	var targets []string
	if preset != "" {
		names, err := keylist.Preset(preset)
		if err != nil {
			return nil, err
		}
		targets = append(targets, names...)
	}
	if file != "" {
		path := config.ResolveKeyList(file)
		names, err := keylist.LoadTargets(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load targets from %s: %w", path, err)
		}
		targets = append(targets, names...)
	}
	targets = append(targets, keylist.ParseList(list)...)
	return targets, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Delay < trainer.MinDelay || cfg.Delay > trainer.MaxDelay {
		return fmt.Errorf("--delay must be between %d and %d", trainer.MinDelay.Milliseconds(), trainer.MaxDelay.Milliseconds())
	}
	if trainWeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if trainWeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = strings.TrimSpace(*value)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
