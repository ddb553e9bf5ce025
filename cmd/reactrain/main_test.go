package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/reactrain/internal/model"
)

func TestResolveTargetsMergesSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.txt")
	if err := os.WriteFile(path, []byte("# extra\nQ, E\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := resolveTargets("lmb, z", "arrows", path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{"UP", "DOWN", "LEFT", "RIGHT", "Q", "E", "MOUSE_LEFT", "Z"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestResolveTargetsUnknownPreset(t *testing.T) {
	if _, err := resolveTargets("", "nope", ""); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestValidateConfigDelay(t *testing.T) {
	if err := validateConfig(model.Config{Delay: 10 * time.Millisecond}); err == nil {
		t.Fatalf("expected error for short delay")
	}
	if err := validateConfig(model.Config{Delay: 6 * time.Second}); err == nil {
		t.Fatalf("expected error for long delay")
	}
	if err := validateConfig(model.Config{Delay: 750 * time.Millisecond}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var delay int
	var preset string
	cmd.Flags().IntVar(&delay, "delay", 750, "")
	cmd.Flags().StringVar(&preset, "preset", "", "")
	if err := cmd.Flags().Parse([]string{"--delay", "300"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	fromFile := 900
	filePreset := "wasd"
	applyIntConfig(cmd, "delay", &delay, &fromFile)
	applyStringConfig(cmd, "preset", &preset, &filePreset)
	if delay != 300 {
		t.Fatalf("expected flag value to win, got %d", delay)
	}
	if preset != "wasd" {
		t.Fatalf("expected config preset, got %q", preset)
	}
}
