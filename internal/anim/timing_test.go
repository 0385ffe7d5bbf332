package anim

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTimingDefaults(t *testing.T) {
	timing, err := LoadTiming("")
	if err != nil {
		t.Fatalf("LoadTiming: %v", err)
	}
	if timing.MoveDuration() <= 0 {
		t.Fatalf("move duration = %v, want positive", timing.MoveDuration())
	}
	if timing.KnightDuration() <= 0 {
		t.Fatalf("knight duration = %v, want positive", timing.KnightDuration())
	}
	if timing.Knight.HopHeight <= 0 {
		t.Fatalf("hop height = %v, want positive", timing.Knight.HopHeight)
	}
	if timing.DecorationSettle() <= 0 {
		t.Fatalf("decoration settle = %v, want positive", timing.DecorationSettle())
	}
}

func TestLoadTimingOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timing.yaml")
	override := "move:\n  duration_ms: 900\n"
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	timing, err := LoadTiming(path)
	if err != nil {
		t.Fatalf("LoadTiming: %v", err)
	}
	if timing.MoveDuration() != 900*time.Millisecond {
		t.Fatalf("move duration = %v, want 900ms", timing.MoveDuration())
	}
	// Sections absent from the override keep the embedded defaults.
	if timing.KnightDuration() <= 0 {
		t.Fatalf("knight duration lost: %v", timing.KnightDuration())
	}
}

func TestLoadTimingRejectsNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timing.yaml")
	if err := os.WriteFile(path, []byte("move:\n  duration_ms: 0\n"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	if _, err := LoadTiming(path); err == nil {
		t.Fatalf("expected validation error for zero duration")
	}
}

func TestLoadTimingMissingOverrideFile(t *testing.T) {
	if _, err := LoadTiming(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing override file")
	}
}
