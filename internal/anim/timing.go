package anim

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

//go:embed timing.yaml
var defaultTiming []byte

// Timing holds every delay and duration used by the visual transitions. The
// numbers are configuration; the relative ordering of effects (capture raise
// before the mover settles, promotion swap after the primary transition,
// decoration after settle) is fixed in the translator.
type Timing struct {
	Move       MoveTiming       `yaml:"move"`
	Knight     KnightTiming     `yaml:"knight"`
	Capture    CaptureTiming    `yaml:"capture"`
	Promotion  PromotionTiming  `yaml:"promotion"`
	Decoration DecorationTiming `yaml:"decoration"`
}

type MoveTiming struct {
	DurationMs int `yaml:"duration_ms"`
}

type KnightTiming struct {
	DurationMs int     `yaml:"duration_ms"`
	HopHeight  float64 `yaml:"hop_height"`
}

type CaptureTiming struct {
	LeadDelayMs int `yaml:"lead_delay_ms"`
	RaiseMs     int `yaml:"raise_ms"`
	TravelMs    int `yaml:"travel_ms"`
	LowerMs     int `yaml:"lower_ms"`
}

type PromotionTiming struct {
	PulseMs int `yaml:"pulse_ms"`
}

type DecorationTiming struct {
	SettleDelayMs int `yaml:"settle_delay_ms"`
}

// LoadTiming returns the embedded defaults, then applies the override file
// when path is non-empty.
func LoadTiming(path string) (Timing, error) {
	var t Timing
	if err := yaml.Unmarshal(defaultTiming, &t); err != nil {
		return Timing{}, fmt.Errorf("parse embedded timing: %w", err)
	}
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Timing{}, fmt.Errorf("read timing override: %w", err)
		}
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return Timing{}, fmt.Errorf("parse timing override %s: %w", path, err)
		}
	}
	if err := t.validate(); err != nil {
		return Timing{}, err
	}
	return t, nil
}

func (t Timing) validate() error {
	checks := []struct {
		name string
		ms   int
	}{
		{"move.duration_ms", t.Move.DurationMs},
		{"knight.duration_ms", t.Knight.DurationMs},
		{"capture.raise_ms", t.Capture.RaiseMs},
		{"capture.travel_ms", t.Capture.TravelMs},
		{"capture.lower_ms", t.Capture.LowerMs},
		{"promotion.pulse_ms", t.Promotion.PulseMs},
		{"decoration.settle_delay_ms", t.Decoration.SettleDelayMs},
	}
	for _, c := range checks {
		if c.ms <= 0 {
			return fmt.Errorf("timing %s must be positive, got %d", c.name, c.ms)
		}
	}
	if t.Capture.LeadDelayMs < 0 {
		return fmt.Errorf("timing capture.lead_delay_ms must not be negative, got %d", t.Capture.LeadDelayMs)
	}
	return nil
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (t Timing) MoveDuration() time.Duration       { return ms(t.Move.DurationMs) }
func (t Timing) KnightDuration() time.Duration     { return ms(t.Knight.DurationMs) }
func (t Timing) CaptureLead() time.Duration        { return ms(t.Capture.LeadDelayMs) }
func (t Timing) PromotionPulse() time.Duration     { return ms(t.Promotion.PulseMs) }
func (t Timing) DecorationSettle() time.Duration   { return ms(t.Decoration.SettleDelayMs) }
