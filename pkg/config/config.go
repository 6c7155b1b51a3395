// Package config loads fretwise settings by layering defaults, an optional
// YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fretwise/fretwise/pkg/tab"
)

// Config holds every tunable of the conversion pipeline and the server.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address for serve mode, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Preset names the default tuning used when a request does not pick one.
	Preset string `koanf:"preset"`

	// NumFrets is the playable fret range for custom tunings.
	NumFrets int `koanf:"num_frets"`

	// Tunings adds named open-pitch lists on top of the built-in presets.
	Tunings map[string][]int `koanf:"tunings"`

	// Solver cost weights.
	FretWeight       float64 `koanf:"fret_weight"`
	MovementWeight   float64 `koanf:"movement_weight"`
	StringJumpWeight float64 `koanf:"string_jump_weight"`
	SpanWeight       float64 `koanf:"span_weight"`
	HandSpan         int     `koanf:"hand_span"`

	// Technique annotation thresholds.
	TechniqueMaxGapMS int `koanf:"technique_max_gap_ms"`
	LegatoSpan        int `koanf:"legato_span"`

	// Export settings.
	ASCIIResolution float64 `koanf:"ascii_resolution"` // seconds per tab column
	Tempo           float64 `koanf:"tempo"`            // BPM for MIDI export
}

// New returns the default configuration.
func New() *Config {
	w := tab.DefaultWeights()
	p := tab.DefaultTechniqueParams()
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		Preset:            "guitar",
		NumFrets:          tab.DefaultFrets,
		FretWeight:        w.Fret,
		MovementWeight:    w.Movement,
		StringJumpWeight:  w.StringJump,
		SpanWeight:        w.Span,
		HandSpan:          w.HandSpan,
		TechniqueMaxGapMS: int(p.MaxGap * 1000),
		LegatoSpan:        p.LegatoSpan,
		ASCIIResolution:   0.25,
		Tempo:             120,
	}
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file named by FRETWISE_CONFIG, if set
//  3. FRETWISE_-prefixed environment variables (FRETWISE_ADDR, ...)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("FRETWISE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	envProvider := env.Provider("FRETWISE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FRETWISE_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.NumFrets <= 0 {
		return nil, fmt.Errorf("num_frets must be positive, got %d", cfg.NumFrets)
	}
	return cfg, nil
}

// Weights assembles the solver weights from the configuration.
func (c *Config) Weights() tab.Weights {
	return tab.Weights{
		Fret:       c.FretWeight,
		Movement:   c.MovementWeight,
		StringJump: c.StringJumpWeight,
		Span:       c.SpanWeight,
		HandSpan:   c.HandSpan,
	}
}

// TechniqueParams assembles the annotation thresholds.
func (c *Config) TechniqueParams() tab.TechniqueParams {
	return tab.TechniqueParams{
		MaxGap:     float64(c.TechniqueMaxGapMS) / 1000,
		LegatoSpan: c.LegatoSpan,
	}
}

// Tuning resolves a tuning by name, preferring configured tunings over the
// built-in presets. An empty name falls back to the configured default.
func (c *Config) Tuning(name string) (*tab.Tuning, error) {
	if name == "" {
		name = c.Preset
	}
	if open, ok := c.Tunings[strings.ToLower(name)]; ok {
		return tab.NewTuning(open, c.NumFrets)
	}
	return tab.Preset(name)
}
