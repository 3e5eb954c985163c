package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// rawTuning is the YAML file shape. All fields are optional pointers so an
// omitted key keeps its built-in default; durations are plain milliseconds
// to keep the file format simple.
type rawTuning struct {
	PollIntervalMs     *int  `yaml:"poll_interval_ms"`
	RectTolerance      *int  `yaml:"rect_tolerance"`
	AcquireTimeoutMs   *int  `yaml:"acquire_timeout_ms"`
	RelaxedTimeoutMs   *int  `yaml:"relaxed_timeout_ms"`
	StableForMs        *int  `yaml:"stable_for_ms"`
	EarlyDetect        *bool `yaml:"early_detect"`
	ChildSamples       *int  `yaml:"child_samples"`
	ChildSampleMs      *int  `yaml:"child_sample_ms"`
	MinCandidateWidth  *int  `yaml:"min_candidate_width"`
	MinCandidateHeight *int  `yaml:"min_candidate_height"`
	RestoreSettleMs    *int  `yaml:"restore_settle_ms"`
	ParkSettleMs       *int  `yaml:"park_settle_ms"`
	DefaultObserveSec  *int  `yaml:"default_observe_sec"`
}

// DefaultPath returns the user config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "launchpin", "config.yaml"), nil
}

// Load reads the user config file, returning built-in defaults when the
// file does not exist.
func Load() (Tuning, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads tuning overrides from an explicit file path and merges
// them over the defaults.
func LoadFromPath(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawTuning
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	t := Default()
	applyRaw(&t, raw)
	if err := validate(t); err != nil {
		return Default(), fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return t, nil
}

func applyRaw(t *Tuning, raw rawTuning) {
	setMs := func(dst *time.Duration, src *int) {
		if src != nil {
			*dst = time.Duration(*src) * time.Millisecond
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setMs(&t.PollInterval, raw.PollIntervalMs)
	setInt(&t.RectTolerance, raw.RectTolerance)
	setMs(&t.AcquireTimeout, raw.AcquireTimeoutMs)
	setMs(&t.RelaxedTimeout, raw.RelaxedTimeoutMs)
	setMs(&t.StableFor, raw.StableForMs)
	if raw.EarlyDetect != nil {
		t.EarlyDetect = *raw.EarlyDetect
	}
	setInt(&t.ChildSamples, raw.ChildSamples)
	setMs(&t.ChildSampleEvery, raw.ChildSampleMs)
	setInt(&t.MinCandidateWidth, raw.MinCandidateWidth)
	setInt(&t.MinCandidateHeight, raw.MinCandidateHeight)
	setMs(&t.RestoreSettle, raw.RestoreSettleMs)
	setMs(&t.ParkSettle, raw.ParkSettleMs)
	if raw.DefaultObserveSec != nil {
		t.DefaultObserve = time.Duration(*raw.DefaultObserveSec) * time.Second
	}
}

func validate(t Tuning) error {
	if t.PollInterval <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive")
	}
	if t.RectTolerance < 0 {
		return fmt.Errorf("rect_tolerance must be non-negative")
	}
	if t.AcquireTimeout <= 0 {
		return fmt.Errorf("acquire_timeout_ms must be positive")
	}
	if t.RelaxedTimeout < 0 {
		return fmt.Errorf("relaxed_timeout_ms must be non-negative")
	}
	if t.StableFor < 0 {
		return fmt.Errorf("stable_for_ms must be non-negative")
	}
	if t.ChildSamples < 0 {
		return fmt.Errorf("child_samples must be non-negative")
	}
	if t.MinCandidateWidth < 0 || t.MinCandidateHeight < 0 {
		return fmt.Errorf("min candidate size must be non-negative")
	}
	if t.DefaultObserve < 0 {
		return fmt.Errorf("default_observe_sec must be non-negative")
	}
	return nil
}
