// Package config loads the TOML file holding engine tunables and terminal preferences.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"dragsort/internal/layout"
)

const (
	envPath  = "DRAGSORT_CONFIG"
	fileName = "config.toml"
)

type TUIConfig struct {
	// Profile forces a color profile: auto|ascii|ansi|ansi256|truecolor.
	Profile string `toml:"profile" json:"profile"`
	// Board is opened when the TUI starts without one.
	Board string `toml:"board" json:"board"`
}

type Config struct {
	DebounceMS         int     `toml:"debounce_ms" json:"debounce_ms"`
	DisableDebounce    bool    `toml:"disable_debounce" json:"disable_debounce"`
	DisableAutoUpdate  bool    `toml:"disable_auto_update" json:"disable_auto_update"`
	ScrollSpeedScale   float64 `toml:"scroll_speed_scale" json:"scroll_speed_scale"`
	TweenMS            int     `toml:"tween_ms" json:"tween_ms"`
	LongPressMS        int     `toml:"long_press_ms" json:"long_press_ms"`
	MeasureRetryMS     int     `toml:"measure_retry_ms" json:"measure_retry_ms"`
	MeasureMaxAttempts int     `toml:"measure_max_attempts" json:"measure_max_attempts"`

	TUI TUIConfig `toml:"tui" json:"tui"`
}

func Default() Config {
	return Config{
		DebounceMS:         3000,
		ScrollSpeedScale:   1,
		TweenMS:            300,
		LongPressMS:        500,
		MeasureRetryMS:     200,
		MeasureMaxAttempts: 50,
		TUI:                TUIConfig{Profile: "auto"},
	}
}

// Path is $DRAGSORT_CONFIG, or config.toml in the user config dir.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(envPath)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dragsort", fileName), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.DebounceMS < 0:
		return errors.New("debounce_ms must not be negative")
	case c.ScrollSpeedScale < 0:
		return errors.New("scroll_speed_scale must not be negative")
	case c.TweenMS < 0:
		return errors.New("tween_ms must not be negative")
	case c.LongPressMS < 0:
		return errors.New("long_press_ms must not be negative")
	case c.MeasureRetryMS < 0 || c.MeasureMaxAttempts < 0:
		return errors.New("measure_retry_ms and measure_max_attempts must not be negative")
	}
	switch c.TUI.Profile {
	case "", "auto", "ascii", "ansi", "ansi256", "truecolor":
		return nil
	}
	return fmt.Errorf("tui.profile %q is not one of auto|ascii|ansi|ansi256|truecolor", c.TUI.Profile)
}

func (c Config) Debounce() time.Duration { return ms(c.DebounceMS) }

func (c Config) TweenDuration() time.Duration { return ms(c.TweenMS) }

func (c Config) LongPress() time.Duration { return ms(c.LongPressMS) }

func (c Config) Retry() layout.RetryPolicy {
	return layout.RetryPolicy{Interval: ms(c.MeasureRetryMS), MaxAttempts: c.MeasureMaxAttempts}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

const defaultFile = `# dragsort configuration.

# How long a finished order waits before it is published; a new drag restarts the wait.
debounce_ms = 3000
# Publish every finished drag immediately.
disable_debounce = false
# Never publish; the host reads the order itself.
disable_auto_update = false
# Multiplies the auto-scroll step (one screen per step at 1).
scroll_speed_scale = 1.0
# Length of the reposition animation.
tween_ms = 300
# Hold time before a press turns into a drag.
long_press_ms = 500
# Measurement polling while the terminal has not reported a size yet.
measure_retry_ms = 200
measure_max_attempts = 50

[tui]
# auto|ascii|ansi|ansi256|truecolor
profile = "auto"
# Board opened when none is given.
board = ""
`

// WriteDefault writes the commented default file. An existing file is kept unless force.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultFile), 0o644)
}
