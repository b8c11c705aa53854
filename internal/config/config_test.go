package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
	if cfg.Debounce() != 3*time.Second || cfg.TweenDuration() != 300*time.Millisecond {
		t.Fatalf("unexpected durations: %v %v", cfg.Debounce(), cfg.TweenDuration())
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
debounce_ms = 250
scroll_speed_scale = 0.5

[tui]
profile = "ascii"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DebounceMS != 250 || cfg.ScrollSpeedScale != 0.5 || cfg.TUI.Profile != "ascii" {
		t.Fatalf("overrides not applied: %#v", cfg)
	}
	if cfg.TweenMS != 300 {
		t.Fatalf("expected tween_ms default to survive, got %d", cfg.TweenMS)
	}
}

func TestLoad_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown key", body: "debounce = 1\n", want: "unknown keys: debounce"},
		{name: "negative", body: "tween_ms = -1\n", want: "tween_ms"},
		{name: "profile", body: "[tui]\nprofile = \"sepia\"\n", want: "tui.profile"},
		{name: "syntax", body: "debounce_ms = \n", want: "parse"},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteDefault_LoadsAsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := Default()
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("default file differs from Default():\nwant %#v\ngot  %#v", want, cfg)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected existing file to be kept")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Fatalf("WriteDefault force: %v", err)
	}
}

func TestPath_Env(t *testing.T) {
	t.Setenv(envPath, "/tmp/x.toml")
	got, err := Path()
	if err != nil || got != "/tmp/x.toml" {
		t.Fatalf("Path() = %q, %v", got, err)
	}
}
