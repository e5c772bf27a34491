package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/webdesk/internal/geom"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.DefaultPosition != (geom.Point{X: 50, Y: 50}) {
		t.Errorf("default position = %v, want {50 50}", cfg.DefaultPosition)
	}
	if cfg.DefaultSize != (geom.Size{Width: 800, Height: 600}) {
		t.Errorf("default size = %v, want {800 600}", cfg.DefaultSize)
	}
	if cfg.Stagger != 20 || cfg.TaskbarHeight != 60 {
		t.Errorf("stagger/taskbar = %d/%d, want 20/60", cfg.Stagger, cfg.TaskbarHeight)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Exists {
		t.Errorf("Exists = true for missing file")
	}
	if res.Config.Viewport.Width != DefaultViewportWidth {
		t.Errorf("viewport width = %d, want %d", res.Config.Viewport.Width, DefaultViewportWidth)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DefaultDesktop != "desktop-1" {
		t.Errorf("default_desktop = %q, want desktop-1", res.Config.DefaultDesktop)
	}
}

func TestLoadFromPath_OverridesOnlySetFields(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"viewport:",
		"  width: 1920",
		"  height: 1080",
		"stagger: 30",
		"logging:",
		"  level: debug",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Viewport != (geom.Size{Width: 1920, Height: 1080}) {
		t.Errorf("viewport = %v", cfg.Viewport)
	}
	if cfg.Stagger != 30 {
		t.Errorf("stagger = %d, want 30", cfg.Stagger)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v, want debug/text", cfg.Logging)
	}
	if cfg.TaskbarHeight != DefaultTaskbarHeight {
		t.Errorf("taskbar_height = %d, want default", cfg.TaskbarHeight)
	}
	if _, ok := res.Sources["viewport.width"]; !ok {
		t.Errorf("expected source for viewport.width, got %v", res.Sources)
	}
}

func TestLoadFromPath_CustomDesktopsDefaultToFirst(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"desktops:",
		"  - id: home",
		"    name: Home",
		"  - id: lab",
		"    name: Lab",
		"",
	}, "\n"))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DefaultDesktop != "home" {
		t.Errorf("default_desktop = %q, want home", res.Config.DefaultDesktop)
	}
	if len(res.Config.Desktops) != 2 {
		t.Errorf("desktops = %v", res.Config.Desktops)
	}
}

func TestLoadFromPath_ValidationErrorHasPosition(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"stagger: 5",
		"desktops:",
		"  - id: a",
		"  - id: a",
		"",
	}, "\n"))
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "desktops[1].id" {
		t.Errorf("path = %q, want desktops[1].id", verr.Path)
	}
	if verr.Source.Line != 4 {
		t.Errorf("line = %d, want 4", verr.Source.Line)
	}
	if !strings.Contains(err.Error(), path+":4:") {
		t.Errorf("error %q does not carry file position", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero viewport", func(c *Config) { c.Viewport.Width = 0 }, "viewport"},
		{"taskbar too tall", func(c *Config) { c.TaskbarHeight = c.Viewport.Height }, "taskbar_height"},
		{"negative stagger", func(c *Config) { c.Stagger = -1 }, "stagger"},
		{"default below min", func(c *Config) { c.DefaultSize.Width = 10 }, "default_size"},
		{"no desktops", func(c *Config) { c.Desktops = nil }, "desktops"},
		{"unknown default desktop", func(c *Config) { c.DefaultDesktop = "x" }, "default_desktop"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"zero cascade", func(c *Config) { c.CascadeSteps = 0 }, "cascade_steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Errorf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stagger = 25
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Stagger != 25 {
		t.Errorf("stagger = %d, want 25", res.Config.Stagger)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Desktops[0].Name = "changed"
	clone.Apps[0].Name = "changed"
	if cfg.Desktops[0].Name == "changed" || cfg.Apps[0].Name == "changed" {
		t.Errorf("Clone shares slices with the original")
	}
}

func TestDiffSerialized(t *testing.T) {
	if d := DiffSerialized([]byte("a: 1\n"), []byte("a: 1\n")); d != "" {
		t.Errorf("expected empty diff, got %q", d)
	}
	d := DiffSerialized([]byte("a: 1\nb: 2\n"), []byte("a: 1\nb: 3\n"))
	if !strings.Contains(d, "b: 2") || !strings.Contains(d, "b: 3") {
		t.Errorf("diff missing changed lines:\n%s", d)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}
