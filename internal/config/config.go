package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/geom"
)

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultTaskbarHeight  = 60
	DefaultStagger        = 20
	DefaultCascadeSteps   = 10
)

// LoggingConfig configures daemon logging.
type LoggingConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// Format is "text" (default) or "json"
	Format string `yaml:"format,omitempty"`
}

// Config is the effective configuration used by the desk and its front ends.
type Config struct {
	// Viewport is the browser viewport size used for maximize until the
	// renderer reports a real size.
	Viewport geom.Size `yaml:"viewport"`
	// TaskbarHeight is subtracted from the viewport height when maximizing.
	TaskbarHeight int `yaml:"taskbar_height"`
	// DefaultPosition and DefaultSize are the geometry of a new window and
	// the canonical geometry restored after maximize.
	DefaultPosition geom.Point `yaml:"default_position"`
	DefaultSize     geom.Size  `yaml:"default_size"`
	// Stagger is the per-window cascade offset applied to new windows.
	Stagger int `yaml:"stagger"`
	// CascadeSteps bounds the cascade before it wraps to the default position.
	CascadeSteps int `yaml:"cascade_steps"`
	// MinSize is the floor for window sizes; smaller sizes are clamped.
	MinSize geom.Size `yaml:"min_size"`
	// ZBase is the stacking index below the first window.
	ZBase int `yaml:"z_base"`

	Desktops       []desktop.Desktop `yaml:"desktops"`
	DefaultDesktop string            `yaml:"default_desktop"`
	Apps           []apps.App        `yaml:"apps"`

	Logging LoggingConfig `yaml:"logging"`
}

// DefaultDesktops returns the stock four-desktop registry.
func DefaultDesktops() []desktop.Desktop {
	return []desktop.Desktop{
		{ID: "desktop-1", Name: "Main"},
		{ID: "desktop-2", Name: "Work"},
		{ID: "desktop-3", Name: "Media"},
		{ID: "desktop-4", Name: "Other"},
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Viewport:        geom.Size{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		TaskbarHeight:   DefaultTaskbarHeight,
		DefaultPosition: geom.Point{X: 50, Y: 50},
		DefaultSize:     geom.Size{Width: 800, Height: 600},
		Stagger:         DefaultStagger,
		CascadeSteps:    DefaultCascadeSteps,
		MinSize:         geom.Size{Width: 200, Height: 120},
		ZBase:           0,
		Desktops:        DefaultDesktops(),
		DefaultDesktop:  "desktop-1",
		Apps:            apps.Builtin(),
		Logging:         LoggingConfig{Level: "info", Format: "text"},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Desktops = append([]desktop.Desktop(nil), c.Desktops...)
	out.Apps = append([]apps.App(nil), c.Apps...)
	return &out
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Viewport.Width < 1 || c.Viewport.Height < 1 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be >= 1")}
	}
	if c.TaskbarHeight < 0 || c.TaskbarHeight >= c.Viewport.Height {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0 and less than viewport height")}
	}
	if c.MinSize.Width < 1 || c.MinSize.Height < 1 {
		return &ValidationError{Path: "min_size", Err: fmt.Errorf("min_size width and height must be >= 1")}
	}
	if c.DefaultSize.Width < c.MinSize.Width || c.DefaultSize.Height < c.MinSize.Height {
		return &ValidationError{Path: "default_size", Err: fmt.Errorf("default_size must be at least min_size")}
	}
	if c.Stagger < 0 {
		return &ValidationError{Path: "stagger", Err: fmt.Errorf("stagger must be >= 0")}
	}
	if c.CascadeSteps < 1 {
		return &ValidationError{Path: "cascade_steps", Err: fmt.Errorf("cascade_steps must be >= 1")}
	}
	if len(c.Desktops) == 0 {
		return &ValidationError{Path: "desktops", Err: fmt.Errorf("desktops must not be empty")}
	}
	seen := make(map[string]struct{}, len(c.Desktops))
	for i, d := range c.Desktops {
		if d.ID == "" {
			return &ValidationError{Path: fmt.Sprintf("desktops[%d].id", i), Err: fmt.Errorf("desktop id is required")}
		}
		if _, dup := seen[d.ID]; dup {
			return &ValidationError{Path: fmt.Sprintf("desktops[%d].id", i), Err: fmt.Errorf("duplicate desktop id %q", d.ID)}
		}
		seen[d.ID] = struct{}{}
	}
	if c.DefaultDesktop != "" {
		if _, ok := seen[c.DefaultDesktop]; !ok {
			return &ValidationError{Path: "default_desktop", Err: fmt.Errorf("default_desktop %q not found in desktops", c.DefaultDesktop)}
		}
	}
	if _, err := apps.NewRegistry(c.Apps); err != nil {
		return &ValidationError{Path: "apps", Err: err}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("logging.format must be one of: text, json")}
	}
	return nil
}

// Marshal serializes the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}
