package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/geom"
)

// Source records where a config value was last written.
type Source struct {
	File   string
	Line   int
	Column int
}

// ValidationError ties a validation failure to a YAML path and, when known,
// the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadResult is a loaded config plus introspection data.
type LoadResult struct {
	Config  *Config
	Path    string
	Exists  bool
	Sources map[string]Source // YAML path -> position in Path
	Raw     []byte
}

// RawConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type RawConfig struct {
	Viewport        *geom.Size        `yaml:"viewport"`
	TaskbarHeight   *int              `yaml:"taskbar_height"`
	DefaultPosition *geom.Point       `yaml:"default_position"`
	DefaultSize     *geom.Size        `yaml:"default_size"`
	Stagger         *int              `yaml:"stagger"`
	CascadeSteps    *int              `yaml:"cascade_steps"`
	MinSize         *geom.Size        `yaml:"min_size"`
	ZBase           *int              `yaml:"z_base"`
	Desktops        []desktop.Desktop `yaml:"desktops"`
	DefaultDesktop  *string           `yaml:"default_desktop"`
	Apps            []apps.App        `yaml:"apps"`
	Logging         *RawLogging       `yaml:"logging"`
}

type RawLogging struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "webdesk", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path over the defaults. A missing file yields the
// defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &LoadResult{Config: DefaultConfig(), Path: path, Sources: map[string]Source{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	res, err := Parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}
	res.Exists = true
	res.Raw = data
	return res, nil
}

// Parse decodes YAML from r. name is used in error positions.
func Parse(r io.Reader, name string) (*LoadResult, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	raw := RawConfig{}
	sources := map[string]Source{}
	if len(doc.Content) > 0 && !isNull(doc.Content[0]) {
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: top-level YAML value must be a mapping", name)
		}
		if err := root.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		collectSources(root, "", name, sources)
	}

	res, err := finishParse(raw, sources)
	if err != nil {
		return nil, err
	}
	res.Path = name
	return res, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func finishParse(raw RawConfig, sources map[string]Source) (*LoadResult, error) {
	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}
	return &LoadResult{Config: cfg, Sources: sources}, nil
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()
	if raw.Viewport != nil {
		cfg.Viewport = *raw.Viewport
	}
	if raw.TaskbarHeight != nil {
		cfg.TaskbarHeight = *raw.TaskbarHeight
	}
	if raw.DefaultPosition != nil {
		cfg.DefaultPosition = *raw.DefaultPosition
	}
	if raw.DefaultSize != nil {
		cfg.DefaultSize = *raw.DefaultSize
	}
	if raw.Stagger != nil {
		cfg.Stagger = *raw.Stagger
	}
	if raw.CascadeSteps != nil {
		cfg.CascadeSteps = *raw.CascadeSteps
	}
	if raw.MinSize != nil {
		cfg.MinSize = *raw.MinSize
	}
	if raw.ZBase != nil {
		cfg.ZBase = *raw.ZBase
	}
	if raw.Desktops != nil {
		cfg.Desktops = raw.Desktops
		// A custom desktop list without an explicit default starts on its first entry.
		cfg.DefaultDesktop = ""
		if len(raw.Desktops) > 0 {
			cfg.DefaultDesktop = raw.Desktops[0].ID
		}
	}
	if raw.DefaultDesktop != nil {
		cfg.DefaultDesktop = *raw.DefaultDesktop
	}
	if raw.Apps != nil {
		cfg.Apps = raw.Apps
	}
	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.Format != nil {
			cfg.Logging.Format = *raw.Logging.Format
		}
	}
	return cfg
}

// collectSources records the key position of every mapping entry, keyed by
// dotted path (sequence entries as path[i]).
func collectSources(node *yaml.Node, prefix, file string, out map[string]Source) {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			path := key.Value
			if prefix != "" {
				path = prefix + "." + key.Value
			}
			out[path] = Source{File: file, Line: key.Line, Column: key.Column}
			collectSources(val, path, file, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			path := fmt.Sprintf("%s[%d]", prefix, i)
			out[path] = Source{File: file, Line: item.Line, Column: item.Column}
			collectSources(item, path, file, out)
		}
	}
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
