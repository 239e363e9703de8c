package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. PAPERVIEW_STYLE.
const EnvPrefix = "PAPERVIEW_"

// Config holds runtime options for the viewer.
type Config struct {
	// Content is a markdown file to show instead of the bundled analysis.
	Content string        `koanf:"content" yaml:"content,omitempty"`
	Style   string        `koanf:"style" yaml:"style"`
	Layout  LayoutConfig  `koanf:"layout" yaml:"layout"`
	Scroll  ScrollConfig  `koanf:"scroll" yaml:"scroll"`
	Export  ExportConfig  `koanf:"export" yaml:"export"`
	Log     LoggingConfig `koanf:"log" yaml:"log"`
}

type LayoutConfig struct {
	SidebarWidth int `koanf:"sidebar_width" yaml:"sidebar_width"`
	// NarrowWidth is the terminal width below which the sidebar collapses
	// into a toggled menu.
	NarrowWidth int `koanf:"narrow_width" yaml:"narrow_width"`
}

type ScrollConfig struct {
	Frames        int           `koanf:"frames" yaml:"frames"`
	FrameInterval time.Duration `koanf:"frame_interval" yaml:"frame_interval"`
}

type ExportConfig struct {
	Dir string `koanf:"dir" yaml:"dir"`
}

var validStyles = map[string]bool{
	"auto":        true,
	"ascii":       true,
	"dark":        true,
	"dracula":     true,
	"light":       true,
	"notty":       true,
	"pink":        true,
	"tokyo-night": true,
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAPERVIEW_*). A missing file is not an
// error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// PAPERVIEW_SCROLL_FRAMES -> scroll.frames, PAPERVIEW_LAYOUT_NARROW_WIDTH -> layout.narrow_width
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps an environment name onto a config key. The first underscore
// after the prefix separates the section from the field.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	switch section {
	case "layout", "scroll", "export", "log":
		return section + "." + field
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validStyles[c.Style] {
		return fmt.Errorf("invalid style %q", c.Style)
	}
	if c.Layout.SidebarWidth < 12 {
		return fmt.Errorf("layout.sidebar_width must be at least 12, got %d", c.Layout.SidebarWidth)
	}
	if c.Layout.NarrowWidth < 0 {
		return fmt.Errorf("layout.narrow_width must be non-negative")
	}
	if c.Scroll.Frames < 0 {
		return fmt.Errorf("scroll.frames must be non-negative")
	}
	if c.Scroll.Frames > 0 && c.Scroll.FrameInterval <= 0 {
		return fmt.Errorf("scroll.frame_interval must be positive when scroll.frames is set")
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("export.dir is required")
	}
	return c.Log.validate()
}
