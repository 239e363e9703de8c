package config

import "time"

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() *Config {
	return &Config{
		Style: "tokyo-night",
		Layout: LayoutConfig{
			SidebarWidth: 28,
			NarrowWidth:  80,
		},
		Scroll: ScrollConfig{
			Frames:        8,
			FrameInterval: 16 * time.Millisecond,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: LoggingConfig{
			Level: "none",
			File:  "paperview.log",
			Mode:  "append",
		},
	}
}
