package config

import (
	"flag"
	"path/filepath"
	"strings"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagOBJ        = flag.String("obj", "", "Show this OBJ file instead of the configured scene")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagOBJ != "" {
		// relative to the working directory, not to the config file
		path := *flagOBJ
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		cfg.Scene = []ObjectConfig{
			{Name: "world", Type: "frame", Size: [3]float64{1, 0, 0}},
			{Name: name, Type: "obj", Path: path},
		}
	}
}
