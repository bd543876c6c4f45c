// Package config handles viewer configuration loading and management.
package config

import "path/filepath"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig   `yaml:"window"`
	Render  RenderConfig   `yaml:"render"`
	Display DisplayConfig  `yaml:"display"`
	Camera  CameraConfig   `yaml:"camera"`
	Scene   []ObjectConfig `yaml:"scene"`
	Logging LoggingConfig  `yaml:"logging"`

	// Path is the absolute path of the file the config was read from,
	// empty when only defaults and flags apply.
	Path string `yaml:"-"`
}

// BaseDir is the directory relative scene paths are resolved against.
func (c *Config) BaseDir() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// WindowConfig holds display window settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds drawing settings shared by all objects.
type RenderConfig struct {
	Background    [3]float32   `yaml:"background"`
	PointSize     float32      `yaml:"point_size"`
	Opacity       float32      `yaml:"opacity"`
	Colors        ColorsConfig `yaml:"colors"`
	ScreenshotDir string       `yaml:"screenshot_dir"`
}

// ColorsConfig holds default RGB colors in the 0..1 range.
type ColorsConfig struct {
	Vertices [3]float32 `yaml:"vertices"`
	Edges    [3]float32 `yaml:"edges"`
	Front    [3]float32 `yaml:"front"`
	Back     [3]float32 `yaml:"back"`
}

// DisplayConfig holds the initial visibility flags.
type DisplayConfig struct {
	ShowVertices bool `yaml:"show_vertices"`
	ShowEdges    bool `yaml:"show_edges"`
	ShowFaces    bool `yaml:"show_faces"`
	ShowBounds   bool `yaml:"show_bounds"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOVDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Distance   float32    `yaml:"distance"`
	Target     [3]float32 `yaml:"target"`
}

// ObjectConfig describes one scene object. Which fields apply depends on Type:
//
//	box:         center, size
//	plane:       size (x, y), divisions
//	tetrahedron: center, radius
//	sphere:      center, radius, cells
//	cylinder:    center, height, radius, cells
//	capsule:     center, height, radius, cells
//	rounded_box: center, size, round, cells
//	obj:         path
//	frame:       center, xaxis, yaxis, size (x)
type ObjectConfig struct {
	Name      string      `yaml:"name"`
	Type      string      `yaml:"type"`
	Path      string      `yaml:"path,omitempty"`
	Center    [3]float64  `yaml:"center,omitempty"`
	Size      [3]float64  `yaml:"size,omitempty"`
	Radius    float64     `yaml:"radius,omitempty"`
	Height    float64     `yaml:"height,omitempty"`
	Round     float64     `yaml:"round,omitempty"`
	Divisions int         `yaml:"divisions,omitempty"`
	Cells     int         `yaml:"cells,omitempty"`
	XAxis     [3]float32  `yaml:"xaxis,omitempty"`
	YAxis     [3]float32  `yaml:"yaxis,omitempty"`
	Color     *[3]float32 `yaml:"color,omitempty"`
	Selected  bool        `yaml:"selected,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "meshview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			Background: [3]float32{0.95, 0.95, 0.95},
			PointSize:  10,
			Opacity:    1.0,
			Colors: ColorsConfig{
				Vertices: [3]float32{0.2, 0.2, 0.2},
				Edges:    [3]float32{0.4, 0.4, 0.4},
				Front:    [3]float32{0.8, 0.8, 0.8},
				Back:     [3]float32{0.8, 0.8, 0.8},
			},
			ScreenshotDir: "screenshots",
		},
		Display: DisplayConfig{
			ShowVertices: true,
			ShowEdges:    true,
			ShowFaces:    true,
			ShowBounds:   false,
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Near:       0.1,
			Far:        1000,
			Distance:   10,
		},
		Scene: []ObjectConfig{
			{Name: "world", Type: "frame", Size: [3]float64{1, 0, 0}},
			{Name: "box", Type: "box", Center: [3]float64{2, 0, 0.5}, Size: [3]float64{1, 1, 1}},
			{Name: "sphere", Type: "sphere", Center: [3]float64{-2, 0, 1}, Radius: 1, Cells: 32},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
