package config

import (
	"fmt"
	"os"

	"github.com/san-kum/livebg/internal/session"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEffect = "livebg"
	DefaultFPS    = 60
	DefaultWidth  = 960
	DefaultHeight = 540
	DefaultFrames = 120
	DefaultOut    = "frames"
)

type Config struct {
	Effect     string       `yaml:"effect"`
	Speed      float64      `yaml:"speed"`
	Density    float64      `yaml:"density"`
	Zoom       float64      `yaml:"zoom"`
	ZoomAuto   bool         `yaml:"zoom_auto"`
	Running    bool         `yaml:"running"`
	FPS        int          `yaml:"fps"`
	MarkerSize float64      `yaml:"marker_size"`
	Scale      float64      `yaml:"scale"`
	Seed       int64        `yaml:"seed"`
	WasmDir    string       `yaml:"wasm_dir"`
	Render     RenderConfig `yaml:"render"`
}

// RenderConfig drives headless renders.
type RenderConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Frames   int    `yaml:"frames"`
	Out      string `yaml:"out"`
	Realtime bool   `yaml:"realtime"`
}

func DefaultConfig() *Config {
	p := session.DefaultParams()
	return &Config{
		Effect:     DefaultEffect,
		Speed:      p.Speed,
		Density:    p.Density,
		Zoom:       p.Zoom,
		ZoomAuto:   p.ZoomAuto,
		Running:    p.Running,
		FPS:        DefaultFPS,
		MarkerSize: session.DefaultMarker,
		Scale:      1,
		Seed:       1,
		Render: RenderConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Frames: DefaultFrames,
			Out:    DefaultOut,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads path on top of cfg, so keys missing from the file keep
// their current values.
func LoadInto(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params returns the session parameters, clamped to their bounds.
func (c *Config) Params() session.Params {
	return session.Params{
		Speed:    c.Speed,
		Density:  c.Density,
		Zoom:     c.Zoom,
		ZoomAuto: c.ZoomAuto,
		Running:  c.Running,
	}.Clamped()
}

func (c *Config) Validate() error {
	if c.Effect == "" {
		return fmt.Errorf("effect must be set")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.MarkerSize <= 0 {
		return fmt.Errorf("marker_size must be positive, got %g", c.MarkerSize)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Frames <= 0 {
		return fmt.Errorf("render frames must be positive, got %d", c.Render.Frames)
	}
	return nil
}
