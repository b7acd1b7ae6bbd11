package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/livebg/internal/session"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Effect != "livebg" {
		t.Errorf("expected effect livebg, got %s", cfg.Effect)
	}
	if cfg.Speed != 0.05 || cfg.Density != 0.005 || cfg.Zoom != 1.0 {
		t.Errorf("unexpected default params %+v", cfg.Params())
	}
	if !cfg.Running || cfg.ZoomAuto {
		t.Error("expected running with auto zoom off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livebg.yaml")
	data := "effect: fire\nspeed: 1.5\nrender:\n  frames: 10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Effect != "fire" || cfg.Speed != 1.5 {
		t.Errorf("expected fire at 1.5, got %s at %v", cfg.Effect, cfg.Speed)
	}
	if cfg.Render.Frames != 10 {
		t.Errorf("expected 10 frames, got %d", cfg.Render.Frames)
	}
	if cfg.Density != 0.005 || cfg.Render.Width != DefaultWidth {
		t.Error("expected missing keys to keep defaults")
	}
}

func TestLoadIntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("zoom: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadInto(path, GetPreset("livebg", "dense"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Density != 0.02 {
		t.Errorf("expected preset density 0.02, got %v", cfg.Density)
	}
	if cfg.Zoom != 2 {
		t.Errorf("expected file zoom 2, got %v", cfg.Zoom)
	}
	if Presets["livebg"]["dense"].Zoom != 1 {
		t.Error("loading into a preset copy must not change the preset")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("speed: [fast\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Effect = "spiral"
	cfg.WasmDir = "effects"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}
}

func TestParamsClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Speed = 50
	cfg.Zoom = 0.1

	p := cfg.Params()
	if p.Speed != session.MaxSpeed {
		t.Errorf("expected speed %v, got %v", session.MaxSpeed, p.Speed)
	}
	if p.Zoom != session.MinZoom {
		t.Errorf("expected zoom %v, got %v", session.MinZoom, p.Zoom)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no effect", func(c *Config) { c.Effect = "" }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero marker", func(c *Config) { c.MarkerSize = 0 }},
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"no frames", func(c *Config) { c.Render.Frames = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("fire", "blaze")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Effect != "fire" || cfg.Speed != 2.0 {
		t.Errorf("expected fire at speed 2, got %s at %v", cfg.Effect, cfg.Speed)
	}
	if cfg.FPS != DefaultFPS {
		t.Errorf("expected preset to inherit defaults, got fps %d", cfg.FPS)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("livebg", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "calm") != nil {
		t.Error("expected nil for nonexistent effect")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("spiral")
	want := []string{"slow", "tight", "wide"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent effect")
	}
}
