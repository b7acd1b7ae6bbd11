package config

import "sort"

var Presets = map[string]map[string]*Config{
	"livebg": {
		"calm":      preset("livebg", func(c *Config) { c.Speed = 0.03; c.Density = 0.004 }),
		"dense":     preset("livebg", func(c *Config) { c.Density = 0.02 }),
		"close":     preset("livebg", func(c *Config) { c.Zoom = 2.5 }),
		"breathing": preset("livebg", func(c *Config) { c.Speed = 0.08; c.ZoomAuto = true }),
	},
	"fire": {
		"embers": preset("fire", func(c *Config) { c.Speed = 0.8; c.Density = 0.003 }),
		"blaze":  preset("fire", func(c *Config) { c.Speed = 2.0; c.Density = 0.02 }),
		"still":  preset("fire", func(c *Config) { c.Speed = 0.3; c.Running = false }),
	},
	"spiral": {
		"slow":  preset("spiral", func(c *Config) { c.Speed = 0.5 }),
		"wide":  preset("spiral", func(c *Config) { c.Zoom = 0.6; c.Density = 0.01 }),
		"tight": preset("spiral", func(c *Config) { c.Zoom = 3.0; c.Speed = 2.0 }),
	},
}

func preset(effect string, apply func(*Config)) *Config {
	c := DefaultConfig()
	c.Effect = effect
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(effect, name string) *Config {
	effectPresets, ok := Presets[effect]
	if !ok {
		return nil
	}
	cfg, ok := effectPresets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets(effect string) []string {
	effectPresets, ok := Presets[effect]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(effectPresets))
	for name := range effectPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
