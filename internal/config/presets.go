package config

import "maps"

// CoarseDtau is the large proper-time step of the "coarse" preset.
const CoarseDtau = 0.5

func preset(field string, edit func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Field = field
	edit(cfg)
	return cfg
}

var Presets = map[string]map[string]*Config{
	"minkowski": {
		"rest": preset("minkowski", func(c *Config) {
			c.Geodesic.Steps = 200
		}),
		"boosted": preset("minkowski", func(c *Config) {
			c.Geodesic.U0 = [4]float64{1.25, 0.75, 0, 0}
		}),
		"coarse": preset("minkowski", func(c *Config) {
			c.Constants.Dtau = CoarseDtau
			c.Geodesic.Steps = 20
		}),
		"oscillator": preset("minkowski", func(c *Config) {
			c.Potential = "radial"
			c.PotentialParams = map[string]float64{"k": 1}
			c.Geodesic.X0 = [4]float64{0, 1, 0, 0}
			c.Geodesic.Steps = 2000
		}),
	},
	"bump": {
		"default": preset("bump", func(c *Config) {
			c.FieldParams = map[string]float64{"amplitude": 0.05, "width": 1}
			c.Geodesic.X0 = [4]float64{0, -3, 0.5, 0}
			c.Geodesic.U0 = [4]float64{1, 0.3, 0, 0}
		}),
		"strong": preset("bump", func(c *Config) {
			c.FieldParams = map[string]float64{"amplitude": 0.3, "width": 0.7}
			c.Geodesic.X0 = [4]float64{0, -3, 0.2, 0}
			c.Geodesic.U0 = [4]float64{1, 0.5, 0, 0}
			c.Grid.Quantity = "riemann"
		}),
	},
	"schwarzschild": {
		"orbit": preset("schwarzschild", func(c *Config) {
			c.FieldParams = map[string]float64{"mass": 1}
			c.Constants.Dtau = 0.05
			c.Geodesic.X0 = [4]float64{0, 20, 0, 0}
			c.Geodesic.U0 = [4]float64{1, 0, 0.2236, 0}
			c.Geodesic.Steps = 5000
			c.Grid.Origin = [2]float64{-20, -20}
			c.Grid.Spacing = [2]float64{1.25, 1.25}
		}),
		"infall": preset("schwarzschild", func(c *Config) {
			c.FieldParams = map[string]float64{"mass": 1}
			c.Geodesic.X0 = [4]float64{0, 10, 0, 0}
			c.Geodesic.Steps = 1500
		}),
	},
	"conformal": {
		"slope": preset("conformal", func(c *Config) {
			c.FieldParams = map[string]float64{"slope": 0.3}
			c.Grid.Plane = "xz"
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(field, name string) *Config {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	cfg, ok := fieldPresets[name]
	if !ok {
		return nil
	}
	out := *cfg
	out.FieldParams = maps.Clone(cfg.FieldParams)
	out.PotentialParams = maps.Clone(cfg.PotentialParams)
	return &out
}

func ListPresets(field string) []string {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fieldPresets))
	for name := range fieldPresets {
		names = append(names, name)
	}
	return names
}
