package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lorentz/internal/deriv"
	"github.com/san-kum/lorentz/internal/eigen"
	"github.com/san-kum/lorentz/internal/tensor"
)

const (
	DefaultC         = 1.0
	DefaultMetricEps = 1e-12
	DefaultFDStep    = deriv.DefaultStep
	DefaultDtau      = 0.01
	DefaultSteps     = 1000
	DefaultGridSize  = 32
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Constants are the numeric knobs shared by every entry point. They are
// passed by value; nothing reads them from package state.
type Constants struct {
	// C is the speed of light in coordinate units. The geometry is written
	// for c = 1 and does not read it; it travels with saved configs for
	// callers converting to physical units.
	C         float64 `yaml:"c"`
	MetricEps float64 `yaml:"metric_eps"`
	FDStep    float64 `yaml:"fd_step"`
	Dtau      float64 `yaml:"dtau"`
}

type EigenConfig struct {
	MaxSweeps int     `yaml:"max_sweeps"`
	Tol       float64 `yaml:"tol"`
}

func (e EigenConfig) Options() eigen.Options {
	return eigen.Options{MaxSweeps: e.MaxSweeps, Tol: e.Tol}
}

type GeodesicConfig struct {
	Steps    int        `yaml:"steps"`
	Scheme   string     `yaml:"scheme"`
	X0       [4]float64 `yaml:"x0,flow"`
	U0       [4]float64 `yaml:"u0,flow"`
	Validate bool       `yaml:"validate"`
}

// Start returns the initial position and the unnormalised initial velocity.
func (g GeodesicConfig) Start() (tensor.Vec4, tensor.Vec4) {
	return tensor.Vec4(g.X0), tensor.Vec4(g.U0)
}

type GridConfig struct {
	Plane    string     `yaml:"plane"`    // xy, xz or ty
	Quantity string     `yaml:"quantity"` // scalar or riemann
	Fixed    [4]float64 `yaml:"fixed,flow"`
	Origin   [2]float64 `yaml:"origin,flow"`
	Spacing  [2]float64 `yaml:"spacing,flow"`
	Size     [2]int     `yaml:"size,flow"`
	Workers  int        `yaml:"workers"`
}

type Config struct {
	Field           string             `yaml:"field"`
	FieldParams     map[string]float64 `yaml:"field_params,omitempty"`
	Potential       string             `yaml:"potential,omitempty"`
	PotentialParams map[string]float64 `yaml:"potential_params,omitempty"`
	Constants       Constants          `yaml:"constants"`
	Eigen           EigenConfig        `yaml:"eigen"`
	Geodesic        GeodesicConfig     `yaml:"geodesic"`
	Grid            GridConfig         `yaml:"grid"`
}

func DefaultConstants() Constants {
	return Constants{
		C:         DefaultC,
		MetricEps: DefaultMetricEps,
		FDStep:    DefaultFDStep,
		Dtau:      DefaultDtau,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Field:     "minkowski",
		Constants: DefaultConstants(),
		Eigen: EigenConfig{
			MaxSweeps: eigen.DefaultMaxSweeps,
			Tol:       eigen.DefaultTol,
		},
		Geodesic: GeodesicConfig{
			Steps:    DefaultSteps,
			Scheme:   "verlet",
			U0:       [4]float64{1, 0, 0, 0},
			Validate: true,
		},
		Grid: GridConfig{
			Plane:    "xy",
			Quantity: "scalar",
			Origin:   [2]float64{-2, -2},
			Spacing:  [2]float64{4.0 / DefaultGridSize, 4.0 / DefaultGridSize},
			Size:     [2]int{DefaultGridSize, DefaultGridSize},
		},
	}
}

// Load reads a yaml file over DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over base and validates the result. Keys absent
// from the file keep base's values; map entries are merged. base is modified
// in place and returned.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, name, v)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("%w: field is required", ErrInvalidConfig)
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"constants.fd_step", c.Constants.FDStep},
		{"constants.dtau", c.Constants.Dtau},
		{"eigen.tol", c.Eigen.Tol},
	}
	for _, ch := range checks {
		if err := positive(ch.name, ch.v); err != nil {
			return err
		}
	}
	if c.Constants.MetricEps < 0 {
		return fmt.Errorf("%w: constants.metric_eps must not be negative", ErrInvalidConfig)
	}
	if c.Eigen.MaxSweeps <= 0 {
		return fmt.Errorf("%w: eigen.max_sweeps must be positive", ErrInvalidConfig)
	}
	if c.Geodesic.Steps <= 0 {
		return fmt.Errorf("%w: geodesic.steps must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Grid.Plane) {
	case "xy", "xz", "ty":
	default:
		return fmt.Errorf("%w: grid.plane %q", ErrInvalidConfig, c.Grid.Plane)
	}
	switch c.Grid.Quantity {
	case "scalar", "riemann":
	default:
		return fmt.Errorf("%w: grid.quantity %q", ErrInvalidConfig, c.Grid.Quantity)
	}
	if c.Grid.Size[0] <= 0 || c.Grid.Size[1] <= 0 {
		return fmt.Errorf("%w: grid.size must be positive", ErrInvalidConfig)
	}
	return nil
}
