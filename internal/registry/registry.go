package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

var (
	ErrUnknownField     = errors.New("registry: unknown metric field")
	ErrUnknownPotential = errors.New("registry: unknown potential")
)

// DefaultBumpAmplitude is the amplitude used when a bump is built without
// one.
const DefaultBumpAmplitude = 5e-2

type Registry struct {
	fields     map[string]func(map[string]float64) field.MetricField
	potentials map[string]func(map[string]float64) field.Potential
}

func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

func NewRegistry() *Registry {
	r := &Registry{
		fields:     make(map[string]func(map[string]float64) field.MetricField),
		potentials: make(map[string]func(map[string]float64) field.Potential),
	}

	r.fields["minkowski"] = func(map[string]float64) field.MetricField { return field.Minkowski{} }
	r.fields["bump"] = func(p map[string]float64) field.MetricField {
		return field.NewGaussianBump(param(p, "amplitude", DefaultBumpAmplitude), param(p, "width", 1))
	}
	r.fields["schwarzschild"] = func(p map[string]float64) field.MetricField {
		return field.NewSchwarzschild(param(p, "mass", 1))
	}
	r.fields["conformal"] = func(p map[string]float64) field.MetricField {
		a := param(p, "slope", 0.1)
		return field.Conformal{Phi: func(x tensor.Vec4) float64 { return a * x[1] }}
	}

	r.potentials["zero"] = func(map[string]float64) field.Potential { return field.ZeroPotential{} }
	r.potentials["radial"] = func(p map[string]float64) field.Potential {
		return field.Radial{K: param(p, "k", 1)}
	}

	return r
}

// Field builds the named metric field. Missing parameters take their
// defaults.
func (r *Registry) Field(name string, params map[string]float64) (field.MetricField, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return fn(params), nil
}

// Potential builds the named potential. The empty name means no potential
// and returns nil.
func (r *Registry) Potential(name string, params map[string]float64) (field.Potential, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := r.potentials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPotential, name)
	}
	return fn(params), nil
}

func (r *Registry) ListFields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListPotentials() []string {
	names := make([]string, 0, len(r.potentials))
	for name := range r.potentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
