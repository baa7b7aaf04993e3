// Package deriv computes central finite differences of metric fields and
// scalar potentials.
//
// The step h is a single global knob with no adaptive control: truncation
// error is O(h²), and too small a step amplifies round-off.
package deriv

import (
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

// DefaultStep is used whenever a caller passes h <= 0.
const DefaultStep = 1e-4

func step(h float64) float64 {
	if h <= 0 {
		return DefaultStep
	}
	return h
}

// Metric returns ∂_a g_{μν}(x) ≈ (g(x+h·e_a) − g(x−h·e_a)) / 2h.
func Metric(f field.MetricField, x tensor.Vec4, a int, h float64) tensor.Mat4 {
	h = step(h)
	e := tensor.Axis(a).Scale(h)
	gp := f.Metric(x.Add(e)).Mat()
	gm := f.Metric(x.Sub(e)).Mat()
	return gp.Sub(gm).Scale(0.5 / h)
}

// MetricAll returns ∂_a g for a = 0..3.
func MetricAll(f field.MetricField, x tensor.Vec4, h float64) [tensor.Dim]tensor.Mat4 {
	var dg [tensor.Dim]tensor.Mat4
	for a := 0; a < tensor.Dim; a++ {
		dg[a] = Metric(f, x, a, h)
	}
	return dg
}

// Gradient returns (∂_0 V, ∂_1 V, ∂_2 V, ∂_3 V).
func Gradient(p field.Potential, x tensor.Vec4, h float64) tensor.Vec4 {
	h = step(h)
	var g tensor.Vec4
	for a := 0; a < tensor.Dim; a++ {
		e := tensor.Axis(a).Scale(h)
		g[a] = (p.Value(x.Add(e)) - p.Value(x.Sub(e))) * (0.5 / h)
	}
	return g
}
