package geodesic

import (
	"math"

	"github.com/san-kum/lorentz/internal/connection"
	"github.com/san-kum/lorentz/internal/deriv"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

// StepReport describes one step. Norm is g(u,u) at the new position before
// renormalisation.
type StepReport struct {
	InvOK        bool // both connection rebuilds inverted their metric
	Cond         float64
	Norm         float64
	Renormalized bool
}

// Acceleration returns a^μ = −Γ^μ_{αβ}u^αu^β − g^{μν}∂_νV. pot may be nil.
func Acceleration(p connection.Pack, g *connection.Gamma, u tensor.Vec4, pot field.Potential, x tensor.Vec4, h float64) tensor.Vec4 {
	a := g.Contract(u, u).Scale(-1)
	if pot == nil {
		return a
	}
	grad := deriv.Gradient(pot, x, h)
	return a.Sub(tensor.Raise(p.Inv, grad))
}

// RenormalizeTimelike rescales u so that g(u,u) = −1. When u is not timelike
// (g(u,u) ≥ 0) or the norm is not finite, u is returned unchanged with false.
func RenormalizeTimelike(g tensor.Sym4, u tensor.Vec4) (tensor.Vec4, bool) {
	n := tensor.QuadForm(g.Mat(), u)
	if !(n < 0) || math.IsInf(n, 0) {
		return u, false
	}
	return u.Scale(1 / math.Sqrt(-n)), true
}

// Step advances (x, u) by dtau with a velocity-Verlet scheme:
//
//	u½ = u + ½dτ·a(x, u)
//	x' = x + dτ·u½
//	u' = u½ + ½dτ·a(x', u½)
//
// followed by projection of u' onto the unit timelike shell at x'. The step
// keeps no state between calls.
func Step(f field.MetricField, pot field.Potential, x, u tensor.Vec4, dtau, h float64) (tensor.Vec4, tensor.Vec4, StepReport) {
	p0, g0 := connection.At(f, x, h)
	a0 := Acceleration(p0, &g0, u, pot, x, h)
	uHalf := u.Add(a0.Scale(0.5 * dtau))

	xNew := x.Add(uHalf.Scale(dtau))

	p1, g1 := connection.At(f, xNew, h)
	a1 := Acceleration(p1, &g1, uHalf, pot, xNew, h)
	uNew := uHalf.Add(a1.Scale(0.5 * dtau))

	rep := StepReport{
		InvOK: p0.InvOK && p1.InvOK,
		Cond:  math.Max(p0.Cond, p1.Cond),
		Norm:  tensor.QuadForm(p1.G.Mat(), uNew),
	}
	uNew, rep.Renormalized = RenormalizeTimelike(p1.G, uNew)
	return xNew, uNew, rep
}
