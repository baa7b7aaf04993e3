// Package connection assembles the Levi-Civita connection of a metric field.
package connection

import (
	"github.com/san-kum/lorentz/internal/deriv"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

// Pack bundles the metric at one point with its inverse and coordinate
// partials. It is rebuilt per point and never cached.
type Pack struct {
	G     tensor.Sym4
	Inv   tensor.Mat4 // zero when InvOK is false
	DG    [tensor.Dim]tensor.Mat4
	Det   float64
	Cond  float64
	InvOK bool
}

// Gamma holds Γ^μ_{αβ} as Gamma[μ][α][β], symmetric in the lower pair.
type Gamma [tensor.Dim][tensor.Dim][tensor.Dim]float64

// Prepare evaluates f at x, inverts the result and takes the four partials
// with step h (h <= 0 selects deriv.DefaultStep).
func Prepare(f field.MetricField, x tensor.Vec4, h float64) Pack {
	g := f.Metric(x)
	inv := tensor.Inverse(g.Mat(), tensor.DefaultPivotTol)
	return Pack{
		G:     g,
		Inv:   inv.Inv,
		DG:    deriv.MetricAll(f, x, h),
		Det:   inv.Det,
		Cond:  inv.Cond,
		InvOK: inv.OK,
	}
}

// Christoffel computes Γ^μ_{αβ} = ½ g^{μν}(∂_α g_{νβ} + ∂_β g_{να} − ∂_ν g_{αβ}).
// A failed inversion is not checked here: the zero inverse yields a zero
// connection and callers are expected to look at Pack.InvOK.
func Christoffel(p Pack) Gamma {
	var lowered [tensor.Dim][tensor.Dim][tensor.Dim]float64 // Γ_{ναβ}
	for nu := 0; nu < tensor.Dim; nu++ {
		for a := 0; a < tensor.Dim; a++ {
			for b := a; b < tensor.Dim; b++ {
				v := 0.5 * (p.DG[a][nu][b] + p.DG[b][nu][a] - p.DG[nu][a][b])
				lowered[nu][a][b] = v
				lowered[nu][b][a] = v
			}
		}
	}

	var out Gamma
	for mu := 0; mu < tensor.Dim; mu++ {
		for a := 0; a < tensor.Dim; a++ {
			for b := a; b < tensor.Dim; b++ {
				s := 0.0
				for nu := 0; nu < tensor.Dim; nu++ {
					s += p.Inv[mu][nu] * lowered[nu][a][b]
				}
				out[mu][a][b] = s
				out[mu][b][a] = s
			}
		}
	}
	return out
}

// At is Christoffel(Prepare(f, x, h)).
func At(f field.MetricField, x tensor.Vec4, h float64) (Pack, Gamma) {
	p := Prepare(f, x, h)
	return p, Christoffel(p)
}

// Contract returns Γ^μ_{αβ} u^α v^β.
func (g *Gamma) Contract(u, v tensor.Vec4) tensor.Vec4 {
	var out tensor.Vec4
	for mu := 0; mu < tensor.Dim; mu++ {
		s := 0.0
		for a := 0; a < tensor.Dim; a++ {
			for b := 0; b < tensor.Dim; b++ {
				s += g[mu][a][b] * u[a] * v[b]
			}
		}
		out[mu] = s
	}
	return out
}

// Sub returns g − o component-wise.
func (g *Gamma) Sub(o *Gamma) Gamma {
	out := *g
	for mu := range out {
		for a := range out[mu] {
			for b := range out[mu][a] {
				out[mu][a][b] -= o[mu][a][b]
			}
		}
	}
	return out
}

// Scale returns s·g.
func (g *Gamma) Scale(s float64) Gamma {
	out := *g
	for mu := range out {
		for a := range out[mu] {
			for b := range out[mu][a] {
				out[mu][a][b] *= s
			}
		}
	}
	return out
}
