package curvature

import (
	"math"
	"math/big"

	"github.com/san-kum/lorentz/internal/connection"
	"github.com/san-kum/lorentz/internal/deriv"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

// Riemann holds R^μ_{ναβ} as R[μ][ν][α][β].
type Riemann [tensor.Dim][tensor.Dim][tensor.Dim][tensor.Dim]float64

// memoField remembers metric values by position. One RiemannAt reaches many
// points more than once (x+h·e_a+h·e_b from both a and b), so a single
// evaluation shares one memoField. It must not outlive that evaluation.
type memoField struct {
	f    field.MetricField
	seen map[tensor.Vec4]tensor.Sym4
}

func newMemoField(f field.MetricField) *memoField {
	return &memoField{f: f, seen: make(map[tensor.Vec4]tensor.Sym4, 48)}
}

func (m *memoField) Metric(x tensor.Vec4) tensor.Sym4 {
	if g, ok := m.seen[x]; ok {
		return g
	}
	g := m.f.Metric(x)
	m.seen[x] = g
	return g
}

// partials returns ∂_a Γ for a = 0..3 by central differences of the
// connection rebuilt at x ± h·e_a.
func partials(f field.MetricField, x tensor.Vec4, h float64) [tensor.Dim]connection.Gamma {
	var dg [tensor.Dim]connection.Gamma
	for a := 0; a < tensor.Dim; a++ {
		e := tensor.Axis(a).Scale(h)
		_, gp := connection.At(f, x.Add(e), h)
		_, gm := connection.At(f, x.Sub(e), h)
		diff := gp.Sub(&gm)
		dg[a] = diff.Scale(0.5 / h)
	}
	return dg
}

// assemble combines the connection and its partials:
//
//	R^μ_{ναβ} = ∂_α Γ^μ_{νβ} − ∂_β Γ^μ_{να} + Γ^μ_{σα}Γ^σ_{νβ} − Γ^μ_{σβ}Γ^σ_{να}
//
// Only α < β is computed; the rest is mirrored so antisymmetry is exact.
func assemble(g *connection.Gamma, dg *[tensor.Dim]connection.Gamma) Riemann {
	var r Riemann
	for mu := 0; mu < tensor.Dim; mu++ {
		for nu := 0; nu < tensor.Dim; nu++ {
			for a := 0; a < tensor.Dim; a++ {
				for b := a + 1; b < tensor.Dim; b++ {
					v := dg[a][mu][nu][b] - dg[b][mu][nu][a]
					for s := 0; s < tensor.Dim; s++ {
						v += g[mu][s][a]*g[s][nu][b] - g[mu][s][b]*g[s][nu][a]
					}
					r[mu][nu][a][b] = v
					r[mu][nu][b][a] = -v
				}
			}
		}
	}
	return r
}

// RiemannAt evaluates the Riemann tensor of f at x. It costs one connection
// at x plus eight at the perturbed points; f is asked once per distinct
// position (41 at most instead of 81).
func RiemannAt(f field.MetricField, x tensor.Vec4, h float64) Riemann {
	if h <= 0 {
		h = deriv.DefaultStep
	}
	_, _, r := evaluate(f, x, h)
	return r
}

func evaluate(f field.MetricField, x tensor.Vec4, h float64) (connection.Pack, connection.Gamma, Riemann) {
	mf := newMemoField(f)
	pack, g := connection.At(mf, x, h)
	dg := partials(mf, x, h)
	return pack, g, assemble(&g, &dg)
}

// Ricci contracts R_{αβ} = R^μ_{αμβ}.
func Ricci(r *Riemann) tensor.Mat4 {
	var ric tensor.Mat4
	for a := 0; a < tensor.Dim; a++ {
		for b := 0; b < tensor.Dim; b++ {
			s := 0.0
			for mu := 0; mu < tensor.Dim; mu++ {
				s += r[mu][a][mu][b]
			}
			ric[a][b] = s
		}
	}
	return ric
}

// Scalar contracts R = g^{αβ} R_{αβ}.
func Scalar(gInv, ric tensor.Mat4) float64 {
	s := 0.0
	for a := 0; a < tensor.Dim; a++ {
		for b := 0; b < tensor.Dim; b++ {
			s += gInv[a][b] * ric[a][b]
		}
	}
	return s
}

// frobeniusPrec is the mantissa width used when accumulating squares.
const frobeniusPrec = 128

// Frobenius returns sqrt(Σ R^2) over all 256 components. Squares are summed
// at extended precision so near-flat fields do not lose their residue.
func Frobenius(r *Riemann) float64 {
	sum := new(big.Float).SetPrec(frobeniusPrec)
	sq := new(big.Float).SetPrec(frobeniusPrec)
	for mu := range r {
		for nu := range r[mu] {
			for a := range r[mu][nu] {
				for b := range r[mu][nu][a] {
					v := r[mu][nu][a][b]
					if v == 0 {
						continue
					}
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return math.NaN()
					}
					sq.SetFloat64(v)
					sq.Mul(sq, sq)
					sum.Add(sum, sq)
				}
			}
		}
	}
	out, _ := sum.Sqrt(sum).Float64()
	return out
}

// Einstein returns G_{μν} = R_{μν} − ½ g_{μν} R.
func Einstein(ric tensor.Mat4, g tensor.Sym4, scalar float64) tensor.Sym4 {
	return tensor.Symmetrize(ric.Sub(g.Mat().Scale(0.5 * scalar)))
}
