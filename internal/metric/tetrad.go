package metric

import (
	"math"

	"github.com/san-kum/lorentz/internal/eigen"
	"github.com/san-kum/lorentz/internal/tensor"
)

// DefaultTetradEps floors |λ| before taking 1/√|λ|.
const DefaultTetradEps = 1e-12

// Tetrad is a local orthonormal frame with EᵀgE ≈ η.
type Tetrad struct {
	E        tensor.Mat4 // frame vectors as columns, timelike first
	Proxy    tensor.Mat4 // E·Eᵀ, positive definite
	Residual float64     // ‖EᵀgE − η‖_F of the projected metric
	Metric   tensor.Sym4 // g after signature projection
}

// BuildTetrad projects g onto Lorentzian signature, then sets E = Q·D⁻¹ with
// D⁻¹ = diag(1/√|λ|) and moves the timelike column into slot 0.
func BuildTetrad(g tensor.Sym4, eps float64) Tetrad {
	if eps <= 0 {
		eps = DefaultTetradEps
	}
	gp, _ := ProjectSignature(g, math.Max(DefaultTetradEps, eps))

	d := eigen.Decompose(gp, eigen.DefaultOptions())
	neg := 0
	for i, l := range d.Values {
		if l < 0 {
			neg = i
			break
		}
	}

	var dinv tensor.Vec4
	for i, l := range d.Values {
		dinv[i] = 1 / math.Sqrt(math.Max(math.Abs(l), eps))
	}
	e := d.Vectors.Mul(tensor.DiagVec(dinv))
	if neg != 0 {
		e = e.SwapColumns(0, neg)
	}

	check := e.Transpose().Mul(gp.Mat()).Mul(e).Sub(tensor.Minkowski().Mat())
	return Tetrad{
		E:        e,
		Proxy:    e.Mul(e.Transpose()),
		Residual: check.Frobenius(),
		Metric:   gp,
	}
}

// SquareProxy returns g², a positive-definite inner product for any
// non-singular symmetric g.
func SquareProxy(g tensor.Sym4) tensor.Sym4 {
	m := g.Mat()
	return tensor.Symmetrize(m.Mul(m))
}
