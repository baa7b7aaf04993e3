package metric

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/lorentz/internal/eigen"
	"github.com/san-kum/lorentz/internal/tensor"
)

const (
	// DefaultInertiaEps classifies |λ| <= eps as a zero eigenvalue.
	DefaultInertiaEps = 1e-10
	// DefaultFloorEps is the smallest eigenvalue magnitude ProjectSignature keeps.
	DefaultFloorEps = 1e-9
)

// Inertia counts eigenvalue signs.
type Inertia struct {
	Negative int
	Positive int
	Zero     int
}

// Lorentzian reports the (-,+,+,+) pattern.
func (in Inertia) Lorentzian() bool {
	return in.Negative == 1 && in.Positive == 3 && in.Zero == 0
}

func (in Inertia) String() string {
	return fmt.Sprintf("neg=%d pos=%d zero=%d", in.Negative, in.Positive, in.Zero)
}

// Projection reports what ProjectSignature did.
type Projection struct {
	Before    Inertia
	After     Inertia
	TimeIndex int // eigenvalue slot made negative
	Warning   bool
	Eigen     eigen.Decomposition
}

// FromFrame builds g = Aᵀ η A, which is Lorentzian whenever A is invertible.
func FromFrame(a tensor.Mat4) tensor.Sym4 {
	eta := tensor.Minkowski().Mat()
	return tensor.Symmetrize(a.Transpose().Mul(eta).Mul(a))
}

func inertiaOf(values tensor.Vec4, eps float64) Inertia {
	var in Inertia
	for _, l := range values {
		switch {
		case l < -eps:
			in.Negative++
		case l > eps:
			in.Positive++
		default:
			in.Zero++
		}
	}
	return in
}

// ValidateSignature counts negative, positive and near-zero eigenvalues of g.
func ValidateSignature(g tensor.Sym4, eps float64) Inertia {
	if eps <= 0 {
		eps = DefaultInertiaEps
	}
	d := eigen.Decompose(g, eigen.DefaultOptions())
	return inertiaOf(d.Values, eps)
}

// ProjectSignature rebuilds g with exactly one negative eigenvalue. The
// largest-magnitude negative eigenvalue stays timelike; with no negatives the
// smallest-magnitude eigenvalue is flipped. All magnitudes are floored at eps.
// A result that still fails the inertia check sets Warning and is logged; it
// is never an error.
func ProjectSignature(g tensor.Sym4, eps float64) (tensor.Sym4, Projection) {
	if eps <= 0 {
		eps = DefaultFloorEps
	}
	d := eigen.Decompose(g, eigen.DefaultOptions())
	p := Projection{
		Before: inertiaOf(d.Values, DefaultInertiaEps),
		Eigen:  d,
	}

	var mag tensor.Vec4
	neg := -1
	for i, l := range d.Values {
		mag[i] = math.Abs(l)
		if l < 0 && (neg < 0 || mag[i] > mag[neg]) {
			neg = i
		}
	}
	if neg < 0 {
		neg = 0
		for i := 1; i < tensor.Dim; i++ {
			if mag[i] < mag[neg] {
				neg = i
			}
		}
	}
	p.TimeIndex = neg

	var lam tensor.Vec4
	for i := range lam {
		a := math.Max(mag[i], eps)
		if i == neg {
			a = -a
		}
		lam[i] = a
	}

	q := d.Vectors
	out := tensor.Symmetrize(q.Mul(tensor.DiagVec(lam)).Mul(q.Transpose()))

	p.After = ValidateSignature(out, DefaultInertiaEps)
	if !p.After.Lorentzian() {
		p.Warning = true
		slog.Warn("signature projection left non-Lorentzian inertia",
			"before", p.Before.String(), "after", p.After.String())
	}
	return out, p
}
