package metric

import (
	"math"

	"github.com/san-kum/lorentz/internal/eigen"
	"github.com/san-kum/lorentz/internal/tensor"
)

// PDReport summarises a Cholesky positive-definiteness check.
type PDReport struct {
	OK      bool
	MinDiag float64
	MaxDiag float64
}

// Cholesky factors a = L·Lᵀ. It returns false once a pivot is <= eps.
func Cholesky(a tensor.Mat4, eps float64) (tensor.Mat4, bool) {
	var l tensor.Mat4
	for i := 0; i < tensor.Dim; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				if sum <= eps {
					return tensor.Mat4{}, false
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}
	return l, true
}

func CheckPD(a tensor.Mat4) PDReport {
	l, ok := Cholesky(a, 0)
	if !ok {
		return PDReport{}
	}
	r := PDReport{OK: true, MinDiag: l[0][0], MaxDiag: l[0][0]}
	for i := 1; i < tensor.Dim; i++ {
		r.MinDiag = math.Min(r.MinDiag, l[i][i])
		r.MaxDiag = math.Max(r.MaxDiag, l[i][i])
	}
	return r
}

// IsPositiveDefinite checks every eigenvalue of a exceeds eps.
func IsPositiveDefinite(a tensor.Sym4, eps float64) bool {
	d := eigen.Decompose(a, eigen.DefaultOptions())
	for _, l := range d.Values {
		if l <= eps {
			return false
		}
	}
	return true
}

// DilationReport describes a 4-velocity relative to the local rest frame.
type DilationReport struct {
	Gamma float64 // −g(u, t)
	Speed float64 // |v| in [0, 1) for timelike u
	Norm  float64 // g(u, u)
}

// TimelikeUnit returns the eigenvector of g with the most negative eigenvalue,
// scaled so that g(t, t) = −1.
func TimelikeUnit(g tensor.Sym4) tensor.Vec4 {
	d := eigen.Decompose(g, eigen.DefaultOptions())
	k := 0
	for i := 1; i < tensor.Dim; i++ {
		if d.Values[i] < d.Values[k] {
			k = i
		}
	}
	e := d.Vectors.Column(k)
	t := e.Scale(1 / math.Sqrt(math.Max(1e-30, -d.Values[k])))
	// Future-directed: positive coordinate-time component.
	if t[0] < 0 {
		t = t.Scale(-1)
	}
	return t
}

// TimeDilation splits u into the time axis of g and a g-orthogonal spatial
// part. For g(u,u) = −1 the identity Gamma = 1/√(1−Speed²) holds.
func TimeDilation(g tensor.Sym4, u tensor.Vec4) DilationReport {
	gm := g.Mat()
	t := TimelikeUnit(g)

	r := DilationReport{Norm: tensor.QuadForm(gm, u)}
	r.Gamma = -tensor.Bilinear(gm, u, t)

	w := u.Sub(t.Scale(r.Gamma))
	v2 := tensor.QuadForm(gm, w) / math.Max(1e-30, r.Gamma*r.Gamma)
	r.Speed = math.Sqrt(math.Max(0, v2))
	return r
}
