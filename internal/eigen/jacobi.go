// Package eigen diagonalises symmetric 4x4 matrices with Jacobi rotations.
//
// The solver is deterministic: for identical input it applies the same
// rotations in the same order. It never fails; when the rotation budget runs
// out it returns the best decomposition so far with Converged == false.
package eigen

import (
	"math"

	"github.com/san-kum/lorentz/internal/tensor"
)

const (
	DefaultMaxSweeps = 64
	DefaultTol       = 1e-14
)

// Options bounds the Jacobi iteration. Each sweep applies one rotation to the
// largest remaining off-diagonal entry.
type Options struct {
	MaxSweeps int
	Tol       float64
}

func DefaultOptions() Options {
	return Options{MaxSweeps: DefaultMaxSweeps, Tol: DefaultTol}
}

// Decomposition holds A ≈ Q·diag(λ)·Qᵀ. Vectors and Values are only valid as a pair.
type Decomposition struct {
	Vectors   tensor.Mat4 // eigenvectors as columns
	Values    tensor.Vec4
	Rotations int
	OffDiag   float64 // largest |off-diagonal| left when iteration stopped
	Converged bool
}

// Decompose runs cyclic Jacobi on s. Zero-valued option fields fall back to
// the defaults. Convergence is judged against Tol scaled by max(1, ‖S‖_F).
func Decompose(s tensor.Sym4, opts Options) Decomposition {
	if opts.MaxSweeps <= 0 {
		opts.MaxSweeps = DefaultMaxSweeps
	}
	if opts.Tol <= 0 {
		opts.Tol = DefaultTol
	}

	a := s.Mat()
	q := tensor.Identity()
	thresh := opts.Tol * math.Max(1, a.Frobenius())

	d := Decomposition{}
	for sweep := 0; sweep < opts.MaxSweeps; sweep++ {
		p, r, off := maxOffDiag(a)
		d.OffDiag = off
		if off <= thresh {
			d.Converged = true
			break
		}
		rotate(&a, &q, p, r)
		d.Rotations++
	}
	if !d.Converged {
		_, _, d.OffDiag = maxOffDiag(a)
		d.Converged = d.OffDiag <= thresh
	}

	d.Vectors = q
	for i := 0; i < tensor.Dim; i++ {
		d.Values[i] = a[i][i]
	}
	return d
}

// maxOffDiag scans the upper triangle row by row; the first maximum wins.
func maxOffDiag(a tensor.Mat4) (p, q int, val float64) {
	p, q = 0, 1
	val = math.Abs(a[0][1])
	for i := 0; i < tensor.Dim; i++ {
		for j := i + 1; j < tensor.Dim; j++ {
			if v := math.Abs(a[i][j]); v > val {
				val, p, q = v, i, j
			}
		}
	}
	return p, q, val
}

// rotate zeroes a[p][q] (p < q) and accumulates the rotation into v.
func rotate(a, v *tensor.Mat4, p, q int) {
	app, aqq, apq := a[p][p], a[q][q], a[p][q]
	if apq == 0 {
		return
	}

	theta := (aqq - app) / (2 * apq)
	t := math.Copysign(1/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	a[p][p] = app - t*apq
	a[q][q] = aqq + t*apq
	a[p][q], a[q][p] = 0, 0

	for k := 0; k < tensor.Dim; k++ {
		if k == p || k == q {
			continue
		}
		akp, akq := a[k][p], a[k][q]
		a[k][p] = c*akp - s*akq
		a[p][k] = a[k][p]
		a[k][q] = s*akp + c*akq
		a[q][k] = a[k][q]
	}

	for k := 0; k < tensor.Dim; k++ {
		vkp, vkq := v[k][p], v[k][q]
		v[k][p] = c*vkp - s*vkq
		v[k][q] = s*vkp + c*vkq
	}
}

// Reconstruct returns Q·diag(λ)·Qᵀ.
func (d Decomposition) Reconstruct() tensor.Mat4 {
	return d.Vectors.Mul(tensor.DiagVec(d.Values)).Mul(d.Vectors.Transpose())
}

// Residual is ‖Q·diag(λ)·Qᵀ − S‖_F.
func (d Decomposition) Residual(s tensor.Sym4) float64 {
	return d.Reconstruct().Sub(s.Mat()).Frobenius()
}

// Orthogonality is ‖QᵀQ − I‖_F.
func (d Decomposition) Orthogonality() float64 {
	return d.Vectors.Transpose().Mul(d.Vectors).Sub(tensor.Identity()).Frobenius()
}
