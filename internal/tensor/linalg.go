package tensor

import "math"

// DefaultPivotTol is the smallest pivot magnitude Inverse accepts.
const DefaultPivotTol = 1e-14

// Inversion is the outcome of Inverse. Inv is meaningful only when OK is true.
// A failed inversion reports Cond = +Inf.
type Inversion struct {
	Inv  Mat4
	Det  float64
	Cond float64 // ‖A‖∞·‖A⁻¹‖∞
	OK   bool
}

// Det computes the determinant by Gaussian elimination with partial pivoting.
func Det(a Mat4) float64 {
	sign := 1.0
	det := 1.0
	for k := 0; k < Dim; k++ {
		piv := k
		amax := math.Abs(a[k][k])
		for r := k + 1; r < Dim; r++ {
			if v := math.Abs(a[r][k]); v > amax {
				amax, piv = v, r
			}
		}
		if amax == 0 {
			return 0
		}
		if piv != k {
			a[piv], a[k] = a[k], a[piv]
			sign = -sign
		}
		akk := a[k][k]
		det *= akk
		for r := k + 1; r < Dim; r++ {
			f := a[r][k] / akk
			for c := k; c < Dim; c++ {
				a[r][c] -= f * a[k][c]
			}
		}
	}
	return det * sign
}

// Inverse runs Gauss-Jordan elimination with partial pivoting on [A | I].
// A tol <= 0 selects DefaultPivotTol. On a pivot below tol the returned
// Inversion has OK == false, a zero Inv and an infinite Cond.
func Inverse(a Mat4, tol float64) Inversion {
	if tol <= 0 {
		tol = DefaultPivotTol
	}

	var aug [Dim][2 * Dim]float64
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			aug[r][c] = a[r][c]
		}
		aug[r][Dim+r] = 1
	}

	sign := 1.0
	det := 1.0
	for k := 0; k < Dim; k++ {
		piv := k
		amax := math.Abs(aug[k][k])
		for r := k + 1; r < Dim; r++ {
			if v := math.Abs(aug[r][k]); v > amax {
				amax, piv = v, r
			}
		}
		if amax < tol {
			return Inversion{Cond: math.Inf(1)}
		}
		if piv != k {
			aug[piv], aug[k] = aug[k], aug[piv]
			sign = -sign
		}

		akk := aug[k][k]
		det *= akk
		inv := 1 / akk
		for c := range aug[k] {
			aug[k][c] *= inv
		}
		for r := k + 1; r < Dim; r++ {
			f := aug[r][k]
			if f == 0 {
				continue
			}
			for c := range aug[r] {
				aug[r][c] -= f * aug[k][c]
			}
		}
	}

	for k := Dim - 1; k >= 0; k-- {
		for r := 0; r < k; r++ {
			f := aug[r][k]
			if f == 0 {
				continue
			}
			for c := range aug[r] {
				aug[r][c] -= f * aug[k][c]
			}
		}
	}

	var out Inversion
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			out.Inv[r][c] = aug[r][Dim+c]
		}
	}
	out.Det = det * sign
	out.Cond = a.NormInf() * out.Inv.NormInf()
	out.OK = true
	return out
}

// QuadForm returns vᵀ g v.
func QuadForm(g Mat4, v Vec4) float64 {
	return Bilinear(g, v, v)
}

// Bilinear returns uᵀ g v.
func Bilinear(g Mat4, u, v Vec4) float64 {
	s := 0.0
	for r := 0; r < Dim; r++ {
		row := 0.0
		for c := 0; c < Dim; c++ {
			row += g[r][c] * v[c]
		}
		s += u[r] * row
	}
	return s
}

// Lower maps a contravariant vector to its covariant form, v_μ = g_{μν} v^ν.
func Lower(g Mat4, v Vec4) Vec4 {
	return g.MulVec(v)
}

// Raise maps a covariant vector to its contravariant form, v^μ = g^{μν} v_ν.
func Raise(gInv Mat4, v Vec4) Vec4 {
	return gInv.MulVec(v)
}
