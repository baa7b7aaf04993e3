package tensor

import "math"

// Dim is the manifold dimension. Every type in this package is fixed to it.
const Dim = 4

// Vec4 holds (t, x, y, z) components.
type Vec4 [Dim]float64

// Mat4 is a general 4x4 matrix, M[row][col].
type Mat4 [Dim][Dim]float64

func NewVec4(t, x, y, z float64) Vec4 {
	return Vec4{t, x, y, z}
}

// Axis returns the unit coordinate vector e_a.
func Axis(a int) Vec4 {
	var v Vec4
	v[a] = 1
	return v
}

func (v Vec4) Add(o Vec4) Vec4 {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

func (v Vec4) Sub(o Vec4) Vec4 {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

func (v Vec4) Scale(s float64) Vec4 {
	for i := range v {
		v[i] *= s
	}
	return v
}

// Dot is the Euclidean dot product of the raw components.
func (v Vec4) Dot(o Vec4) float64 {
	s := 0.0
	for i := range v {
		s += v[i] * o[i]
	}
	return s
}

// Norm is the Euclidean length of the raw components.
func (v Vec4) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec4) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func Identity() Mat4 {
	return Diag(1, 1, 1, 1)
}

func Diag(a0, a1, a2, a3 float64) Mat4 {
	var m Mat4
	m[0][0], m[1][1], m[2][2], m[3][3] = a0, a1, a2, a3
	return m
}

// DiagVec builds diag(v).
func DiagVec(v Vec4) Mat4 {
	return Diag(v[0], v[1], v[2], v[3])
}

func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			t[r][c] = m[c][r]
		}
	}
	return t
}

// Mul returns m·n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			s := 0.0
			for k := 0; k < Dim; k++ {
				s += m[r][k] * n[k][c]
			}
			out[r][c] = s
		}
	}
	return out
}

// MulVec returns m·v.
func (m Mat4) MulVec(v Vec4) Vec4 {
	var out Vec4
	for r := 0; r < Dim; r++ {
		s := 0.0
		for k := 0; k < Dim; k++ {
			s += m[r][k] * v[k]
		}
		out[r] = s
	}
	return out
}

func (m Mat4) Add(n Mat4) Mat4 {
	for r := range m {
		for c := range m[r] {
			m[r][c] += n[r][c]
		}
	}
	return m
}

func (m Mat4) Sub(n Mat4) Mat4 {
	for r := range m {
		for c := range m[r] {
			m[r][c] -= n[r][c]
		}
	}
	return m
}

func (m Mat4) Scale(s float64) Mat4 {
	for r := range m {
		for c := range m[r] {
			m[r][c] *= s
		}
	}
	return m
}

func (m Mat4) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2] + m[3][3]
}

// NormInf is the maximum absolute row sum.
func (m Mat4) NormInf() float64 {
	best := 0.0
	for r := 0; r < Dim; r++ {
		s := 0.0
		for c := 0; c < Dim; c++ {
			s += math.Abs(m[r][c])
		}
		if s > best {
			best = s
		}
	}
	return best
}

func (m Mat4) Frobenius() float64 {
	s := 0.0
	for r := range m {
		for c := range m[r] {
			s += m[r][c] * m[r][c]
		}
	}
	return math.Sqrt(s)
}

// Column returns column c as a vector.
func (m Mat4) Column(c int) Vec4 {
	return Vec4{m[0][c], m[1][c], m[2][c], m[3][c]}
}

// SwapColumns exchanges columns i and j.
func (m Mat4) SwapColumns(i, j int) Mat4 {
	for r := 0; r < Dim; r++ {
		m[r][i], m[r][j] = m[r][j], m[r][i]
	}
	return m
}

func (m Mat4) IsFinite() bool {
	for r := range m {
		if !Vec4(m[r]).IsFinite() {
			return false
		}
	}
	return true
}

// Sym4 is a symmetric 4x4 matrix. The only ways to obtain one are the
// constructors below, which enforce S == Sᵀ.
type Sym4 struct {
	m Mat4
}

// Symmetrize returns ½(M + Mᵀ).
func Symmetrize(m Mat4) Sym4 {
	var s Sym4
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			s.m[r][c] = 0.5 * (m[r][c] + m[c][r])
		}
	}
	return s
}

func SymDiag(a0, a1, a2, a3 float64) Sym4 {
	return Sym4{m: Diag(a0, a1, a2, a3)}
}

// Minkowski returns η = diag(-1, 1, 1, 1).
func Minkowski() Sym4 {
	return SymDiag(-1, 1, 1, 1)
}

// Mat returns a copy of the underlying matrix.
func (s Sym4) Mat() Mat4 { return s.m }

func (s Sym4) At(r, c int) float64 { return s.m[r][c] }

func (s Sym4) Add(o Sym4) Sym4 {
	return Sym4{m: s.m.Add(o.m)}
}

func (s Sym4) Scale(f float64) Sym4 {
	return Sym4{m: s.m.Scale(f)}
}

// AddDiag adds v to the diagonal; the result stays symmetric.
func (s Sym4) AddDiag(v Vec4) Sym4 {
	for i := 0; i < Dim; i++ {
		s.m[i][i] += v[i]
	}
	return s
}
