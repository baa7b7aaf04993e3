package diag

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lorentz/internal/curvature"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

var (
	ErrEmptyGrid = errors.New("diag: grid has no samples")
	ErrBadAxes   = errors.New("diag: plane axes must be distinct and in [0,3]")
)

// ScalarFunc reduces a field at one point to a number.
type ScalarFunc func(f field.MetricField, x tensor.Vec4) float64

// ScalarCurvature samples R with the given difference step.
func ScalarCurvature(step float64) ScalarFunc {
	ev := curvature.NewEvaluator(step)
	return ev.ScalarAt
}

// RiemannNorm samples ‖R‖_F with the given difference step.
func RiemannNorm(step float64) ScalarFunc {
	ev := curvature.NewEvaluator(step)
	return ev.FrobeniusAt
}

// Plane is a regular lattice over coordinates AxisU (rows) and AxisV
// (columns). The other two coordinates are taken from Fixed.
type Plane struct {
	AxisU, AxisV int
	Fixed        tensor.Vec4
	U0, V0       float64
	Du, Dv       float64
	Nu, Nv       int
}

func (p Plane) validate() error {
	if p.Nu <= 0 || p.Nv <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyGrid, p.Nu, p.Nv)
	}
	if p.AxisU == p.AxisV || p.AxisU < 0 || p.AxisV < 0 || p.AxisU >= tensor.Dim || p.AxisV >= tensor.Dim {
		return fmt.Errorf("%w: got (%d,%d)", ErrBadAxes, p.AxisU, p.AxisV)
	}
	return nil
}

// Point returns the spacetime position of cell (i, j).
func (p Plane) Point(i, j int) tensor.Vec4 {
	x := p.Fixed
	x[p.AxisU] = p.U0 + float64(i)*p.Du
	x[p.AxisV] = p.V0 + float64(j)*p.Dv
	return x
}

// XY is the (y rows, x columns) slice at fixed t0 and z0.
func XY(t0, z0, x0, y0, dx, dy float64, nx, ny int) Plane {
	return Plane{
		AxisU: 2, AxisV: 1,
		Fixed: tensor.NewVec4(t0, x0, y0, z0),
		U0:    y0, V0: x0, Du: dy, Dv: dx,
		Nu: ny, Nv: nx,
	}
}

// XZ is the (z rows, x columns) slice at fixed t0 and y0.
func XZ(t0, y0, x0, z0, dx, dz float64, nx, nz int) Plane {
	return Plane{
		AxisU: 3, AxisV: 1,
		Fixed: tensor.NewVec4(t0, x0, y0, z0),
		U0:    z0, V0: x0, Du: dz, Dv: dx,
		Nu: nz, Nv: nx,
	}
}

// TY is the (y rows, t columns) slice at fixed x0 and z0.
func TY(x0, z0, t0, y0, dt, dy float64, nt, ny int) Plane {
	return Plane{
		AxisU: 2, AxisV: 0,
		Fixed: tensor.NewVec4(t0, x0, y0, z0),
		U0:    y0, V0: t0, Du: dy, Dv: dt,
		Nu: ny, Nv: nt,
	}
}

// Grid holds sampled values in row-major order.
type Grid struct {
	Plane
	Values []float64
}

func (g *Grid) At(i, j int) float64 { return g.Values[i*g.Nv+j] }

// Row returns row i as a slice of Values.
func (g *Grid) Row(i int) []float64 { return g.Values[i*g.Nv : (i+1)*g.Nv] }

// RowMeans returns the mean of every row, skipping NaN cells.
func (g *Grid) RowMeans() []float64 {
	out := make([]float64, g.Nu)
	for i := range out {
		out[i] = summarize(g.Row(i)).Mean
	}
	return out
}

type Stats struct {
	Min, Max, Mean float64
	NaN            int
}

// Summarize computes min, max and a compensated mean over the finite cells.
func Summarize(g *Grid) Stats {
	return summarize(g.Values)
}

func summarize(vals []float64) Stats {
	var s Stats
	var sum, comp float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			s.NaN++
			continue
		}
		if n == 0 || v < s.Min {
			s.Min = v
		}
		if n == 0 || v > s.Max {
			s.Max = v
		}
		// Neumaier summation
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			comp += (sum - t) + v
		} else {
			comp += (v - t) + sum
		}
		sum = t
		n++
	}
	if n > 0 {
		s.Mean = (sum + comp) / float64(n)
	}
	return s
}
