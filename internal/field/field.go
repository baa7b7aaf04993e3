// Package field defines the metric-field and potential capabilities the
// geometry pipeline consumes, plus a few concrete variants.
//
// The pipeline depends only on [MetricField] and [Potential]; new variants
// (learned, perturbed, analytic) plug in without touching it. Plain functions
// satisfy both through [MetricFunc] and [PotentialFunc].
package field

import (
	"math"

	"github.com/san-kum/lorentz/internal/metric"
	"github.com/san-kum/lorentz/internal/tensor"
)

// MetricField returns the metric g_{μν} at a spacetime position. It must be
// finite in a neighbourhood of every query point wide enough for central
// differencing.
type MetricField interface {
	Metric(x tensor.Vec4) tensor.Sym4
}

// Potential is a scalar potential V(x).
type Potential interface {
	Value(x tensor.Vec4) float64
}

type MetricFunc func(x tensor.Vec4) tensor.Sym4

func (f MetricFunc) Metric(x tensor.Vec4) tensor.Sym4 { return f(x) }

type PotentialFunc func(x tensor.Vec4) float64

func (f PotentialFunc) Value(x tensor.Vec4) float64 { return f(x) }

// Minkowski is flat spacetime, η everywhere.
type Minkowski struct{}

func (Minkowski) Metric(tensor.Vec4) tensor.Sym4 { return tensor.Minkowski() }

// GaussianBump perturbs η by Amplitude·exp(−r²/Width²)·diag(−1,1,1,1), with r
// measured over all four coordinates, then projects back to Lorentzian.
type GaussianBump struct {
	Amplitude float64
	Width     float64
}

func NewGaussianBump(amplitude, width float64) *GaussianBump {
	if width <= 0 {
		width = 1
	}
	return &GaussianBump{Amplitude: amplitude, Width: width}
}

func (b *GaussianBump) Metric(x tensor.Vec4) tensor.Sym4 {
	s := b.Amplitude * math.Exp(-x.Dot(x)/(b.Width*b.Width))
	g := tensor.Minkowski().AddDiag(tensor.NewVec4(-s, s, s, s))
	out, _ := metric.ProjectSignature(g, 0)
	return out
}

// Schwarzschild is the exterior of a point mass in isotropic Cartesian
// coordinates:
//
//	ds² = −((1−M/2r)/(1+M/2r))² dt² + (1+M/2r)⁴ (dx² + dy² + dz²)
//
// It is singular at r = 0 and degenerate on the horizon r = M/2.
type Schwarzschild struct {
	Mass float64
}

func NewSchwarzschild(mass float64) *Schwarzschild {
	return &Schwarzschild{Mass: mass}
}

func (s *Schwarzschild) Metric(x tensor.Vec4) tensor.Sym4 {
	r := math.Sqrt(x[1]*x[1] + x[2]*x[2] + x[3]*x[3])
	k := s.Mass / (2 * r)
	lapse := (1 - k) / (1 + k)
	psi := math.Pow(1+k, 4)
	return tensor.SymDiag(-lapse*lapse, psi, psi, psi)
}

// Conformal is g = exp(2φ(x))·η.
type Conformal struct {
	Phi func(x tensor.Vec4) float64
}

func (c Conformal) Metric(x tensor.Vec4) tensor.Sym4 {
	return tensor.Minkowski().Scale(math.Exp(2 * c.Phi(x)))
}

// ZeroPotential gives pure geodesic motion.
type ZeroPotential struct{}

func (ZeroPotential) Value(tensor.Vec4) float64 { return 0 }

// Radial is V = ½·K·(x² + y² + z²); it ignores t.
type Radial struct {
	K float64
}

func (r Radial) Value(x tensor.Vec4) float64 {
	return 0.5 * r.K * (x[1]*x[1] + x[2]*x[2] + x[3]*x[3])
}
