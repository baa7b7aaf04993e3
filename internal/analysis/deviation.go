package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lorentz/internal/geodesic"
	"github.com/san-kum/lorentz/internal/tensor"
)

var ErrZeroPerturbation = errors.New("analysis: perturbation has zero length")

type DeviationOptions struct {
	Dtau  float64
	Steps int
	// Threshold is the separation above which the companion geodesic is
	// pulled back to the initial distance. Zero means 1.
	Threshold float64
}

type DeviationResult struct {
	Separations []float64 // coordinate separation after each step, before rescaling
	Exponent    float64   // mean log growth rate per unit proper time
	Rescales    int
}

// Deviation follows a reference geodesic from x0 and a companion started at
// x0.X + dx, and measures how fast they separate in coordinate space:
//
//	λ ≈ (1/τ) Σ ln(d_k / d0)
//
// where the sum runs over every rescale plus the final separation. The
// companion velocity is x0.U renormalised at its own starting point. A rescale
// shrinks both the position and the velocity deviation by d0/d, then puts the
// companion velocity back on the unit timelike shell.
func Deviation(ctx context.Context, s *geodesic.Stepper, x0 geodesic.State, dx tensor.Vec4, opts DeviationOptions) (DeviationResult, error) {
	var res DeviationResult
	if !(opts.Dtau > 0) || opts.Steps <= 0 {
		return res, fmt.Errorf("%w: dtau=%g steps=%d", geodesic.ErrInvalidConfig, opts.Dtau, opts.Steps)
	}
	d0 := dx.Norm()
	if d0 == 0 {
		return res, ErrZeroPerturbation
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 1
	}

	ref := x0
	comp := x0
	comp.X = x0.X.Add(dx)
	comp.U, _ = geodesic.RenormalizeTimelike(s.Field.Metric(comp.X), x0.U)

	res.Separations = make([]float64, 0, opts.Steps)
	sumLog := 0.0
	sep := d0
	for i := 0; i < opts.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s.Step(&ref, opts.Dtau)
		s.Step(&comp, opts.Dtau)

		sep = comp.X.Sub(ref.X).Norm()
		res.Separations = append(res.Separations, sep)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return res, &geodesic.StepError{Step: i, Tau: ref.Tau, Err: geodesic.ErrNonFinite}
		}

		if sep > threshold {
			sumLog += math.Log(sep / d0)
			k := d0 / sep
			comp.X = ref.X.Add(comp.X.Sub(ref.X).Scale(k))
			comp.U, _ = geodesic.RenormalizeTimelike(s.Field.Metric(comp.X), ref.U.Add(comp.U.Sub(ref.U).Scale(k)))
			sep = d0
			res.Rescales++
		}
	}
	if sep > 0 {
		sumLog += math.Log(sep / d0)
	}
	res.Exponent = sumLog / (float64(opts.Steps) * opts.Dtau)
	return res, nil
}

// DeviationSpectrum runs Deviation once per spatial axis with a displacement
// of size eps along it.
func DeviationSpectrum(ctx context.Context, s *geodesic.Stepper, x0 geodesic.State, eps float64, opts DeviationOptions) ([3]float64, error) {
	var out [3]float64
	for i := range out {
		r, err := Deviation(ctx, s, x0, tensor.Axis(i+1).Scale(eps), opts)
		if err != nil {
			return out, fmt.Errorf("axis %d: %w", i+1, err)
		}
		out[i] = r.Exponent
	}
	return out, nil
}
