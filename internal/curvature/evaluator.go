package curvature

import (
	"github.com/san-kum/lorentz/internal/connection"
	"github.com/san-kum/lorentz/internal/deriv"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

// Report is everything computed for one point. Nothing in it is shared with
// other reports.
type Report struct {
	Pack      connection.Pack
	Gamma     connection.Gamma
	Riemann   Riemann
	Ricci     tensor.Mat4
	Scalar    float64
	Frobenius float64
	Einstein  tensor.Sym4
}

// Evaluator computes curvature with a fixed difference step. The zero value
// uses deriv.DefaultStep. An Evaluator holds no state between calls and is
// safe for concurrent use.
type Evaluator struct {
	Step float64
}

func NewEvaluator(step float64) *Evaluator {
	return &Evaluator{Step: step}
}

func (e *Evaluator) step() float64 {
	if e == nil || e.Step <= 0 {
		return deriv.DefaultStep
	}
	return e.Step
}

// At runs the full stack at x. When the metric at x cannot be inverted the
// scalar and Einstein tensor are built against a zero inverse; check
// Report.Pack.InvOK.
func (e *Evaluator) At(f field.MetricField, x tensor.Vec4) Report {
	h := e.step()
	pack, g, r := evaluate(f, x, h)
	ric := Ricci(&r)
	s := Scalar(pack.Inv, ric)
	return Report{
		Pack:      pack,
		Gamma:     g,
		Riemann:   r,
		Ricci:     ric,
		Scalar:    s,
		Frobenius: Frobenius(&r),
		Einstein:  Einstein(ric, pack.G, s),
	}
}

// ScalarAt returns only the scalar curvature at x.
func (e *Evaluator) ScalarAt(f field.MetricField, x tensor.Vec4) float64 {
	pack, _, r := evaluate(f, x, e.step())
	return Scalar(pack.Inv, Ricci(&r))
}

// FrobeniusAt returns ‖R‖_F at x.
func (e *Evaluator) FrobeniusAt(f field.MetricField, x tensor.Vec4) float64 {
	r := RiemannAt(f, x, e.step())
	return Frobenius(&r)
}
