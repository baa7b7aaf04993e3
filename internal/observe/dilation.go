package observe

import (
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/geodesic"
	"github.com/san-kum/lorentz/internal/metric"
)

// Dilation averages the Lorentz factor of u against the local rest frame of
// the field. Each observation costs one eigen-decomposition.
type Dilation struct {
	name    string
	field   field.MetricField
	sum     float64
	samples int
}

func NewDilation(f field.MetricField) *Dilation {
	return &Dilation{name: "mean_gamma", field: f}
}

func (d *Dilation) Name() string { return d.name }

func (d *Dilation) Observe(s geodesic.State, _ geodesic.StepReport) {
	r := metric.TimeDilation(d.field.Metric(s.X), s.U)
	d.sum += r.Gamma
	d.samples++
}

func (d *Dilation) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *Dilation) Reset() {
	d.sum = 0
	d.samples = 0
}

// Standard returns the metrics attached to every CLI run.
func Standard(f field.MetricField) []geodesic.Metric {
	return []geodesic.Metric{
		NewNormDrift(),
		NewProperTime(),
		NewDilation(f),
		NewConditioning(),
	}
}
