// Package telemetry exposes Prometheus counters for the geometry pipeline.
//
// Every method is safe on a nil *Metrics so library code can record
// unconditionally.
package telemetry

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lorentz"

// Evaluation kinds used as the "kind" label.
const (
	KindStep      = "geodesic_step"
	KindCurvature = "curvature"
	KindSample    = "grid_sample"
)

type Metrics struct {
	inversions      *prometheus.CounterVec
	signatureWarns  prometheus.Counter
	renormalized    *prometheus.CounterVec
	pointEvaluation *prometheus.HistogramVec
}

// New registers the pipeline metrics on reg. A nil reg registers on
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		inversions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metric_inversions_total",
			Help:      "Metric inversions by result (ok, singular)",
		}, []string{"result"}),
		signatureWarns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signature_warnings_total",
			Help:      "Signature projections that did not reach (1,3,0) inertia",
		}),
		renormalized: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renormalizations_total",
			Help:      "Timelike renormalisations by result (applied, skipped)",
		}, []string{"result"}),
		pointEvaluation: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "point_evaluation_seconds",
			Help:      "Wall time of a single point evaluation",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"kind"}),
	}
}

func (m *Metrics) Inversion(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.inversions.WithLabelValues("ok").Inc()
		return
	}
	m.inversions.WithLabelValues("singular").Inc()
}

func (m *Metrics) SignatureWarning() {
	if m == nil {
		return
	}
	m.signatureWarns.Inc()
}

func (m *Metrics) Renormalization(applied bool) {
	if m == nil {
		return
	}
	if applied {
		m.renormalized.WithLabelValues("applied").Inc()
		return
	}
	m.renormalized.WithLabelValues("skipped").Inc()
}

// ObserveSince records the time elapsed since start under kind.
func (m *Metrics) ObserveSince(kind string, start time.Time) {
	if m == nil {
		return
	}
	m.pointEvaluation.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Sample is one flattened series from a gathered registry.
type Sample struct {
	Name   string
	Labels string
	Value  float64 // counter value or histogram observation count
	Sum    float64 // histogram sum, zero for counters
}

// Summary gathers g and flattens the lorentz_* families into sorted samples.
func Summary(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, fam := range families {
		if !strings.HasPrefix(fam.GetName(), namespace+"_") {
			continue
		}
		for _, m := range fam.GetMetric() {
			var pairs []string
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			s := Sample{Name: fam.GetName(), Labels: strings.Join(pairs, ",")}
			switch {
			case m.GetCounter() != nil:
				s.Value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				s.Value = float64(m.GetHistogram().GetSampleCount())
				s.Sum = m.GetHistogram().GetSampleSum()
			default:
				continue
			}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}
