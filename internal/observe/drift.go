package observe

import (
	"math"

	"github.com/san-kum/lorentz/internal/geodesic"
)

// NormDrift is the largest |g(u,u) + 1| seen before renormalisation. It
// measures how far a single Verlet step leaves the timelike shell.
type NormDrift struct {
	name     string
	maxDrift float64
}

func NewNormDrift() *NormDrift {
	return &NormDrift{name: "norm_drift"}
}

func (n *NormDrift) Name() string { return n.name }

func (n *NormDrift) Observe(_ geodesic.State, r geodesic.StepReport) {
	d := math.Abs(r.Norm + 1)
	if d > n.maxDrift || math.IsNaN(d) {
		n.maxDrift = d
	}
}

func (n *NormDrift) Value() float64 { return n.maxDrift }

func (n *NormDrift) Reset() { n.maxDrift = 0 }

// ProperTime is the elapsed proper time of the last observed state.
type ProperTime struct {
	name string
	tau  float64
}

func NewProperTime() *ProperTime {
	return &ProperTime{name: "proper_time"}
}

func (p *ProperTime) Name() string { return p.name }

func (p *ProperTime) Observe(s geodesic.State, _ geodesic.StepReport) { p.tau = s.Tau }

func (p *ProperTime) Value() float64 { return p.tau }

func (p *ProperTime) Reset() { p.tau = 0 }

// Conditioning is the worst metric condition estimate met along the run.
type Conditioning struct {
	name    string
	maxCond float64
}

func NewConditioning() *Conditioning {
	return &Conditioning{name: "max_condition"}
}

func (c *Conditioning) Name() string { return c.name }

func (c *Conditioning) Observe(_ geodesic.State, r geodesic.StepReport) {
	if r.Cond > c.maxCond {
		c.maxCond = r.Cond
	}
}

func (c *Conditioning) Value() float64 { return c.maxCond }

func (c *Conditioning) Reset() { c.maxCond = 0 }
