package geodesic

import (
	"context"
	"fmt"
	"math"
)

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s State, r StepReport)
	Value() float64
	Reset()
}

// Observer is notified after every accepted step.
type Observer interface {
	OnStep(s State, r StepReport)
}

type Config struct {
	Dtau          float64
	Steps         int
	ValidateState bool
}

type Result struct {
	States  []State
	Reports []StepReport
	Metrics map[string]float64

	StepsTaken        int
	Renormalized      int
	Skipped           int
	InversionFailures int
	MaxNormDrift      float64 // max |g(u,u) + 1| before renormalisation
}

// Runner loops a Stepper to produce a trajectory.
type Runner struct {
	stepper   *Stepper
	metrics   []Metric
	observers []Observer
}

func NewRunner(s *Stepper) *Runner {
	return &Runner{stepper: s}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run integrates cfg.Steps steps from x0. On cancellation or a non-finite
// state the partial result is returned with the error.
func (r *Runner) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	res := &Result{
		States:  make([]State, 0, cfg.Steps+1),
		Reports: make([]StepReport, 0, cfg.Steps),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	st := x0
	res.States = append(res.States, st)

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		next := st
		rep := r.stepper.Step(&next, cfg.Dtau)

		if cfg.ValidateState && !next.IsFinite() {
			runErr = &StepError{Step: i, Tau: st.Tau, Err: ErrNonFinite}
			break
		}

		st = next
		res.StepsTaken++
		if rep.Renormalized {
			res.Renormalized++
		} else {
			res.Skipped++
		}
		if !rep.InvOK {
			res.InversionFailures++
		}
		res.MaxNormDrift = math.Max(res.MaxNormDrift, math.Abs(rep.Norm+1))

		res.States = append(res.States, st)
		res.Reports = append(res.Reports, rep)
		for _, m := range r.metrics {
			m.Observe(st, rep)
		}
		for _, o := range r.observers {
			o.OnStep(st, rep)
		}
	}

	for _, m := range r.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, runErr
}

func validateConfig(cfg Config) error {
	if !(cfg.Dtau > 0) || math.IsInf(cfg.Dtau, 0) {
		return fmt.Errorf("%w: dtau must be positive, got %g", ErrInvalidConfig, cfg.Dtau)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	return nil
}
