package geodesic

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/telemetry"
	"github.com/san-kum/lorentz/internal/tensor"
)

// State is a point on a trajectory. It is owned by the caller and mutated in
// place by Stepper.Step.
type State struct {
	X   tensor.Vec4
	U   tensor.Vec4
	Tau float64
}

func (s State) IsFinite() bool {
	return s.X.IsFinite() && s.U.IsFinite()
}

// Scheme names accepted by ParseScheme.
const (
	SchemeVerlet = "verlet"
	SchemeRK4    = "rk4"
)

// ParseScheme resolves an integrator name. "rk4" is kept for older
// configurations and runs the Verlet step.
func ParseScheme(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", SchemeVerlet, SchemeRK4:
		return SchemeVerlet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

// Stepper binds a field and optional potential to the Verlet step.
type Stepper struct {
	Field     field.MetricField
	Potential field.Potential
	FDStep    float64

	Logger  *slog.Logger
	Metrics *telemetry.Metrics
}

func NewStepper(f field.MetricField, pot field.Potential) *Stepper {
	return &Stepper{Field: f, Potential: pot}
}

func (s *Stepper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Step advances st by dtau and returns the step report.
func (s *Stepper) Step(st *State, dtau float64) StepReport {
	start := time.Now()
	x, u, rep := Step(s.Field, s.Potential, st.X, st.U, dtau, s.FDStep)
	st.X, st.U = x, u
	st.Tau += dtau

	s.Metrics.Inversion(rep.InvOK)
	s.Metrics.Renormalization(rep.Renormalized)
	s.Metrics.ObserveSince(telemetry.KindStep, start)

	if !rep.InvOK {
		s.logger().Warn("metric inversion failed during step", "tau", st.Tau, "x", st.X)
	}
	if !rep.Renormalized {
		s.logger().Debug("velocity not timelike, renormalisation skipped", "tau", st.Tau, "norm", rep.Norm)
	}
	return rep
}
