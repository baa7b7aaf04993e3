package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lorentz/internal/analysis"
	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/curvature"
	"github.com/san-kum/lorentz/internal/diag"
	"github.com/san-kum/lorentz/internal/eigen"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/geodesic"
	"github.com/san-kum/lorentz/internal/metric"
	"github.com/san-kum/lorentz/internal/observe"
	"github.com/san-kum/lorentz/internal/telemetry"
	"github.com/san-kum/lorentz/internal/tensor"
	"github.com/san-kum/lorentz/internal/viz"
)

func printMatrix(w *tabwriter.Writer, name string, m tensor.Mat4) {
	for i, row := range m {
		label := ""
		if i == 0 {
			label = name
		}
		fmt.Fprintf(w, "%s\t% .6e\t% .6e\t% .6e\t% .6e\n", label, row[0], row[1], row[2], row[3])
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runCurvature(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, _, err := buildField(cfg)
	if err != nil {
		return err
	}
	x, err := pointArg(args)
	if err != nil {
		return err
	}
	m, reg := newMetrics()

	start := time.Now()
	rep := curvature.NewEvaluator(cfg.Constants.FDStep).At(f, x)
	m.ObserveSince(telemetry.KindCurvature, start)
	m.Inversion(rep.Pack.InvOK)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "field\t%s\n", cfg.Field)
	fmt.Fprintf(w, "point\t%v\n", x)
	fmt.Fprintf(w, "det g\t%.6e\n", rep.Pack.Det)
	fmt.Fprintf(w, "cond\t%.3e\n", rep.Pack.Cond)
	fmt.Fprintf(w, "inverse ok\t%v\n", rep.Pack.InvOK)
	fmt.Fprintf(w, "scalar R\t%.9e\n", rep.Scalar)
	fmt.Fprintf(w, "|Riemann|_F\t%.9e\n", rep.Frobenius)
	fmt.Fprintln(w)
	printMatrix(w, "g", rep.Pack.G.Mat())
	printMatrix(w, "Ricci", rep.Ricci)
	printMatrix(w, "Einstein", rep.Einstein.Mat())
	if err := w.Flush(); err != nil {
		return err
	}
	if !rep.Pack.InvOK {
		fmt.Println("\nwarning: metric is singular here, curvature values are not meaningful")
	}
	return printMetrics(reg)
}

// startState builds the initial state from cfg, renormalising u0 against the
// metric at x0.
func startState(cfg *config.Config, f field.MetricField) (geodesic.State, error) {
	x0, u0 := cfg.Geodesic.Start()
	u, ok := geodesic.RenormalizeTimelike(f.Metric(x0), u0)
	if !ok {
		return geodesic.State{}, fmt.Errorf("u0 %v is not timelike at x0 %v", u0, x0)
	}
	return geodesic.State{X: x0, U: u}, nil
}

func newStepper(cfg *config.Config, f field.MetricField, p field.Potential, m *telemetry.Metrics) (*geodesic.Stepper, error) {
	if _, err := geodesic.ParseScheme(cfg.Geodesic.Scheme); err != nil {
		return nil, err
	}
	s := geodesic.NewStepper(f, p)
	s.FDStep = cfg.Constants.FDStep
	s.Metrics = m
	return s, nil
}

func runGeodesic(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, p, err := buildField(cfg)
	if err != nil {
		return err
	}
	st, err := startState(cfg, f)
	if err != nil {
		return err
	}
	m, reg := newMetrics()
	stepper, err := newStepper(cfg, f, p, m)
	if err != nil {
		return err
	}

	runner := geodesic.NewRunner(stepper)
	for _, metricObs := range observe.Standard(f) {
		runner.AddMetric(metricObs)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("integrating %d steps of dτ=%g in %s...\n", cfg.Geodesic.Steps, cfg.Constants.Dtau, cfg.Field)
	start := time.Now()
	res, err := runner.Run(ctx, st, geodesic.Config{
		Dtau:          cfg.Constants.Dtau,
		Steps:         cfg.Geodesic.Steps,
		ValidateState: cfg.Geodesic.Validate,
	})
	if res == nil {
		return err
	}
	elapsed := time.Since(start)

	residual := make([]float64, len(res.Reports))
	for i, r := range res.Reports {
		residual[i] = r.Norm + 1
	}
	xs := make([]float64, len(res.States))
	for i, s := range res.States {
		xs[i] = s.X[1]
	}
	if len(residual) > 1 {
		fmt.Println(asciigraph.Plot(residual, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("g(u,u)+1 before renormalisation")))
		fmt.Println()
	}
	if len(xs) > 1 {
		fmt.Println(asciigraph.Plot(xs, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("x(τ)")))
		fmt.Println()
	}

	last := res.States[len(res.States)-1]
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "completed\t%v\n", elapsed)
	fmt.Fprintf(w, "steps\t%d\n", res.StepsTaken)
	fmt.Fprintf(w, "renormalised\t%d\n", res.Renormalized)
	fmt.Fprintf(w, "skipped\t%d\n", res.Skipped)
	fmt.Fprintf(w, "inversion failures\t%d\n", res.InversionFailures)
	fmt.Fprintf(w, "final x\t%v\n", last.X)
	fmt.Fprintf(w, "final u\t%v\n", last.U)
	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range []string{"proper_time", "norm_drift", "mean_gamma", "max_condition"} {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, res.Metrics[name])
	}
	if werr := w.Flush(); werr != nil {
		return werr
	}
	if perr := printMetrics(reg); perr != nil {
		return perr
	}
	return err
}

func runDeviation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, p, err := buildField(cfg)
	if err != nil {
		return err
	}
	st, err := startState(cfg, f)
	if err != nil {
		return err
	}
	m, reg := newMetrics()
	stepper, err := newStepper(cfg, f, p, m)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	spectrum, err := analysis.DeviationSpectrum(ctx, stepper, st, perturbation, analysis.DeviationOptions{
		Dtau:  cfg.Constants.Dtau,
		Steps: cfg.Geodesic.Steps,
	})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, axis := range []string{"x", "y", "z"} {
		fmt.Fprintf(w, "λ_%s\t% .6e\n", axis, spectrum[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return printMetrics(reg)
}

func runTetrad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, _, err := buildField(cfg)
	if err != nil {
		return err
	}
	x, err := pointArg(args)
	if err != nil {
		return err
	}

	g := f.Metric(x)
	tet := metric.BuildTetrad(g, cfg.Constants.MetricEps)
	sq := metric.SquareProxy(g)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	printMatrix(w, "g", g.Mat())
	printMatrix(w, "E", tet.E)
	printMatrix(w, "E·Eᵀ", tet.Proxy)
	printMatrix(w, "g²", sq.Mat())
	fmt.Fprintf(w, "residual\t%.3e\n", tet.Residual)
	fmt.Fprintf(w, "E·Eᵀ positive definite\t%v\n", metric.IsPositiveDefinite(tensor.Symmetrize(tet.Proxy), 0))
	fmt.Fprintf(w, "g² positive definite\t%v\n", metric.IsPositiveDefinite(sq, 0))
	return w.Flush()
}

func runSignature(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := parseMatrix(args)
	if err != nil {
		return err
	}
	m, reg := newMetrics()

	g := tensor.Symmetrize(a)
	d := eigen.Decompose(g, cfg.Eigen.Options())
	before := metric.ValidateSignature(g, 0)
	proj, rep := metric.ProjectSignature(g, 0)
	if rep.Warning {
		m.SignatureWarning()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "eigenvalues\t%v\n", d.Values)
	fmt.Fprintf(w, "converged\t%v (%d rotations, off-diagonal %.2e)\n", d.Converged, d.Rotations, d.OffDiag)
	fmt.Fprintf(w, "reconstruction\t%.3e\n", d.Residual(g))
	fmt.Fprintf(w, "inertia\t%s\n", before)
	fmt.Fprintf(w, "lorentzian\t%v\n", before.Lorentzian())
	fmt.Fprintf(w, "projected inertia\t%s\n", rep.After)
	printMatrix(w, "projected", proj.Mat())
	if err := w.Flush(); err != nil {
		return err
	}
	return printMetrics(reg)
}

func planeFor(cfg *config.Config) diag.Plane {
	gc := cfg.Grid
	fx := gc.Fixed
	switch strings.ToLower(gc.Plane) {
	case "xz":
		return diag.XZ(fx[0], fx[2], gc.Origin[0], gc.Origin[1], gc.Spacing[0], gc.Spacing[1], gc.Size[0], gc.Size[1])
	case "ty":
		return diag.TY(fx[1], fx[3], gc.Origin[0], gc.Origin[1], gc.Spacing[0], gc.Spacing[1], gc.Size[0], gc.Size[1])
	default:
		return diag.XY(fx[0], fx[3], gc.Origin[0], gc.Origin[1], gc.Spacing[0], gc.Spacing[1], gc.Size[0], gc.Size[1])
	}
}

func runSlice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, _, err := buildField(cfg)
	if err != nil {
		return err
	}
	m, reg := newMetrics()

	fn := diag.ScalarCurvature(cfg.Constants.FDStep)
	if cfg.Grid.Quantity == "riemann" {
		fn = diag.RiemannNorm(cfg.Constants.FDStep)
	}

	ctx, cancel := signalContext()
	defer cancel()

	plane := planeFor(cfg)
	start := time.Now()
	g, err := diag.SamplePlane(ctx, f, plane, fn, diag.Options{Workers: cfg.Grid.Workers, Metrics: m})
	if err != nil {
		return err
	}
	s := diag.Summarize(g)

	means := g.RowMeans()
	if len(means) > 1 {
		fmt.Println(asciigraph.Plot(means, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption(cfg.Grid.Quantity+" row means")))
		fmt.Println()
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "plane\t%s (%dx%d)\n", cfg.Grid.Plane, plane.Nu, plane.Nv)
	fmt.Fprintf(w, "elapsed\t%v\n", time.Since(start))
	fmt.Fprintf(w, "min\t% .6e\n", s.Min)
	fmt.Fprintf(w, "max\t% .6e\n", s.Max)
	fmt.Fprintf(w, "mean\t% .6e\n", s.Mean)
	if s.NaN > 0 {
		fmt.Fprintf(w, "nan cells\t%d\n", s.NaN)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return printMetrics(reg)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, p, err := buildField(cfg)
	if err != nil {
		return err
	}
	st, err := startState(cfg, f)
	if err != nil {
		return err
	}
	stepper, err := newStepper(cfg, f, p, nil)
	if err != nil {
		return err
	}
	// The alternate screen owns the terminal; keep step warnings off it.
	stepper.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	model := viz.NewModel(cfg.Field, stepper, st, cfg.Constants.Dtau)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
