package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/registry"
	"github.com/san-kum/lorentz/internal/telemetry"
	"github.com/san-kum/lorentz/internal/tensor"
)

var (
	configFile  string
	preset      string
	fieldName   string
	logLevel    string
	showMetrics bool
	// Overrides applied on top of config and preset.
	dtau    float64
	steps   int
	fdStep  float64
	workers int
	// Geodesic start
	x0Flag string
	u0Flag string
	// Deviation
	perturbation float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lorentz",
		Short:         "lorentzian geometry diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration for the selected field")
	pf.StringVar(&fieldName, "field", "", "metric field (see 'lorentz fields')")
	pf.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&showMetrics, "metrics", false, "print pipeline counters after the command")
	pf.Float64Var(&fdStep, "h", 0, "finite-difference step (0 keeps the configured value)")

	curvatureCmd := &cobra.Command{
		Use:   "curvature [t x y z]",
		Short: "curvature report at a point",
		Args:  cobra.MaximumNArgs(4),
		RunE:  runCurvature,
	}

	geodesicCmd := &cobra.Command{
		Use:   "geodesic",
		Short: "integrate a timelike geodesic",
		RunE:  runGeodesic,
	}
	geodesicCmd.Flags().Float64Var(&dtau, "dtau", 0, "proper-time step (0 keeps the configured value)")
	geodesicCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 keeps the configured value)")
	geodesicCmd.Flags().StringVar(&x0Flag, "x0", "", "start position t,x,y,z")
	geodesicCmd.Flags().StringVar(&u0Flag, "u0", "", "start velocity t,x,y,z (renormalised)")

	deviationCmd := &cobra.Command{
		Use:   "deviation",
		Short: "growth rate of nearby geodesics along each spatial axis",
		RunE:  runDeviation,
	}
	deviationCmd.Flags().Float64Var(&dtau, "dtau", 0, "proper-time step (0 keeps the configured value)")
	deviationCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 keeps the configured value)")
	deviationCmd.Flags().StringVar(&x0Flag, "x0", "", "start position t,x,y,z")
	deviationCmd.Flags().StringVar(&u0Flag, "u0", "", "start velocity t,x,y,z (renormalised)")
	deviationCmd.Flags().Float64Var(&perturbation, "eps", 1e-6, "initial displacement")

	tetradCmd := &cobra.Command{
		Use:   "tetrad [t x y z]",
		Short: "orthonormal frame and positive-definite proxy at a point",
		Args:  cobra.MaximumNArgs(4),
		RunE:  runTetrad,
	}

	signatureCmd := &cobra.Command{
		Use:   "signature m00 m01 ... m33",
		Short: "inertia and Lorentzian projection of a 4x4 matrix (symmetrised)",
		Args:  cobra.ExactArgs(16),
		RunE:  runSignature,
	}

	sliceCmd := &cobra.Command{
		Use:   "slice",
		Short: "sample curvature over a 2D slice",
		RunE:  runSlice,
	}
	sliceCmd.Flags().IntVar(&workers, "workers", 0, "parallel rows (0 uses GOMAXPROCS)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive geodesic view",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dtau, "dtau", 0, "proper-time step (0 keeps the configured value)")
	liveCmd.Flags().StringVar(&x0Flag, "x0", "", "start position t,x,y,z")
	liveCmd.Flags().StringVar(&u0Flag, "u0", "", "start velocity t,x,y,z (renormalised)")

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "list metric fields and potentials",
		Run: func(cmd *cobra.Command, args []string) {
			reg := registry.NewRegistry()
			fmt.Printf("fields:     %s\n", strings.Join(reg.ListFields(), ", "))
			fmt.Printf("potentials: %s\n", strings.Join(reg.ListPotentials(), ", "))
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [field]",
		Short: "list available presets for a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for field: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(curvatureCmd, geodesicCmd, deviationCmd, tetradCmd, signatureCmd, sliceCmd, liveCmd, fieldsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig layers defaults, preset, config file and flags, in that order.
// The file is read over the preset, so it only needs the keys it changes.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if fieldName != "" {
		cfg.Field = fieldName
	}

	if preset != "" {
		p := config.GetPreset(cfg.Field, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, cfg.Field, config.ListPresets(cfg.Field))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if fieldName != "" {
			cfg.Field = fieldName
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dtau") {
		cfg.Constants.Dtau = dtau
	}
	if flags.Changed("steps") {
		cfg.Geodesic.Steps = steps
	}
	if flags.Changed("h") {
		cfg.Constants.FDStep = fdStep
	}
	if flags.Changed("workers") {
		cfg.Grid.Workers = workers
	}
	if x0Flag != "" {
		v, err := parseVec(x0Flag)
		if err != nil {
			return nil, fmt.Errorf("--x0: %w", err)
		}
		cfg.Geodesic.X0 = v
	}
	if u0Flag != "" {
		v, err := parseVec(u0Flag)
		if err != nil {
			return nil, fmt.Errorf("--u0: %w", err)
		}
		cfg.Geodesic.U0 = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildField(cfg *config.Config) (field.MetricField, field.Potential, error) {
	reg := registry.NewRegistry()
	f, err := reg.Field(cfg.Field, cfg.FieldParams)
	if err != nil {
		return nil, nil, err
	}
	p, err := reg.Potential(cfg.Potential, cfg.PotentialParams)
	if err != nil {
		return nil, nil, err
	}
	return f, p, nil
}

// newMetrics returns nil unless --metrics is set.
func newMetrics() (*telemetry.Metrics, *prometheus.Registry) {
	if !showMetrics {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	return telemetry.New(reg), reg
}

func printMetrics(reg *prometheus.Registry) error {
	if reg == nil {
		return nil
	}
	samples, err := telemetry.Summary(reg)
	if err != nil {
		return err
	}
	fmt.Println("\ncounters:")
	for _, s := range samples {
		name := s.Name
		if s.Labels != "" {
			name += "{" + s.Labels + "}"
		}
		if s.Sum != 0 {
			fmt.Printf("  %-60s %g (%.3gs total)\n", name, s.Value, s.Sum)
			continue
		}
		fmt.Printf("  %-60s %g\n", name, s.Value)
	}
	return nil
}

// parseVec reads "t,x,y,z".
func parseVec(s string) ([4]float64, error) {
	var v [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return v, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// pointArg reads an optional t x y z from positional args.
func pointArg(args []string) (tensor.Vec4, error) {
	var x tensor.Vec4
	if len(args) == 0 {
		return x, nil
	}
	if len(args) != 4 {
		return x, fmt.Errorf("expected t x y z, got %d values", len(args))
	}
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return x, err
		}
		x[i] = f
	}
	return x, nil
}

func parseMatrix(args []string) (tensor.Mat4, error) {
	var m tensor.Mat4
	if len(args) != 16 {
		return m, fmt.Errorf("expected 16 values, got %d", len(args))
	}
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return m, err
		}
		m[i/4][i%4] = f
	}
	return m, nil
}
