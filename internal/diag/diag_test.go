package diag_test

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/lorentz/internal/diag"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/telemetry"
	"github.com/san-kum/lorentz/internal/tensor"
	"github.com/stretchr/testify/require"
)

func coordSum(_ field.MetricField, x tensor.Vec4) float64 {
	return x[0] + 10*x[1] + 100*x[2] + 1000*x[3]
}

func TestPlaneLayout(t *testing.T) {
	tests := []struct {
		name  string
		plane diag.Plane
		i, j  int
		want  tensor.Vec4
	}{
		{"xy", diag.XY(1, 2, 0, 0, 0.5, 0.25, 4, 3), 2, 3, tensor.NewVec4(1, 1.5, 0.5, 2)},
		{"xz", diag.XZ(1, 2, -1, 0, 1, 1, 3, 3), 1, 2, tensor.NewVec4(1, 1, 2, 1)},
		{"ty", diag.TY(3, 4, 0, 0, 0.1, 1, 5, 2), 1, 4, tensor.NewVec4(0.4, 3, 1, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.plane.Point(tt.i, tt.j)
			require.InDeltaSlice(t, tt.want[:], got[:], 1e-12)
		})
	}
}

func TestSamplePlaneMatchesSerial(t *testing.T) {
	p := diag.XY(0, 0, -1, -1, 0.5, 0.5, 5, 7)
	g, err := diag.SamplePlane(context.Background(), field.Minkowski{}, p, coordSum, diag.Options{Workers: 3})
	require.NoError(t, err)
	require.Len(t, g.Values, 35)
	for i := 0; i < p.Nu; i++ {
		for j := 0; j < p.Nv; j++ {
			require.Equal(t, coordSum(nil, p.Point(i, j)), g.At(i, j))
		}
	}
	require.Len(t, g.RowMeans(), 7)
}

func TestSamplePlaneFlatCurvature(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.New(reg)
	p := diag.TY(0.5, 0, 0, -1, 1, 1, 3, 3)

	for _, fn := range []diag.ScalarFunc{diag.ScalarCurvature(0), diag.RiemannNorm(0)} {
		g, err := diag.SamplePlane(context.Background(), field.Minkowski{}, p, fn, diag.Options{Metrics: m})
		require.NoError(t, err)
		s := diag.Summarize(g)
		require.Zero(t, s.Min)
		require.Zero(t, s.Max)
		require.Zero(t, s.Mean)
	}

	samples, err := telemetry.Summary(reg)
	require.NoError(t, err)
	var observed float64
	for _, s := range samples {
		if s.Name == "lorentz_point_evaluation_seconds" && s.Labels == "kind="+telemetry.KindSample {
			observed = s.Value
		}
	}
	require.Equal(t, 18.0, observed)
}

func TestSamplePlaneErrors(t *testing.T) {
	ctx := context.Background()
	_, err := diag.SamplePlane(ctx, field.Minkowski{}, diag.XY(0, 0, 0, 0, 1, 1, 0, 3), coordSum, diag.Options{})
	require.ErrorIs(t, err, diag.ErrEmptyGrid)

	bad := diag.XY(0, 0, 0, 0, 1, 1, 2, 2)
	bad.AxisV = bad.AxisU
	_, err = diag.SamplePlane(ctx, field.Minkowski{}, bad, coordSum, diag.Options{})
	require.ErrorIs(t, err, diag.ErrBadAxes)
}

func TestSamplePlaneCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64
	fn := func(field.MetricField, tensor.Vec4) float64 {
		if calls.Add(1) == 3 {
			cancel()
		}
		return 0
	}
	g, err := diag.SamplePlane(ctx, field.Minkowski{}, diag.XY(0, 0, 0, 0, 1, 1, 50, 50), fn, diag.Options{Workers: 1})
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, g)
	require.Less(t, calls.Load(), int64(2500))
}

func TestSummarize(t *testing.T) {
	g := &diag.Grid{Plane: diag.Plane{Nu: 1, Nv: 5}, Values: []float64{1e16, 1, -1e16, 3, math.NaN()}}
	s := diag.Summarize(g)
	require.Equal(t, -1e16, s.Min)
	require.Equal(t, 1e16, s.Max)
	require.Equal(t, 1.0, s.Mean)
	require.Equal(t, 1, s.NaN)
}
