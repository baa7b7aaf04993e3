package metric_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/lorentz/internal/metric"
	"github.com/san-kum/lorentz/internal/tensor"
	"github.com/stretchr/testify/require"
)

func randomMat(rng *rand.Rand) tensor.Mat4 {
	var m tensor.Mat4
	for r := 0; r < tensor.Dim; r++ {
		for c := 0; c < tensor.Dim; c++ {
			m[r][c] = rng.Float64()*2 - 1
		}
	}
	return m
}

func TestValidateSignature(t *testing.T) {
	tests := []struct {
		name string
		g    tensor.Sym4
		want metric.Inertia
	}{
		{"minkowski", tensor.Minkowski(), metric.Inertia{Negative: 1, Positive: 3}},
		{"euclidean", tensor.SymDiag(1, 1, 1, 1), metric.Inertia{Positive: 4}},
		{"degenerate", tensor.SymDiag(-1, 1, 1, 0), metric.Inertia{Negative: 1, Positive: 2, Zero: 1}},
		{"two time", tensor.SymDiag(-1, -2, 1, 1), metric.Inertia{Negative: 2, Positive: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, metric.ValidateSignature(tt.g, 0))
		})
	}
}

func TestFromFrameIsLorentzian(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 30; i++ {
		a := randomMat(rng).Add(tensor.Identity().Scale(3))
		in := metric.ValidateSignature(metric.FromFrame(a), 0)
		require.True(t, in.Lorentzian(), in.String())
	}
}

func TestProjectSignature(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 100; i++ {
		g := tensor.Symmetrize(randomMat(rng))
		out, p := metric.ProjectSignature(g, 0)
		require.False(t, p.Warning)
		require.True(t, p.After.Lorentzian(), p.After.String())
		require.Equal(t, out.Mat(), out.Mat().Transpose())
	}
}

func TestProjectSignatureCases(t *testing.T) {
	t.Run("already lorentzian is unchanged", func(t *testing.T) {
		g := tensor.SymDiag(-2, 1, 3, 4)
		out, p := metric.ProjectSignature(g, 0)
		require.Equal(t, 0, p.TimeIndex)
		require.InDelta(t, 0, out.Mat().Sub(g.Mat()).Frobenius(), 1e-12)
	})
	t.Run("no negatives flips smallest magnitude", func(t *testing.T) {
		out, p := metric.ProjectSignature(tensor.SymDiag(3, 0.5, 2, 4), 0)
		require.Equal(t, 1, p.TimeIndex)
		require.InDelta(t, -0.5, out.At(1, 1), 1e-12)
	})
	t.Run("extra negatives become positive", func(t *testing.T) {
		out, p := metric.ProjectSignature(tensor.SymDiag(-1, -5, 2, -3), 0)
		require.Equal(t, 1, p.TimeIndex)
		require.Equal(t, metric.Inertia{Negative: 3, Positive: 1}, p.Before)
		require.InDeltaSlice(t, []float64{1, -5, 2, 3},
			[]float64{out.At(0, 0), out.At(1, 1), out.At(2, 2), out.At(3, 3)}, 1e-12)
	})
	t.Run("zero eigenvalues are floored", func(t *testing.T) {
		out, p := metric.ProjectSignature(tensor.SymDiag(0, 0, 0, 0), 0)
		require.True(t, p.After.Lorentzian())
		require.InDelta(t, -metric.DefaultFloorEps, out.At(0, 0), 1e-15)
	})
}

func TestBuildTetrad(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		a := randomMat(rng).Scale(0.3).Add(tensor.Identity())
		g := metric.FromFrame(a)
		tet := metric.BuildTetrad(g, 0)
		require.Less(t, tet.Residual, 1e-6)
		require.True(t, metric.CheckPD(tet.Proxy).OK)
		require.True(t, metric.IsPositiveDefinite(tensor.Symmetrize(tet.Proxy), 0))

		// Column 0 is the timelike frame vector.
		e0 := tet.E.Column(0)
		require.InDelta(t, -1, tensor.QuadForm(g.Mat(), e0), 1e-8)
	}
}

func TestBuildTetradMinkowski(t *testing.T) {
	tet := metric.BuildTetrad(tensor.Minkowski(), 0)
	require.InDelta(t, 0, tet.Residual, 1e-14)
	require.InDelta(t, 0, tet.Proxy.Sub(tensor.Identity()).Frobenius(), 1e-14)
}

func TestSquareProxy(t *testing.T) {
	g := metric.FromFrame(tensor.Mat4{{1, 0.2, 0, 0}, {0, 1, 0.1, 0}, {0, 0, 1, 0}, {0.3, 0, 0, 1}})
	p := metric.SquareProxy(g)
	require.True(t, metric.CheckPD(p.Mat()).OK)
	require.False(t, metric.CheckPD(g.Mat()).OK)
}

func TestCholesky(t *testing.T) {
	a := tensor.Diag(4, 9, 16, 25)
	l, ok := metric.Cholesky(a, 0)
	require.True(t, ok)
	require.Equal(t, tensor.Diag(2, 3, 4, 5), l)

	r := metric.CheckPD(a)
	require.Equal(t, metric.PDReport{OK: true, MinDiag: 2, MaxDiag: 5}, r)
}

func TestTimeDilation(t *testing.T) {
	eta := tensor.Minkowski()

	rest := metric.TimeDilation(eta, tensor.NewVec4(1, 0, 0, 0))
	require.InDelta(t, 1, rest.Gamma, 1e-12)
	require.InDelta(t, 0, rest.Speed, 1e-12)
	require.InDelta(t, -1, rest.Norm, 1e-12)

	v := 0.6
	gamma := 1 / math.Sqrt(1-v*v)
	moving := metric.TimeDilation(eta, tensor.NewVec4(gamma, gamma*v, 0, 0))
	require.InDelta(t, gamma, moving.Gamma, 1e-12)
	require.InDelta(t, v, moving.Speed, 1e-12)
	require.InDelta(t, moving.Gamma, 1/math.Sqrt(1-moving.Speed*moving.Speed), 1e-12)
}
