package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/tensor"
)

func TestParseVec(t *testing.T) {
	v, err := parseVec("1, 2.5,-3,4e-1")
	require.NoError(t, err)
	require.Equal(t, [4]float64{1, 2.5, -3, 0.4}, v)

	_, err = parseVec("1,2,3")
	require.Error(t, err)
	_, err = parseVec("1,2,x,4")
	require.Error(t, err)
}

func TestPointArg(t *testing.T) {
	x, err := pointArg(nil)
	require.NoError(t, err)
	require.Equal(t, tensor.Vec4{}, x)

	x, err = pointArg([]string{"0", "5", "0", "0"})
	require.NoError(t, err)
	require.Equal(t, tensor.NewVec4(0, 5, 0, 0), x)

	_, err = pointArg([]string{"1", "2"})
	require.Error(t, err)
}

func TestParseMatrix(t *testing.T) {
	args := []string{
		"-1", "0", "0", "0",
		"0", "1", "0", "0",
		"0", "0", "1", "0",
		"0", "0", "0", "2",
	}
	m, err := parseMatrix(args)
	require.NoError(t, err)
	require.Equal(t, tensor.Diag(-1, 1, 1, 2), m)

	_, err = parseMatrix(args[:15])
	require.Error(t, err)
}

func TestPlaneFor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Grid.Fixed = [4]float64{1, 2, 3, 4}
	cfg.Grid.Size = [2]int{5, 6}

	tests := []struct {
		plane        string
		axisU, axisV int
		nu, nv       int
	}{
		{"xy", 2, 1, 6, 5},
		{"XZ", 3, 1, 6, 5},
		{"ty", 2, 0, 6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.plane, func(t *testing.T) {
			cfg.Grid.Plane = tt.plane
			p := planeFor(cfg)
			require.Equal(t, tt.axisU, p.AxisU)
			require.Equal(t, tt.axisV, p.AxisV)
			require.Equal(t, tt.nu, p.Nu)
			require.Equal(t, tt.nv, p.Nv)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	require.NoError(t, setupLogger("debug"))
	require.NoError(t, setupLogger("WARN"))
	require.Error(t, setupLogger("loud"))
}

func TestLoadConfigFileOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("geodesic:\n  steps: 7\n"), 0644))

	oldField, oldPreset, oldFile := fieldName, preset, configFile
	t.Cleanup(func() { fieldName, preset, configFile = oldField, oldPreset, oldFile })
	fieldName, preset, configFile = "schwarzschild", "orbit", path

	cfg, err := loadConfig(&cobra.Command{})
	require.NoError(t, err)
	require.Equal(t, "schwarzschild", cfg.Field)
	require.Equal(t, 7, cfg.Geodesic.Steps)
	require.Equal(t, 0.05, cfg.Constants.Dtau)
	require.Equal(t, 1.0, cfg.FieldParams["mass"])
}
