package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `data:
  dir: "inputs"
  convention: "ah"
  nominal_capacity_ah: 3.0
  dod_lower: 0.02
  dod_upper: 0.98
fit:
  method: "nonparametric"
export:
  csv_path: "out/params.csv"
  grid_points: 50
  influx:
    enabled: true
    url: "http://localhost:8086"
    token: "t"
    org: "o"
    bucket: "b"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "inputs", cfg.Data.Dir)
	assert.Equal(t, "ah", cfg.Data.Convention)
	assert.Equal(t, 3.0, cfg.Data.NominalCapacityAh)
	assert.Equal(t, 0.02, cfg.Data.DoDLower)
	assert.Equal(t, 0.98, cfg.Data.DoDUpper)
	assert.Equal(t, "nonparametric", cfg.Fit.Method)
	assert.Equal(t, "out/params.csv", cfg.Export.CSVPath)
	assert.Equal(t, 50, cfg.Export.GridPoints)
	assert.True(t, cfg.Export.Influx.Enabled)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `data:
  dir: "inputs"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dod", cfg.Data.Convention)
	assert.Equal(t, 2.2, cfg.Data.NominalCapacityAh)
	assert.Equal(t, 0.01, cfg.Data.DoDLower)
	assert.Equal(t, 1.0, cfg.Data.DoDUpper)
	assert.Equal(t, "polynomial", cfg.Fit.Method)
	assert.Equal(t, 7, cfg.Fit.Ne)
	assert.Equal(t, 3, cfg.Fit.Nr)
	assert.Equal(t, 100, cfg.Export.GridPoints)
	assert.Equal(t, "cell_params.csv", cfg.Export.CSVPath)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `data:
  dir: "inputs"
`)
	t.Setenv("CF_FIT__NE", "5")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Fit.Ne)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing dir":     "fit:\n  method: polynomial\n",
		"bad convention":  "data:\n  dir: d\n  convention: wh\n",
		"bad method":      "data:\n  dir: d\nfit:\n  method: spline\n",
		"inverted window": "data:\n  dir: d\n  dod_lower: 0.9\n  dod_upper: 0.1\n",
		"tiny grid":       "data:\n  dir: d\nexport:\n  grid_points: 1\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
