package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/emarine/cellfit/core/dataset"
)

// Config is the top-level configuration of an extraction run.
type Config struct {
	Data   DataConfig   `json:"data"`
	Fit    FitConfig    `json:"fit"`
	Export ExportConfig `json:"export"`
}

// DataConfig describes the raw curve source and the normalization inputs.
type DataConfig struct {
	// Dir holds the per-rate curve CSV files.
	Dir string `json:"dir"`
	// Convention is the unit of the progress column: dod, soc, ah or mah.
	Convention string `json:"convention"`
	// NominalCapacityAh is the rated cell capacity.
	NominalCapacityAh float64 `json:"nominal_capacity_ah"`
	// DoDLower and DoDUpper bound the fitting window (strict bounds).
	DoDLower float64 `json:"dod_lower"`
	DoDUpper float64 `json:"dod_upper"`
}

// FitConfig selects and parameterizes the fitting strategy.
type FitConfig struct {
	// Method is "nonparametric" or "polynomial".
	Method string `json:"method"`
	// Ne and Nr are the OCV and resistance polynomial degrees; ignored by
	// the non-parametric method.
	Ne int `json:"ne"`
	Nr int `json:"nr"`
}

// ExportConfig describes the parameter-table outputs.
type ExportConfig struct {
	// CSVPath is the destination of the parameter table.
	CSVPath string `json:"csv_path"`
	// GridPoints is the number of DoD samples of the evaluation grid.
	GridPoints int          `json:"grid_points"`
	Influx     InfluxConfig `json:"influx"`
}

// InfluxConfig enables the optional InfluxDB fit-result sink.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// SetDefaults applies the reference-pipeline defaults: the LG M50 cell
// capacity, the near-full fitting window and the degree-7/3 polynomial.
func (c *Config) SetDefaults() {
	if c.Data.Convention == "" {
		c.Data.Convention = string(dataset.ConventionDoD)
	}
	if c.Data.NominalCapacityAh == 0 {
		c.Data.NominalCapacityAh = 2.2
	}
	if c.Data.DoDLower == 0 && c.Data.DoDUpper == 0 {
		c.Data.DoDLower = 0.01
		c.Data.DoDUpper = 1
	} else if c.Data.DoDUpper == 0 {
		c.Data.DoDUpper = 1
	}
	if c.Fit.Method == "" {
		c.Fit.Method = "polynomial"
	}
	if c.Fit.Ne == 0 {
		c.Fit.Ne = 7
	}
	if c.Fit.Nr == 0 {
		c.Fit.Nr = 3
	}
	if c.Export.GridPoints == 0 {
		c.Export.GridPoints = 100
	}
	if c.Export.CSVPath == "" {
		c.Export.CSVPath = "cell_params.csv"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if _, err := dataset.ParseConvention(c.Data.Convention); err != nil {
		return err
	}
	if c.Data.NominalCapacityAh <= 0 {
		return fmt.Errorf("data.nominal_capacity_ah must be positive, got %g", c.Data.NominalCapacityAh)
	}
	if c.Data.DoDLower >= c.Data.DoDUpper {
		return fmt.Errorf("data.dod_lower %g must be below data.dod_upper %g", c.Data.DoDLower, c.Data.DoDUpper)
	}
	if c.Fit.Method != "nonparametric" && c.Fit.Method != "polynomial" {
		return fmt.Errorf("unknown fit method %q", c.Fit.Method)
	}
	if c.Fit.Ne < 0 || c.Fit.Nr < 0 {
		return fmt.Errorf("fit degrees must be non-negative, got ne=%d nr=%d", c.Fit.Ne, c.Fit.Nr)
	}
	if c.Export.GridPoints < 2 {
		return fmt.Errorf("export.grid_points must be at least 2, got %d", c.Export.GridPoints)
	}
	if c.Export.Influx.Enabled && c.Export.Influx.URL == "" {
		return fmt.Errorf("export.influx.url is required when the influx sink is enabled")
	}
	return nil
}

// Load reads the configuration file at path (yaml or json, by extension) and
// applies CF_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CF_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cf_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
