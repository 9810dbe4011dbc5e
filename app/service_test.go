package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emarine/cellfit/config"
)

func writeCurves(t *testing.T, dir string) {
	t.Helper()
	for label, drop := range map[string]float64{"0.5": 0.02, "1": 0.04, "2": 0.08} {
		var sb strings.Builder
		for i := 0; i <= 50; i++ {
			dod := float64(i) / 50
			v := 4.2 - 1.2*dod - drop
			fmt.Fprintf(&sb, "%g,%g\n", dod, v)
		}
		name := label + "C.csv"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sb.String()), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func pipelineConfig(t *testing.T, method string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeCurves(t, dir)
	cfg := &config.Config{}
	cfg.Data.Dir = dir
	cfg.Fit.Method = method
	cfg.Export.CSVPath = filepath.Join(t.TempDir(), "params.csv")
	cfg.Export.GridPoints = 20
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestService_PolynomialPipeline(t *testing.T) {
	cfg := pipelineConfig(t, "polynomial")
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(cfg.Export.CSVPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "soc,OCV,Rs" {
		t.Errorf("header %q", lines[0])
	}
	if len(lines) != cfg.Export.GridPoints+1 {
		t.Errorf("got %d data lines, want %d", len(lines)-1, cfg.Export.GridPoints)
	}
}

func TestService_NonParametricPipeline(t *testing.T) {
	cfg := pipelineConfig(t, "nonparametric")
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(cfg.Export.CSVPath); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestService_CancelledContext(t *testing.T) {
	cfg := pipelineConfig(t, "polynomial")
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Run(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if _, err := os.Stat(cfg.Export.CSVPath); !os.IsNotExist(err) {
		t.Error("cancelled run should not write outputs")
	}
}
