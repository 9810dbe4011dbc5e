package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/emarine/cellfit/config"
	"github.com/emarine/cellfit/core/dataset"
	"github.com/emarine/cellfit/core/ecm"
	"github.com/emarine/cellfit/core/results"
	"github.com/emarine/cellfit/infra/influx"
	"github.com/emarine/cellfit/infra/loader"
	"github.com/emarine/cellfit/infra/logger"
	"github.com/emarine/cellfit/pkg/export"
)

// Service runs one model extraction: load curves, normalize, fit, sample the
// parameter grid and export.
type Service struct {
	cfg  *config.Config
	log  logger.Logger
	sink results.Sink
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("cellfit")
	sinks := []results.Sink{results.LogSink{Log: logg}}
	if cfg.Export.Influx.Enabled {
		ic := cfg.Export.Influx
		sinks = append(sinks, influx.NewSinkWithFallback(ic.URL, ic.Token, ic.Org, ic.Bucket))
	}
	var sink results.Sink = sinks[0]
	if len(sinks) > 1 {
		sink = results.NewMultiSink(sinks...)
	}
	return &Service{cfg: cfg, log: logg, sink: sink}, nil
}

// Run executes the extraction pipeline once. The context is consulted between
// stages so an interrupted run stops before writing outputs.
func (s *Service) Run(ctx context.Context) error {
	runID := uuid.NewString()
	cfg := s.cfg

	curves, err := loader.ReadDir(cfg.Data.Dir)
	if err != nil {
		return err
	}
	conv, err := dataset.ParseConvention(cfg.Data.Convention)
	if err != nil {
		return err
	}
	data, err := dataset.Load(curves, conv, cfg.Data.NominalCapacityAh)
	if err != nil {
		return err
	}
	data.DoDLower = cfg.Data.DoDLower
	data.DoDUpper = cfg.Data.DoDUpper
	s.log.Infof("loaded %d curves, %d samples (%d in fit window)",
		len(data.Rates()), len(data.View()), len(data.RestrictedView()))

	if err := ctx.Err(); err != nil {
		return err
	}

	model, err := s.fit(data)
	if err != nil {
		return err
	}
	rmse, err := ecm.RMSE(model, data.RestrictedView())
	if err != nil {
		return fmt.Errorf("fit quality: %w", err)
	}
	s.log.Debugw("model fitted", map[string]any{
		"run_id": runID,
		"method": cfg.Fit.Method,
		"rmse_v": rmse,
	})

	rows, err := ecm.Parameters(model, ecm.Grid(cfg.Export.GridPoints))
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(cfg.Export.CSVPath)
	if err != nil {
		return fmt.Errorf("create parameter table: %w", err)
	}
	defer f.Close()
	if err := export.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("write parameter table: %w", err)
	}

	res := results.FitResult{
		RunID:    runID,
		Method:   cfg.Fit.Method,
		Ne:       cfg.Fit.Ne,
		Nr:       cfg.Fit.Nr,
		RMSE:     rmse,
		FittedAt: time.Now(),
		Params:   rows,
	}
	if cfg.Fit.Method == "nonparametric" {
		res.Ne, res.Nr = 0, 0
	}
	if err := s.sink.RecordFitResult(res); err != nil {
		s.log.Errorf("record fit result: %v", err)
	}
	s.log.Infof("run %s: wrote %d parameter rows to %s (rmse %.4f V)",
		runID, len(rows), cfg.Export.CSVPath, rmse)
	return nil
}

func (s *Service) fit(data *dataset.Dataset) (ecm.Model, error) {
	switch s.cfg.Fit.Method {
	case "nonparametric":
		return ecm.NewNonParametric(data)
	case "polynomial":
		model := ecm.NewPolynomialFit(data)
		if err := model.Fit(s.cfg.Fit.Ne, s.cfg.Fit.Nr); err != nil {
			return nil, err
		}
		return model, nil
	}
	return nil, fmt.Errorf("unknown fit method %q", s.cfg.Fit.Method)
}
