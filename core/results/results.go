package results

import (
	"time"

	"github.com/emarine/cellfit/core/ecm"
)

// FitResult is one completed model extraction to be recorded.
type FitResult struct {
	RunID    string // unique per extraction run
	Method   string // "nonparametric" or "polynomial"
	Ne, Nr   int    // polynomial degrees, zero for the non-parametric method
	RMSE     float64
	FittedAt time.Time
	Params   []ecm.ParamRow
}

// Sink records fit results for downstream storage or observability.
type Sink interface {
	RecordFitResult(res FitResult) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordFitResult(FitResult) error { return nil }

// MultiSink fans a fit result out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFitResult forwards the result to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordFitResult(res FitResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordFitResult(res); err != nil {
			return err
		}
	}
	return nil
}
