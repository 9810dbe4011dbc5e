package results

import "github.com/emarine/cellfit/core/logger"

// LogSink records fit results through the logger, one structured entry per
// run.
type LogSink struct {
	Log logger.Logger
}

// RecordFitResult implements Sink.
func (s LogSink) RecordFitResult(res FitResult) error {
	s.Log.Debugw("fit result", map[string]any{
		"run_id":      res.RunID,
		"method":      res.Method,
		"ne":          res.Ne,
		"nr":          res.Nr,
		"rmse_v":      res.RMSE,
		"grid_points": len(res.Params),
	})
	return nil
}
