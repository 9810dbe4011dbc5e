package influx

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/emarine/cellfit/core/results"
	"github.com/emarine/cellfit/infra/logger"
)

// Sink writes fit results to an InfluxDB instance using the official client.
// Each parameter row becomes one point of the cell_params measurement tagged
// with the run ID, plus one fit_summary point carrying the RMSE.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewSink creates a sink configured for the given InfluxDB endpoint.
func NewSink(url, token, org, bucket string) *Sink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &Sink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewSinkWithFallback pings the InfluxDB instance and returns a NopSink if
// the health check fails, so an unreachable database does not abort the
// extraction run.
func NewSinkWithFallback(url, token, org, bucket string) results.Sink {
	sink := NewSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return results.NopSink{}
	}
	return sink
}

// RecordFitResult implements results.Sink.
func (s *Sink) RecordFitResult(res results.FitResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, row := range res.Params {
		p := write.NewPointWithMeasurement("cell_params").
			AddTag("run_id", res.RunID).
			AddTag("method", res.Method).
			AddField("soc", round6(row.SoC)).
			AddField("ocv", round6(row.OCV)).
			AddField("rs", round6(row.Rs)).
			SetTime(res.FittedAt)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	p := write.NewPointWithMeasurement("fit_summary").
		AddTag("run_id", res.RunID).
		AddTag("method", res.Method).
		AddTag("grid_points", strconv.Itoa(len(res.Params))).
		AddField("rmse", round6(res.RMSE)).
		AddField("ne", res.Ne).
		AddField("nr", res.Nr).
		SetTime(res.FittedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *Sink) Close() {
	s.client.Close()
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
