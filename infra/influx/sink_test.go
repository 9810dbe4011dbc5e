package influx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/emarine/cellfit/core/ecm"
	"github.com/emarine/cellfit/core/results"
)

func TestSink_RecordFitResult(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body += string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	res := results.FitResult{
		RunID:    "run-42",
		Method:   "polynomial",
		Ne:       7,
		Nr:       3,
		RMSE:     0.0123456,
		FittedAt: now,
		Params:   []ecm.ParamRow{{SoC: 0.5, OCV: 3.7, Rs: 0.051}},
	}

	if err := sink.RecordFitResult(res); err != nil {
		t.Fatalf("record error: %v", err)
	}

	param := write.NewPointWithMeasurement("cell_params").
		AddTag("run_id", "run-42").
		AddTag("method", "polynomial").
		AddField("soc", 0.5).
		AddField("ocv", 3.7).
		AddField("rs", 0.051).
		SetTime(now)
	if want := strings.TrimSpace(write.PointToLineProtocol(param, time.Nanosecond)); !strings.Contains(body, want) {
		t.Errorf("parameter point missing from body:\nwant %s\ngot %s", want, body)
	}
	summary := write.NewPointWithMeasurement("fit_summary").
		AddTag("run_id", "run-42").
		AddTag("method", "polynomial").
		AddTag("grid_points", "1").
		AddField("rmse", 0.012346).
		AddField("ne", 7).
		AddField("nr", 3).
		SetTime(now)
	if want := strings.TrimSpace(write.PointToLineProtocol(summary, time.Nanosecond)); !strings.Contains(body, want) {
		t.Errorf("summary point missing from body:\nwant %s\ngot %s", want, body)
	}
}

func TestNewSinkWithFallback_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewSinkWithFallback(srv.URL, "token", "org", "bucket")
	if _, ok := sink.(results.NopSink); !ok {
		t.Fatalf("want NopSink fallback, got %T", sink)
	}
}
