package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exposes run metrics in the node_exporter textfile format.
// The file is rewritten after every run.
type PrometheusRecorder struct {
	mu       sync.Mutex
	path     string
	registry *prometheus.Registry

	fetchPoints   *prometheus.GaugeVec
	fetchLast     *prometheus.GaugeVec
	fetchFailures *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	runRows       prometheus.Gauge
	runColumns    prometheus.Gauge
	runMissing    prometheus.Gauge
	runSuccess    prometheus.Gauge
	runTimestamp  prometheus.Gauge
	runDuration   prometheus.Gauge
}

// NewPrometheusRecorder creates a recorder writing to the given textfile path.
func NewPrometheusRecorder(path string) (*PrometheusRecorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create metrics dir: %w", err)
		}
	}

	r := &PrometheusRecorder{
		path:     path,
		registry: prometheus.NewRegistry(),
		fetchPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "indices_fetch_points",
			Help: "Monthly points returned by the last fetch of an indicator",
		}, []string{"indicator", "source"}),
		fetchLast: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "indices_fetch_last_value",
			Help: "Latest raw value of an indicator",
		}, []string{"indicator", "source"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indices_fetch_failures_total",
			Help: "Total number of failed indicator fetches",
		}, []string{"indicator", "source"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "indices_fetch_duration_seconds",
			Help:    "Duration of indicator fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		runRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indices_export_rows",
			Help: "Rows written by the last run",
		}),
		runColumns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indices_export_indicators",
			Help: "Indicator columns written by the last run",
		}),
		runMissing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indices_missing_indicators",
			Help: "Indicators absent from the last run",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indices_last_run_success",
			Help: "1 if the last run wrote its output, 0 otherwise",
		}),
		runTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indices_last_run_timestamp_seconds",
			Help: "Unix time of the last run",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indices_last_run_duration_seconds",
			Help: "Duration of the last run in seconds",
		}),
	}
	r.registry.MustRegister(
		r.fetchPoints, r.fetchLast, r.fetchFailures, r.fetchDuration,
		r.runRows, r.runColumns, r.runMissing, r.runSuccess, r.runTimestamp, r.runDuration,
	)
	return r, nil
}

func (r *PrometheusRecorder) RecordFetch(evt *FetchEvent) error {
	r.fetchDuration.WithLabelValues(evt.Source).Observe(evt.Duration.Seconds())
	if evt.Err != nil {
		r.fetchFailures.WithLabelValues(evt.Indicator, evt.Source).Inc()
		r.fetchPoints.WithLabelValues(evt.Indicator, evt.Source).Set(0)
		return nil
	}
	r.fetchPoints.WithLabelValues(evt.Indicator, evt.Source).Set(float64(evt.Points))
	r.fetchLast.WithLabelValues(evt.Indicator, evt.Source).Set(evt.LastValue)
	return nil
}

// RecordRun updates the run gauges and rewrites the textfile.
func (r *PrometheusRecorder) RecordRun(evt *RunEvent) error {
	r.runRows.Set(float64(evt.Rows))
	r.runColumns.Set(float64(evt.Columns))
	r.runMissing.Set(float64(len(evt.Missing)))
	r.runTimestamp.Set(float64(evt.At.Unix()))
	r.runDuration.Set(evt.Duration.Seconds())
	if evt.Err != nil {
		r.runSuccess.Set(0)
	} else {
		r.runSuccess.Set(1)
	}
	return r.flush()
}

func (r *PrometheusRecorder) flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func (r *PrometheusRecorder) Close() error { return r.flush() }
