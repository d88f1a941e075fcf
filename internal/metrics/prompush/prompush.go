// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The pipeline is a batch job, so metrics are pushed once at the end of a
// run rather than exposed on a scrape endpoint. All Prometheus-specific
// dependencies live here; the rest of the project sees only metrics.Backend.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"opinionetl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string // Pushgateway "job" grouping key
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // opinion_etl_stage_total
	stageDuration *prometheus.SummaryVec // opinion_etl_stage_duration_seconds
	recordCounter *prometheus.CounterVec // opinion_etl_records_total
	batchCounter  *prometheus.CounterVec // opinion_etl_batches_total
}

// NewBackend constructs a Pushgateway backend. jobName groups a run's
// metrics on the gateway; gatewayURL is the gateway base URL.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "opinionetl"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opinion_etl_stage_total",
			Help: "Stage executions, partitioned by kind, stage, and status.",
		},
		[]string{"kind", "stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "opinion_etl_stage_duration_seconds",
			Help:       "Stage duration in seconds, partitioned by kind, stage, and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"kind", "stage", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opinion_etl_records_total",
			Help: "Record counts per kind and outcome (extracted, rejected, loaded, ...).",
		},
		[]string{"kind", "outcome"},
	)
	batchCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opinion_etl_batches_total",
			Help: "Committed load chunks per kind.",
		},
		[]string{"kind"},
	)

	for _, c := range []prometheus.Collector{stageCounter, stageDuration, recordCounter, batchCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		recordCounter: recordCounter,
		batchCounter:  batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "opinion_etl_stage_total":
		b.stageCounter.WithLabelValues(labels["kind"], labels["stage"], labels["status"]).Add(delta)
	case "opinion_etl_records_total":
		b.recordCounter.WithLabelValues(labels["kind"], labels["outcome"]).Add(delta)
	case "opinion_etl_batches_total":
		b.batchCounter.WithLabelValues(labels["kind"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	if name != "opinion_etl_stage_duration_seconds" {
		return
	}
	b.stageDuration.WithLabelValues(labels["kind"], labels["stage"], labels["status"]).Observe(seconds)
}

// Flush pushes the registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
