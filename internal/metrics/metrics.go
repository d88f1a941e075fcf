// Package metrics is a small backend-agnostic recording layer for the
// pipeline's operational counters.
//
// It mirrors the storage abstraction: a narrow Backend interface, concrete
// implementations isolated in subpackages (prompush, datadog), and a global
// pluggable backend that defaults to a no-op so instrumentation calls are
// always safe.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface a metrics sink implements.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style observation in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend. Called once at the end of a run.
func Flush() error {
	return backend.Flush()
}

// RecordStage records one stage execution: latency plus success/failure,
// partitioned by entity kind.
func RecordStage(kind, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"kind": kind, "stage": stage, "status": status}
	backend.IncCounter("opinion_etl_stage_total", 1, lbls)
	backend.ObserveDuration("opinion_etl_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for one kind.
//
// Outcomes mirror the stage summary fields:
//   - "extracted"
//   - "duplicates"
//   - "rejected"
//   - "loaded"
//   - "skipped"
func RecordRows(kind, outcome string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("opinion_etl_records_total", float64(delta), Labels{
		"kind":    kind,
		"outcome": outcome,
	})
}

// RecordBatches counts committed load chunks for one kind.
func RecordBatches(kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("opinion_etl_batches_total", float64(delta), Labels{
		"kind": kind,
	})
}
