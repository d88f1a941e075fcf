// Package datadog implements a Datadog backend for the metrics package.
//
// It adapts metrics.Backend onto the DogStatsD protocol using the official
// statsd client: labels become Datadog tags, duration observations become
// histogram samples. Everything Datadog-specific stays in this package.
package datadog

import (
	"fmt"
	"sort"

	"github.com/DataDog/datadog-go/v5/statsd"

	"opinionetl/internal/metrics"
)

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or
	// "unix:///var/run/datadog/dsd.socket".
	Addr string

	// Namespace is an optional prefix added to all metric names.
	Namespace string

	// GlobalTags apply to every metric, e.g. []string{"env:prod"}.
	GlobalTags []string
}

// Backend is a Datadog implementation of metrics.Backend.
type Backend struct {
	client statsd.ClientInterface
}

// NewBackend connects a DogStatsD client for cfg.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: addr is required")
	}
	opts := []statsd.Option{statsd.WithTags(cfg.GlobalTags)}
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	client, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: statsd client: %w", err)
	}
	return &Backend{client: client}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	_ = b.client.Count(name, int64(delta), tags(labels), 1)
}

func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	_ = b.client.Histogram(name, seconds, tags(labels), 1)
}

// Flush drains the client's buffer; call before process exit so a short
// batch run does not lose its samples.
func (b *Backend) Flush() error {
	return b.client.Flush()
}

func tags(labels metrics.Labels) []string {
	out := make([]string, 0, len(labels))
	for k, v := range labels {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
