// Package config defines the JSON-serializable configuration model for the
// import run: where the CSV files live, which storage backend receives them,
// and how the run is batched and instrumented.
//
// Decoding is standard library only; secrets (the DSN above all) can come
// from the environment instead of the file, with a .env file loaded via
// godotenv for local runs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"opinionetl/internal/model"
	"opinionetl/internal/storage"
)

// Run is the top-level object decoded from a config file.
type Run struct {
	// Job names the run for logs and metrics grouping.
	Job string `json:"job"`

	// DataDir is the directory holding the input CSV files.
	DataDir string `json:"data_dir"`

	// Files optionally overrides the conventional file name per kind, keyed
	// by kind name ("source", "product", "customer", "survey",
	// "social_comment", "web_review"). Values are relative to DataDir.
	Files map[string]string `json:"files"`

	Storage Storage `json:"storage"`
	Runtime Runtime `json:"runtime"`
	Metrics Metrics `json:"metrics"`
}

// Storage selects and configures the destination store.
type Storage struct {
	// Kind selects the backend: "postgres", "mssql", "sqlite".
	Kind string `json:"kind"`

	// DSN is the backend connection string. Overridable via
	// OPINIONETL_STORAGE_DSN so it can stay out of the file.
	DSN string `json:"dsn"`

	// AutoCreateTables creates the destination tables when missing.
	AutoCreateTables bool `json:"auto_create_tables"`
}

// Runtime controls batching.
type Runtime struct {
	// BatchSize is the rows-per-transaction chunk size; 0 means the
	// loader default.
	BatchSize int `json:"batch_size"`
}

// Metrics selects the metrics backend for the run.
type Metrics struct {
	// Backend is "none" (default), "pushgateway", or "datadog".
	Backend string `json:"backend"`

	// PushgatewayURL is the Prometheus Pushgateway base URL.
	PushgatewayURL string `json:"pushgateway_url"`

	// DatadogAddr is the DogStatsD address.
	DatadogAddr string `json:"datadog_addr"`
}

// Load reads and decodes path, then applies environment overrides. A .env
// file in the working directory is loaded first when present; real
// environment variables win over it.
func Load(path string) (Run, error) {
	var r Run

	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("config: decode %s: %w", path, err)
	}
	r.applyEnv()
	r.applyDefaults()
	return r, nil
}

func (r *Run) applyEnv() {
	if v := os.Getenv("OPINIONETL_STORAGE_KIND"); v != "" {
		r.Storage.Kind = v
	}
	if v := os.Getenv("OPINIONETL_STORAGE_DSN"); v != "" {
		r.Storage.DSN = v
	}
	if v := os.Getenv("OPINIONETL_DATA_DIR"); v != "" {
		r.DataDir = v
	}
	if v := os.Getenv("OPINIONETL_PUSHGATEWAY_URL"); v != "" {
		r.Metrics.PushgatewayURL = v
	}
	if v := os.Getenv("OPINIONETL_DATADOG_ADDR"); v != "" {
		r.Metrics.DatadogAddr = v
	}
}

func (r *Run) applyDefaults() {
	if r.Job == "" {
		r.Job = "opinionetl"
	}
	if r.DataDir == "" {
		r.DataDir = "."
	}
	if r.Runtime.BatchSize == 0 {
		r.Runtime.BatchSize = storage.DefaultBatchSize
	}
	if r.Metrics.Backend == "" {
		r.Metrics.Backend = "none"
	}
}

// FileFor resolves the input path for kind: the per-kind override when set,
// otherwise the conventional file name, joined onto DataDir.
func (r *Run) FileFor(kind model.Kind) string {
	name := model.SpecFor(kind).DefaultFile
	if override, ok := r.Files[kind.String()]; ok && override != "" {
		name = override
	}
	return filepath.Join(r.DataDir, name)
}
