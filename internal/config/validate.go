// Static checks over a decoded Run. Returns a list of issues rather than a
// single error so a CLI can surface everything at once.
package config

import (
	"fmt"
	"strings"

	"opinionetl/internal/model"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the
// config (e.g. "storage.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate lints r without mutating it. Callers decide whether warnings are
// fatal.
func Validate(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	if strings.TrimSpace(r.DataDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "data_dir",
			Message:  "data_dir must not be empty",
		})
	}

	issues = append(issues, validateFiles(r.Files)...)
	issues = append(issues, validateStorage(r.Storage)...)
	issues = append(issues, validateRuntime(r.Runtime)...)
	issues = append(issues, validateMetrics(r.Metrics)...)
	return issues
}

func validateFiles(files map[string]string) []Issue {
	var issues []Issue

	known := make(map[string]struct{}, len(model.Kinds))
	for _, k := range model.Kinds {
		known[k.String()] = struct{}{}
	}
	for key, val := range files {
		if _, ok := known[key]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "files." + key,
				Message:  fmt.Sprintf("unknown entity kind %q; the override is ignored", key),
			})
		}
		if strings.TrimSpace(val) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "files." + key,
				Message:  "empty override; the conventional file name is used",
			})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty (or set OPINIONETL_STORAGE_DSN)",
		})
	}
	return issues
}

func validateRuntime(r Runtime) []Issue {
	var issues []Issue

	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires a gateway URL",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires a DogStatsD address",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics are disabled", m.Backend),
		})
	}
	return issues
}
