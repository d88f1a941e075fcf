// Command opinionetl imports customer opinion CSV exports (sources,
// products, customers, surveys, social comments, web reviews) into a
// relational store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opinionetl/internal/config"
	"opinionetl/internal/metrics"
	"opinionetl/internal/metrics/datadog"
	"opinionetl/internal/metrics/prompush"
	"opinionetl/internal/pipeline"
	"opinionetl/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "opinionetl/internal/storage/all"
)

func main() {
	var (
		cfgPath        string
		metricsBackend string
		pushGatewayURL string
		validate       bool
	)

	flag.StringVar(&cfgPath, "config", "configs/run.json", "run config JSON path")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (pushgateway, datadog, none); overrides config")
	flag.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL; overrides config")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if metricsBackend != "" {
		cfg.Metrics.Backend = metricsBackend
	}
	if pushGatewayURL != "" {
		cfg.Metrics.PushgatewayURL = pushGatewayURL
	}

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid: %s", cfgPath)
	}
	if validate {
		log.Printf("configuration is valid: %s", cfgPath)
		return
	}

	setupMetrics(cfg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
	if err != nil {
		fatalf("storage: %v", err)
	}
	defer repo.Close()

	if cfg.Storage.AutoCreateTables {
		if err := storage.EnsureSchema(ctx, cfg.Storage.Kind, repo); err != nil {
			fatalf("storage: ensure schema: %v", err)
		}
	}

	start := time.Now()
	sum, err := pipeline.New(cfg, repo).Run(ctx)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	for _, st := range sum.Stages {
		if st.Err != nil {
			log.Printf("summary: kind=%s FAILED: %v", st.Kind, st.Err)
			continue
		}
		log.Printf("summary: kind=%s extracted=%d duplicates=%d rejected=%d loaded=%d skipped=%d",
			st.Kind, st.Extracted, st.Transform.Duplicates+st.Transform.Unkeyed,
			st.Transform.Rejected, st.Loaded, st.Skipped)
	}
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// setupMetrics installs the configured metrics backend; the nop backend
// stays in place on any failure.
func setupMetrics(cfg config.Run, verbose bool) {
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: pushgateway init failed: %v; metrics disabled", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", cfg.Metrics.PushgatewayURL, cfg.Job)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.DatadogAddr,
			Namespace:  "opinionetl.",
			GlobalTags: []string{"job:" + cfg.Job},
		})
		if err != nil {
			log.Printf("metrics: datadog init failed: %v; metrics disabled", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s job=%s", cfg.Metrics.DatadogAddr, cfg.Job)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.Metrics.Backend)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
