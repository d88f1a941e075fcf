// Package pipeline orchestrates a full import run: extract, transform, and
// load for each entity kind in dependency order, with the id-mapping cache
// built between the reference kinds and the opinion kinds.
//
// A stage failure is contained: it is logged, counted, and the run moves on
// to the next kind. Partial data is expected output, not an error state;
// only context cancellation escapes Run.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"opinionetl/internal/config"
	"opinionetl/internal/extract"
	"opinionetl/internal/idmap"
	"opinionetl/internal/metrics"
	"opinionetl/internal/model"
	"opinionetl/internal/storage"
	"opinionetl/internal/transform"
)

// StageResult is the outcome of one kind's extract-transform-load pass.
type StageResult struct {
	Kind      model.Kind
	Extracted int
	Transform transform.Stats
	Loaded    int
	Skipped   int
	Chunks    int
	Duration  time.Duration
	Err       error
}

// Summary aggregates a whole run.
type Summary struct {
	Stages   []StageResult
	Duration time.Duration
}

// Failed counts stages that ended in error.
func (s *Summary) Failed() int {
	n := 0
	for _, st := range s.Stages {
		if st.Err != nil {
			n++
		}
	}
	return n
}

// Loaded sums loaded rows across stages.
func (s *Summary) Loaded() int {
	n := 0
	for _, st := range s.Stages {
		n += st.Loaded
	}
	return n
}

// Pipeline wires the stages over one storage repository.
type Pipeline struct {
	cfg      config.Run
	repo     storage.Repository
	resolver *idmap.Resolver
	ex       *extract.Extractor
	loader   *storage.Loader
}

// New assembles a pipeline for cfg against repo. The resolver starts empty;
// Run fills it once the reference kinds are in the store.
func New(cfg config.Run, repo storage.Repository) *Pipeline {
	resolver := &idmap.Resolver{}
	return &Pipeline{
		cfg:      cfg,
		repo:     repo,
		resolver: resolver,
		ex:       &extract.Extractor{Binder: &extract.Binder{Resolver: resolver}},
		loader:   &storage.Loader{Repo: repo, BatchSize: cfg.Runtime.BatchSize},
	}
}

// Run executes every stage in dependency order and returns the per-stage
// outcomes. The returned error is non-nil only when ctx was cancelled.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	log.Printf("pipeline: job=%s starting kinds=%d", p.cfg.Job, len(model.Kinds))
	mapped := false
	for _, kind := range model.Kinds {
		if !kind.IsReference() && !mapped {
			// Sync point: reference ids exist in the store now, cache them
			// once before any opinion kind binds its foreign keys.
			p.loadMappings(ctx)
			mapped = true
		}

		res := p.runStage(ctx, kind)
		sum.Stages = append(sum.Stages, res)
		if res.Err != nil {
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				sum.Duration = time.Since(start)
				return sum, ctx.Err()
			}
			log.Printf("pipeline: job=%s kind=%s stage failed, continuing: %v", p.cfg.Job, kind, res.Err)
			continue
		}
	}

	sum.Duration = time.Since(start)
	log.Printf("pipeline: job=%s done loaded=%d failed_stages=%d duration=%s",
		p.cfg.Job, sum.Loaded(), sum.Failed(), sum.Duration.Round(time.Millisecond))
	return sum, nil
}

// loadMappings builds the id-map cache. Failure is contained like any stage
// failure: the opinion kinds then run with fallback ids.
func (p *Pipeline) loadMappings(ctx context.Context) {
	start := time.Now()
	err := p.resolver.Load(ctx, p.repo)
	metrics.RecordStage("all", "resolve", err, time.Since(start))
	if err != nil {
		log.Printf("pipeline: job=%s id mapping load failed, continuing with fallback ids: %v", p.cfg.Job, err)
	}
}

func (p *Pipeline) runStage(ctx context.Context, kind model.Kind) StageResult {
	res := StageResult{Kind: kind}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	path := p.cfg.FileFor(kind)

	extractStart := time.Now()
	raw, err := p.ex.File(ctx, kind, path)
	metrics.RecordStage(kind.String(), "extract", err, time.Since(extractStart))
	if err != nil {
		res.Err = err
		return res
	}
	res.Extracted = len(raw)
	metrics.RecordRows(kind.String(), "extracted", int64(len(raw)))

	transformStart := time.Now()
	stage := transform.Stage{}
	clean, stats := stage.Apply(raw)
	metrics.RecordStage(kind.String(), "transform", nil, time.Since(transformStart))
	res.Transform = stats
	metrics.RecordRows(kind.String(), "duplicates", int64(stats.Duplicates+stats.Unkeyed))
	metrics.RecordRows(kind.String(), "rejected", int64(stats.Rejected))

	loadStart := time.Now()
	loadSum, err := p.loader.Load(ctx, clean)
	metrics.RecordStage(kind.String(), "load", err, time.Since(loadStart))
	res.Loaded = loadSum.Loaded
	res.Skipped = len(loadSum.Skipped)
	res.Chunks = loadSum.Chunks
	metrics.RecordRows(kind.String(), "loaded", int64(loadSum.Loaded))
	metrics.RecordRows(kind.String(), "skipped", int64(len(loadSum.Skipped)))
	metrics.RecordBatches(kind.String(), int64(loadSum.Chunks))
	if err != nil {
		res.Err = err
		return res
	}

	log.Printf("pipeline: job=%s kind=%s extracted=%d out=%d loaded=%d skipped=%d duration=%s",
		p.cfg.Job, kind, res.Extracted, stats.Out, res.Loaded, res.Skipped,
		time.Since(start).Round(time.Millisecond))
	return res
}
