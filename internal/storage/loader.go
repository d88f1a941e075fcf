package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"opinionetl/internal/model"
)

// DefaultBatchSize is the chunk size used when the config leaves it unset.
const DefaultBatchSize = 1000

// Skipped records one row dropped inside a committed chunk.
type Skipped struct {
	Index int // position in the load set
	Err   error
}

// Summary is the outcome of one Load call. Loaded + len(Skipped) equals the
// number of rows whose chunk committed; rows of a rolled-back chunk and of
// abandoned chunks count in neither.
type Summary struct {
	Loaded  int
	Skipped []Skipped
	Chunks  int // chunks committed
}

// Loader writes a load set to a Repository in fixed-size chunks, one
// transaction per chunk.
//
// A row-level insert failure skips the row; the chunk still commits with the
// surviving rows. A transaction-level failure (begin, a fatal insert, commit)
// rolls the chunk back and abandons the remaining chunks, surfacing a
// *TxError alongside the partial Summary.
type Loader struct {
	Repo      Repository
	BatchSize int
}

// Load writes recs, which must all be of one entity kind. The connectivity
// pre-check runs before any chunk; its failure surfaces as ErrConnectivity.
func (l *Loader) Load(ctx context.Context, recs []model.Record) (Summary, error) {
	var sum Summary
	size := l.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	if err := l.Repo.Ping(ctx); err != nil {
		return sum, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	if len(recs) == 0 {
		return sum, nil
	}

	kind := recs[0].Kind()
	spec := model.SpecFor(kind)
	insert := InsertSQL(l.Repo.Dialect(), spec.Table, spec.Columns)

	start := time.Now()
	for chunk := 0; chunk*size < len(recs); chunk++ {
		lo := chunk * size
		hi := min(lo+size, len(recs))

		loaded, skipped, err := l.loadChunk(ctx, insert, recs[lo:hi], lo)
		if err != nil {
			return sum, &TxError{Chunk: chunk, Err: err}
		}
		sum.Loaded += loaded
		sum.Skipped = append(sum.Skipped, skipped...)
		sum.Chunks++

		elapsed := time.Since(start).Seconds()
		rps := 0.0
		if elapsed > 0 {
			rps = float64(hi) / elapsed
		}
		log.Printf("load: kind=%s chunk=%d rows=%d loaded=%d skipped=%d rps=%.0f",
			kind, chunk, hi-lo, loaded, len(skipped), rps)
	}
	return sum, nil
}

// loadChunk runs one chunk inside its own transaction. base is the chunk's
// offset in the full load set, used for Skipped indices.
func (l *Loader) loadChunk(ctx context.Context, insert string, recs []model.Record, base int) (int, []Skipped, error) {
	tx, err := l.Repo.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("begin: %w", err)
	}

	loaded := 0
	var skipped []Skipped
	for i, r := range recs {
		if err := tx.Insert(ctx, insert, model.InsertArgs(r)); err != nil {
			if IsFatal(err) {
				_ = tx.Rollback(ctx)
				return 0, nil, fmt.Errorf("row %d: %w", base+i, err)
			}
			log.Printf("load: kind=%s row=%d skipped: %v", r.Kind(), base+i, err)
			skipped = append(skipped, Skipped{Index: base + i, Err: err})
			continue
		}
		loaded++
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return 0, nil, fmt.Errorf("commit: %w", err)
	}
	return loaded, skipped, nil
}
