// Package idmap holds the natural-key to surrogate-key cache used to resolve
// foreign keys while binding the opinion kinds.
//
// The cache is loaded once per run, after the reference kinds (sources,
// products, customers) have been loaded and before any dependent kind is
// extracted. The resolver is passed by reference to whoever needs it; there
// is no package-level instance.
package idmap

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"golang.org/x/sync/errgroup"

	"opinionetl/internal/model"
	"opinionetl/internal/storage"
)

// fallbackID is handed out when a table is empty or a key is unknown. It
// keeps the load running against a seeded store where row 1 always exists;
// on an unseeded store the insert fails the FK check and the row is skipped.
const fallbackID = 1

// Resolver maps natural keys of the reference kinds to their store-assigned
// ids. Safe for concurrent use after Load returns.
type Resolver struct {
	// Rand picks a random index in [0, n); defaults to math/rand/v2.
	// Replaced in tests for determinism.
	Rand func(n int) int

	mu     sync.RWMutex
	tables map[model.Kind]*table
}

type table struct {
	byKey map[string]int
	ids   []int // in load order; ids[0] is the first-loaded id
}

// Load builds the cache from the reference tables, querying the three kinds
// concurrently. The previous contents are replaced only on full success, so
// a failed reload leaves the cache usable.
func (r *Resolver) Load(ctx context.Context, repo storage.Repository) error {
	fresh := make(map[model.Kind]*table, len(model.ReferenceKinds))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range model.ReferenceKinds {
		g.Go(func() error {
			spec := model.SpecFor(kind)
			pairs, err := repo.IDPairs(ctx, spec.Table, spec.IDColumn, spec.KeyColumn)
			if err != nil {
				return fmt.Errorf("idmap: load %s: %w", kind, err)
			}
			t := &table{byKey: make(map[string]int, len(pairs))}
			for _, p := range pairs {
				if _, dup := t.byKey[p.Key]; !dup {
					t.byKey[p.Key] = p.ID
				}
				t.ids = append(t.ids, p.ID)
			}
			mu.Lock()
			fresh[kind] = t
			mu.Unlock()
			log.Printf("idmap: kind=%s mappings=%d", kind, len(pairs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.tables = fresh
	r.mu.Unlock()
	return nil
}

// Resolve returns the surrogate id for key. Unknown keys fall back to the
// first-loaded id of the kind, then to 1 when the table is empty. The load
// never stops over an unresolvable reference.
func (r *Resolver) Resolve(kind model.Kind, key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := r.tables[kind]
	if t == nil || len(t.ids) == 0 {
		return fallbackID
	}
	if id, ok := t.byKey[key]; ok {
		return id
	}
	return t.ids[0]
}

// RandomPick returns a uniformly random id of the kind, or 1 when the table
// is empty. Used to synthesize the foreign keys the source files do not
// carry.
func (r *Resolver) RandomPick(kind model.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := r.tables[kind]
	if t == nil || len(t.ids) == 0 {
		return fallbackID
	}
	pick := r.Rand
	if pick == nil {
		pick = rand.IntN
	}
	return t.ids[pick(len(t.ids))]
}

// Count reports the number of cached mappings for kind.
func (r *Resolver) Count(kind model.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t := r.tables[kind]; t != nil {
		return len(t.ids)
	}
	return 0
}
