package transform

import (
	"github.com/zeebo/xxh3"

	"opinionetl/internal/model"
)

// DeDup removes intra-batch duplicates by natural key, first-seen-wins, with
// input order preserved. Records whose natural key cannot be built are
// dropped outright: they can never be distinguished from one another, so
// they are not allowed into the load set.
//
// Seen keys are tracked as 64-bit xxh3 hashes rather than the key strings
// themselves; batches are bounded (one CSV file) and the collision odds at
// that scale are negligible next to the source data's own noise.
type DeDup struct {
	// Duplicates counts records dropped as later occurrences of a key.
	Duplicates int
	// Unkeyed counts records dropped for lacking a usable natural key.
	Unkeyed int
}

// Apply filters in and returns the surviving records. Counters accumulate
// across calls; a fresh DeDup is one dedup pass.
func (d *DeDup) Apply(in []model.Record) []model.Record {
	if len(in) == 0 {
		return in
	}
	seen := make(map[uint64]struct{}, len(in))
	out := make([]model.Record, 0, len(in))
	for _, r := range in {
		key, ok := model.NaturalKey(r)
		if !ok {
			d.Unkeyed++
			continue
		}
		h := xxh3.HashString(key)
		if _, dup := seen[h]; dup {
			d.Duplicates++
			continue
		}
		seen[h] = struct{}{}
		out = append(out, r)
	}
	return out
}
