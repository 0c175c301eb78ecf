package cleaning

import (
	"context"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

// DedupStats counts the rows dropped by each deduplication rule.
type DedupStats struct {
	MissingKey   int
	DuplicateRow int
	DuplicateKey int
}

// Dropped returns the total number of dropped rows.
func (s DedupStats) Dropped() int {
	return s.MissingKey + s.DuplicateRow + s.DuplicateKey
}

func (s *DedupStats) add(o DedupStats) {
	s.MissingKey += o.MissingKey
	s.DuplicateRow += o.DuplicateRow
	s.DuplicateKey += o.DuplicateKey
}

// rowHash buckets rows for full-row comparison.
var rowHash = (*entity.Flight).Fingerprint

// Deduplicate drops rows missing any key attribute, then exact duplicate rows, then rows whose
// key repeats an earlier row. The first occurrence is kept and order is preserved.
// Applying it twice gives the same result as applying it once.
func Deduplicate(flights []*entity.Flight) ([]*entity.Flight, DedupStats) {
	var stats DedupStats

	keyed := make([]*entity.Flight, 0, len(flights))
	keys := make([]entity.FlightKey, 0, len(flights))
	for _, f := range flights {
		k, ok := f.Key()
		if !ok {
			stats.MissingKey++
			continue
		}
		keyed = append(keyed, f)
		keys = append(keys, k)
	}

	// Full-row duplicates are removed before key duplicates, as separate passes.
	// A fingerprint hit is confirmed field by field.
	seenRows := make(map[uint64][]*entity.Flight, len(keyed))
	distinct := make([]*entity.Flight, 0, len(keyed))
	distinctKeys := make([]entity.FlightKey, 0, len(keyed))
	for i, f := range keyed {
		fp := rowHash(f)
		if containsEqual(seenRows[fp], f) {
			stats.DuplicateRow++
			continue
		}
		seenRows[fp] = append(seenRows[fp], f)
		distinct = append(distinct, f)
		distinctKeys = append(distinctKeys, keys[i])
	}

	seenKeys := make(map[entity.FlightKey]struct{}, len(distinct))
	out := make([]*entity.Flight, 0, len(distinct))
	for i, f := range distinct {
		if _, dup := seenKeys[distinctKeys[i]]; dup {
			stats.DuplicateKey++
			continue
		}
		seenKeys[distinctKeys[i]] = struct{}{}
		out = append(out, f)
	}
	return out, stats
}

func containsEqual(bucket []*entity.Flight, f *entity.Flight) bool {
	for _, seen := range bucket {
		if seen.Equal(f) {
			return true
		}
	}
	return false
}

// KeyDeduplicator is the Stage form of Deduplicate. Stats accumulate across calls.
type KeyDeduplicator struct {
	Stats DedupStats
}

// Name implements pipeline.Stage.
func (d *KeyDeduplicator) Name() string { return "KeyDeduplicator" }

// Apply implements pipeline.Stage.
func (d *KeyDeduplicator) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	out, stats := Deduplicate(flights)
	d.Stats.add(stats)
	return out, nil
}
