package normalization

import (
	"context"

	"github.com/tigerroll/ontime/internal/cleaning"
	"github.com/tigerroll/ontime/internal/domain/entity"
)

// midnightClock is the end-of-day value used by the source for midnight.
const midnightClock = 2400

type clockAttribute struct {
	column string
	get    func(*entity.Flight) **int64
}

// clockAttributes are corrected in this order.
var clockAttributes = []clockAttribute{
	{entity.ColCrsDepTime, func(f *entity.Flight) **int64 { return &f.CrsDepTime }},
	{entity.ColCrsArrTime, func(f *entity.Flight) **int64 { return &f.CrsArrTime }},
	{entity.ColDepTime, func(f *entity.Flight) **int64 { return &f.DepTime }},
	{entity.ColArrTime, func(f *entity.Flight) **int64 { return &f.ArrTime }},
}

// MidnightTimeCorrector rewrites 2400 clock values to 0 and moves FlDate to the next day.
// Deduplication runs again after each attribute because the shifted date can collide with
// an existing key.
type MidnightTimeCorrector struct {
	// Corrected counts rewritten values per column.
	Corrected map[string]int
	Dedup     cleaning.DedupStats
}

// Name implements pipeline.Stage.
func (m *MidnightTimeCorrector) Name() string { return "MidnightTimeCorrector" }

// Apply implements pipeline.Stage.
func (m *MidnightTimeCorrector) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	if m.Corrected == nil {
		m.Corrected = make(map[string]int, len(clockAttributes))
	}
	for _, attr := range clockAttributes {
		for _, f := range flights {
			clock := attr.get(f)
			if *clock == nil || **clock != midnightClock {
				continue
			}
			*clock = entity.Ptr[int64](0)
			if f.FlDate != nil {
				next := f.FlDate.AddDate(0, 0, 1)
				f.FlDate = &next
			}
			m.Corrected[attr.column]++
		}
		var stats cleaning.DedupStats
		flights, stats = cleaning.Deduplicate(flights)
		m.Dedup.MissingKey += stats.MissingKey
		m.Dedup.DuplicateRow += stats.DuplicateRow
		m.Dedup.DuplicateKey += stats.DuplicateKey
	}
	return flights, nil
}
