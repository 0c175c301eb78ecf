package cleaning

import (
	"context"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

// sentinel is the literal that must never survive string normalization.
const sentinel = "NaN"

// Validator checks the cleaned collection and fails on the first violated rule, in this order:
// key uniqueness, key completeness, flag domain, coerced types, sentinel strings.
type Validator struct{}

// Name implements pipeline.Stage.
func (Validator) Name() string { return "Validator" }

// Apply implements pipeline.Stage. The collection is returned unchanged when valid.
func (v Validator) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	if err := Validate(flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// Validate returns one of *DuplicateKeyError, *NullKeyError, *DomainViolationError,
// *TypeViolationError or *SentinelLeakError, or nil.
func Validate(flights []*entity.Flight) error {
	seen := make(map[entity.FlightKey]struct{}, len(flights))
	duplicates, nullKeys := 0, 0
	for _, f := range flights {
		k, ok := f.Key()
		if !ok {
			nullKeys++
			continue
		}
		if _, dup := seen[k]; dup {
			duplicates++
			continue
		}
		seen[k] = struct{}{}
	}
	if duplicates > 0 {
		return &DuplicateKeyError{Rows: duplicates}
	}
	if nullKeys > 0 {
		return &NullKeyError{Rows: nullKeys}
	}

	if n := countRows(flights, func(f *entity.Flight) bool { return f.Cancelled != 0 && f.Cancelled != 1 }); n > 0 {
		return &DomainViolationError{Column: entity.ColCancelled, Rows: n}
	}
	if n := countRows(flights, func(f *entity.Flight) bool { return f.Diverted != 0 && f.Diverted != 1 }); n > 0 {
		return &DomainViolationError{Column: entity.ColDiverted, Rows: n}
	}

	if n := countRows(flights, func(f *entity.Flight) bool { return f.FlDateText != nil || f.FlDate == nil }); n > 0 {
		return &TypeViolationError{Column: entity.ColFlDate, Rows: n}
	}
	if n := countRows(flights, func(f *entity.Flight) bool { return f.CancelledText != nil }); n > 0 {
		return &TypeViolationError{Column: entity.ColCancelled, Rows: n}
	}
	if n := countRows(flights, func(f *entity.Flight) bool { return f.DivertedText != nil }); n > 0 {
		return &TypeViolationError{Column: entity.ColDiverted, Rows: n}
	}

	for i, col := range stringColumns {
		n := countRows(flights, func(f *entity.Flight) bool {
			v := *f.StringFields()[i]
			return v != nil && *v == sentinel
		})
		if n > 0 {
			return &SentinelLeakError{Column: col, Rows: n}
		}
	}
	return nil
}

// stringColumns names the attributes returned by Flight.StringFields, in the same order.
var stringColumns = []string{
	entity.ColOpUniqueCarrier,
	entity.ColOriginCityName,
	entity.ColOriginStateAbr,
	entity.ColDestCityName,
	entity.ColDestStateAbr,
	entity.ColCancellationCode,
	entity.ColDiv1Airport,
	entity.ColDiv2Airport,
}

func countRows(flights []*entity.Flight, pred func(*entity.Flight) bool) int {
	n := 0
	for _, f := range flights {
		if pred(f) {
			n++
		}
	}
	return n
}
