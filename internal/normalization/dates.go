package normalization

import (
	"context"
	"time"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

// DateDimensionExtractor derives Year, Quarter, Month, DayOfWeek (Monday=1 to Sunday=7)
// and DayOfMonth from FlDate. A nil FlDate leaves every dimension nil.
type DateDimensionExtractor struct{}

// Name implements pipeline.Stage.
func (DateDimensionExtractor) Name() string { return "DateDimensionExtractor" }

// Apply implements pipeline.Stage.
func (DateDimensionExtractor) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	for _, f := range flights {
		if f.FlDate == nil {
			f.Year, f.Quarter, f.Month, f.DayOfWeek, f.DayOfMonth = nil, nil, nil, nil, nil
			continue
		}
		d := *f.FlDate
		f.Year = entity.Ptr(int64(d.Year()))
		f.Quarter = entity.Ptr(int64((d.Month()-1)/3 + 1))
		f.Month = entity.Ptr(int64(d.Month()))
		f.DayOfWeek = entity.Ptr(isoWeekday(d))
		f.DayOfMonth = entity.Ptr(int64(d.Day()))
	}
	return flights, nil
}

func isoWeekday(t time.Time) int64 {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int64(t.Weekday())
}
