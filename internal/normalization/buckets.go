package normalization

import (
	"context"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

// Time buckets of the scheduled departure hour.
const (
	BucketLateNight = "Late Night/Early Morning"
	BucketMorning   = "Morning"
	BucketAfternoon = "Afternoon"
	BucketEvening   = "Evening"
	BucketNight     = "Night"
)

// HourBucketClassifier derives the hour of each clock attribute and buckets the scheduled departure hour.
type HourBucketClassifier struct{}

// Name implements pipeline.Stage.
func (HourBucketClassifier) Name() string { return "HourBucketClassifier" }

// Apply implements pipeline.Stage.
func (HourBucketClassifier) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	for _, f := range flights {
		f.CrsDepHour = hourOf(f.CrsDepTime)
		f.CrsArrHour = hourOf(f.CrsArrTime)
		f.DepHour = hourOf(f.DepTime)
		f.ArrHour = hourOf(f.ArrTime)
		f.TimeBucket = TimeBucket(f.CrsDepHour)
	}
	return flights, nil
}

func hourOf(clock *int64) *int64 {
	if clock == nil {
		return nil
	}
	return entity.Ptr(*clock / 100)
}

// TimeBucket maps an hour to its bucket: 0-5, 6-11, 12-16, 17-20, and Night for the rest.
func TimeBucket(hour *int64) *string {
	if hour == nil {
		return nil
	}
	var b string
	switch h := *hour; {
	case 0 <= h && h <= 5:
		b = BucketLateNight
	case 6 <= h && h <= 11:
		b = BucketMorning
	case 12 <= h && h <= 16:
		b = BucketAfternoon
	case 17 <= h && h <= 20:
		b = BucketEvening
	default:
		b = BucketNight
	}
	return &b
}
