package normalization_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/internal/normalization"
)

func flight(day int, flNum int64) *entity.Flight {
	date := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	return &entity.Flight{
		FlDate:          &date,
		OpUniqueCarrier: entity.Ptr("AA"),
		OpCarrierFlNum:  entity.Ptr(flNum),
		OriginAirportID: entity.Ptr[int64](12345),
		DestAirportID:   entity.Ptr[int64](67890),
	}
}

func TestNormalize_MidnightDepartureWithLateArrival(t *testing.T) {
	f := flight(10, 100)
	f.CrsDepTime = entity.Ptr[int64](2400)
	f.ArrDelayNew = entity.Ptr(20.0)
	f.ArrDel15 = entity.Ptr[int64](0)

	out, err := normalization.Normalize(context.Background(), []*entity.Flight{f})
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := out[0]
	assert.True(t, got.FlDate.Equal(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(0), *got.CrsDepTime)
	assert.Equal(t, int64(0), *got.CrsDepHour)
	assert.Equal(t, normalization.BucketLateNight, *got.TimeBucket)
	assert.Equal(t, int64(1), *got.ArrDel15)
	// Dimensions describe the date before the rollover.
	assert.Equal(t, int64(10), *got.DayOfMonth)
	assert.Equal(t, int64(3), *got.DayOfWeek)
}

func TestNormalize_CancelledFlightLosesDelays(t *testing.T) {
	f := flight(10, 100)
	f.Cancelled = 1
	f.DepDelayNew = entity.Ptr(30.0)
	f.DepDel15 = entity.Ptr[int64](1)
	f.ArrDelayNew = entity.Ptr(45.0)
	f.ArrDel15 = entity.Ptr[int64](1)

	n := normalization.NewNormalizer(nil)
	out, err := n.Normalize(context.Background(), []*entity.Flight{f})
	require.NoError(t, err)

	got := out[0]
	assert.Nil(t, got.DepDel15)
	assert.Nil(t, got.ArrDel15)
	assert.Nil(t, got.DepDelayNew)
	assert.Nil(t, got.ArrDelayNew)
	assert.Equal(t, 1, n.Report().NulledCancelled)
}

func TestNormalize_RolloverCollisionIsDeduplicated(t *testing.T) {
	late := flight(10, 100)
	late.CrsDepTime = entity.Ptr[int64](2400)
	early := flight(11, 100)
	early.CrsDepTime = entity.Ptr[int64](0)

	n := normalization.NewNormalizer(nil)
	out, err := n.Normalize(context.Background(), []*entity.Flight{late, early})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Same(t, late, out[0], "first occurrence is kept")
	assert.Equal(t, 1, n.Report().MidnightCorrected[entity.ColCrsDepTime])
	assert.Equal(t, 1, n.Report().Dedup.DuplicateKey+n.Report().Dedup.DuplicateRow)
}

func TestNormalize_NoClockKeeps2400Value(t *testing.T) {
	var flights []*entity.Flight
	for i, clock := range []int64{2400, 2359, 0} {
		f := flight(10, int64(i+1))
		f.CrsDepTime = entity.Ptr(clock)
		f.CrsArrTime = entity.Ptr[int64](2400)
		f.DepTime = entity.Ptr(clock)
		f.ArrTime = nil
		flights = append(flights, f)
	}

	out, err := normalization.Normalize(context.Background(), flights)
	require.NoError(t, err)
	for _, f := range out {
		for _, clock := range []*int64{f.CrsDepTime, f.CrsArrTime, f.DepTime, f.ArrTime} {
			if clock != nil {
				assert.NotEqual(t, int64(2400), *clock)
			}
		}
	}
}

func TestNormalize_KeepsDistinctKeys(t *testing.T) {
	flights := []*entity.Flight{flight(10, 1), flight(10, 2), flight(12, 1)}
	out, err := normalization.Normalize(context.Background(), flights)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
