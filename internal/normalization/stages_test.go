package normalization

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

func TestTimeBucket_CoversEveryHour(t *testing.T) {
	want := map[int64]string{}
	for h := int64(0); h <= 5; h++ {
		want[h] = BucketLateNight
	}
	for h := int64(6); h <= 11; h++ {
		want[h] = BucketMorning
	}
	for h := int64(12); h <= 16; h++ {
		want[h] = BucketAfternoon
	}
	for h := int64(17); h <= 20; h++ {
		want[h] = BucketEvening
	}
	for h := int64(21); h <= 23; h++ {
		want[h] = BucketNight
	}

	for h := int64(0); h <= 23; h++ {
		got := TimeBucket(&h)
		require.NotNil(t, got, "hour %d", h)
		assert.Equal(t, want[h], *got, "hour %d", h)
	}
	assert.Nil(t, TimeBucket(nil))
}

func TestDelayReconciler_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		flag    int64
		minutes float64
		want    int64
	}{
		{"late flag on short delay", 1, 10, 0},
		{"missing flag on long delay", 0, 20, 1},
		{"exactly fifteen keeps one", 1, 15, 1},
		{"exactly fifteen keeps zero", 0, 15, 0},
		{"consistent late", 1, 40, 1},
		{"consistent on time", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &entity.Flight{DepDel15: entity.Ptr(tt.flag), DepDelayNew: entity.Ptr(tt.minutes)}
			_, err := (&DelayReconciler{}).Apply(context.Background(), []*entity.Flight{f})
			require.NoError(t, err)
			assert.Equal(t, tt.want, *f.DepDel15)
		})
	}
}

func TestDelayReconciler_NilMinutesKeepFlag(t *testing.T) {
	f := &entity.Flight{ArrDel15: entity.Ptr[int64](1)}
	d := &DelayReconciler{}
	_, err := d.Apply(context.Background(), []*entity.Flight{f})
	require.NoError(t, err)
	assert.Equal(t, int64(1), *f.ArrDel15)
	assert.Zero(t, d.FlagsCorrected)
}

func TestDateDimensionExtractor(t *testing.T) {
	sunday := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	flights := []*entity.Flight{{FlDate: &sunday}, {FlDate: &monday}, {}}

	_, err := DateDimensionExtractor{}.Apply(context.Background(), flights)
	require.NoError(t, err)

	assert.Equal(t, int64(7), *flights[0].DayOfWeek)
	assert.Equal(t, int64(1), *flights[0].Quarter)
	assert.Equal(t, int64(31), *flights[0].DayOfMonth)
	assert.Equal(t, int64(1), *flights[1].DayOfWeek)
	assert.Equal(t, int64(4), *flights[1].Quarter)
	assert.Equal(t, int64(10), *flights[1].Month)
	assert.Equal(t, int64(2024), *flights[1].Year)
	assert.Nil(t, flights[2].Year)
	assert.Nil(t, flights[2].DayOfWeek)
}

func TestHourBucketClassifier(t *testing.T) {
	f := &entity.Flight{CrsDepTime: entity.Ptr[int64](1745), DepTime: entity.Ptr[int64](5), CrsArrTime: entity.Ptr[int64](2130)}
	_, err := HourBucketClassifier{}.Apply(context.Background(), []*entity.Flight{f})
	require.NoError(t, err)

	assert.Equal(t, int64(17), *f.CrsDepHour)
	assert.Equal(t, int64(0), *f.DepHour)
	assert.Equal(t, int64(21), *f.CrsArrHour)
	assert.Nil(t, f.ArrHour)
	assert.Equal(t, BucketEvening, *f.TimeBucket)
}
