package cleaning

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

func validFlight(flNum int64) *entity.Flight {
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return &entity.Flight{
		FlDate:          &date,
		OpUniqueCarrier: entity.Ptr("AA"),
		OpCarrierFlNum:  entity.Ptr(flNum),
		OriginAirportID: entity.Ptr[int64](12345),
		DestAirportID:   entity.Ptr[int64](67890),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(flights []*entity.Flight) []*entity.Flight
		target  interface{}
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(f []*entity.Flight) []*entity.Flight { return f },
		},
		{
			name:    "duplicate key",
			mutate:  func(f []*entity.Flight) []*entity.Flight { return append(f, validFlight(1)) },
			target:  new(*DuplicateKeyError),
			wantErr: true,
		},
		{
			name:    "null key",
			mutate:  func(f []*entity.Flight) []*entity.Flight { f[1].DestAirportID = nil; return f },
			target:  new(*NullKeyError),
			wantErr: true,
		},
		{
			name:    "diverted out of domain",
			mutate:  func(f []*entity.Flight) []*entity.Flight { f[0].Diverted = -1; return f },
			target:  new(*DomainViolationError),
			wantErr: true,
		},
		{
			name: "date still text",
			mutate: func(f []*entity.Flight) []*entity.Flight {
				f[0].FlDateText = entity.Ptr("1/10/2024 12:00:00 AM")
				return f
			},
			target:  new(*TypeViolationError),
			wantErr: true,
		},
		{
			name:    "sentinel leak",
			mutate:  func(f []*entity.Flight) []*entity.Flight { f[1].OriginCityName = entity.Ptr("NaN"); return f },
			target:  new(*SentinelLeakError),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flights := tt.mutate([]*entity.Flight{validFlight(1), validFlight(2)})
			err := Validate(flights)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.target), "got %T", err)
		})
	}
}

func TestValidate_ChecksDuplicatesBeforeNulls(t *testing.T) {
	flights := []*entity.Flight{validFlight(1), validFlight(1), validFlight(2)}
	flights[2].OpUniqueCarrier = nil

	var dupErr *DuplicateKeyError
	require.True(t, errors.As(Validate(flights), &dupErr))
	assert.Equal(t, 1, dupErr.Rows)
}

func TestSentinelLeakReportsColumn(t *testing.T) {
	f := validFlight(1)
	f.Div2Airport = entity.Ptr("NaN")

	var leak *SentinelLeakError
	require.True(t, errors.As(Validate([]*entity.Flight{f}), &leak))
	assert.Equal(t, entity.ColDiv2Airport, leak.Column)
}
