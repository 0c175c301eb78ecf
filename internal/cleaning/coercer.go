package cleaning

import (
	"context"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// TypeCoercer parses the flight date and the cancelled/diverted flags.
// Failures never raise: an unparseable date becomes nil, an unparseable flag becomes 0.
type TypeCoercer struct {
	// Layout is the Go time layout of FL_DATE. Empty uses config.DefaultFlightDateLayout.
	Layout string

	UnparsedDates int
	UnparsedFlags int
}

// Name implements pipeline.Stage.
func (c *TypeCoercer) Name() string { return "TypeCoercer" }

// Apply implements pipeline.Stage.
func (c *TypeCoercer) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	layout := c.Layout
	if layout == "" {
		layout = config.DefaultFlightDateLayout
	}
	for _, f := range flights {
		if f.FlDateText != nil {
			if t, ok := parseFlightDate(*f.FlDateText, layout); ok {
				f.FlDate = t
			} else {
				f.FlDate = nil
				c.UnparsedDates++
			}
			f.FlDateText = nil
		}
		f.Cancelled = c.flag(f.CancelledText, f.Cancelled)
		f.CancelledText = nil
		f.Diverted = c.flag(f.DivertedText, f.Diverted)
		f.DivertedText = nil
	}
	if c.UnparsedDates > 0 || c.UnparsedFlags > 0 {
		logger.Debugf("TypeCoercer: %d flight dates set to null, %d flags defaulted to 0.", c.UnparsedDates, c.UnparsedFlags)
	}
	return flights, nil
}

// flag converts raw to an integer flag, truncating fractions. Already coerced rows keep current.
func (c *TypeCoercer) flag(raw *string, current int64) int64 {
	if raw == nil {
		return current
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		c.UnparsedFlags++
		return 0
	}
	return int64(v)
}
