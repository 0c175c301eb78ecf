package cleaning

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cast"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// FieldSelector projects the raw table onto entity.OutputColumns and builds one Flight per row.
// Numeric columns are decoded here; blank or unparseable numbers become nil.
type FieldSelector struct {
	// Unparsed counts numeric cells that were present but not numbers.
	Unparsed int
}

// Select builds flights from df, preserving row order.
func (s *FieldSelector) Select(df dataframe.DataFrame) ([]*entity.Flight, error) {
	if df.Err != nil {
		return nil, exception.NewBatchError(moduleName, "input table is not readable", df.Err, false, false)
	}
	selected := df.Select(entity.OutputColumns)
	if selected.Err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("input table lacks required columns (has %v)", df.Names()), selected.Err, false, false)
	}

	cols := make(map[string]series.Series, len(entity.OutputColumns))
	for _, name := range entity.OutputColumns {
		cols[name] = selected.Col(name)
	}

	n := selected.Nrow()
	flights := make([]*entity.Flight, n)
	for i := 0; i < n; i++ {
		c := cell{cols: cols, row: i, sel: s}
		flights[i] = &entity.Flight{
			FlDateText:         c.text(entity.ColFlDate),
			OpUniqueCarrier:    c.text(entity.ColOpUniqueCarrier),
			OpCarrierFlNum:     c.integer(entity.ColOpCarrierFlNum),
			OriginAirportID:    c.integer(entity.ColOriginAirportID),
			OriginCityName:     c.text(entity.ColOriginCityName),
			OriginStateAbr:     c.text(entity.ColOriginStateAbr),
			DestAirportID:      c.integer(entity.ColDestAirportID),
			DestCityName:       c.text(entity.ColDestCityName),
			DestStateAbr:       c.text(entity.ColDestStateAbr),
			CrsDepTime:         c.integer(entity.ColCrsDepTime),
			DepTime:            c.integer(entity.ColDepTime),
			DepDelayNew:        c.number(entity.ColDepDelayNew),
			DepDel15:           c.integer(entity.ColDepDel15),
			CrsArrTime:         c.integer(entity.ColCrsArrTime),
			ArrTime:            c.integer(entity.ColArrTime),
			ArrDelayNew:        c.number(entity.ColArrDelayNew),
			ArrDel15:           c.integer(entity.ColArrDel15),
			CancelledText:      c.text(entity.ColCancelled),
			CancellationCode:   c.text(entity.ColCancellationCode),
			DivertedText:       c.text(entity.ColDiverted),
			Distance:           c.number(entity.ColDistance),
			DistanceGroup:      c.integer(entity.ColDistanceGroup),
			CarrierDelay:       c.number(entity.ColCarrierDelay),
			WeatherDelay:       c.number(entity.ColWeatherDelay),
			NasDelay:           c.number(entity.ColNasDelay),
			SecurityDelay:      c.number(entity.ColSecurityDelay),
			LateAircraftDelay:  c.number(entity.ColLateAircraftDelay),
			DivAirportLandings: c.integer(entity.ColDivAirportLandings),
			DivReachedDest:     c.number(entity.ColDivReachedDest),
			DivArrDelay:        c.number(entity.ColDivArrDelay),
			DivDistance:        c.number(entity.ColDivDistance),
			Div1Airport:        c.text(entity.ColDiv1Airport),
			Div2Airport:        c.text(entity.ColDiv2Airport),
		}
	}
	if s.Unparsed > 0 {
		logger.Debugf("FieldSelector: %d numeric cells could not be parsed and were set to null.", s.Unparsed)
	}
	return flights, nil
}

type cell struct {
	cols map[string]series.Series
	row  int
	sel  *FieldSelector
}

func (c cell) text(col string) *string {
	e := c.cols[col].Elem(c.row)
	if e.IsNA() {
		return nil
	}
	v := e.String()
	return &v
}

func (c cell) number(col string) *float64 {
	raw := c.text(col)
	if raw == nil {
		return nil
	}
	v, ok := parseNumber(*raw)
	if !ok {
		if strings.TrimSpace(*raw) != "" {
			c.sel.Unparsed++
		}
		return nil
	}
	return &v
}

func (c cell) integer(col string) *int64 {
	v := c.number(col)
	if v == nil {
		return nil
	}
	i := int64(*v)
	return &i
}

// parseNumber parses a finite decimal number. Leading zeros are decimal ("0915" is 915).
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ReadOptions are the gota load options for the raw extract: every column is read as text so
// codes such as carrier and state are never inferred as numbers, and blanks become NA.
func ReadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NA", "NaN", "<NA>"}),
	}
}

// parseFlightDate parses FL_DATE text with layout, in UTC.
func parseFlightDate(raw, layout string) (*time.Time, bool) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return nil, false
	}
	return &t, true
}
