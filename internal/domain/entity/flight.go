// Package entity defines the flight record that flows through cleaning and normalization,
// and the Parquet rows it is exported as.
package entity

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/zeebo/xxh3"
)

// DateKeyLayout formats FlDate inside a FlightKey.
const DateKeyLayout = "2006-01-02"

// Flight is one flight leg. Nullable attributes are pointers.
type Flight struct {
	FlDate *time.Time
	// FlDateText holds the raw FL_DATE value until TypeCoercer replaces it with FlDate.
	FlDateText      *string
	OpUniqueCarrier *string
	OpCarrierFlNum  *int64
	OriginAirportID *int64
	OriginCityName  *string
	OriginStateAbr  *string
	DestAirportID   *int64
	DestCityName    *string
	DestStateAbr    *string

	CrsDepTime  *int64
	DepTime     *int64
	DepDelayNew *float64
	DepDel15    *int64
	CrsArrTime  *int64
	ArrTime     *int64
	ArrDelayNew *float64
	ArrDel15    *int64

	Cancelled int64
	// CancelledText holds the raw CANCELLED value until coercion.
	CancelledText    *string
	CancellationCode *string
	Diverted         int64
	// DivertedText holds the raw DIVERTED value until coercion.
	DivertedText *string

	Distance          *float64
	DistanceGroup     *int64
	CarrierDelay      *float64
	WeatherDelay      *float64
	NasDelay          *float64
	SecurityDelay     *float64
	LateAircraftDelay *float64

	DivAirportLandings *int64
	DivReachedDest     *float64
	DivArrDelay        *float64
	DivDistance        *float64
	Div1Airport        *string
	Div2Airport        *string

	// Derived by normalization.
	Year       *int64
	Quarter    *int64
	Month      *int64
	DayOfWeek  *int64
	DayOfMonth *int64
	CrsDepHour *int64
	CrsArrHour *int64
	DepHour    *int64
	ArrHour    *int64
	TimeBucket *string
}

// FlightKey identifies a flight leg. It is comparable and usable as a map key.
type FlightKey struct {
	FlDate          string
	OpUniqueCarrier string
	OpCarrierFlNum  int64
	OriginAirportID int64
	DestAirportID   int64
}

// Key returns the natural key of the flight, and ok=false when any part is missing.
// Before coercion the raw FlDateText stands in for FlDate.
func (f *Flight) Key() (FlightKey, bool) {
	var date string
	switch {
	case f.FlDate != nil:
		date = f.FlDate.Format(DateKeyLayout)
	case f.FlDateText != nil:
		date = *f.FlDateText
	default:
		return FlightKey{}, false
	}
	if f.OpUniqueCarrier == nil || f.OpCarrierFlNum == nil || f.OriginAirportID == nil || f.DestAirportID == nil {
		return FlightKey{}, false
	}
	return FlightKey{
		FlDate:          date,
		OpUniqueCarrier: *f.OpUniqueCarrier,
		OpCarrierFlNum:  *f.OpCarrierFlNum,
		OriginAirportID: *f.OriginAirportID,
		DestAirportID:   *f.DestAirportID,
	}, true
}

// StringFields returns pointers to every string attribute, in column order.
func (f *Flight) StringFields() []**string {
	return []**string{
		&f.OpUniqueCarrier,
		&f.OriginCityName,
		&f.OriginStateAbr,
		&f.DestCityName,
		&f.DestStateAbr,
		&f.CancellationCode,
		&f.Div1Airport,
		&f.Div2Airport,
	}
}

// Clone returns a deep copy of f.
func (f *Flight) Clone() *Flight {
	c := *f
	c.FlDate = clonePtr(f.FlDate)
	c.FlDateText = clonePtr(f.FlDateText)
	c.OpUniqueCarrier = clonePtr(f.OpUniqueCarrier)
	c.OpCarrierFlNum = clonePtr(f.OpCarrierFlNum)
	c.OriginAirportID = clonePtr(f.OriginAirportID)
	c.OriginCityName = clonePtr(f.OriginCityName)
	c.OriginStateAbr = clonePtr(f.OriginStateAbr)
	c.DestAirportID = clonePtr(f.DestAirportID)
	c.DestCityName = clonePtr(f.DestCityName)
	c.DestStateAbr = clonePtr(f.DestStateAbr)
	c.CrsDepTime = clonePtr(f.CrsDepTime)
	c.DepTime = clonePtr(f.DepTime)
	c.DepDelayNew = clonePtr(f.DepDelayNew)
	c.DepDel15 = clonePtr(f.DepDel15)
	c.CrsArrTime = clonePtr(f.CrsArrTime)
	c.ArrTime = clonePtr(f.ArrTime)
	c.ArrDelayNew = clonePtr(f.ArrDelayNew)
	c.ArrDel15 = clonePtr(f.ArrDel15)
	c.CancelledText = clonePtr(f.CancelledText)
	c.CancellationCode = clonePtr(f.CancellationCode)
	c.DivertedText = clonePtr(f.DivertedText)
	c.Distance = clonePtr(f.Distance)
	c.DistanceGroup = clonePtr(f.DistanceGroup)
	c.CarrierDelay = clonePtr(f.CarrierDelay)
	c.WeatherDelay = clonePtr(f.WeatherDelay)
	c.NasDelay = clonePtr(f.NasDelay)
	c.SecurityDelay = clonePtr(f.SecurityDelay)
	c.LateAircraftDelay = clonePtr(f.LateAircraftDelay)
	c.DivAirportLandings = clonePtr(f.DivAirportLandings)
	c.DivReachedDest = clonePtr(f.DivReachedDest)
	c.DivArrDelay = clonePtr(f.DivArrDelay)
	c.DivDistance = clonePtr(f.DivDistance)
	c.Div1Airport = clonePtr(f.Div1Airport)
	c.Div2Airport = clonePtr(f.Div2Airport)
	c.Year = clonePtr(f.Year)
	c.Quarter = clonePtr(f.Quarter)
	c.Month = clonePtr(f.Month)
	c.DayOfWeek = clonePtr(f.DayOfWeek)
	c.DayOfMonth = clonePtr(f.DayOfMonth)
	c.CrsDepHour = clonePtr(f.CrsDepHour)
	c.CrsArrHour = clonePtr(f.CrsArrHour)
	c.DepHour = clonePtr(f.DepHour)
	c.ArrHour = clonePtr(f.ArrHour)
	c.TimeBucket = clonePtr(f.TimeBucket)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// attributes lists every attribute of the flight as a typed pointer, in a fixed order.
func (f *Flight) attributes() []any {
	return []any{
		f.FlDate,
		f.FlDateText,
		f.OpUniqueCarrier,
		f.OpCarrierFlNum,
		f.OriginAirportID,
		f.OriginCityName,
		f.OriginStateAbr,
		f.DestAirportID,
		f.DestCityName,
		f.DestStateAbr,
		f.CrsDepTime,
		f.DepTime,
		f.DepDelayNew,
		f.DepDel15,
		f.CrsArrTime,
		f.ArrTime,
		f.ArrDelayNew,
		f.ArrDel15,
		&f.Cancelled,
		f.CancelledText,
		f.CancellationCode,
		&f.Diverted,
		f.DivertedText,
		f.Distance,
		f.DistanceGroup,
		f.CarrierDelay,
		f.WeatherDelay,
		f.NasDelay,
		f.SecurityDelay,
		f.LateAircraftDelay,
		f.DivAirportLandings,
		f.DivReachedDest,
		f.DivArrDelay,
		f.DivDistance,
		f.Div1Airport,
		f.Div2Airport,
		f.Year,
		f.Quarter,
		f.Month,
		f.DayOfWeek,
		f.DayOfMonth,
		f.CrsDepHour,
		f.CrsArrHour,
		f.DepHour,
		f.ArrHour,
		f.TimeBucket,
	}
}

// Fingerprint hashes every attribute of the flight. Equal flights have the same
// fingerprint, nulls included; use Equal to confirm a match.
func (f *Flight) Fingerprint() uint64 {
	h := fingerprinter{h: xxh3.New()}
	for _, a := range f.attributes() {
		switch v := a.(type) {
		case *time.Time:
			h.ts(v)
		case *string:
			h.str(v)
		case *int64:
			h.i64(v)
		case *float64:
			h.f64(v)
		}
	}
	return h.h.Sum64()
}

// Equal reports whether every attribute of f and o is equal. Two nulls are equal;
// floats compare by bit pattern and dates by instant.
func (f *Flight) Equal(o *Flight) bool {
	a, b := f.attributes(), o.attributes()
	for i := range a {
		if !attributeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func attributeEqual(a, b any) bool {
	switch x := a.(type) {
	case *time.Time:
		y := b.(*time.Time)
		if x == nil || y == nil {
			return x == y
		}
		return x.Equal(*y)
	case *string:
		return ptrEqual(x, b.(*string))
	case *int64:
		return ptrEqual(x, b.(*int64))
	case *float64:
		y := b.(*float64)
		if x == nil || y == nil {
			return x == y
		}
		return math.Float64bits(*x) == math.Float64bits(*y)
	}
	return false
}

func ptrEqual[T comparable](x, y *T) bool {
	if x == nil || y == nil {
		return x == y
	}
	return *x == *y
}

// fingerprinter writes a presence byte before each value so nil never collides with a zero value.
type fingerprinter struct {
	h   *xxh3.Hasher
	buf [9]byte
}

func (p *fingerprinter) null() {
	p.h.Write([]byte{0})
}

func (p *fingerprinter) u64(v uint64) {
	p.buf[0] = 1
	binary.LittleEndian.PutUint64(p.buf[1:], v)
	p.h.Write(p.buf[:])
}

func (p *fingerprinter) i64(v *int64) {
	if v == nil {
		p.null()
		return
	}
	p.u64(uint64(*v))
}

func (p *fingerprinter) f64(v *float64) {
	if v == nil {
		p.null()
		return
	}
	p.u64(math.Float64bits(*v))
}

func (p *fingerprinter) ts(v *time.Time) {
	if v == nil {
		p.null()
		return
	}
	p.u64(uint64(v.UnixNano()))
}

func (p *fingerprinter) str(v *string) {
	if v == nil {
		p.null()
		return
	}
	p.u64(uint64(len(*v)))
	p.h.WriteString(*v)
}
