package entity

import "time"

// CleanFlightRow is the Parquet row written by the cleaning step.
type CleanFlightRow struct {
	FlDate             *int64   `parquet:"name=FL_DATE,type=INT64,convertedtype=TIMESTAMP_MILLIS,repetitiontype=OPTIONAL"`
	OpUniqueCarrier    *string  `parquet:"name=OP_UNIQUE_CARRIER,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	OpCarrierFlNum     *int64   `parquet:"name=OP_CARRIER_FL_NUM,type=INT64,repetitiontype=OPTIONAL"`
	OriginAirportID    *int64   `parquet:"name=ORIGIN_AIRPORT_ID,type=INT64,repetitiontype=OPTIONAL"`
	OriginCityName     *string  `parquet:"name=ORIGIN_CITY_NAME,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	OriginStateAbr     *string  `parquet:"name=ORIGIN_STATE_ABR,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	DestAirportID      *int64   `parquet:"name=DEST_AIRPORT_ID,type=INT64,repetitiontype=OPTIONAL"`
	DestCityName       *string  `parquet:"name=DEST_CITY_NAME,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	DestStateAbr       *string  `parquet:"name=DEST_STATE_ABR,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	CrsDepTime         *int64   `parquet:"name=CRS_DEP_TIME,type=INT64,repetitiontype=OPTIONAL"`
	DepTime            *int64   `parquet:"name=DEP_TIME,type=INT64,repetitiontype=OPTIONAL"`
	DepDelayNew        *float64 `parquet:"name=DEP_DELAY_NEW,type=DOUBLE,repetitiontype=OPTIONAL"`
	DepDel15           *int64   `parquet:"name=DEP_DEL15,type=INT64,repetitiontype=OPTIONAL"`
	CrsArrTime         *int64   `parquet:"name=CRS_ARR_TIME,type=INT64,repetitiontype=OPTIONAL"`
	ArrTime            *int64   `parquet:"name=ARR_TIME,type=INT64,repetitiontype=OPTIONAL"`
	ArrDelayNew        *float64 `parquet:"name=ARR_DELAY_NEW,type=DOUBLE,repetitiontype=OPTIONAL"`
	ArrDel15           *int64   `parquet:"name=ARR_DEL15,type=INT64,repetitiontype=OPTIONAL"`
	Cancelled          int64    `parquet:"name=CANCELLED,type=INT64"`
	CancellationCode   *string  `parquet:"name=CANCELLATION_CODE,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	Diverted           int64    `parquet:"name=DIVERTED,type=INT64"`
	Distance           *float64 `parquet:"name=DISTANCE,type=DOUBLE,repetitiontype=OPTIONAL"`
	DistanceGroup      *int64   `parquet:"name=DISTANCE_GROUP,type=INT64,repetitiontype=OPTIONAL"`
	CarrierDelay       *float64 `parquet:"name=CARRIER_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	WeatherDelay       *float64 `parquet:"name=WEATHER_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	NasDelay           *float64 `parquet:"name=NAS_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	SecurityDelay      *float64 `parquet:"name=SECURITY_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	LateAircraftDelay  *float64 `parquet:"name=LATE_AIRCRAFT_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	DivAirportLandings *int64   `parquet:"name=DIV_AIRPORT_LANDINGS,type=INT64,repetitiontype=OPTIONAL"`
	DivReachedDest     *float64 `parquet:"name=DIV_REACHED_DEST,type=DOUBLE,repetitiontype=OPTIONAL"`
	DivArrDelay        *float64 `parquet:"name=DIV_ARR_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	DivDistance        *float64 `parquet:"name=DIV_DISTANCE,type=DOUBLE,repetitiontype=OPTIONAL"`
	Div1Airport        *string  `parquet:"name=DIV1_AIRPORT,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	Div2Airport        *string  `parquet:"name=DIV2_AIRPORT,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
}

// NormalizedFlightRow is the Parquet row written by the normalization step:
// the cleaned columns followed by the derived ones.
type NormalizedFlightRow struct {
	FlDate             *int64   `parquet:"name=FL_DATE,type=INT64,convertedtype=TIMESTAMP_MILLIS,repetitiontype=OPTIONAL"`
	OpUniqueCarrier    *string  `parquet:"name=OP_UNIQUE_CARRIER,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	OpCarrierFlNum     *int64   `parquet:"name=OP_CARRIER_FL_NUM,type=INT64,repetitiontype=OPTIONAL"`
	OriginAirportID    *int64   `parquet:"name=ORIGIN_AIRPORT_ID,type=INT64,repetitiontype=OPTIONAL"`
	OriginCityName     *string  `parquet:"name=ORIGIN_CITY_NAME,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	OriginStateAbr     *string  `parquet:"name=ORIGIN_STATE_ABR,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	DestAirportID      *int64   `parquet:"name=DEST_AIRPORT_ID,type=INT64,repetitiontype=OPTIONAL"`
	DestCityName       *string  `parquet:"name=DEST_CITY_NAME,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	DestStateAbr       *string  `parquet:"name=DEST_STATE_ABR,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	CrsDepTime         *int64   `parquet:"name=CRS_DEP_TIME,type=INT64,repetitiontype=OPTIONAL"`
	DepTime            *int64   `parquet:"name=DEP_TIME,type=INT64,repetitiontype=OPTIONAL"`
	DepDelayNew        *float64 `parquet:"name=DEP_DELAY_NEW,type=DOUBLE,repetitiontype=OPTIONAL"`
	DepDel15           *int64   `parquet:"name=DEP_DEL15,type=INT64,repetitiontype=OPTIONAL"`
	CrsArrTime         *int64   `parquet:"name=CRS_ARR_TIME,type=INT64,repetitiontype=OPTIONAL"`
	ArrTime            *int64   `parquet:"name=ARR_TIME,type=INT64,repetitiontype=OPTIONAL"`
	ArrDelayNew        *float64 `parquet:"name=ARR_DELAY_NEW,type=DOUBLE,repetitiontype=OPTIONAL"`
	ArrDel15           *int64   `parquet:"name=ARR_DEL15,type=INT64,repetitiontype=OPTIONAL"`
	Cancelled          int64    `parquet:"name=CANCELLED,type=INT64"`
	CancellationCode   *string  `parquet:"name=CANCELLATION_CODE,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	Diverted           int64    `parquet:"name=DIVERTED,type=INT64"`
	Distance           *float64 `parquet:"name=DISTANCE,type=DOUBLE,repetitiontype=OPTIONAL"`
	DistanceGroup      *int64   `parquet:"name=DISTANCE_GROUP,type=INT64,repetitiontype=OPTIONAL"`
	CarrierDelay       *float64 `parquet:"name=CARRIER_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	WeatherDelay       *float64 `parquet:"name=WEATHER_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	NasDelay           *float64 `parquet:"name=NAS_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	SecurityDelay      *float64 `parquet:"name=SECURITY_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	LateAircraftDelay  *float64 `parquet:"name=LATE_AIRCRAFT_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	DivAirportLandings *int64   `parquet:"name=DIV_AIRPORT_LANDINGS,type=INT64,repetitiontype=OPTIONAL"`
	DivReachedDest     *float64 `parquet:"name=DIV_REACHED_DEST,type=DOUBLE,repetitiontype=OPTIONAL"`
	DivArrDelay        *float64 `parquet:"name=DIV_ARR_DELAY,type=DOUBLE,repetitiontype=OPTIONAL"`
	DivDistance        *float64 `parquet:"name=DIV_DISTANCE,type=DOUBLE,repetitiontype=OPTIONAL"`
	Div1Airport        *string  `parquet:"name=DIV1_AIRPORT,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	Div2Airport        *string  `parquet:"name=DIV2_AIRPORT,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`

	Year       *int64  `parquet:"name=YEAR,type=INT64,repetitiontype=OPTIONAL"`
	Quarter    *int64  `parquet:"name=QUARTER,type=INT64,repetitiontype=OPTIONAL"`
	Month      *int64  `parquet:"name=MONTH,type=INT64,repetitiontype=OPTIONAL"`
	DayOfWeek  *int64  `parquet:"name=DAY_OF_WEEK,type=INT64,repetitiontype=OPTIONAL"`
	DayOfMonth *int64  `parquet:"name=DAY_OF_MONTH,type=INT64,repetitiontype=OPTIONAL"`
	CrsDepHour *int64  `parquet:"name=CRS_DEP_HOUR,type=INT64,repetitiontype=OPTIONAL"`
	CrsArrHour *int64  `parquet:"name=CRS_ARR_HOUR,type=INT64,repetitiontype=OPTIONAL"`
	DepHour    *int64  `parquet:"name=DEP_HOUR,type=INT64,repetitiontype=OPTIONAL"`
	ArrHour    *int64  `parquet:"name=ARR_HOUR,type=INT64,repetitiontype=OPTIONAL"`
	TimeBucket *string `parquet:"name=TIME_BUCKET,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
}

// ToCleanRow converts f into its cleaned Parquet row.
func ToCleanRow(f *Flight) CleanFlightRow {
	return CleanFlightRow{
		FlDate:             dateToMillis(f.FlDate),
		OpUniqueCarrier:    f.OpUniqueCarrier,
		OpCarrierFlNum:     f.OpCarrierFlNum,
		OriginAirportID:    f.OriginAirportID,
		OriginCityName:     f.OriginCityName,
		OriginStateAbr:     f.OriginStateAbr,
		DestAirportID:      f.DestAirportID,
		DestCityName:       f.DestCityName,
		DestStateAbr:       f.DestStateAbr,
		CrsDepTime:         f.CrsDepTime,
		DepTime:            f.DepTime,
		DepDelayNew:        f.DepDelayNew,
		DepDel15:           f.DepDel15,
		CrsArrTime:         f.CrsArrTime,
		ArrTime:            f.ArrTime,
		ArrDelayNew:        f.ArrDelayNew,
		ArrDel15:           f.ArrDel15,
		Cancelled:          f.Cancelled,
		CancellationCode:   f.CancellationCode,
		Diverted:           f.Diverted,
		Distance:           f.Distance,
		DistanceGroup:      f.DistanceGroup,
		CarrierDelay:       f.CarrierDelay,
		WeatherDelay:       f.WeatherDelay,
		NasDelay:           f.NasDelay,
		SecurityDelay:      f.SecurityDelay,
		LateAircraftDelay:  f.LateAircraftDelay,
		DivAirportLandings: f.DivAirportLandings,
		DivReachedDest:     f.DivReachedDest,
		DivArrDelay:        f.DivArrDelay,
		DivDistance:        f.DivDistance,
		Div1Airport:        f.Div1Airport,
		Div2Airport:        f.Div2Airport,
	}
}

// FromCleanRow converts a cleaned Parquet row back into a Flight.
func FromCleanRow(r CleanFlightRow) *Flight {
	return &Flight{
		FlDate:             millisToDate(r.FlDate),
		OpUniqueCarrier:    r.OpUniqueCarrier,
		OpCarrierFlNum:     r.OpCarrierFlNum,
		OriginAirportID:    r.OriginAirportID,
		OriginCityName:     r.OriginCityName,
		OriginStateAbr:     r.OriginStateAbr,
		DestAirportID:      r.DestAirportID,
		DestCityName:       r.DestCityName,
		DestStateAbr:       r.DestStateAbr,
		CrsDepTime:         r.CrsDepTime,
		DepTime:            r.DepTime,
		DepDelayNew:        r.DepDelayNew,
		DepDel15:           r.DepDel15,
		CrsArrTime:         r.CrsArrTime,
		ArrTime:            r.ArrTime,
		ArrDelayNew:        r.ArrDelayNew,
		ArrDel15:           r.ArrDel15,
		Cancelled:          r.Cancelled,
		CancellationCode:   r.CancellationCode,
		Diverted:           r.Diverted,
		Distance:           r.Distance,
		DistanceGroup:      r.DistanceGroup,
		CarrierDelay:       r.CarrierDelay,
		WeatherDelay:       r.WeatherDelay,
		NasDelay:           r.NasDelay,
		SecurityDelay:      r.SecurityDelay,
		LateAircraftDelay:  r.LateAircraftDelay,
		DivAirportLandings: r.DivAirportLandings,
		DivReachedDest:     r.DivReachedDest,
		DivArrDelay:        r.DivArrDelay,
		DivDistance:        r.DivDistance,
		Div1Airport:        r.Div1Airport,
		Div2Airport:        r.Div2Airport,
	}
}

// ToNormalizedRow converts f into its normalized Parquet row.
func ToNormalizedRow(f *Flight) NormalizedFlightRow {
	c := ToCleanRow(f)
	return NormalizedFlightRow{
		FlDate:             c.FlDate,
		OpUniqueCarrier:    c.OpUniqueCarrier,
		OpCarrierFlNum:     c.OpCarrierFlNum,
		OriginAirportID:    c.OriginAirportID,
		OriginCityName:     c.OriginCityName,
		OriginStateAbr:     c.OriginStateAbr,
		DestAirportID:      c.DestAirportID,
		DestCityName:       c.DestCityName,
		DestStateAbr:       c.DestStateAbr,
		CrsDepTime:         c.CrsDepTime,
		DepTime:            c.DepTime,
		DepDelayNew:        c.DepDelayNew,
		DepDel15:           c.DepDel15,
		CrsArrTime:         c.CrsArrTime,
		ArrTime:            c.ArrTime,
		ArrDelayNew:        c.ArrDelayNew,
		ArrDel15:           c.ArrDel15,
		Cancelled:          c.Cancelled,
		CancellationCode:   c.CancellationCode,
		Diverted:           c.Diverted,
		Distance:           c.Distance,
		DistanceGroup:      c.DistanceGroup,
		CarrierDelay:       c.CarrierDelay,
		WeatherDelay:       c.WeatherDelay,
		NasDelay:           c.NasDelay,
		SecurityDelay:      c.SecurityDelay,
		LateAircraftDelay:  c.LateAircraftDelay,
		DivAirportLandings: c.DivAirportLandings,
		DivReachedDest:     c.DivReachedDest,
		DivArrDelay:        c.DivArrDelay,
		DivDistance:        c.DivDistance,
		Div1Airport:        c.Div1Airport,
		Div2Airport:        c.Div2Airport,
		Year:               f.Year,
		Quarter:            f.Quarter,
		Month:              f.Month,
		DayOfWeek:          f.DayOfWeek,
		DayOfMonth:         f.DayOfMonth,
		CrsDepHour:         f.CrsDepHour,
		CrsArrHour:         f.CrsArrHour,
		DepHour:            f.DepHour,
		ArrHour:            f.ArrHour,
		TimeBucket:         f.TimeBucket,
	}
}

func dateToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func millisToDate(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
