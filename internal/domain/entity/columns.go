package entity

// Source column names of the on-time performance extract.
const (
	ColFlDate             = "FL_DATE"
	ColOpUniqueCarrier    = "OP_UNIQUE_CARRIER"
	ColOpCarrierFlNum     = "OP_CARRIER_FL_NUM"
	ColOriginAirportID    = "ORIGIN_AIRPORT_ID"
	ColOriginCityName     = "ORIGIN_CITY_NAME"
	ColOriginStateAbr     = "ORIGIN_STATE_ABR"
	ColDestAirportID      = "DEST_AIRPORT_ID"
	ColDestCityName       = "DEST_CITY_NAME"
	ColDestStateAbr       = "DEST_STATE_ABR"
	ColCrsDepTime         = "CRS_DEP_TIME"
	ColDepTime            = "DEP_TIME"
	ColDepDelayNew        = "DEP_DELAY_NEW"
	ColDepDel15           = "DEP_DEL15"
	ColCrsArrTime         = "CRS_ARR_TIME"
	ColArrTime            = "ARR_TIME"
	ColArrDelayNew        = "ARR_DELAY_NEW"
	ColArrDel15           = "ARR_DEL15"
	ColCancelled          = "CANCELLED"
	ColCancellationCode   = "CANCELLATION_CODE"
	ColDiverted           = "DIVERTED"
	ColDistance           = "DISTANCE"
	ColDistanceGroup      = "DISTANCE_GROUP"
	ColCarrierDelay       = "CARRIER_DELAY"
	ColWeatherDelay       = "WEATHER_DELAY"
	ColNasDelay           = "NAS_DELAY"
	ColSecurityDelay      = "SECURITY_DELAY"
	ColLateAircraftDelay  = "LATE_AIRCRAFT_DELAY"
	ColDivAirportLandings = "DIV_AIRPORT_LANDINGS"
	ColDivReachedDest     = "DIV_REACHED_DEST"
	ColDivArrDelay        = "DIV_ARR_DELAY"
	ColDivDistance        = "DIV_DISTANCE"
	ColDiv1Airport        = "DIV1_AIRPORT"
	ColDiv2Airport        = "DIV2_AIRPORT"
)

// OutputColumns lists the selected source columns in output order.
var OutputColumns = []string{
	ColFlDate,
	ColOpUniqueCarrier,
	ColOpCarrierFlNum,
	ColOriginAirportID,
	ColOriginCityName,
	ColOriginStateAbr,
	ColDestAirportID,
	ColDestCityName,
	ColDestStateAbr,
	ColCrsDepTime,
	ColDepTime,
	ColDepDelayNew,
	ColDepDel15,
	ColCrsArrTime,
	ColArrTime,
	ColArrDelayNew,
	ColArrDel15,
	ColCancelled,
	ColCancellationCode,
	ColDiverted,
	ColDistance,
	ColDistanceGroup,
	ColCarrierDelay,
	ColWeatherDelay,
	ColNasDelay,
	ColSecurityDelay,
	ColLateAircraftDelay,
	ColDivAirportLandings,
	ColDivReachedDest,
	ColDivArrDelay,
	ColDivDistance,
	ColDiv1Airport,
	ColDiv2Airport,
}

// KeyColumns lists the columns forming the natural key of a flight.
var KeyColumns = []string{
	ColFlDate,
	ColOpUniqueCarrier,
	ColOpCarrierFlNum,
	ColOriginAirportID,
	ColDestAirportID,
}
