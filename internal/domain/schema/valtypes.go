package schema

// Data types backing text-field validation types.
const (
	DataTypeDate            = "date"
	DataTypeDatetime        = "datetime"
	DataTypeDatetimeSeconds = "datetime_seconds"
)

// valTypes maps a validation type name to its underlying data type, for the
// validation types the extraction engine needs to distinguish. Validation
// names carry a component-order suffix (dmy/mdy/ymd) but share a data type.
var valTypes = map[string]string{
	"date_dmy":             DataTypeDate,
	"date_mdy":             DataTypeDate,
	"date_ymd":             DataTypeDate,
	"datetime_dmy":         DataTypeDatetime,
	"datetime_mdy":         DataTypeDatetime,
	"datetime_ymd":         DataTypeDatetime,
	"datetime_seconds_dmy": DataTypeDatetimeSeconds,
	"datetime_seconds_mdy": DataTypeDatetimeSeconds,
	"datetime_seconds_ymd": DataTypeDatetimeSeconds,
	"time":                 "time",
	"number":               "number",
	"integer":              "integer",
	"email":                "email",
	"phone":                "phone",
	"zipcode":              "zipcode",
}

// IsDateTimeValidation reports whether a validation type belongs to the
// date/datetime/datetime-with-seconds family.
func IsDateTimeValidation(validationType string) bool {
	switch valTypes[validationType] {
	case DataTypeDate, DataTypeDatetime, DataTypeDatetimeSeconds:
		return true
	}
	return false
}
