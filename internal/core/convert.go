package core

// convert.go turns raw cell data into Values and Values into numbers.
//
// These functions deal with the usual state of exported roll data:
//   - missing values spelled a dozen ways ("", "NA", "null", "#N/A", ...)
//   - serial numbers that are sometimes text ("12a", "-")
//   - PostgreSQL values arriving as pgtype structs rather than strings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// nullMarkers are cell contents treated as missing, compared exactly.
var nullMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsNullMarker reports whether a raw CSV cell denotes a missing value.
func IsNullMarker(s string) bool {
	return nullMarkers[s]
}

// CellFromString converts a raw CSV field to a Value.
// The text is kept verbatim; only null markers are recognized.
func CellFromString(s string) Value {
	if IsNullMarker(s) {
		return Value{}
	}
	return Text(s)
}

// ParseNumber converts a cell to a float.
// Returns ok=false for nulls and anything that is not a plain decimal or
// scientific number. NaN is never returned as a valid number.
func ParseNumber(v Value) (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders a float without a trailing ".0" for whole numbers.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CellFromAny converts a value decoded by pgx into a Value.
// SQL NULL (nil or an invalid pgtype) becomes a null cell.
func CellFromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Value{}
	case string:
		return Text(val)
	case []byte:
		return Text(string(val))
	case bool:
		return Text(strconv.FormatBool(val))
	case int:
		return Text(strconv.Itoa(val))
	case int16:
		return Text(strconv.FormatInt(int64(val), 10))
	case int32:
		return Text(strconv.FormatInt(int64(val), 10))
	case int64:
		return Text(strconv.FormatInt(val, 10))
	case float32:
		return Text(FormatNumber(float64(val)))
	case float64:
		return Text(FormatNumber(val))
	case time.Time:
		if val.IsZero() {
			return Value{}
		}
		return Text(val.Format("2006-01-02"))
	case [16]byte:
		return Text(uuid.UUID(val).String())
	case pgtype.Text:
		if !val.Valid {
			return Value{}
		}
		return Text(val.String)
	case pgtype.Numeric:
		if !val.Valid {
			return Value{}
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return Value{}
		}
		return Text(FormatNumber(f.Float64))
	case pgtype.Date:
		if !val.Valid {
			return Value{}
		}
		return Text(val.Time.Format("2006-01-02"))
	case pgtype.UUID:
		if !val.Valid {
			return Value{}
		}
		return Text(uuid.UUID(val.Bytes).String())
	default:
		return Text(fmt.Sprintf("%v", v))
	}
}
