package excel

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ValueKind identifies which variant a cell Value holds.
type ValueKind string

const (
	// ValueEmpty is an empty cell.
	ValueEmpty ValueKind = "empty"

	// ValueString is a text cell.
	ValueString ValueKind = "string"

	// ValueNumber is a numeric cell. Excel stores all numerics
	// (integers included) as float64.
	ValueNumber ValueKind = "number"

	// ValueBool is a boolean cell.
	ValueBool ValueKind = "bool"

	// ValueTime is a date/time cell. On the wire Excel represents these
	// as serial day counts from the 1899-12-30 epoch; see TimeFromSerial.
	ValueTime ValueKind = "time"
)

// Value is the tagged variant for a single cell scalar. Cells are loosely
// typed in the host application, so reads return one of empty, string,
// number, bool, or time rather than a fixed Go type.
//
// The zero Value is the empty cell.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	t    time.Time
}

// Empty returns the empty cell value.
func Empty() Value {
	return Value{kind: ValueEmpty}
}

// String returns a text value.
func String(s string) Value {
	return Value{kind: ValueString, str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: ValueNumber, num: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: ValueBool, b: b}
}

// Time returns a date/time value.
func Time(t time.Time) Value {
	return Value{kind: ValueTime, t: t}
}

// ValueOf converts a native Go scalar into a Value. Supported inputs are
// nil, string, bool, time.Time, and the integer/float types. Anything
// else is rendered with fmt.Sprint and stored as a string.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Empty()
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case time.Time:
		return Time(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	default:
		return String(fmt.Sprint(v))
	}
}

// ParseValue interprets raw cell text the way Excel renders it. Numeric
// text becomes a number, "TRUE"/"FALSE" become booleans, empty text is
// the empty cell, and everything else stays a string. The file-backed
// driver uses this because its backing library reads cells as strings.
func ParseValue(s string) Value {
	if s == "" {
		return Empty()
	}
	switch s {
	case "TRUE":
		return Bool(true)
	case "FALSE":
		return Bool(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return String(s)
}

// Kind returns which variant the value holds.
func (v Value) Kind() ValueKind {
	if v.kind == "" {
		return ValueEmpty
	}
	return v.kind
}

// IsEmpty reports whether the value is the empty cell.
func (v Value) IsEmpty() bool {
	return v.Kind() == ValueEmpty
}

// Text returns the string variant, or the value rendered as display text
// for the other variants. The empty cell renders as "".
func (v Value) Text() string {
	switch v.Kind() {
	case ValueString:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case ValueTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Float returns the numeric variant. The second return is false when the
// value is not a number (times are returned as their serial day count).
func (v Value) Float() (float64, bool) {
	switch v.Kind() {
	case ValueNumber:
		return v.num, true
	case ValueTime:
		return SerialFromTime(v.t), true
	default:
		return 0, false
	}
}

// Bool returns the boolean variant; the second return is false when the
// value is not a boolean.
func (v Value) Bool() (bool, bool) {
	if v.Kind() != ValueBool {
		return false, false
	}
	return v.b, true
}

// Time returns the date/time variant; the second return is false when the
// value is not a time.
func (v Value) Time() (time.Time, bool) {
	if v.Kind() != ValueTime {
		return time.Time{}, false
	}
	return v.t, true
}

// Interface returns the value as a native Go scalar for handing to the
// host application: nil, string, float64, bool, or time.Time.
func (v Value) Interface() interface{} {
	switch v.Kind() {
	case ValueString:
		return v.str
	case ValueNumber:
		return v.num
	case ValueBool:
		return v.b
	case ValueTime:
		return v.t
	default:
		return nil
	}
}

// Equal reports whether two values hold the same variant and content.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case ValueString:
		return v.str == other.str
	case ValueNumber:
		return v.num == other.num
	case ValueBool:
		return v.b == other.b
	case ValueTime:
		return v.t.Equal(other.t)
	default:
		return true
	}
}

// String satisfies fmt.Stringer for diagnostics and CLI output.
func (v Value) String() string {
	return v.Text()
}

// serialEpoch is the zero point of Excel's date serial numbers. Excel day
// 0 is 1899-12-30 (the off-by-two relative to 1900-01-01 preserves a
// historical Lotus 1-2-3 leap-year bug).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// TimeFromSerial converts an Excel date serial number to a time.Time.
// The fractional part of the serial is the time of day. The day part is
// applied with AddDate, which stays exact for the full serial range; a
// single Duration would overflow past day 106751.
func TimeFromSerial(serial float64) time.Time {
	days := math.Trunc(serial)
	frac := serial - days
	t := serialEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(math.Round(frac * 24 * float64(time.Hour))))
}

// SerialFromTime converts a time.Time to an Excel date serial number.
// Serials are timezone-naive: the wall-clock reading is used as-is,
// whatever zone the time carries. Days and time of day are combined
// separately so the full serial range stays exact.
func SerialFromTime(t time.Time) float64 {
	wallDate := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := float64(wallDate.Unix()/86400 - serialEpoch.Unix()/86400)
	clock := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return days + clock.Hours()/24
}
