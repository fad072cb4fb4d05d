package excel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValueOf verifies that native Go scalars map onto the expected
// Value variants.
func TestValueOf(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected ValueKind
	}{
		{"nil", nil, ValueEmpty},
		{"string", "hello", ValueString},
		{"float64", 3.14, ValueNumber},
		{"int", 42, ValueNumber},
		{"int64", int64(42), ValueNumber},
		{"uint", uint(7), ValueNumber},
		{"bool", true, ValueBool},
		{"time", time.Now(), ValueTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValueOf(tt.input).Kind())
		})
	}
}

// TestValueOf_Passthrough verifies that a Value passed to ValueOf is
// returned unchanged rather than re-wrapped as a string.
func TestValueOf_Passthrough(t *testing.T) {
	v := Number(12)
	assert.True(t, v.Equal(ValueOf(v)))
}

// TestParseValue verifies the text-to-variant rules used by the file
// driver: numerics become numbers, TRUE/FALSE become booleans, empty
// text is the empty cell.
func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected Value
	}{
		{"", Empty()},
		{"hello world", String("hello world")},
		{"42", Number(42)},
		{"-1.5", Number(-1.5)},
		{"TRUE", Bool(true)},
		{"FALSE", Bool(false)},
		{"true", String("true")}, // Excel renders booleans uppercase only
		{"42abc", String("42abc")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(ParseValue(tt.input)),
				"ParseValue(%q) = %v, want %v", tt.input, ParseValue(tt.input), tt.expected)
		})
	}
}

// TestValue_Accessors verifies the typed accessors report presence
// correctly for matching and non-matching variants.
func TestValue_Accessors(t *testing.T) {
	f, ok := Number(2.5).Float()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = String("x").Float()
	assert.False(t, ok)

	b, ok := Bool(true).Bool()
	require.True(t, ok)
	assert.True(t, b)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	got, ok := Time(now).Time()
	require.True(t, ok)
	assert.True(t, now.Equal(got))

	assert.True(t, Empty().IsEmpty())
	assert.False(t, Number(0).IsEmpty())
}

// TestValue_Text verifies display rendering for each variant.
func TestValue_Text(t *testing.T) {
	assert.Equal(t, "", Empty().Text())
	assert.Equal(t, "hi", String("hi").Text())
	assert.Equal(t, "42", Number(42).Text())
	assert.Equal(t, "1.5", Number(1.5).Text())
	assert.Equal(t, "TRUE", Bool(true).Text())
	assert.Equal(t, "FALSE", Bool(false).Text())
}

// TestSerialConversion verifies Excel date serial round-trips against
// known anchors: day 1 of the 1899-12-30 epoch and the Unix epoch
// (serial 25569).
func TestSerialConversion(t *testing.T) {
	assert.Equal(t, time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC), TimeFromSerial(1))
	assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), TimeFromSerial(25569))

	// Fractional serials carry the time of day.
	assert.Equal(t, time.Date(1970, 1, 1, 12, 0, 0, 0, time.UTC), TimeFromSerial(25569.5))

	// Round trip.
	d := time.Date(2024, 2, 29, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, d, TimeFromSerial(SerialFromTime(d)))
	assert.InDelta(t, 45351.25, SerialFromTime(d), 1e-9)
}

// TestSerialConversion_FarDates verifies serials stay exact across the
// host's full date range; its maximum date 9999-12-31 is serial 2958465,
// far past what a single nanosecond Duration can span.
func TestSerialConversion_FarDates(t *testing.T) {
	maxDate := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, maxDate, TimeFromSerial(2958465))
	assert.Equal(t, float64(2958465), SerialFromTime(maxDate))

	d := time.Date(2500, 7, 4, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, d, TimeFromSerial(SerialFromTime(d)))
}

// TestSerialFromTime_TimezoneNaive verifies serials come from the wall
// clock: the same clock reading in any zone yields the same serial.
func TestSerialFromTime_TimezoneNaive(t *testing.T) {
	utc := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	east := time.Date(2024, 3, 1, 18, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))
	west := time.Date(2024, 3, 1, 18, 30, 0, 0, time.FixedZone("UTC-7", -7*3600))

	want := SerialFromTime(utc)
	assert.Equal(t, want, SerialFromTime(east))
	assert.Equal(t, want, SerialFromTime(west))
}

// TestValue_Equal verifies variant and content comparison.
func TestValue_Equal(t *testing.T) {
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("a").Equal(String("b")))
	assert.False(t, String("1").Equal(Number(1)))
	assert.True(t, Empty().Equal(Value{}), "zero Value is the empty cell")
}
