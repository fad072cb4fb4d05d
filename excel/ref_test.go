package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRef_Valid verifies that well-formed cell and range references
// are accepted and canonicalized (case, absolute markers, reversed
// ranges).
func TestParseRef_Valid(t *testing.T) {
	tests := []struct {
		input   string
		address string
		rows    int
		columns int
		single  bool
	}{
		{"A1", "A1", 1, 1, true},
		{"a1", "A1", 1, 1, true},
		{"$A$1", "A1", 1, 1, true},
		{" B2 ", "B2", 1, 1, true},
		{"A1:B2", "A1:B2", 2, 2, false},
		{"B2:A1", "A1:B2", 2, 2, false}, // reversed ranges normalize
		{"A1:Z100", "A1:Z100", 100, 26, false},
		{"XFD1", "XFD1", 1, 1, true},       // last column
		{"A1048576", "A1048576", 1, 1, true}, // last row
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			span, err := parseRef(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.address, span.address())
			assert.Equal(t, tt.rows, span.rows())
			assert.Equal(t, tt.columns, span.columns())
			assert.Equal(t, tt.single, span.single)
		})
	}
}

// TestParseRef_Invalid verifies that malformed and out-of-grid
// references fail with KindReference. The grid limits are 1,048,576
// rows and 16,384 columns (max column XFD).
func TestParseRef_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"ZZZZ1",       // column far beyond XFD
		"XFE1",        // one column past the limit
		"A1048577",    // one row past the limit
		"A1:Z1048577", // range end past the row limit
		"A1:XFE1",     // range end past the column limit
		"A0",
		"0",
		"1A",
		"A",
		"A1:B2:C3",
		"A1:",
		":B2",
		"hello",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := parseRef(input)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindReference),
				"parseRef(%q) should fail with KindReference, got %v", input, err)
		})
	}
}

// TestRefSpan_CellName verifies offset addressing within a span, which
// the drivers use to iterate range cells.
func TestRefSpan_CellName(t *testing.T) {
	span, err := parseRef("B2:D4")
	require.NoError(t, err)

	assert.Equal(t, "B2", span.cellName(0, 0))
	assert.Equal(t, "D2", span.cellName(0, 2))
	assert.Equal(t, "B4", span.cellName(2, 0))
	assert.Equal(t, "D4", span.cellName(2, 2))
	assert.Equal(t, "B2", span.startCell())
}
