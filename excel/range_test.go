package excel

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTempWorkbook creates a fresh workbook file under t.TempDir and
// opens it with the file driver, closing it when the test ends.
func openTempWorkbook(t *testing.T) *Workbook {
	t.Helper()
	path := filepath.Join(t.TempDir(), "range.xlsx")
	wb, err := OpenWith(path, Options{Driver: DriverFile})
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

// TestParseClearMode verifies the mode parser accepts every defined
// mode and rejects everything else.
func TestParseClearMode(t *testing.T) {
	for _, s := range []string{"all", "contents", "formats", "comments", "outlines"} {
		mode, err := ParseClearMode(s)
		require.NoError(t, err)
		assert.Equal(t, s, mode.String())
		assert.True(t, mode.IsValid())
	}

	_, err := ParseClearMode("everything")
	assert.Error(t, err)
	assert.False(t, ClearMode("").IsValid())
}

// TestRange_Geometry verifies address normalization and dimension
// accessors for single cells and rectangular blocks.
func TestRange_Geometry(t *testing.T) {
	tests := []struct {
		ref     string
		address string
		start   string
		columns int
		rows    int
	}{
		{"A1", "A1", "A1", 1, 1},
		{"B2:D5", "B2:D5", "B2", 3, 4},
		{"D5:B2", "B2:D5", "B2", 3, 4},
		{"$A$1:$C$1", "A1:C1", "A1", 3, 1},
	}

	wb := openTempWorkbook(t)
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			r, err := wb.Range(tt.ref)
			require.NoError(t, err)

			assert.Equal(t, tt.address, r.Address())
			assert.Equal(t, tt.start, r.StartCell())
			assert.Equal(t, tt.columns, r.Columns())
			assert.Equal(t, tt.rows, r.Rows())

			cols, rows := r.Dim()
			assert.Equal(t, tt.columns, cols)
			assert.Equal(t, tt.rows, rows)
		})
	}
}

// TestRange_SetValuesRoundTrip verifies a matrix write reads back
// row-major, and that a short matrix blanks the uncovered cells.
func TestRange_SetValuesRoundTrip(t *testing.T) {
	wb := openTempWorkbook(t)

	r, err := wb.Range("A1:C2")
	require.NoError(t, err)
	require.NoError(t, r.SetValues([][]Value{
		{String("name"), String("count"), String("ok")},
		{String("widget"), Number(3), Bool(true)},
	}))

	got, err := r.Values()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, String("name").Equal(got[0][0]))
	assert.True(t, Number(3).Equal(got[1][1]))
	assert.True(t, Bool(true).Equal(got[1][2]))

	// A shorter matrix blanks the cells it no longer covers.
	require.NoError(t, r.SetValues([][]Value{{String("only")}}))
	got, err = r.Values()
	require.NoError(t, err)
	assert.True(t, String("only").Equal(got[0][0]))
	assert.True(t, got[0][1].IsEmpty())
	assert.True(t, got[1][2].IsEmpty())
}

// TestRange_SetAndValue verifies Set writes only the first cell.
func TestRange_SetAndValue(t *testing.T) {
	wb := openTempWorkbook(t)

	r, err := wb.Range("B2:C3")
	require.NoError(t, err)
	require.NoError(t, r.Set(99))

	v, err := r.Value()
	require.NoError(t, err)
	assert.True(t, Number(99).Equal(v))

	rest, err := wb.Get("C3")
	require.NoError(t, err)
	assert.True(t, rest.IsEmpty())
}

// TestRange_ClearContents verifies clearing removes values from every
// cell of the range and nothing outside it.
func TestRange_ClearContents(t *testing.T) {
	wb := openTempWorkbook(t)

	require.NoError(t, wb.Set("A1", "inside"))
	require.NoError(t, wb.Set("B2", "inside"))
	require.NoError(t, wb.Set("D4", "outside"))

	r, err := wb.Range("A1:B2")
	require.NoError(t, err)
	require.NoError(t, r.Clear(ClearContents))

	for _, ref := range []string{"A1", "B2"} {
		v, err := wb.Get(ref)
		require.NoError(t, err)
		assert.True(t, v.IsEmpty(), "%s should be cleared", ref)
	}

	v, err := wb.Get("D4")
	require.NoError(t, err)
	assert.True(t, String("outside").Equal(v))

	assert.True(t, IsKind(r.Clear(ClearMode("nope")), KindWrite))
}

// TestRange_NumberFormat verifies a format applied to a range reads
// back, and that untouched cells report the general format.
func TestRange_NumberFormat(t *testing.T) {
	wb := openTempWorkbook(t)

	r, err := wb.Range("A1:A3")
	require.NoError(t, err)

	format, err := r.NumberFormat()
	require.NoError(t, err)
	assert.Equal(t, "General", format)

	require.NoError(t, r.SetNumberFormat("0.00%"))
	format, err = r.NumberFormat()
	require.NoError(t, err)
	assert.Equal(t, "0.00%", format)
}

// TestRange_Comment verifies comment set, read, and removal via empty
// text.
func TestRange_Comment(t *testing.T) {
	wb := openTempWorkbook(t)

	r, err := wb.Range("C5")
	require.NoError(t, err)

	text, err := r.Comment()
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, r.SetComment("checked by hand"))
	text, err = r.Comment()
	require.NoError(t, err)
	assert.Equal(t, "checked by hand", text)

	require.NoError(t, r.SetComment(""))
	text, err = r.Comment()
	require.NoError(t, err)
	assert.Empty(t, text)
}

// TestRange_DefinedName verifies naming a range, reading the name back,
// and that unrelated ranges stay unnamed.
func TestRange_DefinedName(t *testing.T) {
	wb := openTempWorkbook(t)

	r, err := wb.Range("B2:D4")
	require.NoError(t, err)

	name, err := r.Name()
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, r.SetName("inputs"))
	name, err = r.Name()
	require.NoError(t, err)
	assert.Equal(t, "inputs", name)

	other, err := wb.Range("A1")
	require.NoError(t, err)
	name, err = other.Name()
	require.NoError(t, err)
	assert.Empty(t, name)

	assert.True(t, IsKind(r.SetName(""), KindWrite))
}

// TestRange_ListValidation verifies a drop-down restriction is
// detectable on the cells it covers and nowhere else.
func TestRange_ListValidation(t *testing.T) {
	wb := openTempWorkbook(t)

	r, err := wb.Range("A1:A5")
	require.NoError(t, err)

	has, err := r.HasValidation()
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, r.SetListValidation([]string{"red", "green", "blue"}))

	has, err = r.HasValidation()
	require.NoError(t, err)
	assert.True(t, has)

	inside, err := wb.Range("A3")
	require.NoError(t, err)
	has, err = inside.HasValidation()
	require.NoError(t, err)
	assert.True(t, has, "a cell inside the validated range reports the rule")

	outside, err := wb.Range("B1")
	require.NoError(t, err)
	has, err = outside.HasValidation()
	require.NoError(t, err)
	assert.False(t, has)

	assert.True(t, IsKind(r.SetListValidation(nil), KindWrite))
}

// TestRange_Extend verifies the table sweep grows right then down from
// the start cell and stops at the first blank in each direction.
func TestRange_Extend(t *testing.T) {
	wb := openTempWorkbook(t)

	// A contiguous 3x4 table anchored at B2, with a stray value past a
	// gap that must not be picked up.
	for i, h := range []string{"id", "name", "qty"} {
		require.NoError(t, wb.Set(string(rune('B'+i))+"2", h))
	}
	for row := 3; row <= 5; row++ {
		require.NoError(t, wb.Set("B"+strconv.Itoa(row), row))
	}
	require.NoError(t, wb.Set("F2", "stray"))

	r, err := wb.Range("B2")
	require.NoError(t, err)
	table, err := r.Extend()
	require.NoError(t, err)

	assert.Equal(t, "B2:D5", table.Address())
	assert.Equal(t, 3, table.Columns())
	assert.Equal(t, 4, table.Rows())

	// The receiver is unchanged.
	assert.Equal(t, "B2", r.Address())
}

// TestRange_ExtendSingle verifies a lone cell extends to itself.
func TestRange_ExtendSingle(t *testing.T) {
	wb := openTempWorkbook(t)
	require.NoError(t, wb.Set("E7", "alone"))

	r, err := wb.Range("E7")
	require.NoError(t, err)
	table, err := r.Extend()
	require.NoError(t, err)
	assert.Equal(t, "E7", table.Address())
}

// TestRange_ClosedSession verifies a Range outliving its workbook fails
// with KindClosed.
func TestRange_ClosedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "range.xlsx")
	wb, err := OpenWith(path, Options{Driver: DriverFile})
	require.NoError(t, err)

	r, err := wb.Range("A1:B2")
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	_, err = r.Values()
	assert.True(t, IsKind(err, KindClosed))
	assert.True(t, IsKind(r.Set(1), KindClosed))
	assert.True(t, IsKind(r.Clear(ClearContents), KindClosed))
}
