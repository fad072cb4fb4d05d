package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Grid limits of the host application: 1,048,576 rows by 16,384 columns
// (the last column is XFD). References beyond these are rejected before
// reaching the host.
const (
	MaxRows    = 1048576
	MaxColumns = 16384
)

// refSpan is a parsed cell or range reference in 1-based coordinates.
// For a single cell the start and end coordinates are equal.
type refSpan struct {
	startCol, startRow int
	endCol, endRow     int
	single             bool
}

// rows returns the number of rows the span covers.
func (s refSpan) rows() int {
	return s.endRow - s.startRow + 1
}

// columns returns the number of columns the span covers.
func (s refSpan) columns() int {
	return s.endCol - s.startCol + 1
}

// cellName returns the reference of the cell at the given zero-based
// offset within the span.
func (s refSpan) cellName(rowOff, colOff int) string {
	name, _ := excelize.CoordinatesToCellName(s.startCol+colOff, s.startRow+rowOff)
	return name
}

// address renders the span back to canonical "A1" or "A1:B2" form.
func (s refSpan) address() string {
	start, _ := excelize.CoordinatesToCellName(s.startCol, s.startRow)
	if s.single {
		return start
	}
	end, _ := excelize.CoordinatesToCellName(s.endCol, s.endRow)
	return start + ":" + end
}

// startCell returns the top-left cell of the span.
func (s refSpan) startCell() string {
	name, _ := excelize.CoordinatesToCellName(s.startCol, s.startRow)
	return name
}

// absAddress renders the span with absolute markers ("$A$1:$B$2"), the
// form defined names refer to ranges by.
func (s refSpan) absAddress() string {
	start := absCellName(s.startCol, s.startRow)
	if s.single {
		return start
	}
	return start + ":" + absCellName(s.endCol, s.endRow)
}

func absCellName(col, row int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return "$" + name + "$" + strconv.Itoa(row)
}

// overlaps reports whether two spans share at least one cell.
func (s refSpan) overlaps(o refSpan) bool {
	return s.startCol <= o.endCol && o.startCol <= s.endCol &&
		s.startRow <= o.endRow && o.startRow <= s.endRow
}

// parseRef validates and canonicalizes a cell or range reference
// ("A1", "a1", "$A$1", "A1:B2"). The host accepts absolute markers and
// lowercase column letters, so both are normalized away rather than
// rejected. All failures are of kind KindReference.
func parseRef(ref string) (refSpan, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if cleaned == "" {
		return refSpan{}, NewError(KindReference, fmt.Sprintf("invalid cell reference %q", ref))
	}

	parts := strings.Split(cleaned, ":")
	if len(parts) > 2 {
		return refSpan{}, NewError(KindReference, fmt.Sprintf("invalid cell reference %q", ref))
	}

	startCol, startRow, err := parseCell(parts[0])
	if err != nil {
		return refSpan{}, WrapError(KindReference, fmt.Sprintf("invalid cell reference %q", ref), err)
	}

	if len(parts) == 1 {
		return refSpan{
			startCol: startCol, startRow: startRow,
			endCol: startCol, endRow: startRow,
			single: true,
		}, nil
	}

	endCol, endRow, err := parseCell(parts[1])
	if err != nil {
		return refSpan{}, WrapError(KindReference, fmt.Sprintf("invalid cell reference %q", ref), err)
	}

	// The host normalizes reversed ranges ("B2:A1") to top-left:bottom-right.
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}

	return refSpan{
		startCol: startCol, startRow: startRow,
		endCol: endCol, endRow: endRow,
	}, nil
}

// parseCell parses one "A1"-style cell name into 1-based column and row,
// enforcing the host grid limits.
func parseCell(cell string) (col, row int, err error) {
	col, row, err = excelize.CellNameToCoordinates(strings.ToUpper(cell))
	if err != nil {
		return 0, 0, err
	}
	if col < 1 || col > MaxColumns {
		return 0, 0, fmt.Errorf("column of %q exceeds the %d-column grid limit", cell, MaxColumns)
	}
	if row < 1 || row > MaxRows {
		return 0, 0, fmt.Errorf("row of %q exceeds the %d-row grid limit", cell, MaxRows)
	}
	return col, row, nil
}
