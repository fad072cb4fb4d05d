package excel

import "fmt"

// ClearMode selects what Clear removes from a range.
type ClearMode string

const (
	// ClearAll removes values, formats, and comments.
	ClearAll ClearMode = "all"

	// ClearContents removes cell values only.
	ClearContents ClearMode = "contents"

	// ClearFormats removes cell formatting.
	ClearFormats ClearMode = "formats"

	// ClearComments removes cell comments.
	ClearComments ClearMode = "comments"

	// ClearOutlines removes row/column outlines.
	ClearOutlines ClearMode = "outlines"
)

// String returns the string representation of the clear mode.
func (m ClearMode) String() string {
	return string(m)
}

// IsValid checks whether the ClearMode is one of the defined values.
func (m ClearMode) IsValid() bool {
	switch m {
	case ClearAll, ClearContents, ClearFormats, ClearComments, ClearOutlines:
		return true
	default:
		return false
	}
}

// ParseClearMode converts a string to a ClearMode.
func ParseClearMode(s string) (ClearMode, error) {
	mode := ClearMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid clear mode %q (valid: all, contents, formats, comments, outlines)", s)
	}
	return mode, nil
}

// Range is a rectangular block of cells on the workbook's active sheet,
// produced by Workbook.Range. It stays bound to its session: operations
// on a Range fail with KindClosed once the workbook is closed.
type Range struct {
	wb   *Workbook
	span refSpan
}

// Address returns the canonical reference of the range without absolute
// markers, e.g. "A1:B2".
func (r *Range) Address() string {
	return r.span.address()
}

// StartCell returns the top-left cell of the range.
func (r *Range) StartCell() string {
	return r.span.startCell()
}

// Rows returns the number of rows in the range.
func (r *Range) Rows() int {
	return r.span.rows()
}

// Columns returns the number of columns in the range.
func (r *Range) Columns() int {
	return r.span.columns()
}

// Dim returns the number of columns and rows in the range.
func (r *Range) Dim() (columns, rows int) {
	return r.span.columns(), r.span.rows()
}

// Value returns the value of the first (top-left) cell.
func (r *Range) Value() (Value, error) {
	if err := r.wb.ensureActive(); err != nil {
		return Value{}, err
	}
	return r.wb.doc.cellValue(r.span)
}

// Values returns the values of every cell in the range, row-major.
func (r *Range) Values() ([][]Value, error) {
	if err := r.wb.ensureActive(); err != nil {
		return nil, err
	}
	return r.wb.doc.rangeValues(r.span)
}

// Set writes a single scalar into the first cell of the range; the other
// cells are left untouched.
func (r *Range) Set(value interface{}) error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	return r.wb.doc.setCellValue(r.span, ValueOf(value))
}

// SetValues writes a row-major matrix into the range. When fewer values
// are supplied than the range has cells, the remaining cells are
// blanked; surplus values are ignored.
func (r *Range) SetValues(values [][]Value) error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	return r.wb.doc.setRangeValues(r.span, values)
}

// Clear removes contents from the range according to mode.
func (r *Range) Clear(mode ClearMode) error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	if !mode.IsValid() {
		return NewError(KindWrite, fmt.Sprintf("%q is not a valid clear mode", mode))
	}
	return r.wb.doc.clearRange(r.span, mode)
}

// NumberFormat returns the number-format code of the range.
func (r *Range) NumberFormat() (string, error) {
	if err := r.wb.ensureActive(); err != nil {
		return "", err
	}
	return r.wb.doc.numberFormat(r.span)
}

// SetNumberFormat applies a number-format code to the range.
func (r *Range) SetNumberFormat(format string) error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	return r.wb.doc.setNumberFormat(r.span, format)
}

// Comment returns the comment attached to the first cell of the range,
// or "" when there is none.
func (r *Range) Comment() (string, error) {
	if err := r.wb.ensureActive(); err != nil {
		return "", err
	}
	return r.wb.doc.comment(r.span)
}

// SetComment replaces the comment on the first cell of the range.
// An empty text removes the comment.
func (r *Range) SetComment(text string) error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	return r.wb.doc.setComment(r.span, text)
}

// Name returns the defined name that refers to exactly this range, or
// "" when the range has none.
func (r *Range) Name() (string, error) {
	if err := r.wb.ensureActive(); err != nil {
		return "", err
	}
	return r.wb.doc.rangeName(r.span)
}

// SetName registers a workbook-scoped defined name for this range.
func (r *Range) SetName(name string) error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	if name == "" {
		return NewError(KindWrite, "range name must not be empty")
	}
	return r.wb.doc.setRangeName(r.span, name)
}

// SetListValidation restricts the range's cells to a drop-down list of
// the given options, replacing any existing validation rule.
func (r *Range) SetListValidation(options []string) error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	if len(options) == 0 {
		return NewError(KindWrite, "validation list must not be empty")
	}
	return r.wb.doc.listValidation(r.span, options)
}

// HasValidation reports whether any cell of the range carries a data
// validation rule.
func (r *Range) HasValidation() (bool, error) {
	if err := r.wb.ensureActive(); err != nil {
		return false, err
	}
	return r.wb.doc.hasValidation(r.span)
}

// Calculate recalculates formulas within the range's sheet.
func (r *Range) Calculate() error {
	if err := r.wb.ensureActive(); err != nil {
		return err
	}
	return r.wb.doc.calculate(true)
}

// Extend grows the range from its start cell first rightward and then
// downward until a blank cell is met, the same selection a ctrl+shift
// arrow sweep produces in the host application. It returns a new Range
// covering the discovered table; the receiver is unchanged.
func (r *Range) Extend() (*Range, error) {
	if err := r.wb.ensureActive(); err != nil {
		return nil, err
	}

	endCol := r.span.startCol
	for endCol < MaxColumns {
		next := refSpan{
			startCol: endCol + 1, startRow: r.span.startRow,
			endCol: endCol + 1, endRow: r.span.startRow,
			single: true,
		}
		v, err := r.wb.doc.cellValue(next)
		if err != nil {
			return nil, err
		}
		if v.IsEmpty() {
			break
		}
		endCol++
	}

	endRow := r.span.startRow
	for endRow < MaxRows {
		next := refSpan{
			startCol: r.span.startCol, startRow: endRow + 1,
			endCol: r.span.startCol, endRow: endRow + 1,
			single: true,
		}
		v, err := r.wb.doc.cellValue(next)
		if err != nil {
			return nil, err
		}
		if v.IsEmpty() {
			break
		}
		endRow++
	}

	span := refSpan{
		startCol: r.span.startCol, startRow: r.span.startRow,
		endCol: endCol, endRow: endRow,
		single: endCol == r.span.startCol && endRow == r.span.startRow,
	}
	return &Range{wb: r.wb, span: span}, nil
}
