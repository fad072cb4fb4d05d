//go:build windows

package excel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// comDriver drives a live Excel application through COM automation.
// Each open call owns one application dispatch and one workbook dispatch
// for the duration of the session; close releases both on every path.
type comDriver struct{}

func newCOMDriver() (driver, error) {
	return comDriver{}, nil
}

func comSupported() bool {
	return true
}

func (comDriver) kind() DriverKind {
	return DriverCOM
}

// progID is the COM registration name of the Excel application.
const progID = "Excel.Application"

func (comDriver) open(path string, opts Options) (document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, WrapError(KindOpen, fmt.Sprintf("could not resolve workbook path %q", path), err)
	}

	if err := coInitialize(); err != nil {
		return nil, WrapError(KindOpen, "could not initialize COM", err)
	}

	app, launched, err := connectApp()
	if err != nil {
		ole.CoUninitialize()
		return nil, WrapError(KindOpen, "could not open Microsoft Excel application", err)
	}

	doc := &comDocument{
		app:         app,
		launched:    launched,
		quitOnClose: opts.QuitOnClose,
	}

	// Fail fast on the application settings; a host that rejects these is
	// not in a usable state.
	if _, err := oleutil.PutProperty(app, "Visible", opts.Visible); err != nil {
		doc.releaseApp()
		return nil, WrapError(KindOpen, "could not configure Excel application", err)
	}
	if _, err := oleutil.PutProperty(app, "DisplayAlerts", opts.DisplayAlerts); err != nil {
		doc.releaseApp()
		return nil, WrapError(KindOpen, "could not configure Excel application", err)
	}
	// Link-update prompts would otherwise block unattended automation.
	_, _ = oleutil.PutProperty(app, "AskToUpdateLinks", false)

	books, err := dispProperty(app, "Workbooks")
	if err != nil {
		doc.releaseApp()
		return nil, WrapError(KindOpen, "could not access Excel workbooks collection", err)
	}
	doc.books = books

	if fileExists(abs) {
		args := []interface{}{abs, false, false}
		if opts.Password != "" || opts.WriteReservedPassword != "" {
			args = append(args, nil, opts.Password, opts.WriteReservedPassword)
		}
		v, err := oleutil.CallMethod(books, "Open", args...)
		if err != nil {
			doc.releaseApp()
			return nil, WrapError(KindOpen, fmt.Sprintf("could not open file %q", path), err)
		}
		doc.book = v.ToIDispatch()
		return doc, nil
	}

	// Missing file: add a blank workbook and save it to the requested path.
	v, err := oleutil.CallMethod(books, "Add")
	if err != nil {
		doc.releaseApp()
		return nil, WrapError(KindOpen, fmt.Sprintf("could not create workbook %q", path), err)
	}
	doc.book = v.ToIDispatch()
	ft, err := FileTypeForPath(abs)
	if err != nil {
		doc.releaseApp()
		return nil, WrapError(KindOpen, fmt.Sprintf("could not create workbook %q", path), err)
	}
	if Ext(abs) == "" {
		abs += ft.Ext
	}
	if _, err := oleutil.CallMethod(doc.book, "SaveAs", abs, ft.Code); err != nil {
		doc.releaseApp()
		return nil, WrapError(KindOpen, fmt.Sprintf("could not create workbook %q", path), err)
	}
	return doc, nil
}

// coInitialize initializes COM on the calling thread. Re-initialization
// reports S_FALSE, which is not a failure.
func coInitialize() error {
	err := ole.CoInitialize(0)
	if err == nil {
		return nil
	}
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) && oleErr.Code() == uintptr(1) { // S_FALSE
		return nil
	}
	return err
}

// connectApp attaches to a running Excel instance when one exists,
// otherwise launches a fresh one. The second return reports whether this
// session launched the instance (and therefore owns quitting it).
func connectApp() (*ole.IDispatch, bool, error) {
	if unknown, err := oleutil.GetActiveObject(progID); err == nil {
		app, err := unknown.QueryInterface(ole.IID_IDispatch)
		unknown.Release()
		if err == nil {
			return app, false, nil
		}
	}
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, false, err
	}
	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		return nil, false, err
	}
	return app, true, nil
}

// comDocument is an open workbook inside a live Excel application.
type comDocument struct {
	app         *ole.IDispatch
	books       *ole.IDispatch
	book        *ole.IDispatch
	launched    bool
	quitOnClose bool
}

func (d *comDocument) path() string {
	dir, err := stringProperty(d.book, "Path")
	if err != nil {
		return ""
	}
	name, err := stringProperty(d.book, "Name")
	if err != nil {
		return ""
	}
	return filepath.Join(dir, name)
}

// rangeDisp resolves a reference against the active sheet. Host-side
// rejection of the reference surfaces as KindReference.
func (d *comDocument) rangeDisp(ref string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(d.app, "Range", ref)
	if err != nil {
		return nil, WrapError(KindReference, fmt.Sprintf("could not find range %q", ref), err)
	}
	return v.ToIDispatch(), nil
}

// cellDisp resolves a single active-sheet cell by 1-based coordinates.
func (d *comDocument) cellDisp(row, col int) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(d.app, "Cells", row, col)
	if err != nil {
		return nil, WrapError(KindReference, fmt.Sprintf("could not find cell (%d,%d)", row, col), err)
	}
	return v.ToIDispatch(), nil
}

// fromVariant converts a Value2 result into a Value. Value2 reports dates
// as serial numbers, so no VT_DATE handling is needed here; callers that
// want times convert with TimeFromSerial.
func fromVariant(v *ole.VARIANT) Value {
	switch x := v.Value().(type) {
	case nil:
		return Empty()
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	default:
		return String(fmt.Sprint(x))
	}
}

func (d *comDocument) cellValue(span refSpan) (Value, error) {
	rng, err := d.rangeDisp(span.startCell())
	if err != nil {
		return Value{}, err
	}
	defer rng.Release()
	v, err := oleutil.GetProperty(rng, "Value2")
	if err != nil {
		return Value{}, WrapError(KindReference, fmt.Sprintf("could not read cell %q", span.startCell()), err)
	}
	defer v.Clear()
	return fromVariant(v), nil
}

func (d *comDocument) setCellValue(span refSpan, val Value) error {
	rng, err := d.rangeDisp(span.startCell())
	if err != nil {
		return err
	}
	defer rng.Release()
	if _, err := oleutil.PutProperty(rng, "Value2", val.Interface()); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not write cell %q", span.startCell()), err)
	}
	return nil
}

func (d *comDocument) rangeValues(span refSpan) ([][]Value, error) {
	rows := make([][]Value, span.rows())
	for r := 0; r < span.rows(); r++ {
		rows[r] = make([]Value, span.columns())
		for c := 0; c < span.columns(); c++ {
			cell, err := d.cellDisp(span.startRow+r, span.startCol+c)
			if err != nil {
				return nil, err
			}
			v, err := oleutil.GetProperty(cell, "Value2")
			cell.Release()
			if err != nil {
				return nil, WrapError(KindReference, fmt.Sprintf("could not read cell %q", span.cellName(r, c)), err)
			}
			rows[r][c] = fromVariant(v)
			v.Clear()
		}
	}
	return rows, nil
}

func (d *comDocument) setRangeValues(span refSpan, vals [][]Value) error {
	for r := 0; r < span.rows(); r++ {
		for c := 0; c < span.columns(); c++ {
			val := Empty()
			if r < len(vals) && c < len(vals[r]) {
				val = vals[r][c]
			}
			cell, err := d.cellDisp(span.startRow+r, span.startCol+c)
			if err != nil {
				return err
			}
			_, err = oleutil.PutProperty(cell, "Value2", val.Interface())
			cell.Release()
			if err != nil {
				return WrapError(KindWrite, fmt.Sprintf("could not write cell %q", span.cellName(r, c)), err)
			}
		}
	}
	return nil
}

func (d *comDocument) clearRange(span refSpan, mode ClearMode) error {
	method, ok := map[ClearMode]string{
		ClearAll:      "Clear",
		ClearContents: "ClearContents",
		ClearFormats:  "ClearFormats",
		ClearComments: "ClearComments",
		ClearOutlines: "ClearOutline",
	}[mode]
	if !ok {
		return NewError(KindWrite, fmt.Sprintf("%q is not a valid clear mode", mode))
	}
	rng, err := d.rangeDisp(span.address())
	if err != nil {
		return err
	}
	defer rng.Release()
	if _, err := oleutil.CallMethod(rng, method); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not clear %q", span.address()), err)
	}
	return nil
}

func (d *comDocument) numberFormat(span refSpan) (string, error) {
	rng, err := d.rangeDisp(span.address())
	if err != nil {
		return "", err
	}
	defer rng.Release()
	v, err := oleutil.GetProperty(rng, "NumberFormat")
	if err != nil {
		return "", WrapError(KindReference, fmt.Sprintf("could not read number format of %q", span.address()), err)
	}
	defer v.Clear()
	s, _ := v.Value().(string)
	return s, nil
}

func (d *comDocument) setNumberFormat(span refSpan, format string) error {
	rng, err := d.rangeDisp(span.address())
	if err != nil {
		return err
	}
	defer rng.Release()
	if _, err := oleutil.PutProperty(rng, "NumberFormat", format); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not apply number format to %q", span.address()), err)
	}
	return nil
}

func (d *comDocument) comment(span refSpan) (string, error) {
	rng, err := d.rangeDisp(span.startCell())
	if err != nil {
		return "", err
	}
	defer rng.Release()
	v, err := oleutil.GetProperty(rng, "Comment")
	if err != nil {
		return "", WrapError(KindReference, fmt.Sprintf("could not read comment of %q", span.startCell()), err)
	}
	comment := v.ToIDispatch()
	if comment == nil {
		return "", nil
	}
	defer comment.Release()
	text, err := oleutil.CallMethod(comment, "Text")
	if err != nil {
		return "", WrapError(KindReference, fmt.Sprintf("could not read comment of %q", span.startCell()), err)
	}
	defer text.Clear()
	s, _ := text.Value().(string)
	return s, nil
}

func (d *comDocument) setComment(span refSpan, text string) error {
	if err := d.clearRange(span, ClearComments); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	rng, err := d.rangeDisp(span.startCell())
	if err != nil {
		return err
	}
	defer rng.Release()
	if _, err := oleutil.CallMethod(rng, "AddComment", text); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not add comment to %q", span.startCell()), err)
	}
	return nil
}

func (d *comDocument) rangeName(span refSpan) (string, error) {
	rng, err := d.rangeDisp(span.address())
	if err != nil {
		return "", err
	}
	defer rng.Release()
	v, err := oleutil.GetProperty(rng, "Name")
	if err != nil {
		// Unnamed ranges have no Name object.
		return "", nil
	}
	nameObj := v.ToIDispatch()
	if nameObj == nil {
		return "", nil
	}
	defer nameObj.Release()
	name, err := stringProperty(nameObj, "Name")
	if err != nil {
		return "", WrapError(KindReference, fmt.Sprintf("could not read name of %q", span.address()), err)
	}
	return name, nil
}

func (d *comDocument) setRangeName(span refSpan, name string) error {
	rng, err := d.rangeDisp(span.address())
	if err != nil {
		return err
	}
	defer rng.Release()
	names, err := dispProperty(d.book, "Names")
	if err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not name range %q", span.address()), err)
	}
	defer names.Release()
	if _, err := oleutil.CallMethod(names, "Add", name, rng); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not name range %q", span.address()), err)
	}
	return nil
}

// Validation constants from the host's XlDVType, XlDVAlertStyle, and
// XlFormatConditionOperator enumerations.
const (
	xlValidateList   = 3
	xlValidAlertStop = 1
	xlBetween        = 1
)

func (d *comDocument) listValidation(span refSpan, options []string) error {
	rng, err := d.rangeDisp(span.address())
	if err != nil {
		return err
	}
	defer rng.Release()
	validation, err := dispProperty(rng, "Validation")
	if err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not add validation to %q", span.address()), err)
	}
	defer validation.Release()
	// Add fails while an old rule exists, so clear first.
	_, _ = oleutil.CallMethod(validation, "Delete")
	if _, err := oleutil.CallMethod(validation, "Add",
		xlValidateList, xlValidAlertStop, xlBetween, strings.Join(options, ",")); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not add validation to %q", span.address()), err)
	}
	return nil
}

func (d *comDocument) hasValidation(span refSpan) (bool, error) {
	rng, err := d.rangeDisp(span.address())
	if err != nil {
		return false, err
	}
	defer rng.Release()
	validation, err := dispProperty(rng, "Validation")
	if err != nil {
		return false, nil
	}
	defer validation.Release()
	// Reading Type raises an error when no rule exists on the range.
	v, err := oleutil.GetProperty(validation, "Type")
	if err != nil {
		return false, nil
	}
	v.Clear()
	return true, nil
}

func (d *comDocument) save() error {
	if _, err := oleutil.CallMethod(d.book, "Save"); err != nil {
		return WrapError(KindSave, "failed to save workbook", err)
	}
	return nil
}

func (d *comDocument) saveAs(path string, ft FileType) error {
	if _, err := oleutil.CallMethod(d.book, "SaveAs", path, ft.Code); err != nil {
		return WrapError(KindSave, fmt.Sprintf("could not save workbook as %q", path), err)
	}
	return nil
}

func (d *comDocument) saveCopyAs(path string, _ FileType) error {
	if _, err := oleutil.CallMethod(d.book, "SaveCopyAs", path); err != nil {
		return WrapError(KindSave, fmt.Sprintf("could not save a copy as %q", path), err)
	}
	return nil
}

func (d *comDocument) sheetNames() ([]string, error) {
	sheets, err := dispProperty(d.app, "Sheets")
	if err != nil {
		return nil, WrapError(KindSheet, "could not list worksheets", err)
	}
	defer sheets.Release()
	count, err := intProperty(sheets, "Count")
	if err != nil {
		return nil, WrapError(KindSheet, "could not list worksheets", err)
	}
	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		item, err := oleutil.GetProperty(sheets, "Item", i)
		if err != nil {
			return nil, WrapError(KindSheet, "could not list worksheets", err)
		}
		sheet := item.ToIDispatch()
		name, err := stringProperty(sheet, "Name")
		sheet.Release()
		if err != nil {
			return nil, WrapError(KindSheet, "could not list worksheets", err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (d *comDocument) activeSheet() (string, error) {
	sheet, err := dispProperty(d.app, "ActiveSheet")
	if err != nil {
		return "", WrapError(KindSheet, "could not resolve active worksheet", err)
	}
	defer sheet.Release()
	name, err := stringProperty(sheet, "Name")
	if err != nil {
		return "", WrapError(KindSheet, "could not resolve active worksheet", err)
	}
	return name, nil
}

func (d *comDocument) worksheet(name string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(d.app, "Worksheets", name)
	if err != nil {
		return nil, WrapError(KindSheet, fmt.Sprintf("could not open sheet %q", name), err)
	}
	return v.ToIDispatch(), nil
}

func (d *comDocument) activateSheet(name string) error {
	sheet, err := d.worksheet(name)
	if err != nil {
		return err
	}
	defer sheet.Release()
	if _, err := oleutil.CallMethod(sheet, "Activate"); err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not open sheet %q", name), err)
	}
	return nil
}

func (d *comDocument) addSheet(name, before, after string) error {
	sheets, err := dispProperty(d.app, "Worksheets")
	if err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not add sheet %q", name), err)
	}
	defer sheets.Release()

	var anchor *ole.IDispatch
	placeBefore := false
	switch {
	case before != "":
		anchor, err = d.worksheet(before)
		placeBefore = true
	case after != "":
		anchor, err = d.worksheet(after)
	default:
		// No anchor given: append behind the last sheet.
		count, cerr := intProperty(sheets, "Count")
		if cerr != nil {
			return WrapError(KindSheet, fmt.Sprintf("could not add sheet %q", name), cerr)
		}
		var v *ole.VARIANT
		v, err = oleutil.GetProperty(sheets, "Item", count)
		if err == nil {
			anchor = v.ToIDispatch()
		}
	}
	if err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not add sheet %q", name), err)
	}
	if anchor == nil {
		return NewError(KindSheet, fmt.Sprintf("could not add sheet %q: no anchor sheet", name))
	}
	defer anchor.Release()

	var added *ole.VARIANT
	if placeBefore {
		added, err = oleutil.CallMethod(sheets, "Add", anchor)
	} else {
		added, err = oleutil.CallMethod(sheets, "Add", nil, anchor)
	}
	if err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not add sheet %q", name), err)
	}
	sheet := added.ToIDispatch()
	defer sheet.Release()
	if _, err := oleutil.PutProperty(sheet, "Name", name); err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not name new sheet %q", name), err)
	}
	return nil
}

func (d *comDocument) renameSheet(oldName, newName string) error {
	sheet, err := d.worksheet(oldName)
	if err != nil {
		return err
	}
	defer sheet.Release()
	if _, err := oleutil.PutProperty(sheet, "Name", newName); err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not rename sheet %q to %q", oldName, newName), err)
	}
	return nil
}

func (d *comDocument) sheetToCSV(name, path string) error {
	sheet, err := d.worksheet(name)
	if err != nil {
		return err
	}
	defer sheet.Release()
	ft, err := FileTypeForPath(path)
	if err != nil {
		return err
	}
	if _, err := oleutil.CallMethod(sheet, "SaveAs", path, ft.Code); err != nil {
		return WrapError(KindSave, fmt.Sprintf("failed to save sheet %q as %q", name, path), err)
	}
	return nil
}

func (d *comDocument) calculate(activeSheetOnly bool) error {
	target := d.app
	if activeSheetOnly {
		sheet, err := dispProperty(d.app, "ActiveSheet")
		if err != nil {
			return WrapError(KindWrite, "could not recalculate active sheet", err)
		}
		defer sheet.Release()
		target = sheet
	}
	if _, err := oleutil.CallMethod(target, "Calculate"); err != nil {
		return WrapError(KindWrite, "recalculation failed", err)
	}
	return nil
}

func (d *comDocument) runMacro(name string) error {
	if _, err := oleutil.CallMethod(d.app, "Run", name); err != nil {
		return WrapError(KindMacro, fmt.Sprintf("could not run macro %q", name), err)
	}
	return nil
}

func (d *comDocument) autoFit() error {
	sheet, err := dispProperty(d.app, "ActiveSheet")
	if err != nil {
		return WrapError(KindWrite, "could not autofit columns", err)
	}
	defer sheet.Release()
	cols, err := dispProperty(sheet, "Columns")
	if err != nil {
		return WrapError(KindWrite, "could not autofit columns", err)
	}
	defer cols.Release()
	if _, err := oleutil.CallMethod(cols, "AutoFit"); err != nil {
		return WrapError(KindWrite, "could not autofit columns", err)
	}
	return nil
}

func (d *comDocument) close(save bool) error {
	var closeErr error
	if d.book != nil {
		if _, err := oleutil.CallMethod(d.book, "Close", save); err != nil {
			closeErr = WrapError(KindSave, "failed to close workbook", err)
		}
		d.book.Release()
		d.book = nil
	}
	d.releaseApp()
	return closeErr
}

// releaseApp quits the application when this session owns it, then drops
// every dispatch handle and uninitializes COM. Used both by close and by
// the open failure paths so nothing stays acquired after an error.
func (d *comDocument) releaseApp() {
	if d.app != nil && (d.launched || d.quitOnClose) {
		_, _ = oleutil.CallMethod(d.app, "Quit")
	}
	if d.books != nil {
		d.books.Release()
		d.books = nil
	}
	if d.app != nil {
		d.app.Release()
		d.app = nil
	}
	ole.CoUninitialize()
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Small typed wrappers over oleutil property access.

func dispProperty(disp *ole.IDispatch, name string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return nil, err
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("property %s is not an object", name)
	}
	return d, nil
}

func stringProperty(disp *ole.IDispatch, name string) (string, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return "", err
	}
	defer v.Clear()
	s, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("property %s is not a string", name)
	}
	return s, nil
}

func intProperty(disp *ole.IDispatch, name string) (int, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	switch x := v.Value().(type) {
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("property %s is not an integer", name)
	}
}
