package excel

import (
	"fmt"
	"path/filepath"
)

// Workbook is a scoped session against one spreadsheet document in the
// host application. Opening acquires the application and document
// handles; Close releases both, and runs on every exit path:
//
//	wb, err := excel.Open("book.xlsx")
//	if err != nil { /* handle */ }
//	defer wb.Close() // always release the host handles
//
//	v, err := wb.Get("A1")
//
// A Workbook is an exclusive, single-threaded resource: one session per
// document, no concurrent callers. Every call blocks until the host
// application answers.
type Workbook struct {
	doc   document
	opts  Options
	state State
}

// Open opens the workbook at path with default options. If the file does
// not exist, a new workbook is created and saved there. Failures are of
// kind KindOpen and leave nothing acquired.
func Open(path string) (*Workbook, error) {
	return OpenWith(path, DefaultOptions())
}

// OpenWith opens the workbook at path with explicit options.
func OpenWith(path string, opts Options) (*Workbook, error) {
	if err := ValidateWorkbookPath(path); err != nil {
		return nil, err
	}
	drv, err := openDriver(opts)
	if err != nil {
		return nil, err
	}
	doc, err := drv.open(path, opts)
	if err != nil {
		return nil, err
	}
	return &Workbook{doc: doc, opts: opts, state: StateActive}, nil
}

// ensureActive guards every operation against use after Close.
func (w *Workbook) ensureActive() error {
	if w.state != StateActive {
		return NewError(KindClosed, "workbook session is closed")
	}
	return nil
}

// Path returns the full path of the open workbook.
func (w *Workbook) Path() string {
	if w.doc == nil {
		return ""
	}
	return w.doc.path()
}

// Dir returns the directory of the open workbook.
func (w *Workbook) Dir() string {
	return filepath.Dir(w.Path())
}

// Name returns the file name of the open workbook.
func (w *Workbook) Name() string {
	return filepath.Base(w.Path())
}

// State returns the session lifecycle state.
func (w *Workbook) State() State {
	return w.state
}

// Get returns the value of a single cell on the active sheet. The
// reference must name exactly one cell ("A1"); malformed or out-of-grid
// references fail with KindReference.
func (w *Workbook) Get(cellRef string) (Value, error) {
	if err := w.ensureActive(); err != nil {
		return Value{}, err
	}
	span, err := parseRef(cellRef)
	if err != nil {
		return Value{}, err
	}
	if !span.single {
		return Value{}, NewError(KindReference,
			fmt.Sprintf("%q names a range; use Range for multi-cell reads", cellRef))
	}
	return w.doc.cellValue(span)
}

// Set writes a scalar into a single cell on the active sheet. The value
// may be a Value or any native scalar understood by ValueOf.
func (w *Workbook) Set(cellRef string, value interface{}) error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	span, err := parseRef(cellRef)
	if err != nil {
		return err
	}
	if !span.single {
		return NewError(KindReference,
			fmt.Sprintf("%q names a range; use Range for multi-cell writes", cellRef))
	}
	return w.doc.setCellValue(span, ValueOf(value))
}

// Range resolves a cell or range reference ("A1", "A1:B2") on the active
// sheet. The returned Range stays bound to this session and fails with
// KindClosed after Close.
func (w *Workbook) Range(ref string) (*Range, error) {
	if err := w.ensureActive(); err != nil {
		return nil, err
	}
	span, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	return &Range{wb: w, span: span}, nil
}

// Save persists pending changes to the workbook's existing path.
// Failures (locked file, read-only target, host write errors) are of
// kind KindSave.
func (w *Workbook) Save() error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	return w.doc.save()
}

// SaveAs saves the open workbook to a new path; the new file becomes the
// open workbook. The save format follows the path's extension, or the
// host default when there is none. One exception: a .csv target under
// the file driver exports the active sheet and leaves the session
// pointed at the original file, since the session's workbook cannot
// live in a csv.
func (w *Workbook) SaveAs(path string) error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	ft, err := FileTypeForPath(path)
	if err != nil {
		return err
	}
	return w.doc.saveAs(path, ft)
}

// SaveCopyAs writes a copy of the open workbook to path without changing
// which file the session points at. The path must carry a supported
// file extension.
func (w *Workbook) SaveCopyAs(path string) error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	if Ext(path) == "" {
		return NewError(KindSave, "saving a copy requires the path to include a file extension")
	}
	ft, err := FileTypeForPath(path)
	if err != nil {
		return err
	}
	return w.doc.saveCopyAs(path, ft)
}

// SheetNames returns the names of all worksheets in the open workbook.
func (w *Workbook) SheetNames() ([]string, error) {
	if err := w.ensureActive(); err != nil {
		return nil, err
	}
	return w.doc.sheetNames()
}

// SheetExists reports whether a worksheet with the given name exists.
func (w *Workbook) SheetExists(name string) (bool, error) {
	names, err := w.SheetNames()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ActiveSheet returns the currently active worksheet.
func (w *Workbook) ActiveSheet() (*Sheet, error) {
	if err := w.ensureActive(); err != nil {
		return nil, err
	}
	name, err := w.doc.activeSheet()
	if err != nil {
		return nil, err
	}
	return &Sheet{wb: w, name: name}, nil
}

// ActivateSheet makes the named worksheet active. Fails with KindSheet
// when the sheet does not exist.
func (w *Workbook) ActivateSheet(name string) error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	exists, err := w.SheetExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return NewError(KindSheet, fmt.Sprintf("no sheet named %q in %s", name, w.Name()))
	}
	return w.doc.activateSheet(name)
}

// Sheet returns a handle to the named worksheet without activating it.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	if err := w.ensureActive(); err != nil {
		return nil, err
	}
	exists, err := w.SheetExists(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NewError(KindSheet, fmt.Sprintf("no sheet named %q in %s", name, w.Name()))
	}
	return &Sheet{wb: w, name: name}, nil
}

// AddSheet creates a new worksheet. With neither anchor set the sheet is
// placed behind all existing sheets; otherwise it is inserted before or
// after the named sheet. Fails with KindSheet when a sheet with that
// name already exists.
func (w *Workbook) AddSheet(name string, anchors ...SheetAnchor) (*Sheet, error) {
	if err := w.ensureActive(); err != nil {
		return nil, err
	}
	exists, err := w.SheetExists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewError(KindSheet, fmt.Sprintf("%q is already a sheet in %s", name, w.Name()))
	}
	var before, after string
	for _, a := range anchors {
		a(&before, &after)
	}
	if err := w.doc.addSheet(name, before, after); err != nil {
		return nil, err
	}
	return &Sheet{wb: w, name: name}, nil
}

// SheetAnchor positions a new worksheet relative to an existing one.
type SheetAnchor func(before, after *string)

// Before places the new sheet in front of the named sheet.
func Before(name string) SheetAnchor {
	return func(before, _ *string) { *before = name }
}

// After places the new sheet behind the named sheet.
func After(name string) SheetAnchor {
	return func(_, after *string) { *after = name }
}

// Calculate recalculates formula cells, either workbook-wide or only on
// the active sheet.
func (w *Workbook) Calculate(activeSheetOnly bool) error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	return w.doc.calculate(activeSheetOnly)
}

// RunMacro runs a named macro of the open workbook. Only the COM driver
// can execute macros; the file driver fails with KindMacro.
func (w *Workbook) RunMacro(name string) error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	return w.doc.runMacro(name)
}

// AutoFit sizes the active sheet's columns to their contents.
func (w *Workbook) AutoFit() error {
	if err := w.ensureActive(); err != nil {
		return err
	}
	return w.doc.autoFit()
}

// Close releases the document and application handles. When SaveOnClose
// is set, pending changes are saved first. Close is safe to call more
// than once, and a no-op on a zero-value Workbook; the session is
// closed even when the host reports an error on the way out, so no
// orphaned application handle remains.
func (w *Workbook) Close() error {
	if w.state != StateActive || w.doc == nil {
		return nil
	}
	w.state = StateClosed
	return w.doc.close(w.opts.SaveOnClose)
}
