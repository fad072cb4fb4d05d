package excel

// driver abstracts the host bridge that a workbook session runs on: a
// live Excel application driven over COM, or a headless file editor.
// The facade owns reference validation and the session state machine;
// drivers only translate operations to their backend and report plain
// errors or *Error values for the facade to surface.
type driver interface {
	// kind identifies the driver for diagnostics.
	kind() DriverKind

	// open opens the document at path, creating a new workbook saved to
	// that path when the file does not exist. On failure no resources
	// remain acquired.
	open(path string, opts Options) (document, error)
}

// document is an open workbook inside a driver. All cell and range
// operations act on the active worksheet, mirroring the host
// application's own addressing model. Spans passed in are already
// validated against the grid limits.
type document interface {
	// path returns the full path of the open workbook.
	path() string

	cellValue(span refSpan) (Value, error)
	setCellValue(span refSpan, v Value) error
	rangeValues(span refSpan) ([][]Value, error)
	setRangeValues(span refSpan, vals [][]Value) error
	clearRange(span refSpan, mode ClearMode) error
	numberFormat(span refSpan) (string, error)
	setNumberFormat(span refSpan, format string) error
	comment(span refSpan) (string, error)
	setComment(span refSpan, text string) error
	rangeName(span refSpan) (string, error)
	setRangeName(span refSpan, name string) error
	listValidation(span refSpan, options []string) error
	hasValidation(span refSpan) (bool, error)

	save() error
	saveAs(path string, ft FileType) error
	saveCopyAs(path string, ft FileType) error

	sheetNames() ([]string, error)
	activeSheet() (string, error)
	activateSheet(name string) error
	addSheet(name, before, after string) error
	renameSheet(oldName, newName string) error
	sheetToCSV(name, path string) error

	calculate(activeSheetOnly bool) error
	runMacro(name string) error
	autoFit() error

	// close releases the document and, for drivers that own an
	// application handle, the application itself. It is called exactly
	// once per document, on every exit path.
	close(save bool) error
}

// openDriver resolves the configured DriverKind to a concrete driver.
// DriverAuto prefers the COM bridge where the platform supports it and
// falls back to direct file editing everywhere else.
func openDriver(opts Options) (driver, error) {
	switch opts.Driver {
	case DriverCOM:
		return newCOMDriver()
	case DriverFile:
		return newFileDriver(), nil
	case DriverAuto, "":
		if comSupported() {
			return newCOMDriver()
		}
		return newFileDriver(), nil
	default:
		return nil, NewError(KindOpen, "unknown driver "+opts.Driver.String()+" (valid: auto, com, file)")
	}
}
