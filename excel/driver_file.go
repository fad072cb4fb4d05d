package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// fileDriver edits workbook files directly, without a running Excel
// instance. It backs the same Workbook facade as the COM driver, so the
// wrapper stays usable on hosts where the Excel application is absent.
// Operations that genuinely need the live application (macros, formula
// recalculation, non-OOXML save formats) report errors instead of
// pretending.
type fileDriver struct{}

func newFileDriver() driver {
	return fileDriver{}
}

func (fileDriver) kind() DriverKind {
	return DriverFile
}

// fileExts are the formats the file driver can write natively. Anything
// else in the supported-extension table needs the host application.
var fileExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
	".xlam": true,
}

func (fileDriver) open(path string, opts Options) (document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, WrapError(KindOpen, fmt.Sprintf("could not resolve workbook path %q", path), err)
	}

	if _, statErr := os.Stat(abs); statErr == nil {
		f, err := excelize.OpenFile(abs, excelize.Options{Password: opts.Password})
		if err != nil {
			return nil, WrapError(KindOpen, fmt.Sprintf("could not open file %q", path), err)
		}
		return &fileDocument{f: f}, nil
	}

	// Missing file: create a new workbook and save it to the requested
	// path, the same behavior the host application wrapper has always had.
	ft, err := FileTypeForPath(abs)
	if err != nil {
		return nil, WrapError(KindOpen, fmt.Sprintf("could not create workbook %q", path), err)
	}
	if !fileExts[ft.Ext] {
		return nil, NewError(KindOpen,
			fmt.Sprintf("creating a new %q workbook requires the Excel application (com driver)", ft.Ext))
	}
	if Ext(abs) == "" {
		abs += ft.Ext
	}
	f := excelize.NewFile()
	if err := f.SaveAs(abs, excelize.Options{Password: opts.Password}); err != nil {
		_ = f.Close()
		return nil, WrapError(KindOpen, fmt.Sprintf("could not create workbook %q", path), err)
	}
	return &fileDocument{f: f}, nil
}

// fileDocument is an open workbook backed by excelize.
type fileDocument struct {
	f *excelize.File
}

func (d *fileDocument) path() string {
	return d.f.Path
}

// active returns the name of the active worksheet.
func (d *fileDocument) active() string {
	return d.f.GetSheetName(d.f.GetActiveSheetIndex())
}

func (d *fileDocument) cellValue(span refSpan) (Value, error) {
	return d.readCell(d.active(), span.startCell())
}

// readCell reads one cell as a typed Value. Raw reads keep numbers and
// date serials unformatted, so the stored cell type decides the variant
// before ParseValue guesses: boolean cells arrive as "1"/"0", and text
// cells keep their text even when it looks numeric ("007" stays a
// string).
func (d *fileDocument) readCell(sheet, cell string) (Value, error) {
	raw, err := d.f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{}, WrapError(KindReference, fmt.Sprintf("could not read cell %q", cell), err)
	}
	if ct, err := d.f.GetCellType(sheet, cell); err == nil {
		switch ct {
		case excelize.CellTypeBool:
			return Bool(raw == "1" || raw == "TRUE"), nil
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
			if raw == "" {
				return Empty(), nil
			}
			return String(raw), nil
		}
	}
	return ParseValue(raw), nil
}

func (d *fileDocument) setCellValue(span refSpan, v Value) error {
	cell := span.startCell()
	if err := d.f.SetCellValue(d.active(), cell, v.Interface()); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not write cell %q", cell), err)
	}
	return nil
}

func (d *fileDocument) rangeValues(span refSpan) ([][]Value, error) {
	sheet := d.active()
	rows := make([][]Value, span.rows())
	for r := 0; r < span.rows(); r++ {
		rows[r] = make([]Value, span.columns())
		for c := 0; c < span.columns(); c++ {
			v, err := d.readCell(sheet, span.cellName(r, c))
			if err != nil {
				return nil, err
			}
			rows[r][c] = v
		}
	}
	return rows, nil
}

func (d *fileDocument) setRangeValues(span refSpan, vals [][]Value) error {
	sheet := d.active()
	for r := 0; r < span.rows(); r++ {
		for c := 0; c < span.columns(); c++ {
			v := Empty()
			if r < len(vals) && c < len(vals[r]) {
				v = vals[r][c]
			}
			cell := span.cellName(r, c)
			if err := d.f.SetCellValue(sheet, cell, v.Interface()); err != nil {
				return WrapError(KindWrite, fmt.Sprintf("could not write cell %q", cell), err)
			}
		}
	}
	return nil
}

func (d *fileDocument) clearRange(span refSpan, mode ClearMode) error {
	sheet := d.active()
	switch mode {
	case ClearAll:
		if err := d.clearRange(span, ClearContents); err != nil {
			return err
		}
		if err := d.clearRange(span, ClearFormats); err != nil {
			return err
		}
		return d.clearRange(span, ClearComments)
	case ClearContents:
		for r := 0; r < span.rows(); r++ {
			for c := 0; c < span.columns(); c++ {
				cell := span.cellName(r, c)
				if err := d.f.SetCellValue(sheet, cell, nil); err != nil {
					return WrapError(KindWrite, fmt.Sprintf("could not clear cell %q", cell), err)
				}
			}
		}
		return nil
	case ClearFormats:
		// Style 0 is the workbook default format.
		if err := d.f.SetCellStyle(sheet, span.startCell(), span.cellName(span.rows()-1, span.columns()-1), 0); err != nil {
			return WrapError(KindWrite, fmt.Sprintf("could not clear formats of %q", span.address()), err)
		}
		return nil
	case ClearComments:
		for r := 0; r < span.rows(); r++ {
			for c := 0; c < span.columns(); c++ {
				if err := d.f.DeleteComment(sheet, span.cellName(r, c)); err != nil {
					return WrapError(KindWrite, fmt.Sprintf("could not clear comments of %q", span.address()), err)
				}
			}
		}
		return nil
	case ClearOutlines:
		for r := span.startRow; r <= span.endRow; r++ {
			if err := d.f.SetRowOutlineLevel(sheet, r, 0); err != nil {
				return WrapError(KindWrite, fmt.Sprintf("could not clear outlines of %q", span.address()), err)
			}
		}
		return nil
	default:
		return NewError(KindWrite, fmt.Sprintf("%q is not a valid clear mode", mode))
	}
}

func (d *fileDocument) numberFormat(span refSpan) (string, error) {
	sheet := d.active()
	styleID, err := d.f.GetCellStyle(sheet, span.startCell())
	if err != nil {
		return "", WrapError(KindReference, fmt.Sprintf("could not read style of %q", span.startCell()), err)
	}
	style, err := d.f.GetStyle(styleID)
	if err != nil {
		return "", WrapError(KindReference, fmt.Sprintf("could not read style of %q", span.startCell()), err)
	}
	if style.CustomNumFmt != nil {
		return *style.CustomNumFmt, nil
	}
	if style.NumFmt == 0 {
		return "General", nil
	}
	return fmt.Sprintf("builtin:%d", style.NumFmt), nil
}

func (d *fileDocument) setNumberFormat(span refSpan, format string) error {
	sheet := d.active()
	styleID, err := d.f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return WrapError(KindWrite, fmt.Sprintf("invalid number format %q", format), err)
	}
	end := span.cellName(span.rows()-1, span.columns()-1)
	if err := d.f.SetCellStyle(sheet, span.startCell(), end, styleID); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not apply number format to %q", span.address()), err)
	}
	return nil
}

func (d *fileDocument) comment(span refSpan) (string, error) {
	sheet := d.active()
	comments, err := d.f.GetComments(sheet)
	if err != nil {
		return "", WrapError(KindReference, fmt.Sprintf("could not read comments of %q", span.startCell()), err)
	}
	for _, c := range comments {
		if c.Cell != span.startCell() {
			continue
		}
		var b strings.Builder
		for _, run := range c.Paragraph {
			b.WriteString(run.Text)
		}
		return b.String(), nil
	}
	return "", nil
}

func (d *fileDocument) setComment(span refSpan, text string) error {
	sheet := d.active()
	cell := span.startCell()
	if err := d.f.DeleteComment(sheet, cell); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not replace comment on %q", cell), err)
	}
	if text == "" {
		return nil
	}
	comment := excelize.Comment{
		Cell:      cell,
		Author:    "automate-excel",
		Paragraph: []excelize.RichTextRun{{Text: text}},
	}
	if err := d.f.AddComment(sheet, comment); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not add comment to %q", cell), err)
	}
	return nil
}

func (d *fileDocument) rangeName(span refSpan) (string, error) {
	target := normalizeRefersTo(d.active() + "!" + span.absAddress())
	for _, dn := range d.f.GetDefinedName() {
		if normalizeRefersTo(dn.RefersTo) == target {
			return dn.Name, nil
		}
	}
	return "", nil
}

func (d *fileDocument) setRangeName(span refSpan, name string) error {
	dn := excelize.DefinedName{
		Name:     name,
		RefersTo: d.active() + "!" + span.absAddress(),
	}
	if err := d.f.SetDefinedName(&dn); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not name range %q", span.address()), err)
	}
	return nil
}

// normalizeRefersTo canonicalizes a defined-name reference for
// comparison: absolute markers and sheet-name quoting are presentation,
// not identity.
func normalizeRefersTo(s string) string {
	s = strings.TrimPrefix(s, "=")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "'", "")
	return s
}

func (d *fileDocument) listValidation(span refSpan, options []string) error {
	dv := excelize.NewDataValidation(true)
	dv.Sqref = span.address()
	if err := dv.SetDropList(options); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("invalid validation list for %q", span.address()), err)
	}
	if err := d.f.AddDataValidation(d.active(), dv); err != nil {
		return WrapError(KindWrite, fmt.Sprintf("could not add validation to %q", span.address()), err)
	}
	return nil
}

func (d *fileDocument) hasValidation(span refSpan) (bool, error) {
	dvs, err := d.f.GetDataValidations(d.active())
	if err != nil {
		return false, WrapError(KindReference, fmt.Sprintf("could not read validations of %q", span.address()), err)
	}
	for _, dv := range dvs {
		// Sqref may hold several space-separated ranges.
		for _, ref := range strings.Fields(dv.Sqref) {
			s, err := parseRef(ref)
			if err != nil {
				continue
			}
			if s.overlaps(span) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (d *fileDocument) save() error {
	if err := d.f.Save(); err != nil {
		return WrapError(KindSave, fmt.Sprintf("failed to save workbook %q", filepath.Base(d.f.Path)), err)
	}
	return nil
}

func (d *fileDocument) saveAs(path string, ft FileType) error {
	switch {
	case fileExts[ft.Ext]:
		if err := d.f.SaveAs(path); err != nil {
			return WrapError(KindSave, fmt.Sprintf("could not save workbook as %q", path), err)
		}
		return nil
	case ft.Ext == ".csv":
		return d.sheetToCSV(d.active(), path)
	default:
		return NewError(KindSave,
			fmt.Sprintf("saving as %q requires the Excel application (com driver)", ft.Ext))
	}
}

func (d *fileDocument) saveCopyAs(path string, ft FileType) error {
	if !fileExts[ft.Ext] {
		return NewError(KindSave,
			fmt.Sprintf("saving a copy as %q requires the Excel application (com driver)", ft.Ext))
	}
	// WriteToBuffer leaves the open document's path untouched, which is
	// the distinguishing behavior of a copy.
	buf, err := d.f.WriteToBuffer()
	if err != nil {
		return WrapError(KindSave, fmt.Sprintf("could not save a copy as %q", path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return WrapError(KindSave, fmt.Sprintf("could not save a copy as %q", path), err)
	}
	return nil
}

func (d *fileDocument) sheetNames() ([]string, error) {
	return d.f.GetSheetList(), nil
}

func (d *fileDocument) activeSheet() (string, error) {
	return d.active(), nil
}

func (d *fileDocument) activateSheet(name string) error {
	idx, err := d.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return WrapError(KindSheet, fmt.Sprintf("could not open sheet %q", name), err)
	}
	d.f.SetActiveSheet(idx)
	return nil
}

func (d *fileDocument) addSheet(name, before, after string) error {
	if _, err := d.f.NewSheet(name); err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not add sheet %q", name), err)
	}
	switch {
	case before != "":
		if err := d.f.MoveSheet(name, before); err != nil {
			return WrapError(KindSheet, fmt.Sprintf("could not place sheet %q before %q", name, before), err)
		}
	case after != "":
		// MoveSheet places the source before the target, so moving after
		// a sheet means moving before the sheet that follows it. When the
		// target is last, the freshly appended sheet is already after it.
		names := d.f.GetSheetList()
		for i, n := range names {
			if n != after {
				continue
			}
			if i+1 < len(names) && names[i+1] != name {
				if err := d.f.MoveSheet(name, names[i+1]); err != nil {
					return WrapError(KindSheet, fmt.Sprintf("could not place sheet %q after %q", name, after), err)
				}
			}
			break
		}
	}
	return nil
}

func (d *fileDocument) renameSheet(oldName, newName string) error {
	if err := d.f.SetSheetName(oldName, newName); err != nil {
		return WrapError(KindSheet, fmt.Sprintf("could not rename sheet %q to %q", oldName, newName), err)
	}
	return nil
}

func (d *fileDocument) sheetToCSV(name, path string) error {
	rows, err := d.f.GetRows(name)
	if err != nil {
		return WrapError(KindSave, fmt.Sprintf("failed to save sheet %q as %q", name, path), err)
	}
	out, err := os.Create(path)
	if err != nil {
		return WrapError(KindSave, fmt.Sprintf("failed to save sheet %q as %q", name, path), err)
	}
	w := csv.NewWriter(out)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = out.Close()
			return WrapError(KindSave, fmt.Sprintf("failed to save sheet %q as %q", name, path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = out.Close()
		return WrapError(KindSave, fmt.Sprintf("failed to save sheet %q as %q", name, path), err)
	}
	if err := out.Close(); err != nil {
		return WrapError(KindSave, fmt.Sprintf("failed to save sheet %q as %q", name, path), err)
	}
	return nil
}

func (d *fileDocument) calculate(bool) error {
	// The file driver has no calculation engine. Clearing cached linked
	// values forces the host application to recalculate on next open,
	// which is the closest honest equivalent.
	if err := d.f.UpdateLinkedValue(); err != nil {
		return WrapError(KindWrite, "could not flag workbook for recalculation", err)
	}
	return nil
}

func (d *fileDocument) runMacro(name string) error {
	return NewError(KindMacro,
		fmt.Sprintf("could not run macro %q: macros require the Excel application (com driver)", name))
}

func (d *fileDocument) autoFit() error {
	sheet := d.active()
	cols, err := d.f.GetCols(sheet)
	if err != nil {
		return WrapError(KindWrite, "could not autofit columns", err)
	}
	for i, col := range cols {
		width := 0
		for _, cell := range col {
			if len(cell) > width {
				width = len(cell)
			}
		}
		if width == 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return WrapError(KindWrite, "could not autofit columns", err)
		}
		// Column width units are approximately one character of the
		// default font; pad slightly like the host application does.
		if err := d.f.SetColWidth(sheet, name, name, float64(width)+2); err != nil {
			return WrapError(KindWrite, "could not autofit columns", err)
		}
	}
	return nil
}

func (d *fileDocument) close(save bool) error {
	if save {
		if err := d.f.Save(); err != nil {
			_ = d.f.Close()
			return WrapError(KindSave, "failed to save workbook on close", err)
		}
	}
	if err := d.f.Close(); err != nil {
		return WrapError(KindSave, "failed to release workbook file", err)
	}
	return nil
}
