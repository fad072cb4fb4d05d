package excel

import "fmt"

// Sheet is a handle to one worksheet of an open workbook, produced by
// Workbook.Sheet, Workbook.ActiveSheet, or Workbook.AddSheet. Like
// Range, it stays bound to its session and fails with KindClosed once
// the workbook is closed.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Rename changes the worksheet name. The handle tracks the new name.
func (s *Sheet) Rename(newName string) error {
	if err := s.wb.ensureActive(); err != nil {
		return err
	}
	if newName == "" {
		return NewError(KindSheet, "sheet name must not be empty")
	}
	if err := s.wb.doc.renameSheet(s.name, newName); err != nil {
		return err
	}
	s.name = newName
	return nil
}

// Activate makes this worksheet the active sheet.
func (s *Sheet) Activate() error {
	return s.wb.ActivateSheet(s.name)
}

// ToCSV saves the worksheet's contents as a .csv file at path. A path
// without the .csv extension gets it appended.
func (s *Sheet) ToCSV(path string) error {
	if err := s.wb.ensureActive(); err != nil {
		return err
	}
	if path == "" {
		return NewError(KindSave, "csv path must not be empty")
	}
	if Ext(path) != ".csv" {
		path += ".csv"
	}
	if err := s.wb.doc.sheetToCSV(s.name, path); err != nil {
		return err
	}
	return nil
}

// String satisfies fmt.Stringer for diagnostics.
func (s *Sheet) String() string {
	return fmt.Sprintf("sheet %q", s.name)
}
