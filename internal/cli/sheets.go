// Package cli — sheets.go implements the "automate-excel sheets" command.
//
// The sheets command lists the worksheets of a workbook in workbook
// order, marking the active sheet. With --json the list is emitted as a
// structured array.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrispcharlton/automate-excel/excel"
)

// NewSheetsCommand creates the "sheets" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSheetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets <file>",
		Short: "List the worksheets of a workbook",
		Long: `List the worksheets of a workbook in order. The active sheet is
marked with an asterisk.

Examples:
  automate-excel sheets report.xlsx
  automate-excel sheets report.xlsx --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheets(args[0])
		},
	}

	return cmd
}

// runSheets is the main logic function for the sheets command.
func runSheets(file string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	wb, err := excel.OpenWith(file, opts)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	names, err := wb.SheetNames()
	if err != nil {
		return err
	}
	active, err := wb.ActiveSheet()
	if err != nil {
		return err
	}

	printSheetsResult(names, active.Name())
	return nil
}

// sheetJSON is the JSON output structure for a single worksheet
// in the sheets command.
type sheetJSON struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// printSheetsResult outputs the worksheet list in text or JSON format,
// depending on the global --json flag.
func printSheetsResult(names []string, active string) {
	if IsJSONOutput() {
		type resultJSON struct {
			Sheets []sheetJSON `json:"sheets"`
		}
		result := resultJSON{
			// Use an empty slice instead of nil so JSON output shows []
			// instead of null for a workbook with no readable sheets.
			Sheets: make([]sheetJSON, 0, len(names)),
		}
		for _, name := range names {
			result.Sheets = append(result.Sheets, sheetJSON{Name: name, Active: name == active})
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, name := range names {
		marker := " "
		if name == active {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
}
