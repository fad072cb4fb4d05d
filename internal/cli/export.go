// Package cli — export.go implements the "automate-excel export" command.
//
// The export command converts a workbook to another format, decided by
// the output path's extension. OOXML targets are written directly; a
// .csv target exports the chosen worksheet; other formats in the
// supported-extension table need the Excel application (COM driver).
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrispcharlton/automate-excel/excel"
)

// exportFlags holds the flag values for the export command.
type exportFlags struct {
	// sheet selects the worksheet for sheet-scoped targets like .csv.
	// Empty means the workbook's active sheet.
	sheet string
}

// NewExportCommand creates the "export" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <file> <out>",
		Short: "Convert a workbook to another format",
		Long: fmt.Sprintf(`Convert a workbook to the format named by the output extension.

Supported extensions: %v

Examples:
  automate-excel export report.xlsx report.csv
  automate-excel export report.xlsx archive.xlsm
  automate-excel export report.xlsx data.csv --sheet Data`, excel.SupportedExtensions()),

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Worksheet to export for sheet-scoped formats (default: active sheet)")

	return cmd
}

// runExport is the main logic function for the export command.
func runExport(file, out string, flags *exportFlags) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	wb, err := excel.OpenWith(file, opts)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	VerboseLog("Exporting %s to %s", wb.Path(), out)

	if excel.Ext(out) == ".csv" {
		sheet, err := exportSheet(wb, flags.sheet)
		if err != nil {
			return err
		}
		if err := sheet.ToCSV(out); err != nil {
			return err
		}
	} else {
		if flags.sheet != "" {
			if err := wb.ActivateSheet(flags.sheet); err != nil {
				return err
			}
		}
		// SaveCopyAs keeps the session pointed at the source file, so a
		// failed conversion never redirects subsequent saves.
		if err := wb.SaveCopyAs(out); err != nil {
			return err
		}
	}

	printExportResult(file, out)
	return nil
}

// exportSheet resolves the worksheet a sheet-scoped export reads from.
func exportSheet(wb *excel.Workbook, name string) (*excel.Sheet, error) {
	if name == "" {
		return wb.ActiveSheet()
	}
	return wb.Sheet(name)
}

// printExportResult confirms the conversion in text or JSON format.
func printExportResult(file, out string) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"source": file,
			"output": out,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Exported %s to %s\n", file, out)
}
