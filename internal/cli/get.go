// Package cli — get.go implements the "automate-excel get" command.
//
// The get command opens a workbook read-side and prints the value of a
// cell or the values of a range on a chosen sheet. Single cells print as
// one scalar; ranges print one tab-separated line per row, or a JSON
// matrix with --json.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrispcharlton/automate-excel/excel"
)

// getFlags holds the flag values for the get command.
type getFlags struct {
	// sheet selects the worksheet to read from. Empty means the
	// workbook's active sheet.
	sheet string
}

// NewGetCommand creates the "get" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewGetCommand() *cobra.Command {
	flags := &getFlags{}

	cmd := &cobra.Command{
		Use:   "get <file> <ref>",
		Short: "Print the value of a cell or range",
		Long: `Print the value of a cell ("A1") or the values of a range ("A1:C10").

Examples:
  automate-excel get report.xlsx B2
  automate-excel get report.xlsx A1:C10 --sheet Data
  automate-excel get report.xlsx A1 --json`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Worksheet to read (default: active sheet)")

	return cmd
}

// runGet is the main logic function for the get command.
func runGet(file, ref string, flags *getFlags) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	wb, err := excel.OpenWith(file, opts)
	if err != nil {
		return err
	}
	// defer ensures the workbook session is released when this function
	// returns, on success and error paths alike.
	defer func() { _ = wb.Close() }()

	VerboseLog("Opened %s", wb.Path())

	if flags.sheet != "" {
		if err := wb.ActivateSheet(flags.sheet); err != nil {
			return err
		}
	}

	r, err := wb.Range(ref)
	if err != nil {
		return err
	}
	values, err := r.Values()
	if err != nil {
		return err
	}

	printGetResult(r, values)
	return nil
}

// printGetResult outputs the read values in text or JSON format,
// depending on the global --json flag.
func printGetResult(r *excel.Range, values [][]excel.Value) {
	if IsJSONOutput() {
		printGetResultJSON(r, values)
		return
	}
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, v.Text())
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

// printGetResultJSON outputs the read values as structured JSON. Single
// cells collapse to one "value" field; ranges keep a row-major matrix.
func printGetResultJSON(r *excel.Range, values [][]excel.Value) {
	cols, rows := r.Dim()
	if cols == 1 && rows == 1 {
		result := map[string]interface{}{
			"ref":   r.Address(),
			"value": values[0][0].Interface(),
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	matrix := make([][]interface{}, 0, len(values))
	for _, row := range values {
		out := make([]interface{}, 0, len(row))
		for _, v := range row {
			out = append(out, v.Interface())
		}
		matrix = append(matrix, out)
	}
	result := map[string]interface{}{
		"ref":    r.Address(),
		"values": matrix,
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}
