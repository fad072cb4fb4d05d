// Package cli — set.go implements the "automate-excel set" command.
//
// The set command writes one scalar into one cell and saves the
// workbook. The value argument is typed the way a cell entry would be:
// numerics become numbers, TRUE/FALSE become booleans, everything else
// stays text. The --text flag forces a literal string write.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrispcharlton/automate-excel/excel"
)

// setFlags holds the flag values for the set command.
type setFlags struct {
	// sheet selects the worksheet to write to. Empty means the
	// workbook's active sheet.
	sheet string

	// text forces the value to be written as a literal string, skipping
	// numeric and boolean detection.
	text bool
}

// NewSetCommand creates the "set" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSetCommand() *cobra.Command {
	flags := &setFlags{}

	cmd := &cobra.Command{
		Use:   "set <file> <ref> <value>",
		Short: "Write a value into a cell and save",
		Long: `Write a value into a single cell and save the workbook. If the file
does not exist, a new workbook is created at that path.

Examples:
  automate-excel set report.xlsx B2 42.5
  automate-excel set report.xlsx A1 "hello world"
  automate-excel set report.xlsx C3 007 --text`,

		Args: cobra.ExactArgs(3),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args[0], args[1], args[2], flags)
		},
	}

	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Worksheet to write (default: active sheet)")
	cmd.Flags().BoolVar(&flags.text, "text", false, "Write the value as a literal string")

	return cmd
}

// runSet is the main logic function for the set command.
func runSet(file, ref, raw string, flags *setFlags) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	wb, err := excel.OpenWith(file, opts)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	if flags.sheet != "" {
		if err := wb.ActivateSheet(flags.sheet); err != nil {
			return err
		}
	}

	value := CellValue(raw, flags.text)
	VerboseLog("Writing %s = %v", ref, value)

	if err := wb.Set(ref, value); err != nil {
		return err
	}
	if err := wb.Save(); err != nil {
		return err
	}

	printSetResult(wb.Path(), ref, value)
	return nil
}

// CellValue types a raw command-line argument the way a cell entry
// would be typed in the host application. With literal set, the raw
// text is kept as a string unconditionally.
//
// This function is exported for testing purposes (tested in cli_test.go).
func CellValue(raw string, literal bool) excel.Value {
	if literal {
		return excel.String(raw)
	}
	// The host application accepts booleans in any case when typed into
	// a cell, so the CLI does too.
	switch {
	case strings.EqualFold(raw, "true"):
		return excel.Bool(true)
	case strings.EqualFold(raw, "false"):
		return excel.Bool(false)
	}
	return excel.ParseValue(raw)
}

// printSetResult confirms the write in text or JSON format.
func printSetResult(path, ref string, value excel.Value) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"file":  path,
			"ref":   ref,
			"value": value.Interface(),
			"saved": true,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Set %s = %s (saved %s)\n", ref, value.Text(), path)
}
