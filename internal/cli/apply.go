// Package cli — apply.go implements the "automate-excel apply" command.
//
// The apply command runs a batch of cell edits described by a JSONC
// script file. JSONC is JSON with comments and trailing commas, which
// keeps hand-maintained edit scripts annotatable; the file is stripped
// to plain JSON before decoding.
//
// Script format:
//
//	{
//	  // optional: worksheet to edit (default: active sheet)
//	  "sheet": "Data",
//	  "edits": [
//	    {"ref": "A1", "value": "Region"},
//	    {"ref": "B1", "value": 2026},
//	  ],
//	  // optional: save after applying (default: true)
//	  "save": true,
//	}
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/chrispcharlton/automate-excel/excel"
)

// EditScript mirrors the JSON structure of an edit script file.
type EditScript struct {
	// Sheet is the worksheet the edits apply to. Empty means the
	// workbook's active sheet.
	Sheet string `json:"sheet"`

	// Edits are applied in order; the first failing edit aborts the
	// batch and nothing is saved.
	Edits []CellEdit `json:"edits"`

	// Save controls whether the workbook is saved after a fully applied
	// batch. Defaults to true when absent.
	Save *bool `json:"save"`
}

// CellEdit is one cell write within an edit script.
type CellEdit struct {
	// Ref is the single-cell reference to write, e.g. "B2".
	Ref string `json:"ref"`

	// Value is the scalar to write. JSON strings, numbers, booleans,
	// and null map to the matching cell value types.
	Value interface{} `json:"value"`
}

// NewApplyCommand creates the "apply" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file> <edits.jsonc>",
		Short: "Apply a batch of cell edits from a script file",
		Long: `Apply a batch of cell edits described by a JSONC script file.
Edits are applied in order; the first failure aborts the batch and
nothing is saved.

Examples:
  automate-excel apply report.xlsx month-end.jsonc
  automate-excel apply report.xlsx fixes.jsonc --json`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(args[0], args[1])
		},
	}

	return cmd
}

// runApply is the main logic function for the apply command.
func runApply(file, scriptPath string) error {
	script, err := LoadEditScript(scriptPath)
	if err != nil {
		return err
	}
	if len(script.Edits) == 0 {
		return fmt.Errorf("edit script %s contains no edits", scriptPath)
	}

	opts, err := loadOptions()
	if err != nil {
		return err
	}

	wb, err := excel.OpenWith(file, opts)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	if script.Sheet != "" {
		if err := wb.ActivateSheet(script.Sheet); err != nil {
			return err
		}
	}

	for _, edit := range script.Edits {
		VerboseLog("Applying %s = %v", edit.Ref, edit.Value)
		if err := wb.Set(edit.Ref, edit.Value); err != nil {
			return fmt.Errorf("edit %q: %w", edit.Ref, err)
		}
	}

	saved := script.Save == nil || *script.Save
	if saved {
		if err := wb.Save(); err != nil {
			return err
		}
	}

	printApplyResult(file, len(script.Edits), saved)
	return nil
}

// LoadEditScript reads and decodes a JSONC edit script file.
//
// This function is exported for testing purposes (tested in cli_test.go).
func LoadEditScript(path string) (*EditScript, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read edit script %s: %w", path, err)
	}

	// jsonc.ToJSON strips comments and trailing commas, producing plain
	// JSON the standard decoder accepts.
	clean := jsonc.ToJSON(raw)

	var script EditScript
	if err := json.Unmarshal(clean, &script); err != nil {
		return nil, fmt.Errorf("could not parse edit script %s: %w", path, err)
	}
	for i, edit := range script.Edits {
		if edit.Ref == "" {
			return nil, fmt.Errorf("edit script %s: edit %d is missing a ref", path, i)
		}
	}
	return &script, nil
}

// printApplyResult confirms the batch in text or JSON format.
func printApplyResult(file string, applied int, saved bool) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"file":    file,
			"applied": applied,
			"saved":   saved,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Applied %d edits to %s\n", applied, file)
}
