// Package cli implements the cobra-based CLI commands for automate-excel.
//
// Each subcommand (get, set, sheets, export, apply) is defined in its own
// file within this package. This file defines the root command that serves
// as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrispcharlton/automate-excel/excel"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool

	// driverName forces a specific workbook driver ("com" or "file").
	// Empty means automatic selection.
	driverName string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// ExitCode defines the CLI exit codes. Each error kind from the excel
// package maps to a stable code so scripts can branch on failures.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitOpenFailed indicates the workbook could not be opened.
	ExitOpenFailed ExitCode = 2

	// ExitBadReference indicates a malformed or out-of-grid cell reference.
	ExitBadReference ExitCode = 3

	// ExitWriteFailed indicates the host rejected a cell write.
	ExitWriteFailed ExitCode = 4

	// ExitSaveFailed indicates the workbook could not be saved.
	ExitSaveFailed ExitCode = 5

	// ExitSheetError indicates a missing or duplicate worksheet.
	ExitSheetError ExitCode = 6
)

// exitCodeFor maps an error to its exit code via the excel error kinds.
func exitCodeFor(err error) ExitCode {
	switch {
	case err == nil:
		return ExitSuccess
	case excel.IsKind(err, excel.KindOpen):
		return ExitOpenFailed
	case excel.IsKind(err, excel.KindReference):
		return ExitBadReference
	case excel.IsKind(err, excel.KindWrite):
		return ExitWriteFailed
	case excel.IsKind(err, excel.KindSave):
		return ExitSaveFailed
	case excel.IsKind(err, excel.KindSheet):
		return ExitSheetError
	default:
		return ExitGeneralError
	}
}

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands (get, set, sheets, export, apply).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "automate-excel",
		Short: "Read, edit, and convert Excel workbooks from the command line",
		Long: `automate-excel drives Excel workbooks without opening the application by
hand: read and write cells, list worksheets, convert between formats,
and apply batch edit scripts.

On Windows with Excel installed, commands talk to the live application
over COM; elsewhere they edit the workbook file directly.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&driverName, "driver", "",
		"Workbook driver: com, file (default: automatic)")

	// Register subcommands. Each subcommand is defined in its own file
	// (get.go, set.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewSetCommand())
	rootCmd.AddCommand(NewSheetsCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewApplyCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into OS exit codes via the excel error kinds; other errors default
// to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(int(exitCodeFor(err)))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(err error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
			},
		}
		var e *excel.Error
		if errors.As(err, &e) {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["kind"] = e.Kind.String()
				errMap["message"] = e.Message
				if e.Err != nil {
					errMap["detail"] = e.Err.Error()
				}
			}
		}
		// We write to stderr for errors, even in JSON mode, because stdout
		// is reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// This is used throughout the CLI for debug/trace output that helps
// users understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
