// Package cli — cli_test.go contains unit tests for the pure helper
// functions used by the CLI commands.
//
// These tests verify argument typing, config overlay, edit script
// decoding, and exit-code mapping without requiring the Excel
// application or any external dependencies.
package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrispcharlton/automate-excel/excel"
)

// TestCellValue verifies that CellValue types command-line arguments
// the way a cell entry would be typed, and that --text forces a
// literal string.
func TestCellValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		literal bool
		want    excel.Value
	}{
		{
			name: "integer becomes number",
			raw:  "42",
			want: excel.Number(42),
		},
		{
			name: "decimal becomes number",
			raw:  "42.5",
			want: excel.Number(42.5),
		},
		{
			name: "TRUE becomes boolean",
			raw:  "TRUE",
			want: excel.Bool(true),
		},
		{
			name: "false becomes boolean",
			raw:  "false",
			want: excel.Bool(false),
		},
		{
			name: "plain text stays text",
			raw:  "hello world",
			want: excel.String("hello world"),
		},
		{
			name: "empty becomes empty",
			raw:  "",
			want: excel.Empty(),
		},
		{
			name:    "literal keeps leading zeros",
			raw:     "007",
			literal: true,
			want:    excel.String("007"),
		},
		{
			name:    "literal keeps TRUE as text",
			raw:     "TRUE",
			literal: true,
			want:    excel.String("TRUE"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CellValue(tt.raw, tt.literal)
			assert.True(t, tt.want.Equal(got), "CellValue(%q, %v) = %v, want %v", tt.raw, tt.literal, got, tt.want)
		})
	}
}

// TestExitCodeFor verifies the error-kind to exit-code mapping.
func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{name: "nil is success", err: nil, want: ExitSuccess},
		{name: "open failure", err: excel.NewError(excel.KindOpen, "no such workbook"), want: ExitOpenFailed},
		{name: "bad reference", err: excel.NewError(excel.KindReference, "bad ref"), want: ExitBadReference},
		{name: "write failure", err: excel.NewError(excel.KindWrite, "rejected"), want: ExitWriteFailed},
		{name: "save failure", err: excel.NewError(excel.KindSave, "locked"), want: ExitSaveFailed},
		{name: "sheet error", err: excel.NewError(excel.KindSheet, "no sheet"), want: ExitSheetError},
		{name: "closed handle is general", err: excel.NewError(excel.KindClosed, "closed"), want: ExitGeneralError},
		{name: "plain error is general", err: errors.New("boom"), want: ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

// TestLoadEditScript verifies JSONC edit scripts decode with comments
// and trailing commas intact, and that malformed scripts are rejected.
func TestLoadEditScript(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("jsonc with comments and trailing commas", func(t *testing.T) {
		path := write("edits.jsonc", `{
			// month-end adjustments
			"sheet": "Data",
			"edits": [
				{"ref": "A1", "value": "Region"},
				{"ref": "B1", "value": 2026},
				{"ref": "C1", "value": true}, // flag column
			],
			"save": false,
		}`)

		script, err := LoadEditScript(path)
		require.NoError(t, err)
		assert.Equal(t, "Data", script.Sheet)
		require.Len(t, script.Edits, 3)
		assert.Equal(t, "A1", script.Edits[0].Ref)
		assert.Equal(t, "Region", script.Edits[0].Value)
		assert.Equal(t, float64(2026), script.Edits[1].Value)
		assert.Equal(t, true, script.Edits[2].Value)
		require.NotNil(t, script.Save)
		assert.False(t, *script.Save)
	})

	t.Run("save defaults to unset", func(t *testing.T) {
		path := write("nosave.jsonc", `{"edits": [{"ref": "A1", "value": 1}]}`)
		script, err := LoadEditScript(path)
		require.NoError(t, err)
		assert.Nil(t, script.Save)
	})

	t.Run("missing ref is rejected", func(t *testing.T) {
		path := write("noref.jsonc", `{"edits": [{"value": 1}]}`)
		_, err := LoadEditScript(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing a ref")
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		path := write("broken.jsonc", `{"edits": [`)
		_, err := LoadEditScript(path)
		assert.Error(t, err)
	})

	t.Run("missing file is rejected", func(t *testing.T) {
		_, err := LoadEditScript(filepath.Join(dir, "absent.jsonc"))
		assert.Error(t, err)
	})
}

// TestApplyConfig verifies the config file overlay onto the default
// workbook options.
func TestApplyConfig(t *testing.T) {
	t.Run("empty config keeps defaults", func(t *testing.T) {
		opts, err := applyConfig(excel.DefaultOptions(), &fileConfig{})
		require.NoError(t, err)
		assert.Equal(t, excel.DriverAuto, opts.Driver)
		assert.False(t, opts.Visible)
	})

	t.Run("config values overlay", func(t *testing.T) {
		opts, err := applyConfig(excel.DefaultOptions(), &fileConfig{
			Driver:        "file",
			Visible:       true,
			DisplayAlerts: true,
			SaveOnClose:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, excel.DriverFile, opts.Driver)
		assert.True(t, opts.Visible)
		assert.True(t, opts.DisplayAlerts)
		assert.True(t, opts.SaveOnClose)
	})

	t.Run("invalid driver is rejected", func(t *testing.T) {
		_, err := applyConfig(excel.DefaultOptions(), &fileConfig{Driver: "telnet"})
		assert.Error(t, err)
	})
}

// TestParseConfigFile verifies YAML decoding of .automate-excel.yaml.
func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte("driver: file\nsave-on-close: true\n"), 0o644))

	cfg, err := parseConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Driver)
	assert.True(t, cfg.SaveOnClose)
	assert.False(t, cfg.Visible)

	require.NoError(t, os.WriteFile(path, []byte("driver: [broken\n"), 0o644))
	_, err = parseConfigFile(path)
	assert.Error(t, err)
}
