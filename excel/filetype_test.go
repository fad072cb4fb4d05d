package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileTypeForPath verifies extension resolution against the host
// application's save-format codes.
func TestFileTypeForPath(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		code int
	}{
		{"book.xlsx", ".xlsx", 51},
		{"book.XLSX", ".xlsx", 51}, // extensions are case-insensitive
		{"book.xlsm", ".xlsm", 52},
		{"book.xls", ".xls", -4143},
		{"book.csv", ".csv", 6},
		{"book.txt", ".txt", -4158},
		{"book.ods", ".ods", 60},
		{"book", ".xlsx", 51}, // no extension falls back to the default
		{"dir.v2/book", ".xlsx", 51},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ft, err := FileTypeForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, ft.Ext)
			assert.Equal(t, tt.code, ft.Code)
		})
	}
}

// TestFileTypeForPath_Unsupported verifies that unknown extensions fail
// with KindSave.
func TestFileTypeForPath_Unsupported(t *testing.T) {
	for _, path := range []string{"song.mp3", "doc.docx", "book.exe"} {
		t.Run(path, func(t *testing.T) {
			_, err := FileTypeForPath(path)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSave))
		})
	}
}

// TestValidateWorkbookPath verifies open-side path validation: empty
// paths and unopenable file types are rejected with KindOpen.
func TestValidateWorkbookPath(t *testing.T) {
	assert.NoError(t, ValidateWorkbookPath("book.xlsx"))
	assert.NoError(t, ValidateWorkbookPath("book"), "extensionless paths create a default-format workbook")

	for _, path := range []string{"", "fail.mp3", "fail.doc"} {
		t.Run(path, func(t *testing.T) {
			err := ValidateWorkbookPath(path)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindOpen))
		})
	}
}

// TestSupportedExtensions verifies the supported set is sorted and
// contains the core workbook formats.
func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".xlsx")
	assert.Contains(t, exts, ".xls")
	assert.Contains(t, exts, ".csv")
	assert.IsIncreasing(t, exts)
}
