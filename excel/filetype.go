package excel

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FileType identifies a save format the host application understands.
// The numeric code is the host's XlFileFormat constant, passed verbatim
// to SaveAs.
type FileType struct {
	// Ext is the lowercase file extension including the dot, e.g. ".xlsx".
	Ext string

	// Code is the host application's save-format constant for this type.
	Code int
}

// Save-format codes for every extension the wrapper supports. These match
// the host application's XlFileFormat enumeration.
var fileTypes = map[string]int{
	".xla":  18,
	".csv":  6,
	".txt":  -4158,
	".dif":  9,
	".xlsb": 50,
	".htm":  44,
	".html": 44,
	".ods":  60,
	".xlam": 55,
	".xltx": 54,
	".xltm": 53,
	".xlsx": 51,
	".xlsm": 52,
	".xlt":  17,
	".xls":  -4143,
	".xml":  46,
}

// DefaultFileType is the format used when a path carries no extension.
const DefaultFileType = ".xlsx"

// Ext returns the lowercase extension of path, or "" when it has none.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// FileTypeForPath resolves the save format for a destination path from
// its extension. A path without an extension gets the default (.xlsx)
// format. An extension outside the supported set is an error of kind
// KindSave, since the host application would reject it.
func FileTypeForPath(path string) (FileType, error) {
	ext := Ext(path)
	if ext == "" {
		ext = DefaultFileType
	}
	code, ok := fileTypes[ext]
	if !ok {
		return FileType{}, NewError(KindSave,
			fmt.Sprintf("unsupported file type %q for %q (supported: %s)", ext, path, supportedExtList()))
	}
	return FileType{Ext: ext, Code: code}, nil
}

// ValidateWorkbookPath checks that a path is plausible to hand to the
// host application's open call: either no extension (a new workbook will
// be created with the default type) or one of the supported extensions.
// Failures are of kind KindOpen.
func ValidateWorkbookPath(path string) error {
	if path == "" {
		return NewError(KindOpen, "workbook path must not be empty")
	}
	ext := Ext(path)
	if ext == "" {
		return nil
	}
	if _, ok := fileTypes[ext]; !ok {
		return NewError(KindOpen,
			fmt.Sprintf("cannot open %q: unsupported file type %q (supported: %s)", path, ext, supportedExtList()))
	}
	return nil
}

// SupportedExtensions returns the sorted list of extensions the wrapper
// can open and save.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(fileTypes))
	for ext := range fileTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func supportedExtList() string {
	return strings.Join(SupportedExtensions(), " ")
}
