//go:build !windows

package excel

// COM automation is a Windows-only bridge. On other platforms the auto
// driver falls back to direct file editing, and requesting the COM
// driver explicitly is an open error.

func comSupported() bool {
	return false
}

func newCOMDriver() (driver, error) {
	return nil, NewError(KindOpen, "the com driver requires Microsoft Excel on Windows; use the file driver on this platform")
}
