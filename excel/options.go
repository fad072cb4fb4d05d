package excel

// DriverKind selects which host bridge a workbook session uses.
type DriverKind string

const (
	// DriverAuto picks the COM driver when the Excel application is
	// reachable on this platform and falls back to the file driver.
	DriverAuto DriverKind = "auto"

	// DriverCOM drives a live Excel application over COM automation.
	// Only available on Windows.
	DriverCOM DriverKind = "com"

	// DriverFile edits the workbook file directly without a running
	// Excel instance. Available on every platform; macro execution and
	// formula recalculation require the COM driver.
	DriverFile DriverKind = "file"
)

// String returns the string representation of the driver kind.
func (d DriverKind) String() string {
	return string(d)
}

// IsValid checks whether the DriverKind is one of the defined values.
func (d DriverKind) IsValid() bool {
	switch d {
	case DriverAuto, DriverCOM, DriverFile:
		return true
	default:
		return false
	}
}

// Options configures a workbook session.
type Options struct {
	// Driver selects the host bridge. Defaults to DriverAuto.
	Driver DriverKind

	// Visible shows the host application window while the session is
	// active. Ignored by the file driver.
	Visible bool

	// DisplayAlerts lets the host application raise pop-up alert windows.
	// Leaving this false keeps the host from blocking automation with
	// interactive prompts. Ignored by the file driver.
	DisplayAlerts bool

	// SaveOnClose saves pending changes automatically when the session
	// is closed.
	SaveOnClose bool

	// QuitOnClose quits the host application when the session is closed,
	// even if the driver attached to an instance it did not launch.
	// Note that quitting also closes workbooks opened outside this
	// session. The COM driver always quits instances it launched itself.
	QuitOnClose bool

	// Password is the password required to open a protected workbook.
	Password string

	// WriteReservedPassword is the password required to write changes to
	// a write-reserved workbook.
	WriteReservedPassword string
}

// DefaultOptions returns the options used by Open: automatic driver
// selection, hidden window, alerts suppressed.
func DefaultOptions() Options {
	return Options{
		Driver: DriverAuto,
	}
}
