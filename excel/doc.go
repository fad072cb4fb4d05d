// Package excel wraps Microsoft Excel automation behind a friendlier
// object-oriented interface: a Workbook session with cell get/set by
// reference string, worksheet and range helpers, and save operations.
//
// The host application is an opaque external collaborator. Two bridges
// are provided: a COM driver that automates a live Excel instance
// (Windows only), and a file driver that edits workbook files headlessly
// so the same API works where Excel is not installed. Driver selection
// is automatic by default and can be forced via Options.
//
// Sessions are scoped: Open acquires the application and document
// handles, Close releases them on every exit path, and all operations
// after Close fail with a KindClosed error. Calls are synchronous and
// blocking; a Workbook must not be shared between goroutines.
package excel
