package excel

// State is the lifecycle phase of a workbook session. The transitions
// are strictly forward:
//
//	[Open] → StateActive → StateClosed (terminal)
//
// Every operation other than Close requires StateActive; once closed,
// operations fail with a KindClosed error.
type State string

const (
	// StateActive means the document and application handles are held
	// and operations are valid.
	StateActive State = "active"

	// StateClosed means the handles have been released. Terminal.
	StateClosed State = "closed"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsValid checks whether the State is one of the defined values.
func (s State) IsValid() bool {
	switch s {
	case StateActive, StateClosed:
		return true
	default:
		return false
	}
}
