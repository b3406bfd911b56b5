package diary

// SaveStatus is the save affordance shown next to the editor. Exactly one
// value is active at a time; it is a hint for the user, not a durability
// guarantee.
type SaveStatus int

const (
	StatusReady SaveStatus = iota
	StatusSaving
	StatusSaved
	StatusError
)

const (
	saveErrorText = "Error saving"
	loadErrorText = "Error loading entry"
)

func (s SaveStatus) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Text is the default display text for the status.
func (s SaveStatus) Text() string {
	if s == StatusError {
		return saveErrorText
	}
	return s.String()
}
