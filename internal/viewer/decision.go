package viewer

// Decision is the user's answer when a file is missing required attributes.
type Decision int

const (
	// Abort discards the file and keeps whatever was displayed before.
	Abort Decision = iota
	// Continue views the file despite the missing attributes.
	Continue
	// Provide views the file after filling in user-supplied values.
	Provide
)

func (d Decision) String() string {
	switch d {
	case Abort:
		return "abort"
	case Continue:
		return "continue"
	case Provide:
		return "provide"
	default:
		return "unknown"
	}
}

// Resolution carries a Decision plus, for Provide, the replacement values
// keyed by attribute name. Names absent from Values stay missing.
type Resolution struct {
	Decision Decision
	Values   map[string]string
}

// DecisionHandler is consulted when a loaded file fails validation. The
// call blocks the load until the user answers; implementations bridge to
// whatever interaction the frontend offers.
type DecisionHandler interface {
	ResolveMissing(path string, missing []string) Resolution
}

// DecisionFunc adapts a function to the DecisionHandler interface.
type DecisionFunc func(path string, missing []string) Resolution

// ResolveMissing calls f.
func (f DecisionFunc) ResolveMissing(path string, missing []string) Resolution {
	return f(path, missing)
}

// rejectAll is the handler used when none is supplied: incomplete files
// are never shown.
type rejectAll struct{}

func (rejectAll) ResolveMissing(string, []string) Resolution {
	return Resolution{Decision: Abort}
}
