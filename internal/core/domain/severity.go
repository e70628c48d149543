package domain

// Severity classifies a diagnostic emitted through the logging sink.
type Severity uint8

const (
	// SeverityInfo is used for informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning is used for recoverable problems such as a corrupt cache.
	SeverityWarning
	// SeverityError is used for failures that abort an operation.
	SeverityError
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
