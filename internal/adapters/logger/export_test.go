package logger

// ErrorEntry mirrors errorEntry for tests.
type ErrorEntry = errorEntry

var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)

// Message returns the entry message.
func (e ErrorEntry) Message() string { return e.message }

// Metadata returns the entry metadata.
func (e ErrorEntry) Metadata() map[string]any { return e.metadata }
