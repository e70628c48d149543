package ports

import "go.trai.ch/apilevel/internal/core/domain"

// Logger is the sink for diagnostics emitted by the API database.
// The engine decides what to say; the implementation decides how it is displayed.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Log records a formatted message with an optional underlying error.
	Log(severity domain.Severity, err error, msg string)
}
