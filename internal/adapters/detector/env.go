// Package detector inspects the environment to decide how apilevel colours its output.
package detector

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/apilevel/internal/ui/output"
	"golang.org/x/term"
)

// OutputMode describes where output is going.
type OutputMode string

const (
	// ModeTerminal writes to an interactive terminal; the profile is detected.
	ModeTerminal OutputMode = "terminal"
	// ModeCI writes to a CI log, which renders basic ANSI colors.
	ModeCI OutputMode = "ci"
	// ModePlain writes uncolored text to a pipe or file.
	ModePlain OutputMode = "plain"
)

// Values accepted by the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type fdWriter interface {
	Fd() uintptr
}

// DetectEnvironment reports the output mode for w. CI=true or CI=1 selects
// ModeCI; a terminal file descriptor selects ModeTerminal.
func DetectEnvironment(w io.Writer) OutputMode {
	if ci := os.Getenv("CI"); ci == "true" || ci == "1" {
		return ModeCI
	}
	if f, ok := w.(fdWriter); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return ModeTerminal
	}
	return ModePlain
}

// ResolveMode applies the --color flag to the detected mode.
// Unknown flag values fall back to the detected mode.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case ColorAlways:
		if autoDetected == ModeTerminal {
			return ModeTerminal
		}
		return ModeCI
	case ColorNever:
		return ModePlain
	default:
		return autoDetected
	}
}

// Profile returns the termenv color profile for m. NO_COLOR still wins.
func (m OutputMode) Profile() termenv.Profile {
	switch m {
	case ModeTerminal:
		return output.ColorProfile()
	case ModeCI:
		return output.ColorProfileANSI()
	default:
		return termenv.Ascii
	}
}
