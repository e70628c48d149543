// Package logger implements the diagnostic sink using log/slog.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/ui/output"
	"go.trai.ch/apilevel/internal/ui/style"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it; other errors fall back to Error().
type messager interface {
	Message() string
}

type metadataer interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	profile  termenv.Profile
}

// New creates a Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr, profile: output.ColorProfile()}
	l.rebuild()
	return l
}

// SetOutput updates the output destination, preserving the JSON mode.
// A nil w selects os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetColorProfile selects the color profile of pretty output.
func (l *Logger) SetColorProfile(p termenv.Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.profile = p
	l.rebuild()
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandlerWithProfile(l.output, l.profile, opts))
}

// Log records msg at the given severity. When err is not nil its chain is
// rendered beneath the message, or becomes the message when msg is empty.
func (l *Logger) Log(severity domain.Severity, err error, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	level := levelOf(severity)
	ctx := context.Background()

	if l.jsonMode {
		if err == nil {
			l.logger.Log(ctx, level, msg)
			return
		}
		if msg == "" {
			msg = err.Error()
		}
		l.logger.Log(ctx, level, msg, "error", err.Error())
		return
	}

	if err == nil {
		l.logger.Log(ctx, level, msg)
		return
	}
	l.logger.Log(ctx, level, formatErrorEntries(msg, collectErrorEntries(err)))
}

// LogAttrs records msg with structured attributes. Pretty output highlights
// cache paths and states among them.
func (l *Logger) LogAttrs(severity domain.Severity, msg string, attrs ...slog.Attr) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	l.logger.LogAttrs(context.Background(), levelOf(severity), msg, attrs...)
}

// Error logs err as a failed operation.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}
	l.Log(domain.SeverityError, err, "")
}

func levelOf(severity domain.Severity) slog.Level {
	switch severity {
	case domain.SeverityWarning:
		return slog.LevelWarn
	case domain.SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type errorEntry struct {
	message  string
	metadata map[string]any
}

// collectErrorEntries walks the chain of err, one entry per layer.
// Layers without a message only carry metadata; it is folded into the next layer.
func collectErrorEntries(err error) []errorEntry {
	var (
		entries []errorEntry
		pending map[string]any
	)
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error(), metadata: pending})
			break
		}

		var md map[string]any
		if mp, ok := current.(metadataer); ok {
			md = mp.Metadata()
		}
		for k, v := range pending {
			if md == nil {
				md = make(map[string]any, len(pending))
			}
			md[k] = v
		}
		pending = nil

		if m.Message() == "" {
			pending = md
		} else {
			entries = append(entries, errorEntry{message: m.Message(), metadata: md})
		}
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders a headline followed by the causes as an indented list.
// An empty headline promotes the first entry to the headline.
func formatErrorEntries(headline string, entries []errorEntry) string {
	var b strings.Builder

	if headline == "" && len(entries) > 0 {
		headline = entries[0].message + formatMetadata(entries[0].metadata)
		entries = entries[1:]
	}
	writeIndented(&b, headline, "", "  ")

	for i, e := range entries {
		if i == 0 {
			b.WriteString("\n\n  Caused by:")
		}
		b.WriteString("\n")
		writeIndented(&b, e.message+formatMetadata(e.metadata), "    "+style.Arrow+" ", "      ")
	}
	return b.String()
}

func writeIndented(b *strings.Builder, text, first, rest string) {
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			b.WriteString(first + line)
			continue
		}
		b.WriteString("\n" + rest + line)
	}
}

func formatMetadata(md map[string]any) string {
	if len(md) == 0 {
		return ""
	}
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, md[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
