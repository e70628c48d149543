package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/apilevel/internal/ui/output"
	"go.trai.ch/apilevel/internal/ui/style"
)

// PrettyHandler is a slog.Handler for apilevel diagnostics on a terminal.
//
// The headline carries the level icon, the message and the attributes. Any
// further lines, usually an error chain, are dimmed beneath it. Attributes
// that name cache files or cache states are highlighted.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// levelStyle is the icon and color of one severity.
type levelStyle struct {
	icon  string
	color string
}

var (
	errorStyle = levelStyle{icon: style.Cross, color: string(style.Red)}
	warnStyle  = levelStyle{icon: style.Warning, color: string(style.Yellow)}
	infoStyle  = levelStyle{color: string(style.Slate)}
)

func styleFor(level slog.Level) levelStyle {
	switch {
	case level >= slog.LevelError:
		return errorStyle
	case level >= slog.LevelWarn:
		return warnStyle
	default:
		return infoStyle
	}
}

// Attribute keys, after grouping, that get their own value colors.
var (
	pathKeys  = map[string]bool{"path": true, "dir": true, "descriptor": true, "cache.path": true}
	stateKeys = map[string]bool{"state": true, "cache.state": true}
)

// NewPrettyHandler creates a PrettyHandler writing to w with the detected color profile.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	return NewPrettyHandlerWithProfile(w, output.ColorProfile(), opts)
}

// NewPrettyHandlerWithProfile creates a PrettyHandler that renders with profile.
func NewPrettyHandlerWithProfile(w io.Writer, profile termenv.Profile, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.NewWithProfile(w, func() termenv.Profile { return profile }),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record as a headline and an optional dimmed body.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	ls := styleFor(r.Level)
	color := h.out.Color(ls.color)
	head, body, multiline := strings.Cut(r.Message, "\n")

	var b strings.Builder
	if ls.icon != "" {
		b.WriteString(h.out.String(ls.icon).Foreground(color).Bold().String())
		b.WriteByte(' ')
	}
	b.WriteString(h.out.String(head).Foreground(color).String())

	for _, attr := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(h.renderAttr(attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(h.renderAttr(attr))
		return true
	})

	if multiline {
		dim := h.out.Color(string(style.Slate))
		for _, line := range strings.Split(body, "\n") {
			b.WriteByte('\n')
			b.WriteString(h.out.String(line).Foreground(dim).String())
		}
	}
	b.WriteByte('\n')

	_, err := h.out.WriteString(b.String())
	return err
}

// renderAttr renders key=value with a dim key. Paths and cache states stand out.
func (h *PrettyHandler) renderAttr(attr slog.Attr) string {
	key := attr.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	value := attr.Value.String()

	styled := h.out.String(value)
	switch {
	case pathKeys[key]:
		styled = styled.Foreground(h.out.Color(string(style.Iris)))
	case stateKeys[key] && value == "valid":
		styled = styled.Foreground(h.out.Color(string(style.Green)))
	case stateKeys[key]:
		styled = styled.Foreground(h.out.Color(string(style.Yellow))).Bold()
	}
	return h.out.String(key).Foreground(h.out.Color(string(style.Slate))).String() + "=" + styled.String()
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}
