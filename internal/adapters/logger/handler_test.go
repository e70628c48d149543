package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apilevel/internal/adapters/logger"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{
			name:       "info level",
			level:      slog.LevelInfo,
			msg:        "information message",
			goldenName: "handler_info",
		},
		{
			name:       "warn level",
			level:      slog.LevelWarn,
			msg:        "warning message",
			goldenName: "handler_warn",
		},
		{
			name:       "error level",
			level:      slog.LevelError,
			msg:        "error message",
			goldenName: "handler_error",
		},
		{
			name:       "debug level filtered",
			level:      slog.LevelDebug,
			msg:        "debug message",
			goldenName: "handler_debug_filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			})
			lg := slog.New(handler)

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	tests := []struct {
		name       string
		attrs      []slog.Attr
		msg        string
		goldenName string
	}{
		{
			name:       "single attribute",
			attrs:      []slog.Attr{slog.String("key", "value")},
			msg:        "single attr message",
			goldenName: "handler_attrs_single",
		},
		{
			name:       "multiple attributes",
			attrs:      []slog.Attr{slog.String("a", "1"), slog.Int("b", 2)},
			msg:        "multi attr message",
			goldenName: "handler_attrs_multiple",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, nil).WithAttrs(tt.attrs)
			slog.New(handler).Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, nil).WithGroup("cache")
	slog.New(handler).Info("grouped message", "state", "stale")

	g := goldie.New(t)
	g.Assert(t, "handler_group", buf.Bytes())
}

func TestPrettyHandler_AttrsStayOnHeadline(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	slog.New(logger.NewPrettyHandler(buf, nil)).Info("first\nsecond", "k", "v")

	assert.Equal(t, "first k=v\nsecond\n", buf.String())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	require.False(t, handler.Enabled(t.Context(), slog.LevelInfo))
	require.True(t, handler.Enabled(t.Context(), slog.LevelWarn))
	require.True(t, handler.Enabled(t.Context(), slog.LevelError))
}

func TestPrettyHandler_BodyStaysBelowHeadline(t *testing.T) {
	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandlerWithProfile(buf, termenv.Ascii, nil)
	slog.New(h).Error("lookup failed\n\n  Caused by:\n    boom", "path", "/tmp/api.bin")

	assert.Equal(t, "✗ lookup failed path=/tmp/api.bin\n\n  Caused by:\n    boom\n", buf.String())
}

func TestPrettyHandler_HighlightsCacheAttrs(t *testing.T) {
	tests := []struct {
		name  string
		attrs []any
		want  string
	}{
		{
			name:  "path",
			attrs: []any{"path", "/tmp/api-android-34.bin"},
			want:  termenv.ANSI.String("/tmp/api-android-34.bin").Foreground(termenv.ANSI.Color("#8B5CF6")).String(),
		},
		{
			name:  "valid state",
			attrs: []any{"state", "valid"},
			want:  termenv.ANSI.String("valid").Foreground(termenv.ANSI.Color("#22A06B")).String(),
		},
		{
			name:  "corrupt state",
			attrs: []any{"state", "corrupt-header"},
			want:  termenv.ANSI.String("corrupt-header").Foreground(termenv.ANSI.Color("#F59E0B")).Bold().String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			h := logger.NewPrettyHandlerWithProfile(buf, termenv.ANSI, nil)
			slog.New(h).Info("loaded", tt.attrs...)

			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrettyHandler_GroupedCacheState(t *testing.T) {
	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandlerWithProfile(buf, termenv.ANSI, nil).WithGroup("cache")
	slog.New(h).Info("loaded", "state", "stale")

	want := termenv.ANSI.String("stale").Foreground(termenv.ANSI.Color("#F59E0B")).Bold().String()
	assert.Contains(t, buf.String(), want)
}

func TestPrettyHandler_AsciiHasNoEscapes(t *testing.T) {
	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandlerWithProfile(buf, termenv.Ascii, nil)
	slog.New(h).Warn("cache stale", "state", "stale", "path", "/tmp/x.bin")

	assert.Equal(t, "! cache stale state=stale path=/tmp/x.bin\n", buf.String())
}
