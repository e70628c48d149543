package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apilevel/internal/adapters/logger"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)
	return l, buf
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name       string
		severity   domain.Severity
		err        error
		msg        string
		goldenName string
	}{
		{
			name:       "info without error",
			severity:   domain.SeverityInfo,
			msg:        "loaded android-34",
			goldenName: "log_info",
		},
		{
			name:     "warning with cause chain",
			severity: domain.SeverityWarning,
			err: zerr.With(
				zerr.Wrap(errors.New("permission denied"), domain.ErrCacheWriteFailed.Error()),
				"path", "/tmp/android-34.db",
			),
			msg:        "cache not persisted",
			goldenName: "log_warning_chain",
		},
		{
			name:     "error promotes first cause",
			severity: domain.SeverityError,
			err: zerr.Wrap(
				zerr.With(zerr.With(domain.ErrDatabaseCorrupt, "offset", 96), "size", 64),
				"lookup failed",
			),
			goldenName: "log_error_promoted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newTestLogger(t)

			l.Log(tt.severity, tt.err, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Error(nil)
	l.Error(errors.New("boom"))

	assert.Equal(t, "✗ boom\n", buf.String())
}

func TestLogger_JSON(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetJSON(true)

	l.Log(domain.SeverityWarning, domain.ErrCacheStale, "rebuilding")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "rebuilding", rec["msg"])
	assert.Equal(t, domain.ErrCacheStale.Error(), rec["error"])
}

func TestLogger_JSONPromotesError(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetJSON(true)

	l.Error(errors.New("boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "boom", rec["msg"])
}

func TestLogger_SetOutputPreservesJSON(t *testing.T) {
	l := logger.New()
	l.SetJSON(true)

	buf := &bytes.Buffer{}
	l.SetOutput(buf)
	l.Log(domain.SeverityInfo, nil, "still json")

	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestLogger_SetJSONFalseRestoresPretty(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetJSON(true)
	l.SetJSON(false)

	l.Log(domain.SeverityWarning, nil, "pretty again")

	assert.Equal(t, "! pretty again\n", buf.String())
}

func TestLogger_SetColorProfile(t *testing.T) {
	l, buf := newTestLogger(t)

	l.SetColorProfile(termenv.ANSI)
	l.Log(domain.SeverityWarning, nil, "colored")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "colored")

	buf.Reset()
	l.SetColorProfile(termenv.Ascii)
	l.Log(domain.SeverityWarning, nil, "plain")
	assert.Equal(t, "! plain\n", buf.String())
}
