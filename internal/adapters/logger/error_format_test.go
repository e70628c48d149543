package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/apilevel/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "single standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "zerr single error",
			err:          zerr.New("zerr error"),
			wantMessages: []string{"zerr error"},
			wantMetadata: []map[string]any{{}},
		},
		{
			name: "zerr wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("root cause"), "middle layer"),
				"outer layer",
			),
			wantMessages: []string{"outer layer", "middle layer", "root cause"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name: "zerr with metadata",
			err: zerr.With(
				zerr.With(zerr.New("base error"), "key1", "value1"),
				"key2", 42,
			),
			wantMessages: []string{"base error"},
			wantMetadata: []map[string]any{{"key1": "value1", "key2": 42}},
		},
		{
			name:         "metadata on standard error folds into it",
			err:          zerr.With(errors.New("disk full"), "path", "/tmp/a.db"),
			wantMessages: []string{"disk full"},
			wantMetadata: []map[string]any{{"path": "/tmp/a.db"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)

			messages := make([]string, 0, len(entries))
			metadata := make([]map[string]any, 0, len(entries))
			for _, e := range entries {
				messages = append(messages, e.Message())
				metadata = append(metadata, e.Metadata())
			}
			assert.Equal(t, tt.wantMessages, messages)
			assert.Equal(t, tt.wantMetadata, metadata)
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		err      error
		want     string
	}{
		{
			name: "single error promoted",
			err:  errors.New("boom"),
			want: "boom",
		},
		{
			name:     "headline with one cause",
			headline: "cache not persisted",
			err:      errors.New("permission denied"),
			want:     "cache not persisted\n\n  Caused by:\n    → permission denied",
		},
		{
			name: "multi-line messages are indented",
			err:  zerr.Wrap(errors.New("first\nsecond"), "outer\ndetail"),
			want: "outer\n  detail\n\n  Caused by:\n    → first\n      second",
		},
		{
			name: "metadata is sorted",
			err:  zerr.With(zerr.With(zerr.New("corrupt"), "size", 64), "offset", 96),
			want: "corrupt (offset=96, size=64)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.FormatErrorEntries(tt.headline, logger.CollectErrorEntries(tt.err))
			assert.Equal(t, tt.want, got)
		})
	}
}
