package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/depot/internal/adapters/logger"
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
			name:         "standard error",
			err:          errors.New("connection reset"),
			wantMessages: []string{"connection reset"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "zerr without metadata",
			err:          zerr.New("registry request failed"),
			wantMessages: []string{"registry request failed"},
			wantMetadata: []map[string]any{{}},
		},
		{
			name: "wrapped chain ends at standard error",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("unexpected EOF"), "invalid package archive"),
				"failed to acquire package",
			),
			wantMessages: []string{"failed to acquire package", "invalid package archive", "unexpected EOF"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name: "metadata per link",
			err: func() error {
				inner := zerr.With(zerr.New("failed to parse manifest"), "path", "manifest.toml")
				outer := zerr.Wrap(inner, "dependency resolution failed")
				return zerr.With(outer, "stage", "decide")
			}(),
			wantMessages: []string{"dependency resolution failed", "failed to parse manifest"},
			wantMetadata: []map[string]any{
				{"stage": "decide"},
				{"path": "manifest.toml"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)

			assert.Len(t, entries, len(tt.wantMessages))
			for i, wantMsg := range tt.wantMessages {
				assert.Equal(t, wantMsg, entries[i].Message, "message mismatch at index %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata mismatch at index %d", i)
			}
		})
	}

	t.Run("nil error", func(t *testing.T) {
		assert.Empty(t, logger.CollectErrorEntriesExported(nil))
	})
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "causes",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "metadata on main error sorted by key",
			entries: []logger.ErrorEntry{{
				Message:  "failed to acquire package",
				Metadata: map[string]any{"version": "1.2.0", "package": "wisp", "stage": "download"},
			}},
			want: "Error: failed to acquire package\n" +
				"       package: wisp\n" +
				"       stage: download\n" +
				"       version: 1.2.0",
		},
		{
			name: "metadata on cause",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "cause", Metadata: map[string]any{"status_code": 503}},
			},
			want: "Error: main\n\n  Caused by:\n    → cause\n      status_code: 503",
		},
		{
			name:    "multiline main message",
			entries: []logger.ErrorEntry{{Message: "line1\nline2"}},
			want:    "Error: line1\n       line2",
		},
		{
			name:    "multiline cause message",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "toml: line 3\nexpected '='"}},
			want:    "Error: main\n\n  Caused by:\n    → toml: line 3\n      expected '='",
		},
		{
			name:    "empty",
			entries: []logger.ErrorEntry{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
