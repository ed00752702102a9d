package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "", "info")
	logger.Debug("hidden")
	logger.Info("page rendered", "slug", "summer-sale")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "page rendered", entry["msg"])
	assert.Equal(t, "summer-sale", entry["slug"])
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "console", "debug").Debug("tick", "section", "countdown-1")
	assert.Contains(t, buf.String(), "msg=tick")
	assert.Contains(t, buf.String(), "section=countdown-1")
}
