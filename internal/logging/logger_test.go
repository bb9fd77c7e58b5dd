package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gospectro/internal/logging"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("encoded", "frames", 83)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "encoded", record["msg"])
	assert.Equal(t, "info", record["level"])
	assert.EqualValues(t, 83, record["frames"])
	assert.Contains(t, record, "ts")
}

func TestAutoFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Output: &buf})
	require.NoError(t, err)
	logger.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
}

func TestConsoleIncludesSourceForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	require.NoError(t, err)
	logger.Debug("stage", "name", "analyze")
	out := buf.String()
	assert.Contains(t, out, "msg=stage")
	assert.Contains(t, out, "name=analyze")
	assert.Contains(t, out, "logger_test.go:")
}

func TestNewRejectsUnknownValues(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
	_, err = logging.New(logging.Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNopDropsEverything(t *testing.T) {
	logger := logging.NewNop()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.Error("ignored")
}
