package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutHandler_DuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer

	log := slog.New(newFanoutHandler(
		slog.NewJSONHandler(&first, nil),
		slog.NewTextHandler(&second, nil),
	))
	log.Info("fitting complete", "algorithm", "GBC")

	assert.Contains(t, first.String(), `"algorithm":"GBC"`)
	assert.Contains(t, second.String(), "algorithm=GBC")
}

func TestFanoutHandler_RespectsLevels(t *testing.T) {
	var debugOut, infoOut bytes.Buffer

	handler := newFanoutHandler(
		slog.NewJSONHandler(&debugOut, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&infoOut, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	require.True(t, handler.Enabled(context.Background(), slog.LevelDebug))

	log := slog.New(handler)
	log.Debug("probing")

	assert.Contains(t, debugOut.String(), "probing")
	assert.Empty(t, infoOut.String())
}

func TestFanoutHandler_WithAttrs(t *testing.T) {
	var out bytes.Buffer

	log := slog.New(newFanoutHandler(slog.NewJSONHandler(&out, nil)))
	log = log.With("run_id", "abc123")
	log.Info("selecting best model")

	assert.Contains(t, out.String(), `"run_id":"abc123"`)
}

func TestFanoutHandler_WithGroup(t *testing.T) {
	var out bytes.Buffer

	log := slog.New(newFanoutHandler(slog.NewJSONHandler(&out, nil)))
	log.WithGroup("blend").Info("done", "columns", 3)

	assert.Contains(t, out.String(), `"blend":{"columns":3}`)
}

func TestNew_ReturnsLogger(t *testing.T) {
	for _, environment := range []string{"production", "development", ""} {
		log := New(environment)
		require.NotNil(t, log)
		assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	}
}

func TestNew_WithLevel(t *testing.T) {
	log := New("production", WithLevel(slog.LevelWarn))
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, log.Enabled(context.Background(), slog.LevelWarn))
}

func TestNew_WithLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cascade.log")

	log := New("production", WithLogToFile(true), WithLogFile(path))
	require.NotNil(t, log)
	log.Info("fanned out")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "fanned out")
}
