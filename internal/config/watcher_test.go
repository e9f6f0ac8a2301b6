package config

import (
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher_InitialLoadFailure(t *testing.T) {
	_, err := NewWatcher(writeSpec(t, "not: valid"), schemaPath, func(*Spec, error) {})
	assert.ErrorContains(t, err, "failed to load initial spec")
}

func TestWatcher_Snapshot(t *testing.T) {
	w, err := NewWatcher(writeSpec(t, validSpec), schemaPath, func(*Spec, error) {})
	require.NoError(t, err)

	snapshot := w.Snapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, []string{"LOGR", "GBC"}, snapshot.Algorithms)
	assert.Zero(t, w.ReloadCount())
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := writeSpec(t, validSpec)

	var reloaded atomic.Bool
	w, err := NewWatcher(path, schemaPath, func(spec *Spec, err error) {
		if err == nil && spec != nil {
			reloaded.Store(true)
		}
	})
	require.NoError(t, err)

	updated := strings.Replace(validSpec, "[LOGR, GBC]", "[LOGR]", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, reloaded.Load, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, []string{"LOGR"}, w.Snapshot().Algorithms)
	assert.EqualValues(t, 1, w.ReloadCount())
}
