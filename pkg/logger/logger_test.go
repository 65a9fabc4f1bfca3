package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log, err := New(path, "debug")
	require.NoError(t, err)

	log.Info("cache warmed: %d entries", 3)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cache warmed: 3 entries")
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	assert.Error(t, err)
}

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := newFromCore(core)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("stale data for %s", "barbers")
	log.Error("fetch failed: %v", "timeout")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "stale data for barbers", entries[0].Message)
	assert.Equal(t, "fetch failed: timeout", entries[1].Message)
}
