package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"smarttrack/internal/platform/logging"
)

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "smarttrack.log")
	logger, err := logging.New("debug", path)
	require.NoError(t, err)
	logger.Info("refresh cycle", zap.String("trigger", "timer"))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"trigger":"timer"`), string(b))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()
	_, err := logging.New("loud", "")
	assert.Error(t, err)
}

func TestCronLoggerForwardsErrors(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.DebugLevel)
	cl := logging.CronLogger{L: zap.New(core)}
	cl.Info("skip", "now", "12:00")
	cl.Error(errors.New("boom"), "job panicked")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "job panicked", entries[1].Message)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}
