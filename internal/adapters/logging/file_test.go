package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

func TestFileLoggerWritesEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")
	log, err := NewFileLogger(path, ports.LevelInfo)
	require.NoError(t, err)

	log.Info("run started", ports.F("mode", "quick"))
	log.Debug("suppressed")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] run started mode=quick")
	assert.NotContains(t, string(data), "suppressed")
}

func TestFileLoggerAppendsAcrossOpens(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")

	first, err := NewFileLogger(path, ports.LevelInfo)
	require.NoError(t, err)
	first.Info("first run")
	require.NoError(t, first.Close())

	second, err := NewFileLogger(path, ports.LevelInfo)
	require.NoError(t, err)
	second.Info("second run")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestFileLoggerCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "run.log")
	log, err := NewFileLogger(path, ports.LevelInfo)
	require.NoError(t, err)
	defer log.Close()

	log.Info("hello")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
