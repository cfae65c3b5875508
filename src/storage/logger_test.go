package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var console bytes.Buffer

	logger, err := NewLogger(path, &console)
	require.NoError(t, err)

	logger.Info("加载 110.01.csv")
	logger.Warning("跳过 top_counties_frequency")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO: 加载 110.01.csv")
	assert.Contains(t, string(data), "WARNING: 跳过 top_counties_frequency")
	assert.Equal(t, string(data), console.String())
}

func TestLoggerConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, err := NewLogger("", &console)
	require.NoError(t, err)

	logger.Error("boom")
	assert.True(t, strings.HasSuffix(console.String(), "ERROR: boom\n"))
	assert.NoError(t, logger.CheckRotate("1"))
	assert.NoError(t, logger.Close())
}

func TestCheckRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewLogger(path, nil)
	require.NoError(t, err)
	defer logger.Close()

	logger.Info(strings.Repeat("x", 64))
	require.NoError(t, logger.CheckRotate("1024"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, logger.CheckRotate("4 * 4"))
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	logger.Info("after rotate")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after rotate")
	assert.NotContains(t, string(data), "xxxx")
}

func TestEval(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), eval("10 * 1024 * 1024"))
	assert.Equal(t, int64(0), eval(""))
	assert.Equal(t, int64(0), eval("ten"))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
