package command

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/go-goap/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLogConfig_Defaults(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	lc, err := resolveLogConfig("", "", config.NewConfig(), &stderr)
	require.NoError(t, err)
	defer lc.Close()

	assert.Nil(t, lc.logFile, "no file without a path")
	assert.Equal(t, slog.LevelInfo, lc.level)

	// a buffer is not a terminal, so auto selects JSON
	lc.logger.Info("hello", "n", 1)
	assert.True(t, strings.HasPrefix(stderr.String(), "{"), stderr.String())
	assert.Contains(t, stderr.String(), `"msg":"hello"`)
}

func TestResolveLogConfig_Format(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig()
	cfg.Log.Format = "text"
	var stderr bytes.Buffer
	lc, err := resolveLogConfig("", "", cfg, &stderr)
	require.NoError(t, err)
	lc.logger.Info("hello")
	assert.Contains(t, stderr.String(), "msg=hello")
}

func TestResolveLogConfig_FlagOverridesConfig(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "test.log")

	cfg := config.NewConfig()
	cfg.Log.Level = "warn"
	cfg.Log.File = "/should/not/use/this"

	var stderr bytes.Buffer
	lc, err := resolveLogConfig(logPath, "debug", cfg, &stderr)
	require.NoError(t, err)
	require.NotNil(t, lc.logFile)
	assert.Equal(t, slog.LevelDebug, lc.level)

	lc.logger.Debug("to file")
	require.NoError(t, lc.Close())
	assert.Empty(t, stderr.String())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestResolveLogConfig_ConfigFallback(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "config-log.log")

	cfg := config.NewConfig()
	cfg.Log.File = logPath
	cfg.Log.Level = "warn"

	lc, err := resolveLogConfig("", "", cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lc.level)
	require.NotNil(t, lc.logFile)

	lc.logger.Info("dropped")
	lc.logger.Warn("kept")
	require.NoError(t, lc.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestResolveLogConfig_InvalidLevel(t *testing.T) {
	t.Parallel()
	_, err := resolveLogConfig("", "verbose", config.NewConfig(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestResolveLogConfig_NilConfig(t *testing.T) {
	t.Parallel()
	lc, err := resolveLogConfig("", "error", nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lc.level)
	assert.NotNil(t, lc.logger)
	assert.NoError(t, lc.Close())
}
