package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/efine-sl/efine-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty", Output: "stdout"})
	assert.Error(t, err)
}

func TestNew_FileOutputWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(config.LoggingConfig{Level: "info", Format: "json", Output: "file", FilePath: path, MaxSize: 1})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("visible", zap.String("component", "test"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestInit_ReplacesGlobal(t *testing.T) {
	flush, err := Init(config.LoggingConfig{Level: "warn", Output: "stdout"})
	require.NoError(t, err)
	defer flush()

	assert.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, zap.L().Core().Enabled(zapcore.WarnLevel))
}
