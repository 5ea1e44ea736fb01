package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithPartialConfig(t *testing.T) {
	// 只传等级，其余字段应由默认配置补全
	l, err := New(&Config{Level: DebugLevel})
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, DebugLevel, l.config.Level)
	assert.Equal(t, ConsoleFormat, l.config.Format)
	assert.True(t, l.config.EnableConsole)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "verbose"})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestFileOutput(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "relay.log")

	l, err := New(&Config{
		Level:         InfoLevel,
		Format:        JSONFormat,
		EnableConsole: false,
		EnableFile:    true,
		OutputPath:    logPath,
	})
	require.NoError(t, err)

	l.Info("client connected", "id", "c1", "addr", "127.0.0.1:1234")
	_ = l.Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "client connected")
	assert.Contains(t, string(data), `"id"`)
}

func TestNamed(t *testing.T) {
	l, err := New(&Config{EnableConsole: false})
	require.NoError(t, err)

	named := l.Named("relay").Named("handler")
	require.NotNil(t, named)

	base, ok := named.(*BaseLogger)
	require.True(t, ok)
	assert.Equal(t, "relay.handler", base.name)
}

func TestNoop(t *testing.T) {
	n := Noop()
	// 任何调用都不应 panic
	n.Debug("d")
	n.Info("i", "k", "v")
	n.Warn("w")
	n.Error("e")
	assert.NoError(t, n.Sync())
	assert.Same(t, n, n.Named("x"))
}
