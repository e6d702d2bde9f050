package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "NU_PTL", cfg.AccountColumn)
	assert.Equal(t, "XML_DATA", cfg.XMLColumn)
	assert.Equal(t, "ROW_SEQ", cfg.SequenceColumn)
	assert.Equal(t, "./exports", cfg.ExportDir)
	assert.Equal(t, "{stem}_{timestamp}_{uuid}.xlsx", cfg.ExportNameFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 50, cfg.ProgressEvery)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account_column: ACCT\nlog_level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ACCT", cfg.AccountColumn)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "XML_DATA", cfg.XMLColumn)
	assert.Equal(t, 50, cfg.ProgressEvery)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- bad"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, (&Config{LogLevel: "debug"}).ZapLevel())
	assert.Equal(t, zapcore.InfoLevel, (&Config{LogLevel: "info"}).ZapLevel())
	assert.Equal(t, zapcore.WarnLevel, (&Config{LogLevel: "warn"}).ZapLevel())
	assert.Equal(t, zapcore.ErrorLevel, (&Config{LogLevel: "error"}).ZapLevel())
	assert.Equal(t, zapcore.InfoLevel, (&Config{}).ZapLevel())
}
