package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.TelemetryURL)
	assert.Equal(t, "http://localhost:8000/export-csv", cfg.ExportURL)
	assert.Equal(t, time.Second, cfg.ReconnectDelay)
	assert.Equal(t, 20*time.Second, cfg.ChartWindow)
	assert.Equal(t, 100*time.Millisecond, cfg.MockInterval)
	assert.Equal(t, "export", cfg.ExportDir)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("RF2DASH_TELEMETRY_URL", "ws://sim:9000/ws")
	t.Setenv("RF2DASH_RECONNECT_DELAY", "250ms")
	t.Setenv("RF2DASH_TELEGRAM_CHAT_ID", "12345")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "ws://sim:9000/ws", cfg.TelemetryURL)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectDelay)
	assert.Equal(t, int64(12345), cfg.TelegramChatID)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("export_dir: /tmp/out\nchart_window: 5s\n"), 0o644))

	v := New()
	v.AddConfigPath(dir)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, 5*time.Second, cfg.ChartWindow)
}

func TestRejectsNonPositiveDelay(t *testing.T) {
	v := New()
	v.Set("reconnect_delay", "0s")
	_, err := Load(v)
	assert.Error(t, err)
}

func TestApplyLogLevel(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	cfg := &Config{LogLevel: "debug"}
	require.NoError(t, cfg.ApplyLogLevel())
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	cfg.LogLevel = "loud"
	assert.Error(t, cfg.ApplyLogLevel())
}
