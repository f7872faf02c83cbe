package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		// When: the file does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults are applied
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.False(t, conf.Redis.Enabled)
		assert.Empty(t, conf.Redis.Channel)
		assert.Equal(t, 10*time.Second, conf.WebSocket.WriteWait)
		assert.Equal(t, 60*time.Second, conf.WebSocket.PongWait)
		assert.Equal(t, 54*time.Second, conf.WebSocket.PingPeriod)
		assert.Equal(t, 16, conf.WebSocket.SendBuffer)
		assert.Equal(t, int64(4096), conf.WebSocket.MaxMessageSize)
		assert.Zero(t, conf.Game.AutoResetDelay)
		assert.False(t, conf.Game.NotifyRejectedMoves)
	})

	t.Run("PORT overrides the default", func(t *testing.T) {
		t.Setenv("PORT", "9999")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "9999", conf.HTTPPort)
	})

	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file
		path := writeConfig(t, `
log-level: debug
http-port: "7000"
redis:
  enabled: true
  host: redis
  port: "6380"
websocket:
  send-buffer: 4
  allowed-origins:
    - http://localhost:3000
game:
  auto-reset-delay: 3s
  notify-rejected-moves: true
`)

		// When: it is loaded
		conf, err := Load(path)

		// Then: values from the file win over the defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "7000", conf.HTTPPort)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 4, conf.WebSocket.SendBuffer)
		assert.Equal(t, []string{"http://localhost:3000"}, conf.WebSocket.AllowedOrigins)
		assert.Equal(t, 3*time.Second, conf.Game.AutoResetDelay)
		assert.True(t, conf.Game.NotifyRejectedMoves)
	})

	t.Run("Rejects a ping period longer than pong wait", func(t *testing.T) {
		path := writeConfig(t, `
websocket:
  pong-wait: 5s
  ping-period: 10s
`)

		_, err := Load(path)

		require.ErrorIs(t, err, ErrInvalidPingPeriod)
	})

	t.Run("Broken yaml", func(t *testing.T) {
		path := writeConfig(t, "log-level: [")

		_, err := Load(path)

		require.Error(t, err)
	})
}

func TestMustLoad(t *testing.T) {
	path := writeConfig(t, "log-level: [")

	assert.Panics(t, func() {
		MustLoad(path)
	})
}
