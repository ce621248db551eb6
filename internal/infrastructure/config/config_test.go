package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.HTTPWriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.DeliveryTimeout)
	assert.Equal(t, 1, cfg.DeliveryConcurrency)
	assert.Equal(t, 1000, cfg.BroadcastQueueSize)
	assert.Equal(t, 54*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 60*time.Second, cfg.WSPongTimeout)
	assert.Equal(t, 30*time.Second, cfg.SSEKeepAliveInterval)
	assert.Zero(t, cfg.PushRateLimit)
	assert.Empty(t, cfg.WSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DELIVERY_TIMEOUT", "2s")
	t.Setenv("DELIVERY_CONCURRENCY", "8")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PUSH_RATE_LIMIT", "2.5")
	t.Setenv("PUSH_RATE_BURST", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Second, cfg.DeliveryTimeout)
	assert.Equal(t, 8, cfg.DeliveryConcurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.WSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.PushRateLimit)
	assert.Equal(t, 5, cfg.PushRateBurst)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"zero delivery timeout", map[string]string{"DELIVERY_TIMEOUT": "0s"}, "DELIVERY_TIMEOUT must be positive"},
		{"zero concurrency", map[string]string{"DELIVERY_CONCURRENCY": "0"}, "DELIVERY_CONCURRENCY must be at least 1, got 0"},
		{"zero queue", map[string]string{"BROADCAST_QUEUE_SIZE": "0"}, "BROADCAST_QUEUE_SIZE must be at least 1, got 0"},
		{"ping not shorter than pong", map[string]string{"WS_PING_INTERVAL": "60s", "WS_PONG_TIMEOUT": "60s"}, "WS_PING_INTERVAL must be shorter than WS_PONG_TIMEOUT"},
		{"negative rate", map[string]string{"PUSH_RATE_LIMIT": "-1"}, "PUSH_RATE_LIMIT must not be negative"},
		{"rate without burst", map[string]string{"PUSH_RATE_LIMIT": "1", "PUSH_RATE_BURST": "0"}, "PUSH_RATE_BURST must be at least 1 when PUSH_RATE_LIMIT is set"},
		{"file output without path", map[string]string{"LOG_OUTPUT": "file"}, "LOG_FILE_PATH is required when LOG_OUTPUT=file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
