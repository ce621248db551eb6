package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notification-relay/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfig_FromAppConfig(t *testing.T) {
	cfg := &config.Config{
		AppEnv:        "staging",
		LogLevel:      "debug",
		LogFormat:     "json",
		LogOutput:     "file",
		LogFilePath:   "/tmp/relay.log",
		LogMaxSizeMB:  10,
		LogMaxBackups: 2,
		LogMaxAgeDays: 7,
		LogCompress:   false,
	}

	lc, err := NewConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "/tmp/relay.log", lc.FilePath)
	assert.Equal(t, 10, lc.MaxSize)
	assert.Equal(t, "staging", lc.Fields["environment"])
	assert.NotEmpty(t, lc.Fields["go_version"])
}

func TestLogrusLogger_JSONFieldsAndLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	cfg.Fields = map[string]string{"service": "relay"}

	var buf bytes.Buffer
	log := NewLogrusLogger(cfg)
	log.SetOutput(&buf)

	log.WithField("component", "hub").Info("hub started")
	log.Debug("filtered out at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hub started", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hub", entry["component"])
	assert.Equal(t, "relay", entry["service"])

	buf.Reset()
	log.SetLevel(LevelDebug)
	log.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}
