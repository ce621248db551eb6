package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds every runtime setting of the relay. Values come from the
// process environment, optionally seeded from a .env file.
type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`

	HTTPAddr         string        `env:"HTTP_ADDR"          default:":8080"`
	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT"  default:"15s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" default:"0s"` // streaming responses must not be cut off
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT"  default:"60s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT"   default:"5s"`

	LogLevel      string `env:"LOG_LEVEL"        default:"info"`
	LogFormat     string `env:"LOG_FORMAT"       default:"console"`
	LogOutput     string `env:"LOG_OUTPUT"       default:"stdout"`
	LogFilePath   string `env:"LOG_FILE_PATH"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  default:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS"  default:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" default:"28"`
	LogCompress   bool   `env:"LOG_COMPRESS"     default:"true"`

	DeliveryTimeout     time.Duration `env:"DELIVERY_TIMEOUT"     default:"10s"`
	DeliveryConcurrency int           `env:"DELIVERY_CONCURRENCY" default:"1"`
	BroadcastQueueSize  int           `env:"BROADCAST_QUEUE_SIZE" default:"1000"`

	WSPingInterval   time.Duration `env:"WS_PING_INTERVAL"   default:"54s"`
	WSPongTimeout    time.Duration `env:"WS_PONG_TIMEOUT"    default:"60s"`
	WSWriteTimeout   time.Duration `env:"WS_WRITE_TIMEOUT"   default:"10s"`
	WSAllowedOrigins []string      `env:"WS_ALLOWED_ORIGINS"`

	SSEKeepAliveInterval time.Duration `env:"SSE_KEEPALIVE_INTERVAL" default:"30s"`

	PushRateLimit float64 `env:"PUSH_RATE_LIMIT" default:"0"` // requests per second, 0 disables
	PushRateBurst int     `env:"PUSH_RATE_BURST" default:"10"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Load(&cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether the relay runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func validate(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return errors.New("HTTP_ADDR must not be empty")
	}
	if cfg.DeliveryTimeout <= 0 {
		return errors.New("DELIVERY_TIMEOUT must be positive")
	}
	if cfg.DeliveryConcurrency < 1 {
		return fmt.Errorf("DELIVERY_CONCURRENCY must be at least 1, got %d", cfg.DeliveryConcurrency)
	}
	if cfg.BroadcastQueueSize < 1 {
		return fmt.Errorf("BROADCAST_QUEUE_SIZE must be at least 1, got %d", cfg.BroadcastQueueSize)
	}
	if cfg.WSPingInterval >= cfg.WSPongTimeout {
		return errors.New("WS_PING_INTERVAL must be shorter than WS_PONG_TIMEOUT")
	}
	if cfg.PushRateLimit < 0 {
		return errors.New("PUSH_RATE_LIMIT must not be negative")
	}
	if cfg.PushRateLimit > 0 && cfg.PushRateBurst < 1 {
		return errors.New("PUSH_RATE_BURST must be at least 1 when PUSH_RATE_LIMIT is set")
	}
	if cfg.LogOutput == "file" && cfg.LogFilePath == "" {
		return errors.New("LOG_FILE_PATH is required when LOG_OUTPUT=file")
	}
	return nil
}
