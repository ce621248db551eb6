package logger

import (
	"os"
	"runtime"

	"go-notification-relay/internal/infrastructure/config"
)

type Config struct {
	Level      Level
	Format     string // json, text, console
	Output     string // stdout, stderr, file
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	Fields     map[string]string
}

// NewConfig derives the logger settings from the application config.
// An unknown LOG_LEVEL falls back to info and is returned as an error so the
// caller can report it once the logger exists.
func NewConfig(cfg *config.Config) (*Config, error) {
	level, err := ParseLevel(cfg.LogLevel)

	lc := &Config{
		Level:      level,
		Format:     cfg.LogFormat,
		Output:     cfg.LogOutput,
		FilePath:   cfg.LogFilePath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
		Fields:     environmentFields(),
	}
	lc.Fields["environment"] = cfg.AppEnv

	return lc, err
}

func NewDefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		Format:     "console",
		Output:     "stdout",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
		Fields:     environmentFields(),
	}
}

// environmentFields collects static fields that identify this process in
// container and cluster log pipelines.
func environmentFields() map[string]string {
	hostname, _ := os.Hostname()

	fields := map[string]string{
		"hostname":   hostname,
		"go_version": runtime.Version(),
	}

	lookup := map[string]string{
		"KUBERNETES_NAMESPACE": "k8s_namespace",
		"KUBERNETES_POD_NAME":  "k8s_pod",
		"KUBERNETES_NODE_NAME": "k8s_node",
		"DOCKER_IMAGE":         "docker_image",
		"APP_VERSION":          "app_version",
	}
	for envKey, field := range lookup {
		if v := os.Getenv(envKey); v != "" {
			fields[field] = v
		}
	}

	return fields
}
