package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             int
	NatsURL          string
	NatsToken        string
	DatabaseURL      string
	LogLevel         string
	APIToken         string
	ArchiveDir       string
	MaxUploadBytes   int64
	MetricsNamespace string
}

func Load() Config {
	return Config{
		Port:             envInt("PROMPTVAULT_PORT", 8760),
		NatsURL:          envStr("NATS_URL", ""),
		NatsToken:        envStr("NATS_TOKEN", ""),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		APIToken:         envStr("PROMPTVAULT_API_TOKEN", ""),
		ArchiveDir:       envStr("PROMPTVAULT_ARCHIVE_DIR", "~/.promptvault/archive"),
		MaxUploadBytes:   envInt64("PROMPTVAULT_MAX_UPLOAD_BYTES", 10<<20),
		MetricsNamespace: envStr("PROMPTVAULT_METRICS_NAMESPACE", "promptvault"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
