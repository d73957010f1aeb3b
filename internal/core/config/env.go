package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: ASTFIND_[SECTION]_[KEY] (e.g., ASTFIND_SEARCH_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	// Search
	setEnvInt(&cfg.Search.Workers, "ASTFIND_SEARCH_WORKERS")
	setEnvInt(&cfg.Search.MaxResults, "ASTFIND_SEARCH_MAX_RESULTS")
	setEnvInt64(&cfg.Search.MaxFileBytes, "ASTFIND_SEARCH_MAX_FILE_BYTES")
	setEnvBool(&cfg.Search.StrictSyntax, "ASTFIND_SEARCH_STRICT_SYNTAX")

	// Output
	setEnvString(&cfg.Output.Format, "ASTFIND_OUTPUT_FORMAT")
	setEnvString(&cfg.Log.Level, "ASTFIND_LOG_LEVEL")
	setEnvString(&cfg.Determinism.TimeZone, "ASTFIND_DETERMINISM_TIME_ZONE")

	// Observability
	setEnvString(&cfg.Metrics.Textfile, "ASTFIND_METRICS_TEXTFILE")
	setEnvBool(&cfg.Tracing.Enabled, "ASTFIND_TRACING_ENABLED")
	setEnvString(&cfg.Tracing.Endpoint, "ASTFIND_TRACING_ENDPOINT")
	setEnvBool(&cfg.Tracing.Insecure, "ASTFIND_TRACING_INSECURE")

	normalize(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvInt64(target *int64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}
