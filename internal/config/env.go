package config

import (
	"context"
	"os"
	"strconv"

	"github.com/rshade/listctl/internal/logging"
)

// Environment variables that override file values.
const (
	EnvLogLevel  = "LISTCTL_LOG_LEVEL"
	EnvLogFormat = "LISTCTL_LOG_FORMAT"
	EnvPageSize  = "LISTCTL_PAGE_SIZE"
)

// applyEnvOverrides copies LISTCTL_* variables onto cfg. An unparsable page
// size is logged and ignored.
func applyEnvOverrides(ctx context.Context, cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().
				Str("component", "config").
				Str("env", EnvPageSize).
				Str("value", v).
				Msg("ignoring non-numeric page size override")
			return
		}
		cfg.Pagination.PageSize = n
	}
}

// ToLoggingConfig converts the logging section to a logging.Config. A
// configured file switches the output to that file.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// AuditConfig returns the audit logger settings.
func (lc LoggingConfig) AuditConfig() logging.AuditLoggerConfig {
	return logging.AuditLoggerConfig{Enabled: lc.AuditFile != "", File: lc.AuditFile}
}
