package logging

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AuditLoggerConfig enables the audit trail of record mutations.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
}

// AuditEntry describes one mutation of a dataset.
type AuditEntry struct {
	Action   string
	Kind     string
	RecordID string
	Source   string
	Success  bool
	Err      error
	Duration time.Duration
}

// NewAuditEntry starts an entry for action on a record.
func NewAuditEntry(action, kind, recordID string) AuditEntry {
	return AuditEntry{Action: action, Kind: kind, RecordID: recordID}
}

// AuditLogger writes audit entries as JSON lines.
// A disabled AuditLogger accepts and drops every entry.
type AuditLogger struct {
	mu      sync.Mutex
	enabled bool
	logger  zerolog.Logger
	result  *LogPathResult
}

// NewAuditLogger creates an audit logger. Failure to open the file disables
// auditing rather than failing the command.
func NewAuditLogger(cfg AuditLoggerConfig) *AuditLogger {
	if !cfg.Enabled || cfg.File == "" {
		return &AuditLogger{}
	}
	res := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: cfg.File})
	if !res.UsingFile {
		return &AuditLogger{}
	}
	return &AuditLogger{
		enabled: true,
		logger:  res.Logger.With().Str("component", "audit").Logger(),
		result:  &res,
	}
}

// Enabled reports whether entries are written.
func (a *AuditLogger) Enabled() bool {
	return a != nil && a.enabled
}

// Log writes entry.
func (a *AuditLogger) Log(ctx context.Context, entry AuditEntry) {
	if !a.Enabled() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	ev := a.logger.Info().Ctx(ctx).
		Str("action", entry.Action).
		Str("kind", entry.Kind).
		Str("record_id", entry.RecordID).
		Bool("success", entry.Success).
		Dur("duration", entry.Duration)
	if entry.Source != "" {
		ev = ev.Str("source", entry.Source)
	}
	if entry.Err != nil {
		ev = ev.Err(entry.Err)
	}
	ev.Msg("audit")
}

// Close releases the audit file.
func (a *AuditLogger) Close() error {
	if !a.Enabled() {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = false
	return a.result.Close()
}

type auditLoggerKey struct{}

// ContextWithAuditLogger stores a in ctx.
func ContextWithAuditLogger(ctx context.Context, a *AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, a)
}

// AuditLoggerFromContext returns the audit logger in ctx, or a disabled one.
func AuditLoggerFromContext(ctx context.Context) *AuditLogger {
	if ctx != nil {
		if a, ok := ctx.Value(auditLoggerKey{}).(*AuditLogger); ok && a != nil {
			return a
		}
	}
	return &AuditLogger{}
}
