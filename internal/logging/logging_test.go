package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "listctl.log")

	res := NewLoggerWithPath(Config{Level: "debug", Format: FormatJSON, Output: OutputFile, File: path})
	t.Cleanup(func() { _ = res.Close() })

	require.True(t, res.UsingFile)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, path, res.FilePath)
	assert.Equal(t, zerolog.DebugLevel, res.Logger.GetLevel())

	res.Logger.Info().Str("k", "v").Msg("hello")
	require.NoError(t, res.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "v", line["k"])
}

func TestNewLoggerWithPath_FallbackToStderr(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	res := NewLoggerWithPath(Config{Output: OutputFile, File: filepath.Join(blocker, "sub", "x.log")})

	assert.False(t, res.UsingFile)
	assert.True(t, res.FallbackUsed)
	assert.NotEmpty(t, res.FallbackReason)
	assert.NoError(t, res.Close())
}

func TestNewLoggerWithPath_InvalidLevelDefaultsToInfo(t *testing.T) {
	res := NewLoggerWithPath(Config{Level: "chatty"})
	assert.Equal(t, zerolog.InfoLevel, res.Logger.GetLevel())
}

func TestFromContext(t *testing.T) {
	t.Run("no logger returns a usable disabled logger", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		l.Info().Msg("dropped")
		assert.Equal(t, zerolog.Disabled, l.GetLevel())
	})

	t.Run("stored logger is returned", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := base.WithContext(context.Background())

		FromContext(ctx).Info().Msg("kept")

		assert.Contains(t, buf.String(), "kept")
	})
}

func TestTraceHook(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Hook(TraceHook{})
	ctx := ContextWithTraceID(context.Background(), "trace-123")

	l.Info().Ctx(ctx).Msg("with trace")

	assert.Contains(t, buf.String(), `"trace_id":"trace-123"`)
}

func TestGetOrGenerateTraceID(t *testing.T) {
	generated := GetOrGenerateTraceID(context.Background())
	assert.Len(t, generated, 26, "ULID string length")

	ctx := ContextWithTraceID(context.Background(), generated)
	assert.Equal(t, generated, GetOrGenerateTraceID(ctx))
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	ComponentLogger(zerolog.New(&buf), "tui").Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"tui"`)
}

func TestAuditLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	a := NewAuditLogger(AuditLoggerConfig{Enabled: true, File: path})
	require.True(t, a.Enabled())

	entry := NewAuditEntry("delete", "groups", "g-1")
	entry.Success = true
	a.Log(context.Background(), entry)
	require.NoError(t, a.Close())
	assert.False(t, a.Enabled())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"record_id":"g-1"`))
	assert.Contains(t, string(data), `"action":"delete"`)
}

func TestAuditLoggerFromContext(t *testing.T) {
	assert.False(t, AuditLoggerFromContext(context.Background()).Enabled())

	a := NewAuditLogger(AuditLoggerConfig{})
	ctx := ContextWithAuditLogger(context.Background(), a)
	assert.Same(t, a, AuditLoggerFromContext(ctx))
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/x.log")
	PrintFallbackWarning(&buf, "denied")
	assert.Contains(t, buf.String(), "Logging to /tmp/x.log")
	assert.Contains(t, buf.String(), "denied")
}
