package logging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	UseLogger(zap.New(core))
	t.Cleanup(func() { UseLogger(nil) })
	return logs
}

func TestGet_NopBeforeInitialize(t *testing.T) {
	UseLogger(nil)
	l := Get(CategoryResolver)
	require.NotNil(t, l)
	l.Info("ignored")
}

func TestGet_NamesLoggerByCategory(t *testing.T) {
	logs := observe(t)

	Get(CategoryExecutor).Info("moved", zap.String("from", "a.txt"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "executor", entries[0].LoggerName)
	assert.Equal(t, "a.txt", entries[0].ContextMap()["from"])
}

func TestGet_DisabledCategoryIsSilent(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "organizer.log")
	require.NoError(t, Initialize(Config{
		Level:      "debug",
		DebugMode:  true,
		File:       logFile,
		Categories: map[string]bool{"model": false},
	}))
	t.Cleanup(func() {
		Sync()
		UseLogger(nil)
	})

	assert.False(t, IsCategoryEnabled(CategoryModel))
	assert.True(t, IsCategoryEnabled(CategoryAPI))

	Get(CategoryModel).Info("hidden-entry")
	Get(CategoryAPI).Info("visible-entry")
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible-entry")
	assert.NotContains(t, string(data), "hidden-entry")
}

func TestInitialize_DebugGatedByDebugMode(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "organizer.log")
	require.NoError(t, Initialize(Config{Level: "debug", File: logFile}))
	t.Cleanup(func() {
		Sync()
		UseLogger(nil)
	})

	Get(CategoryFS).Debug("debug-entry")
	Get(CategoryFS).Info("info-entry")
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "debug-entry"))
	assert.True(t, strings.Contains(string(data), "info-entry"))
}

func TestInitialize_RejectsBadLevel(t *testing.T) {
	err := Initialize(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestAudit_CarriesRequestID(t *testing.T) {
	logs := observe(t)

	ctx := WithRequestID(context.Background(), "req-1")
	Audit(ctx, AuditActionComplete, "move", "a.txt", nil)
	Audit(ctx, AuditActionError, "delete", "b.txt", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].ContextMap()["req"])
	assert.Equal(t, "action_complete", entries[0].ContextMap()["event"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestWithRequestID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	assert.NotEmpty(t, RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}
