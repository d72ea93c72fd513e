// =============================
// File: internal/logger/logger_test.go
// =============================
package logger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return &Logger{Logger: zap.New(core)}, logs
}

func TestWithOperation(t *testing.T) {
	log, logs := newObservedLogger()

	log.WithOperation("bundle_buy").Info("accepted")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	assert.Equal(t, "bundle_buy", fields["operation"])
	assert.NotNil(t, fields["start_time"])

	id, ok := fields["correlation_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "correlation_id should be a valid uuid")
}

func TestWithOperation_UniqueCorrelationIDs(t *testing.T) {
	log, logs := newObservedLogger()

	log.WithOperation("token_create").Info("first")
	log.WithOperation("token_create").Info("second")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.NotEqual(t,
		entries[0].ContextMap()["correlation_id"],
		entries[1].ContextMap()["correlation_id"])
}

func TestWithWalletAndBundle(t *testing.T) {
	log, logs := newObservedLogger()

	log.WithWallet("w1").Info("wallet event")
	log.WithBundle("bundle-7").Info("bundle event")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "w1", entries[0].ContextMap()["wallet_id"])
	assert.Equal(t, "bundle-7", entries[1].ContextMap()["bundle_id"])
}

func TestLogError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := &Logger{Logger: zap.New(core)}

	log.LogError("submission failed", errors.New("relay down"), zap.Int("attempts", 3))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "relay down", fields["error"])
	assert.Equal(t, int64(3), fields["attempts"])
}

func TestLogErrorNilError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := &Logger{Logger: zap.New(core)}

	log.LogError("cleanup failed", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	_, hasErr := entries[0].ContextMap()["error"]
	assert.False(t, hasErr)
}
