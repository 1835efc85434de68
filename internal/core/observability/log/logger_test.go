package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithZap(zap.New(core))

	assert.Equal(t, LevelDebug, logger.GetLevel())

	logger.SetLevel(LevelWarn)
	logger.Info("dropped")
	logger.Warn("kept", Int("count", 3), Error(errors.New("boom")))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.EqualValues(t, 3, entry.ContextMap()["count"])
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestLogger_NilErrorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithZap(zap.New(core))

	require.NotPanics(t, func() {
		logger.Error("failed", Error(nil))
		logger.Info("failed", ErrorWithKey("cause", nil))
	})

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.NotContains(t, entry.ContextMap(), "error")
		assert.NotContains(t, entry.ContextMap(), "cause")
	}
}

func TestLogger_WithKeepsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithZap(zap.New(core))
	logger.SetLevel(LevelInfo)

	child := logger.With(String("component", "monitor"))
	child.Debug("hidden")
	child.Info("shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "monitor", logs.All()[0].ContextMap()["component"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Warn("nothing", Int("count", 1))
	})
}
