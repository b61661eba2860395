package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestZapWrapper_FieldsReachCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{
		"runId": "run-123",
	})

	log.Info("Received webhook", map[string]interface{}{
		"webhook": "https://example.test/hook",
	})
	log.WithError(fmt.Errorf("boom")).Error("Run failed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "Received webhook", entries[0].Message)
	assert.Equal(t, "run-123", first["runId"])
	assert.Equal(t, "https://example.test/hook", first["webhook"])

	second := entries[1].ContextMap()
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, "run-123", second["runId"])
}

func TestZapWrapper_ErrorValuesAreNamed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core))

	log.Warn("retrying", map[string]interface{}{"cause": fmt.Errorf("unauthorized")})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unauthorized", logs.All()[0].ContextMap()["cause"])
}

func TestNew_WritesToFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qualifier.log")

	l, err := New(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	NewZapAdapter(l).Info("Starting qualifier flow", map[string]interface{}{"regNo": "REG12347"})
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Starting qualifier flow")
	assert.Contains(t, string(data), "REG12347")
}

func TestNewStructured_NeverNil(t *testing.T) {
	assert.NotNil(t, NewStructured("debug", "console"))
	assert.NotNil(t, NewNoOpLogger())
	assert.NotNil(t, NewTestLogger(t))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****(len=3)", MaskSecret("tok"))
	assert.NotContains(t, MaskSecret("super-secret-token"), "secret")
}
