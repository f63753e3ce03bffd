package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_TextOutsideProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Env: "development", Level: "debug", App: "payroll", Version: "test", Output: &buf})

	log.Debug("payroll created", "payroll_id", "p-1")

	out := buf.String()
	assert.Contains(t, out, "payroll created")
	assert.Contains(t, out, "payroll_id=p-1")
	assert.Contains(t, out, "app=payroll")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Env: "development", Level: "warn", Output: &buf})

	log.Info("hidden")
	assert.Empty(t, buf.String())
}
