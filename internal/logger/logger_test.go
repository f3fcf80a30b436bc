package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfig(t *testing.T) {
	cfg := config(false, false)
	if cfg.Encoding != "console" || cfg.Level.Level() != zapcore.InfoLevel {
		t.Fatalf("unexpected default config: %s/%s", cfg.Encoding, cfg.Level.Level())
	}
	if cfg.EncoderConfig.MessageKey != "step" {
		t.Fatalf("unexpected message key: %q", cfg.EncoderConfig.MessageKey)
	}

	cfg = config(true, true)
	if cfg.Encoding != "json" || cfg.Level.Level() != zapcore.DebugLevel {
		t.Fatalf("unexpected json/debug config: %s/%s", cfg.Encoding, cfg.Level.Level())
	}
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
		t.Fatalf("expected logs on stderr, got %v", cfg.OutputPaths)
	}
}

func TestNew(t *testing.T) {
	l, err := New(true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled without the debug flag")
	}
}
