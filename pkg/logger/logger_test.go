package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"judge/pkg/contextkey"
)

func TestNewLoggerRejectsInvalidLevel(t *testing.T) {
	if _, err := NewLogger(Config{Level: "not-a-level"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestNewLoggerWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judge.log")
	l, err := NewLogger(Config{Level: "info", Format: "json", OutputPath: path, Service: "judge"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	ctx := context.WithValue(context.Background(), contextkey.TraceID, "trace-abc")
	l.WithContext(ctx).Info("submission queued")
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected log output to be written")
	}
}

func TestNewLoggerAcceptsStderrOutputPath(t *testing.T) {
	l, err := NewLogger(Config{Level: "info", Format: "json", OutputPath: "stderr"})
	if err != nil {
		t.Fatalf("NewLogger with stderr output path: %v", err)
	}
	l.zap.Info("diagnostic message")
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestGlobalLoggerNoopBeforeInit(t *testing.T) {
	globalLogger = nil
	// Must not panic when nothing has been initialized.
	Info(context.Background(), "ignored")
	Error(context.Background(), "ignored")
	if Sync() != nil {
		t.Fatalf("Sync on uninitialized logger should be a no-op")
	}
}

func TestInitSetsGlobalLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judge.log")
	if err := Init(Config{Level: "debug", Format: "json", OutputPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() { globalLogger = nil }()

	if GetLogger() == nil {
		t.Fatalf("expected global logger to be set")
	}
	if !IsDebug() {
		t.Fatalf("expected debug level to be active")
	}
}
