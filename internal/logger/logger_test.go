package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_FormatFromEnv(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		if _, err := NewLogger(env, "", ""); err != nil {
			t.Errorf("env %q: unexpected error %v", env, err)
		}
	}
	if _, err := NewLogger("staging", "", ""); err == nil {
		t.Error("expected error for unknown env without explicit format")
	}
}

func TestNewLogger_ExplicitFormatWins(t *testing.T) {
	if _, err := NewLogger("staging", FormatJSON, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewLogger("local", "xml", ""); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewLogger_Level(t *testing.T) {
	l, err := NewLogger("prod", "", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn must be enabled at warn level")
	}

	if _, err := NewLogger("prod", "", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger, got nil")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}
}

func TestFromContextOr(t *testing.T) {
	def := zap.NewExample()
	if FromContextOr(context.Background(), def) != def {
		t.Error("expected fallback logger")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContextOr(ctx, def) != l {
		t.Error("request logger must win over fallback")
	}
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, zap.String("operation", "transcript"))
	FromContext(ctx).Info("done")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["operation"]; got != "transcript" {
		t.Errorf("operation = %v", got)
	}
}
