package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/zhouzirui/solace/backend/internal/config"
)

func TestNewHonoursLevel(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("warn should be enabled at warn level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "shout"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected nop logger")
	}
}
