package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level       string
		development bool
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{"", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug", true, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", false, zapcore.WarnLevel, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.level, tt.development)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.level, err)
		}
		if !l.Core().Enabled(tt.enabled) {
			t.Errorf("New(%q) should enable %v", tt.level, tt.enabled)
		}
		if l.Core().Enabled(tt.disabled) {
			t.Errorf("New(%q) should not enable %v", tt.level, tt.disabled)
		}
	}
	if _, err := New("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}
