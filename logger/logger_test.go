package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.WarnLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		l, err := New(tt.level)
		if (err != nil) != tt.wantErr {
			t.Fatalf("level %q: expected error %t, got %v", tt.level, tt.wantErr, err)
		}
		if err != nil {
			continue
		}

		if !l.Core().Enabled(tt.want) {
			t.Errorf("level %q: expected %v enabled", tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1) {
			t.Errorf("level %q: expected %v disabled", tt.level, tt.want-1)
		}
	}
}
