package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"err", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.name)
			if got != tt.want || ok != tt.known {
				t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.known)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, &buf)
	defer Init(slog.LevelInfo, nil)

	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "shown 3") || !strings.Contains(out, "shown 4") {
		t.Errorf("output missing messages: %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("output missing caller source: %q", out)
	}
}

func TestDebugTagf(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, &buf)
	defer Init(slog.LevelInfo, nil)

	DebugTagf("layout", "rebuilt %d segments", 7)

	out := buf.String()
	if !strings.Contains(out, "tag=layout") {
		t.Errorf("output missing tag: %q", out)
	}
	if !strings.Contains(out, "rebuilt 7 segments") {
		t.Errorf("output missing message: %q", out)
	}
}
