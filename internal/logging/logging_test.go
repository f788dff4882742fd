package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := WithComponent(New(Config{Level: "info", Format: "json", Output: &buf}), "selection")
	l.Debug("hidden")
	l.Info("shown", zap.Int("offset", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d: %q", len(lines), buf.String())
	}
	entry := lines[0]
	for path, want := range map[string]string{
		"level":     "info",
		"msg":       "shown",
		"component": "selection",
		"offset":    "3",
	} {
		if got := gjson.Get(entry, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "console", Output: &buf})
	l.Debug("tree operation failed", zap.String("op", "insert"))

	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "tree operation failed") {
		t.Errorf("unexpected console output %q", out)
	}
	if !strings.Contains(out, `"op": "insert"`) {
		t.Errorf("missing field in %q", out)
	}
}
