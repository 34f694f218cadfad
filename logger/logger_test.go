package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in    string
		debug bool
		want  log.Level
	}{
		{"", false, log.InfoLevel},
		{"warn", false, log.WarnLevel},
		{" ERROR ", false, log.ErrorLevel},
		{"nonsense", false, log.InfoLevel},
		{"error", true, log.DebugLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in, tc.debug); got != tc.want {
			t.Errorf("parseLevel(%q, %v): expected %v, got %v", tc.in, tc.debug, tc.want, got)
		}
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "warn"})

	l.Info("hidden")
	l.Warn("shown", "day", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "day=3") {
		t.Errorf("Expected warn line with keyvals, got %q", out)
	}
}

func TestHelpers_NilSafe(t *testing.T) {
	prev := Logger
	Logger = nil
	defer func() { Logger = prev }()

	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
