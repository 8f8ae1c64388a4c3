package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("phase ended", "from", "work")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"from":"work"`) {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	l := New(&buf, "warn", "text")
	l.Info("hidden")
	l.Warn("shown", "n", 1)
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "n=1") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestSetupFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), ".pomo", "pomo.log")
	l, closer, err := SetupFile(path, "debug", "text")
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	l.Debug("tick")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=tick") {
		t.Errorf("log = %q", data)
	}
}
