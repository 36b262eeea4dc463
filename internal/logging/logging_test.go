package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"warn", log.WarnLevel, false},
		{"warning", log.WarnLevel, false},
		{" error ", log.ErrorLevel, false},
		{"chatty", log.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer closer.Close()

	logger.Info("quiet message")
	logger.Warn("loud message", "path", "/tmp/x.svg")

	out := buf.String()
	if strings.Contains(out, "quiet message") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "loud message") || !strings.Contains(out, "/tmp/x.svg") {
		t.Errorf("warn line missing: %q", out)
	}
	if !strings.Contains(out, Prefix) {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestNew_LogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	day := time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	logger, closer, err := New(Options{
		Level:  "debug",
		Dir:    dir,
		Writer: &buf,
		Now:    func() time.Time { return day },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("rendering", "type", "class")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "uml_mcp_server_2025-03-09.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), "rendering") {
		t.Errorf("log file = %q", data)
	}
	if !strings.Contains(buf.String(), "rendering") {
		t.Errorf("stderr copy = %q", buf.String())
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
