// Package logging builds the server's slog logger on top of
// charmbracelet/log.
//
// Output goes to stderr only, because stdout carries the MCP protocol. A
// dated log file can be added with Options.Dir.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every log line.
const Prefix = "uml-mcp"

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn (or warning) and error. Empty means info.
	Level string

	// Dir, when set, also appends to Dir/uml_mcp_server_<YYYY-MM-DD>.log.
	Dir string

	// Writer replaces os.Stderr.
	Writer io.Writer

	// Now is used for the log file name. Defaults to time.Now.
	Now func() time.Time
}

// ParseLevel maps a level name to a charmbracelet level.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// FileName returns the log file name used for day t.
func FileName(t time.Time) string {
	return "uml_mcp_server_" + t.Format("2006-01-02") + ".log"
}

// New returns the logger and a closer for the log file, if one was opened.
// The closer is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.Dir != "" {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		f, err := openLogFile(opts.Dir, FileName(now()))
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(w, f)
		closer = f
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return slog.New(handler), closer, nil
}

func openLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
