package plantuml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRenderTimeout bounds a single plantuml.jar run.
const DefaultRenderTimeout = 60 * time.Second

// SupportedFormats are the output formats accepted by Render.
var SupportedFormats = []string{"svg", "png", "txt", "eps", "pdf"}

// Client renders diagrams with a resolved Java runtime and plantuml.jar.
// A Client is immutable and safe for concurrent use.
type Client struct {
	javaPath    string
	jarPath     string
	javaVersion string

	timeout time.Duration
	tempDir string
	run     runner
	logger  *slog.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	javaPath string
	jarPath  string
	timeout  time.Duration
	tempDir  string
	logger   *slog.Logger
	host     host
	run      runner
}

// WithJavaPath skips Java detection and uses path as given.
func WithJavaPath(path string) Option {
	return func(o *options) { o.javaPath = path }
}

// WithJarPath skips plantuml.jar detection and uses path as given.
func WithJarPath(path string) Option {
	return func(o *options) { o.jarPath = path }
}

// WithRenderTimeout replaces DefaultRenderTimeout.
func WithRenderTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTempDir sets the directory used for input files and for output when
// Render is given no destination. Defaults to os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// WithLogger sets the logger. Defaults to a logger that discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEnv replaces os.Getenv for JAVA_HOME and PLANTUML_JAR_PATH lookups.
func WithEnv(getenv func(string) string) Option {
	return func(o *options) {
		if getenv != nil {
			o.host.getenv = getenv
		}
	}
}

// New resolves Java and plantuml.jar, verifies that Java runs, and returns
// a ready client.
//
// Parameters:
//   - ctx: Bounds the "java -version" check, which is additionally limited
//     to VersionTimeout.
//   - opts: Overrides for the Java and jar paths, the render timeout, the
//     temp directory, the logger and the environment. Explicit paths are
//     used verbatim; everything else is searched for.
//
// Java is looked up in JAVA_HOME/bin, then on PATH, then (on Windows) in
// the usual install roots. plantuml.jar is looked up through
// PLANTUML_JAR_PATH, next to the executable, in ~/.plantuml and in a few
// fixed system locations.
//
// # Errors
//
//   - ErrJavaNotFound if no Java binary is found or it cannot be executed
//   - ErrJarNotFound if plantuml.jar is not found; the message lists every
//     location that was checked
//
// Both are *Error values and can be matched with errors.Is.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := options{
		timeout: DefaultRenderTimeout,
		tempDir: os.TempDir(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		host:    defaultHost(runtime.GOOS),
		run:     execRunner{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return newClient(ctx, o)
}

func newClient(ctx context.Context, o options) (*Client, error) {
	javaPath, err := resolveJava(o.host, o.javaPath)
	if err != nil {
		return nil, err
	}
	jarPath, err := resolveJar(o.host, o.jarPath)
	if err != nil {
		return nil, err
	}
	version, err := verifyJava(ctx, o.run, javaPath)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("java version", "version", version)
	o.logger.Info("plantuml client initialized", "java", javaPath, "jar", jarPath)

	return &Client{
		javaPath:    javaPath,
		jarPath:     jarPath,
		javaVersion: version,
		timeout:     o.timeout,
		tempDir:     o.tempDir,
		run:         o.run,
		logger:      o.logger,
	}, nil
}

// JavaPath returns the resolved Java executable.
func (c *Client) JavaPath() string { return c.javaPath }

// JarPath returns the resolved plantuml.jar.
func (c *Client) JarPath() string { return c.jarPath }

// JavaVersion returns the version banner captured during construction.
func (c *Client) JavaVersion() string { return c.javaVersion }

// Result is the outcome of one Render call. Exactly one of OutputPath and
// Error is set.
type Result struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`

	err error
}

// Err returns the failure as an *Error, or nil on success.
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	return r.err
}

func failed(kind Kind, msg string, cause error) *Result {
	return &Result{
		Error: msg,
		err:   &Error{Kind: kind, Msg: msg, Err: cause},
	}
}

// Render converts code to format by running "java -jar plantuml.jar".
//
// Parameters:
//   - ctx: Cancelling it kills the renderer and its child processes.
//   - code: PlantUML source, passed to the renderer unchanged.
//   - format: One of SupportedFormats.
//   - outputFile: Where the diagram should end up. When empty the diagram
//     is written to the client's temp directory under a generated name.
//
// Returns:
//   - *Result: Never nil. On success OutputPath is the rendered file; on
//     failure Error holds a human readable message and Err the typed error.
//
// The temporary .puml input is removed whether or not rendering succeeds.
//
// # Errors
//
// Result.Err returns:
//   - ErrUnsupportedFormat for a format outside SupportedFormats
//   - ErrRender with a "timed out (<N>s limit)" message when the client's
//     render timeout expires
//   - ErrRender wrapping ctx.Err() when ctx is cancelled or its deadline
//     passes first
//   - ErrRender with the renderer's stderr (or stdout) on a non-zero exit,
//     or when the expected output file is missing
func (c *Client) Render(ctx context.Context, code, format, outputFile string) *Result {
	if !slices.Contains(SupportedFormats, format) {
		msg := fmt.Sprintf("Unsupported output format '%s'. Supported: %s",
			format, strings.Join(SupportedFormats, ", "))
		return failed(UnsupportedFormat, msg, nil)
	}

	inputPath, err := c.writeInput(code)
	if err != nil {
		c.logger.Error("plantuml input file", "err", err)
		return failed(Render, err.Error(), err)
	}
	defer func() {
		if err := os.Remove(inputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("removing plantuml input", "path", inputPath, "err", err)
		}
	}()

	outputDir := c.tempDir
	if outputFile != "" {
		outputDir = filepath.Dir(outputFile)
	}

	args := []string{
		"-jar", c.jarPath,
		"-t" + format,
		"-charset", "UTF-8",
		"-o", outputDir,
		inputPath,
	}
	c.logger.Debug("running plantuml", "cmd", c.javaPath+" "+strings.Join(args, " "))

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stdout, stderr, err := c.run.Run(runCtx, c.javaPath, args...)
	if err != nil {
		// The caller's context ending is not the render timeout, even
		// when its deadline was the earlier one.
		if ctxErr := ctx.Err(); ctxErr != nil {
			msg := "PlantUML execution cancelled: " + ctxErr.Error()
			c.logger.Error(msg)
			return failed(Render, msg, ctxErr)
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			msg := fmt.Sprintf("PlantUML execution timed out (%ds limit)", int(c.timeout/time.Second))
			c.logger.Error(msg)
			return failed(Render, msg, runCtx.Err())
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			c.logger.Error("plantuml execution error", "err", err)
			return failed(Render, err.Error(), err)
		}

		msg := string(stderr)
		if msg == "" {
			msg = string(stdout)
		}
		if msg == "" {
			msg = "Unknown error"
		}
		c.logger.Error("plantuml generation failed", "exit_code", exitErr.ExitCode(), "output", msg)
		return failed(Render, msg, err)
	}

	// PlantUML names its output after the input stem and ignores any
	// requested file name.
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	generated := filepath.Join(outputDir, stem+"."+format)

	if outputFile != "" && isFile(generated) {
		final := filepath.Join(outputDir, filepath.Base(outputFile))
		if generated != final {
			if err := os.Rename(generated, final); err != nil {
				c.logger.Error("moving plantuml output", "from", generated, "to", final, "err", err)
				return failed(Render, err.Error(), err)
			}
			generated = final
		}
	}

	if !isFile(generated) {
		return failed(Render, "Generated file not found at "+generated, nil)
	}

	c.logger.Info("diagram generated", "path", generated)
	return &Result{Success: true, OutputPath: generated}
}

// writeInput stores code in a new plantuml-<uuid>.puml file. The random
// stem keeps concurrent renders into one directory from sharing an output
// name.
func (c *Client) writeInput(code string) (string, error) {
	path := filepath.Join(c.tempDir, "plantuml-"+uuid.NewString()+".puml")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating input file: %w", err)
	}
	if _, err := io.WriteString(f, code); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing input file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing input file: %w", err)
	}
	return path, nil
}
