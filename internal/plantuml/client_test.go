package plantuml

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// fakePlantUML behaves like "java -jar plantuml.jar": it answers -version
// on stderr and writes <outdir>/<input stem>.<format> with the input copied
// after an "<out>" marker line.
const fakePlantUML = `
if [ "$1" = "-version" ]; then
  echo 'openjdk version "21.0.1" 2023-10-17' >&2
  exit 0
fi
fmt=""; out=""; in=""
while [ $# -gt 0 ]; do
  case "$1" in
    -jar) shift ;;
    -charset) shift ;;
    -o) shift; out="$1" ;;
    -t*) fmt="${1#-t}" ;;
    *) in="$1" ;;
  esac
  shift
done
stem=$(basename "$in" .puml)
{ echo "<out>"; cat "$in"; } > "$out/$stem.$fmt"
`

const versionOK = `
if [ "$1" = "-version" ]; then
  echo 'openjdk version "21.0.1"' >&2
  exit 0
fi
`

// writeFakeJava writes an executable shell script and returns its path.
func writeFakeJava(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake java scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "java")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write fake java: %v", err)
	}
	return path
}

// writeFakeJar creates a placeholder plantuml.jar.
func writeFakeJar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plantuml.jar")
	if err := os.WriteFile(path, []byte("fake jar content"), 0o644); err != nil {
		t.Fatalf("failed to write fake jar: %v", err)
	}
	return path
}

// newTestClient builds a client around a fake java script.
func newTestClient(t *testing.T, script string, opts ...Option) (*Client, string) {
	t.Helper()
	tmp := t.TempDir()
	base := []Option{
		WithJavaPath(writeFakeJava(t, script)),
		WithJarPath(writeFakeJar(t)),
		WithTempDir(tmp),
	}
	c, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c, tmp
}

// recordingRunner records every command instead of running it.
type recordingRunner struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil, []byte("openjdk version \"21\""), nil
}

// pumlFiles lists leftover input files in dir.
func pumlFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.puml"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	return matches
}

func TestNew_ExplicitPaths(t *testing.T) {
	c, _ := newTestClient(t, fakePlantUML)

	if !strings.HasSuffix(c.JavaPath(), "java") {
		t.Errorf("JavaPath = %q", c.JavaPath())
	}
	if !strings.HasSuffix(c.JarPath(), "plantuml.jar") {
		t.Errorf("JarPath = %q", c.JarPath())
	}
	if !strings.Contains(c.JavaVersion(), "21.0.1") {
		t.Errorf("JavaVersion = %q, want it to contain 21.0.1", c.JavaVersion())
	}
}

func TestNew_JavaNotExecutable(t *testing.T) {
	_, err := New(context.Background(),
		WithJavaPath(filepath.Join(t.TempDir(), "missing-java")),
		WithJarPath(writeFakeJar(t)),
	)
	if !errors.Is(err, ErrJavaNotFound) {
		t.Fatalf("err = %v, want ErrJavaNotFound", err)
	}
	if !strings.Contains(err.Error(), "Failed to execute Java") {
		t.Errorf("err = %q, want it to mention Failed to execute Java", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Err == nil {
		t.Errorf("expected the exec error to be chained, got %#v", err)
	}
}

func TestNew_VersionNonZeroExitIsAccepted(t *testing.T) {
	script := `
if [ "$1" = "-version" ]; then
  echo 'java 17 (warning: odd locale)' >&2
  exit 3
fi
`
	c, _ := newTestClient(t, script)
	if !strings.Contains(c.JavaVersion(), "java 17") {
		t.Errorf("JavaVersion = %q", c.JavaVersion())
	}
}

func TestNew_VersionFromStdout(t *testing.T) {
	script := `
if [ "$1" = "-version" ]; then
  echo 'custom-jvm 1.0'
  exit 0
fi
`
	c, _ := newTestClient(t, script)
	if c.JavaVersion() != "custom-jvm 1.0" {
		t.Errorf("JavaVersion = %q, want custom-jvm 1.0", c.JavaVersion())
	}
}

func TestRender_DefaultOutput(t *testing.T) {
	c, tmp := newTestClient(t, fakePlantUML)

	res := c.Render(context.Background(), "@startuml\nclass Test\n@enduml", "svg", "")
	if !res.Success {
		t.Fatalf("Render failed: %s", res.Error)
	}
	if res.Error != "" {
		t.Errorf("Error = %q on success", res.Error)
	}
	if filepath.Dir(res.OutputPath) != tmp {
		t.Errorf("OutputPath %q not in temp dir %q", res.OutputPath, tmp)
	}
	if filepath.Ext(res.OutputPath) != ".svg" {
		t.Errorf("OutputPath %q does not end in .svg", res.OutputPath)
	}
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "class Test") {
		t.Errorf("output %q does not contain the markup", data)
	}
	if left := pumlFiles(t, tmp); len(left) != 0 {
		t.Errorf("input files left behind: %v", left)
	}
}

func TestRender_UTF8Markup(t *testing.T) {
	c, _ := newTestClient(t, fakePlantUML)

	code := "@startuml\nclass Ünïcødé\nnote: 日本語 ✓\n@enduml"
	res := c.Render(context.Background(), code, "txt", "")
	if !res.Success {
		t.Fatalf("Render failed: %s", res.Error)
	}
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "日本語 ✓") {
		t.Errorf("output lost non-ASCII text: %q", data)
	}
}

func TestRender_CustomDestinationIsRenamed(t *testing.T) {
	c, tmp := newTestClient(t, fakePlantUML)
	outDir := t.TempDir()
	dest := filepath.Join(outDir, "my-diagram.png")

	res := c.Render(context.Background(), "@startuml\nA -> B\n@enduml", "png", dest)
	if !res.Success {
		t.Fatalf("Render failed: %s", res.Error)
	}
	if res.OutputPath != dest {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, dest)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("destination missing: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("output dir holds %v, want only my-diagram.png", names)
	}
	if left := pumlFiles(t, tmp); len(left) != 0 {
		t.Errorf("input files left behind: %v", left)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	rec := &recordingRunner{}
	tmp := t.TempDir()
	o := options{
		javaPath: "/usr/bin/java",
		jarPath:  "/opt/plantuml/plantuml.jar",
		timeout:  DefaultRenderTimeout,
		tempDir:  tmp,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		host:     defaultHost(runtime.GOOS),
		run:      rec,
	}
	c, err := newClient(context.Background(), o)
	if err != nil {
		t.Fatalf("newClient failed: %v", err)
	}
	before := len(rec.calls)

	res := c.Render(context.Background(), "@startuml\nclass Test\n@enduml", "bmp", "")
	if res.Success {
		t.Fatal("Render succeeded for bmp")
	}
	for _, want := range []string{"'bmp'", "svg", "png", "txt", "eps", "pdf"} {
		if !strings.Contains(res.Error, want) {
			t.Errorf("Error %q does not mention %s", res.Error, want)
		}
	}
	if !errors.Is(res.Err(), ErrUnsupportedFormat) || !errors.Is(res.Err(), ErrRender) {
		t.Errorf("Err() = %v, want unsupported format under the render umbrella", res.Err())
	}
	if len(rec.calls) != before {
		t.Errorf("subprocess started for an unsupported format: %v", rec.calls[before:])
	}
	if left := pumlFiles(t, tmp); len(left) != 0 {
		t.Errorf("input files created: %v", left)
	}
}

func TestRender_NonZeroExit(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"stderr", `echo "Syntax Error? (line 2)" >&2; exit 1`, "Syntax Error? (line 2)\n"},
		{"stdout only", `echo "Error line 2 in file"; exit 200`, "Error line 2 in file\n"},
		{"silent", `exit 1`, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tmp := newTestClient(t, versionOK+tt.body+"\n")

			res := c.Render(context.Background(), "@startuml\nbroken\n@enduml", "svg", "")
			if res.Success {
				t.Fatal("Render succeeded")
			}
			if res.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", res.Error, tt.wantError)
			}
			if res.OutputPath != "" {
				t.Errorf("OutputPath = %q on failure", res.OutputPath)
			}
			if left := pumlFiles(t, tmp); len(left) != 0 {
				t.Errorf("input files left behind: %v", left)
			}
		})
	}
}

func TestRender_ZeroExitWithoutOutput(t *testing.T) {
	c, tmp := newTestClient(t, versionOK+"exit 0\n")

	res := c.Render(context.Background(), "@startuml\nclass A\n@enduml", "png", "")
	if res.Success {
		t.Fatal("Render succeeded without an output file")
	}
	if !strings.HasPrefix(res.Error, "Generated file not found at "+tmp) {
		t.Errorf("Error = %q, want it to name the expected path", res.Error)
	}
	if !strings.HasSuffix(res.Error, ".png") {
		t.Errorf("Error = %q, want the expected .png path", res.Error)
	}
}

func TestRender_Timeout(t *testing.T) {
	c, tmp := newTestClient(t, versionOK+"sleep 30\n", WithRenderTimeout(time.Second))

	start := time.Now()
	res := c.Render(context.Background(), "@startuml\nclass A\n@enduml", "svg", "")
	elapsed := time.Since(start)

	if res.Success {
		t.Fatal("Render succeeded")
	}
	if !strings.Contains(res.Error, "timed out") || !strings.Contains(res.Error, "(1s limit)") {
		t.Errorf("Error = %q, want a timeout message", res.Error)
	}
	if elapsed > 10*time.Second {
		t.Errorf("Render took %v; the renderer was not killed", elapsed)
	}
	if left := pumlFiles(t, tmp); len(left) != 0 {
		t.Errorf("input files left behind: %v", left)
	}
}

func TestRender_TimeoutKillsChildren(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("reads process state from /proc")
	}
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	script := versionOK + "sleep 30 &\necho $! > '" + pidFile + "'\nwait\n"
	c, _ := newTestClient(t, script, WithRenderTimeout(time.Second))

	res := c.Render(context.Background(), "@startuml\nclass A\n@enduml", "svg", "")
	if res.Success {
		t.Fatal("Render succeeded")
	}

	raw, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("renderer never started its child: %v", err)
	}
	pid := strings.TrimSpace(string(raw))

	deadline := time.Now().Add(3 * time.Second)
	for {
		state, alive := procState(pid)
		if !alive || state == "Z" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("child %s still running in state %s after the timeout", pid, state)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// procState returns the state letter of pid from /proc, and false once the
// process is gone.
func procState(pid string) (string, bool) {
	raw, err := os.ReadFile(filepath.Join("/proc", pid, "stat"))
	if err != nil {
		return "", false
	}
	// The command name is parenthesized and may contain spaces.
	stat := string(raw)
	fields := strings.Fields(stat[strings.LastIndex(stat, ")")+1:])
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

func TestRender_CallerDeadline(t *testing.T) {
	c, tmp := newTestClient(t, versionOK+"sleep 30\n", WithRenderTimeout(30*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := c.Render(ctx, "@startuml\nclass A\n@enduml", "svg", "")
	elapsed := time.Since(start)

	if res.Success {
		t.Fatal("Render succeeded")
	}
	if strings.Contains(res.Error, "limit") {
		t.Errorf("Error = %q blames the render timeout for the caller's deadline", res.Error)
	}
	if !strings.Contains(res.Error, "cancelled") {
		t.Errorf("Error = %q, want a cancellation message", res.Error)
	}
	if !errors.Is(res.Err(), context.DeadlineExceeded) {
		t.Errorf("Err() = %v, want context.DeadlineExceeded", res.Err())
	}
	if elapsed > 10*time.Second {
		t.Errorf("Render took %v; the renderer was not killed", elapsed)
	}
	if left := pumlFiles(t, tmp); len(left) != 0 {
		t.Errorf("input files left behind: %v", left)
	}
}

func TestRender_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, versionOK+"sleep 30\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.Render(ctx, "@startuml\nclass A\n@enduml", "svg", "")
	if res.Success {
		t.Fatal("Render succeeded with a cancelled context")
	}
	if !errors.Is(res.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", res.Err())
	}
}

func TestRender_ConcurrentCallsDoNotCollide(t *testing.T) {
	c, tmp := newTestClient(t, fakePlantUML)

	const n = 8
	paths := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			res := c.Render(context.Background(), "@startuml\nclass Same\n@enduml", "svg", "")
			if !res.Success {
				return errors.New(res.Error)
			}
			paths[i] = res.OutputPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent render failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		if seen[p] {
			t.Errorf("two renders produced %s", p)
		}
		seen[p] = true
	}
	if left := pumlFiles(t, tmp); len(left) != 0 {
		t.Errorf("input files left behind: %v", left)
	}
}
