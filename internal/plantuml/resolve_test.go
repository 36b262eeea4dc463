package plantuml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeHost returns a host whose every lookup misses unless a test fills it in.
func fakeHost(t *testing.T, goos string) host {
	t.Helper()
	exe := t.TempDir()
	home := t.TempDir()
	return host{
		goos:     goos,
		getenv:   func(string) string { return "" },
		lookPath: func(string) (string, error) { return "", errors.New("not found") },
		homeDir:  func() (string, error) { return home, nil },
		exeDir:   func() (string, error) { return exe, nil },
		stat:     os.Stat,
		readDir:  os.ReadDir,
		javaRoots: []string{
			filepath.Join(t.TempDir(), "missing-root"),
		},
	}
}

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolveJava(t *testing.T) {
	t.Run("explicit path is returned verbatim", func(t *testing.T) {
		h := fakeHost(t, "linux")
		got, err := resolveJava(h, "/does/not/exist/java")
		if err != nil {
			t.Fatalf("resolveJava failed: %v", err)
		}
		if got != "/does/not/exist/java" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("JAVA_HOME wins over PATH", func(t *testing.T) {
		h := fakeHost(t, "linux")
		javaHome := t.TempDir()
		want := touch(t, filepath.Join(javaHome, "bin", "java"))
		h.getenv = envMap(map[string]string{"JAVA_HOME": javaHome})
		h.lookPath = func(string) (string, error) { return "/usr/bin/java", nil }

		got, err := resolveJava(h, "")
		if err != nil {
			t.Fatalf("resolveJava failed: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("JAVA_HOME without binary falls through to PATH", func(t *testing.T) {
		h := fakeHost(t, "linux")
		h.getenv = envMap(map[string]string{"JAVA_HOME": t.TempDir()})
		h.lookPath = func(name string) (string, error) {
			if name != "java" {
				t.Errorf("looked up %q, want java", name)
			}
			return "/usr/bin/java", nil
		}

		got, err := resolveJava(h, "")
		if err != nil {
			t.Fatalf("resolveJava failed: %v", err)
		}
		if got != "/usr/bin/java" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("windows binary name and install roots", func(t *testing.T) {
		h := fakeHost(t, "windows")
		root := t.TempDir()
		want := touch(t, filepath.Join(root, "jdk-21", "bin", "java.exe"))
		h.javaRoots = []string{filepath.Join(t.TempDir(), "absent"), root}

		var looked string
		h.lookPath = func(name string) (string, error) {
			looked = name
			return "", errors.New("not found")
		}

		got, err := resolveJava(h, "")
		if err != nil {
			t.Fatalf("resolveJava failed: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if looked != "java.exe" {
			t.Errorf("PATH lookup used %q, want java.exe", looked)
		}
	})

	t.Run("default windows roots read through host", func(t *testing.T) {
		h := fakeHost(t, "windows")
		h.javaRoots = nil

		listing := t.TempDir()
		if err := os.Mkdir(filepath.Join(listing, "jdk-21.0.2"), 0o755); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(listing)
		if err != nil {
			t.Fatal(err)
		}
		exe, err := os.Stat(touch(t, filepath.Join(t.TempDir(), "java.exe")))
		if err != nil {
			t.Fatal(err)
		}

		adoptium := `C:\Program Files\Eclipse Adoptium`
		want := filepath.Join(adoptium, "jdk-21.0.2", "bin", "java.exe")
		var scanned []string
		h.readDir = func(dir string) ([]os.DirEntry, error) {
			scanned = append(scanned, dir)
			if dir == adoptium {
				return entries, nil
			}
			return nil, os.ErrNotExist
		}
		h.stat = func(p string) (os.FileInfo, error) {
			if p == want {
				return exe, nil
			}
			return nil, os.ErrNotExist
		}

		got, err := resolveJava(h, "")
		if err != nil {
			t.Fatalf("resolveJava failed: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if len(scanned) != 3 || scanned[2] != adoptium {
			t.Errorf("scanned %v, want the first three default roots in order", scanned)
		}
	})

	t.Run("install roots ignored off windows", func(t *testing.T) {
		h := fakeHost(t, "linux")
		root := t.TempDir()
		touch(t, filepath.Join(root, "jdk", "bin", "java"))
		h.javaRoots = []string{root}

		_, err := resolveJava(h, "")
		if !errors.Is(err, ErrJavaNotFound) {
			t.Errorf("err = %v, want ErrJavaNotFound", err)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		_, err := resolveJava(fakeHost(t, "linux"), "")
		if !errors.Is(err, ErrJavaNotFound) {
			t.Fatalf("err = %v, want ErrJavaNotFound", err)
		}
		for _, want := range []string{"JAVA_HOME", "Java 11+", "https://adoptium.net/"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("message %q does not mention %s", err, want)
			}
		}
	})
}

func TestResolveJar(t *testing.T) {
	t.Run("explicit path is returned verbatim", func(t *testing.T) {
		got, err := resolveJar(fakeHost(t, "linux"), "/nowhere/plantuml.jar")
		if err != nil || got != "/nowhere/plantuml.jar" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("environment variable", func(t *testing.T) {
		h := fakeHost(t, "linux")
		want := touch(t, filepath.Join(t.TempDir(), "custom.jar"))
		h.getenv = envMap(map[string]string{JarEnvVar: want})

		got, err := resolveJar(h, "")
		if err != nil {
			t.Fatalf("resolveJar failed: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("candidate order", func(t *testing.T) {
		h := fakeHost(t, "linux")
		exe, _ := h.exeDir()
		home, _ := h.homeDir()
		inHome := touch(t, filepath.Join(home, ".plantuml", "plantuml.jar"))
		inBin := touch(t, filepath.Join(exe, "bin", "plantuml.jar"))

		got, err := resolveJar(h, "")
		if err != nil {
			t.Fatalf("resolveJar failed: %v", err)
		}
		if got != inBin {
			t.Errorf("got %q, want %q before %q", got, inBin, inHome)
		}
	})

	t.Run("nothing found lists every location", func(t *testing.T) {
		h := fakeHost(t, "linux")
		missing := filepath.Join(t.TempDir(), "gone.jar")
		h.getenv = envMap(map[string]string{JarEnvVar: missing})
		h.stat = func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

		_, err := resolveJar(h, "")
		if !errors.Is(err, ErrJarNotFound) {
			t.Fatalf("err = %v, want ErrJarNotFound", err)
		}
		msg := err.Error()
		if !strings.HasPrefix(msg, "plantuml.jar not found. Checked locations:\n") {
			t.Errorf("unexpected message start: %q", msg)
		}
		if !strings.Contains(msg, missing+" (from "+JarEnvVar+")") {
			t.Errorf("message does not list the env path: %q", msg)
		}
		for _, p := range jarCandidates(h) {
			if !strings.Contains(msg, "  - "+p+"\n") {
				t.Errorf("message does not list %s", p)
			}
		}
		if !strings.HasSuffix(msg, "Download from: https://github.com/plantuml/plantuml/releases/latest") {
			t.Errorf("message does not end with the download link: %q", msg)
		}
	})
}

func TestNew_JarNotFound(t *testing.T) {
	h := fakeHost(t, "linux")
	rec := &recordingRunner{}
	_, err := newClient(context.Background(), options{
		javaPath: "/usr/bin/java",
		host:     h,
		run:      rec,
	})
	if !errors.Is(err, ErrJarNotFound) {
		t.Fatalf("err = %v, want ErrJarNotFound", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("java was run before the jar was found: %v", rec.calls)
	}
}
