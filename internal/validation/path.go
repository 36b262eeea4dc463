// Package validation checks user-supplied file and directory paths before
// diagrams are written to or read from them.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeCheckPattern names the scratch file used to test a directory for
// write access. CreateTemp replaces the "*" with a random suffix, so checks
// running in parallel never share a file.
const writeCheckPattern = ".uml_mcp_write_test-*"

// ErrTraversal is returned for paths containing ".." elements.
var ErrTraversal = errors.New("path traversal detected")

func checkTraversal(p string) error {
	for _, part := range strings.FieldsFunc(p, isSeparator) {
		if part == ".." {
			return fmt.Errorf("%w in %s", ErrTraversal, p)
		}
	}
	return nil
}

func isSeparator(r rune) bool { return r == '/' || r == filepath.Separator }

// OutputDir validates dir, creates it if needed and checks that files can
// be created in it. It returns the absolute directory.
func OutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("output directory cannot be empty")
	}
	if err := checkTraversal(dir); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to access output directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output path is not a directory: %s", abs)
	}

	if err := checkWritable(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// OutputFile validates a destination file path. Its directory must already
// exist and be writable. It returns the absolute path.
func OutputFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("output path cannot be empty")
	}
	if err := checkTraversal(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	dir := filepath.Dir(abs)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("output directory does not exist: %s", dir)
		}
		return "", fmt.Errorf("failed to access output directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output path parent is not a directory: %s", dir)
	}
	if err := checkWritable(dir); err != nil {
		return "", err
	}
	return abs, nil
}

// InputFile checks that path names an existing regular file and returns it
// cleaned.
func InputFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input path cannot be empty")
	}
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("input file does not exist: %s", clean)
		}
		return "", fmt.Errorf("failed to access input file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("input path must be a file: %s", clean)
	}
	return clean, nil
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, writeCheckPattern)
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}
