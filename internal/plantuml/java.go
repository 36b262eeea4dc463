package plantuml

import (
	"os"
	"os/exec"
	"path/filepath"
)

const javaNotFoundMsg = "Java Runtime Environment not found. Please install Java 11+ or set JAVA_HOME environment variable.\n" +
	"Download from: https://adoptium.net/ or https://www.oracle.com/java/technologies/downloads/"

// windowsJavaRoots are scanned one level deep for bin\java.exe.
var windowsJavaRoots = []string{
	`C:\Program Files\Java`,
	`C:\Program Files (x86)\Java`,
	`C:\Program Files\Eclipse Adoptium`,
	`C:\Program Files\Microsoft\jdk`,
}

// host is the slice of the operating system the resolvers look at.
type host struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
	homeDir  func() (string, error)
	exeDir   func() (string, error)
	stat     func(string) (os.FileInfo, error)
	readDir  func(string) ([]os.DirEntry, error)

	// javaRoots overrides windowsJavaRoots when non-nil.
	javaRoots []string
}

func defaultHost(goos string) host {
	return host{
		goos:     goos,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		homeDir:  os.UserHomeDir,
		stat:     os.Stat,
		readDir:  os.ReadDir,
		exeDir: func() (string, error) {
			exe, err := os.Executable()
			if err != nil {
				return "", err
			}
			if real, err := filepath.EvalSymlinks(exe); err == nil {
				exe = real
			}
			return filepath.Dir(exe), nil
		},
	}
}

func (h host) javaBinary() string {
	if h.goos == "windows" {
		return "java.exe"
	}
	return "java"
}

// locator is one step of a resolution chain. It reports the path it found,
// if any.
type locator func(h host) (string, bool)

// javaLocators is the ordered search used when no explicit path is given.
// The Windows install-root scan is a no-op on other platforms.
var javaLocators = []locator{
	javaFromHome,
	javaFromPath,
	javaFromInstallRoots,
}

func javaFromHome(h host) (string, bool) {
	home := h.getenv("JAVA_HOME")
	if home == "" {
		return "", false
	}
	p := filepath.Join(home, "bin", h.javaBinary())
	return p, h.isFile(p)
}

func javaFromPath(h host) (string, bool) {
	p, err := h.lookPath(h.javaBinary())
	if err != nil || p == "" {
		return "", false
	}
	return p, true
}

// javaFromInstallRoots returns the first <root>/<dir>/bin/java.exe found.
// Directory order is whatever the filesystem reports.
func javaFromInstallRoots(h host) (string, bool) {
	if h.goos != "windows" {
		return "", false
	}
	roots := h.javaRoots
	if roots == nil {
		roots = windowsJavaRoots
	}
	for _, root := range roots {
		entries, err := h.readDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			p := filepath.Join(root, e.Name(), "bin", h.javaBinary())
			if h.isFile(p) {
				return p, true
			}
		}
	}
	return "", false
}

// resolveJava returns explicit verbatim when set, otherwise the first hit
// of javaLocators.
func resolveJava(h host, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, find := range javaLocators {
		if p, ok := find(h); ok {
			return p, nil
		}
	}
	return "", &Error{Kind: JavaNotFound, Msg: javaNotFoundMsg}
}

func (h host) isFile(path string) bool {
	info, err := h.stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isFile checks the real filesystem, for render output.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
