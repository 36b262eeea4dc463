package plantuml

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// CheckJavaInstallation reports whether a working Java runtime is available
// and returns its version banner, or the reason it is not.
//
// It builds a throwaway client, so a missing plantuml.jar is reported here
// too, as a generic error.
func CheckJavaInstallation(ctx context.Context, opts ...Option) (bool, string) {
	c, err := New(ctx, opts...)
	switch {
	case err == nil:
		return true, c.JavaVersion()
	case errors.Is(err, ErrJavaNotFound):
		return false, err.Error()
	default:
		return false, "Error checking Java: " + err.Error()
	}
}

// CheckPlantUMLJar reports whether plantuml.jar is available and returns
// its path, or the reason it is not.
func CheckPlantUMLJar(ctx context.Context, opts ...Option) (bool, string) {
	c, err := New(ctx, opts...)
	switch {
	case err == nil:
		return true, c.JarPath()
	case errors.Is(err, ErrJarNotFound):
		return false, err.Error()
	default:
		return false, "Error checking plantuml.jar: " + err.Error()
	}
}

// Status is the combined result of both checks.
type Status struct {
	JavaInstalled bool   `json:"java_installed"`
	JavaMessage   string `json:"java_message"`
	JarAvailable  bool   `json:"jar_available"`
	JarMessage    string `json:"jar_message"`
}

// Ready reports whether local rendering can be used.
func (s Status) Ready() bool { return s.JavaInstalled && s.JarAvailable }

// Diagnose runs CheckJavaInstallation and CheckPlantUMLJar concurrently.
func Diagnose(ctx context.Context, opts ...Option) Status {
	var st Status
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st.JavaInstalled, st.JavaMessage = CheckJavaInstallation(gctx, opts...)
		return nil
	})
	g.Go(func() error {
		st.JarAvailable, st.JarMessage = CheckPlantUMLJar(gctx, opts...)
		return nil
	})
	_ = g.Wait()
	return st
}
