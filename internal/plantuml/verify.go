package plantuml

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// VersionTimeout bounds the java -version check.
const VersionTimeout = 10 * time.Second

// verifyJava runs "<java> -version" and returns the reported version text.
//
// Only a failure to run the binary counts. A non-zero exit still proves a
// runtime is present.
func verifyJava(ctx context.Context, r runner, javaPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, VersionTimeout)
	defer cancel()

	stdout, stderr, err := r.Run(ctx, javaPath, "-version")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &Error{Kind: JavaNotFound, Msg: "Failed to execute Java", Err: ctxErr}
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", &Error{Kind: JavaNotFound, Msg: "Failed to execute Java", Err: err}
		}
	}
	return versionText(stdout, stderr), nil
}

// versionText prefers stderr, where the JVM prints its banner.
func versionText(stdout, stderr []byte) string {
	out := stderr
	if len(out) == 0 {
		out = stdout
	}
	return strings.TrimSpace(string(out))
}
