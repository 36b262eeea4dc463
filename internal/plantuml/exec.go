package plantuml

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps waiting for output pipes after the
// process has been killed.
const waitDelay = 5 * time.Second

// runner starts an external command and collects both output streams.
type runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// execRunner runs commands with os/exec. Output is buffered in memory and
// never inherited from this process.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
