//go:build !unix

package plantuml

import "os/exec"

// setProcessGroup keeps the exec default of killing the process itself.
func setProcessGroup(cmd *exec.Cmd) {}
