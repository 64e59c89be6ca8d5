//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// GracefulSignal asks the child to finish cooperatively.
var GracefulSignal = syscall.SIGUSR1

// setSysProcAttr puts the child in its own process group so terminal-generated
// signals reach the wrapper only; the wrapper decides what the child receives.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
