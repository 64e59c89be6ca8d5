//go:build windows

package process

import (
	"os"
	"os/exec"
)

// GracefulSignal asks the child to finish cooperatively. Windows cannot deliver
// it to another process, so Signal always fails and callers fall back to Kill.
var GracefulSignal = os.Interrupt

// setSysProcAttr is a no-op on Windows.
func setSysProcAttr(cmd *exec.Cmd) {}
