package peers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const systemKillall = "killall"

// Killall shells out to killall(1).
type Killall struct {
	// Path overrides the killall binary; empty means look it up in PATH.
	Path string
}

// runFn runs cmd and returns its combined output; swapped in tests.
var runFn = func(cmd *exec.Cmd) ([]byte, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Broadcast runs `killall -s <SIG> name`. killall exiting 1 means nothing
// matched and is reported as ErrNoPeers.
func (k *Killall) Broadcast(ctx context.Context, name string, sig os.Signal) error {
	sigName, ok := signalName(sig)
	if !ok {
		return &BroadcastError{Name: name, Signal: sig, Err: errors.ErrUnsupported}
	}

	bin := k.Path
	if bin == "" {
		bin = systemKillall
	}

	cmd := exec.CommandContext(ctx, bin, "-s", sigName, name)
	out, err := runFn(cmd)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == 1 {
			return &BroadcastError{Name: name, Signal: sig, Err: ErrNoPeers}
		}
		return &BroadcastError{Name: name, Signal: sig,
			Err: fmt.Errorf("killall exited %d: %s", exitErr.ExitCode(), strings.TrimSpace(string(out)))}
	}
	return &BroadcastError{Name: name, Signal: sig, Err: err}
}
