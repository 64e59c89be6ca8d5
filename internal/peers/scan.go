package peers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
)

// Scan walks the process table and signals every process whose name
// matches, skipping the caller itself.
type Scan struct{}

// proc is the part of a gopsutil process Scan needs; faked in tests.
type proc interface {
	Name() (string, error)
	SendSignal(sig syscall.Signal) error
}

type psutilProc struct {
	*process.Process
}

// listFn returns the running processes keyed by PID; swapped in tests.
var listFn = func(ctx context.Context) (map[int32]proc, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int32]proc, len(procs))
	for _, p := range procs {
		out[p.Pid] = psutilProc{p}
	}
	return out, nil
}

// Broadcast signals all processes named name other than the current one.
func (s *Scan) Broadcast(ctx context.Context, name string, sig os.Signal) error {
	sysSig, ok := sig.(syscall.Signal)
	if !ok {
		return &BroadcastError{Name: name, Signal: sig, Err: errors.ErrUnsupported}
	}

	procs, err := listFn(ctx)
	if err != nil {
		return &BroadcastError{Name: name, Signal: sig, Err: fmt.Errorf("listing processes: %w", err)}
	}

	self := int32(os.Getpid())
	matched := 0
	var errs []error
	for pid, p := range procs {
		if pid == self {
			continue
		}
		// Processes can vanish between listing and inspection.
		pname, err := p.Name()
		if err != nil || pname != name {
			continue
		}
		matched++
		if err := p.SendSignal(sysSig); err != nil {
			errs = append(errs, fmt.Errorf("pid %d: %w", pid, err))
			continue
		}
		slog.Debug("signaled peer", "pid", pid, "name", name, "signal", sig)
	}

	if matched == 0 {
		return &BroadcastError{Name: name, Signal: sig, Err: ErrNoPeers}
	}
	if len(errs) > 0 {
		return &BroadcastError{Name: name, Signal: sig, Err: errors.Join(errs...)}
	}
	return nil
}
