//go:build unix

package hostsig

import (
	"os"
	"syscall"
)

// cancelSignal is the graceful signal peers broadcast.
var cancelSignal os.Signal = syscall.SIGUSR1

func watched() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1}
}
