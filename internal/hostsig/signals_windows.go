//go:build windows

package hostsig

import "os"

// cancelSignal is nil: Windows has no peer broadcast.
var cancelSignal os.Signal

func watched() []os.Signal {
	return []os.Signal{os.Interrupt}
}
