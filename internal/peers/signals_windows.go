//go:build windows

package peers

import "os"

// signalName always fails; Windows has no killall.
func signalName(sig os.Signal) (string, bool) {
	return "", false
}
