package overlay

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides applies environment variable overrides to the model
func applyEnvOverrides(m *Model) {
	if m == nil {
		return
	}

	// WAYSTT_WRAPPER_REDUCE_MOTION: replace the stopping spinner with a static glyph
	if v := strings.TrimSpace(strings.ToLower(os.Getenv("WAYSTT_WRAPPER_REDUCE_MOTION"))); v != "" && v != "0" && v != "false" && v != "no" && v != "off" {
		m.reduceMotion = true
	}

	// WAYSTT_WRAPPER_POLL_MS: child poll interval in milliseconds
	if ms, ok := envPositiveInt("WAYSTT_WRAPPER_POLL_MS"); ok {
		m.pollInterval = time.Duration(ms) * time.Millisecond
	}
}

func envPositiveInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
