//go:build unix

package process

import (
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitExited polls TryWait until the child is reported gone.
func waitExited(t *testing.T, h *Handle) Status {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st, exited, err := h.TryWait()
		require.NoError(t, err)
		if exited {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("child pid %d did not exit in time", h.PID())
	return Status{}
}

func TestSpawn_EmptyCommand(t *testing.T) {
	h, err := Spawn(nil)
	assert.Nil(t, h)
	assert.True(t, errors.Is(err, ErrEmptyCommand))

	_, err = Spawn([]string{})
	assert.True(t, errors.Is(err, ErrEmptyCommand))
}

func TestSpawn_BinaryNotFound(t *testing.T) {
	_, err := Spawn([]string{"nonexistent-binary-xyz-123"})
	require.Error(t, err)

	var spawnErr *SpawnError
	require.True(t, errors.As(err, &spawnErr))
	assert.Equal(t, []string{"nonexistent-binary-xyz-123"}, spawnErr.Command)
	assert.Contains(t, err.Error(), "nonexistent-binary-xyz-123")
}

func TestSpawn_StartFailure(t *testing.T) {
	orig := startFn
	defer func() { startFn = orig }()

	boom := errors.New("fork failed")
	startFn = func(cmd *exec.Cmd) error { return boom }

	_, err := Spawn([]string{"true"})
	assert.True(t, errors.Is(err, boom))
}

func TestSpawn_RunningImmediatelyAfterCreation(t *testing.T) {
	h, err := Spawn([]string{"sleep", "5"})
	require.NoError(t, err)
	defer h.Kill()

	assert.NotZero(t, h.PID())
	_, exited, err := h.TryWait()
	require.NoError(t, err)
	assert.False(t, exited, "child should still be running")
}

func TestSpawn_StdinIsClosed(t *testing.T) {
	// cat exits at EOF; a null stdin means it exits zero right away.
	h, err := Spawn([]string{"cat"})
	require.NoError(t, err)

	st, err := h.Wait()
	require.NoError(t, err)
	assert.True(t, st.Success(), "status = %v", st)
}

func TestWait_ExitCode(t *testing.T) {
	tests := []struct {
		name string
		cmd  []string
		want int
	}{
		{"zero", []string{"true"}, 0},
		{"one", []string{"false"}, 1},
		{"seven", []string{"sh", "-c", "exit 7"}, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Spawn(tc.cmd)
			require.NoError(t, err)

			st, err := h.Wait()
			require.NoError(t, err)
			assert.Equal(t, tc.want, st.Code)
			assert.Empty(t, st.Signal)
		})
	}
}

func TestTryWait_ReportsExit(t *testing.T) {
	h, err := Spawn([]string{"sh", "-c", "exit 7"})
	require.NoError(t, err)

	st := waitExited(t, h)
	assert.Equal(t, 7, st.Code)

	// Repeated calls keep returning the same status.
	again, exited, err := h.TryWait()
	require.NoError(t, err)
	assert.True(t, exited)
	assert.Equal(t, st, again)
}

func TestSignal_DeliversGracefulSignal(t *testing.T) {
	// The trap exits 3 on SIGUSR1; sleep runs in the background so the
	// shell can take the signal immediately.
	h, err := Spawn([]string{"sh", "-c", "trap 'exit 3' USR1; while :; do sleep 0.05; done"})
	require.NoError(t, err)
	defer h.Kill()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, h.Signal())

	st, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Code)
}

func TestSignal_AfterExitFails(t *testing.T) {
	h, err := Spawn([]string{"true"})
	require.NoError(t, err)
	_, err = h.Wait()
	require.NoError(t, err)

	err = h.Signal()
	require.Error(t, err)

	var sigErr *SignalError
	require.True(t, errors.As(err, &sigErr))
	assert.Equal(t, h.PID(), sigErr.PID)
	assert.True(t, errors.Is(err, os.ErrProcessDone))
}

func TestKill_TerminatesChild(t *testing.T) {
	h, err := Spawn([]string{"sleep", "30"})
	require.NoError(t, err)

	h.Kill()
	st, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Code)
	assert.Equal(t, "killed", st.Signal)

	// Killing an already reaped child only logs.
	h.Kill()
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "code=7", Status{Code: 7}.String())
	assert.Equal(t, "signal=killed code=1", Status{Code: 1, Signal: "killed"}.String())
	assert.True(t, Status{}.Success())
	assert.False(t, Status{Code: 1, Signal: "killed"}.Success())
}
