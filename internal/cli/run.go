package cli

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mcoffin/waystt-wrapper/internal/config"
	"github.com/mcoffin/waystt-wrapper/internal/headless"
	"github.com/mcoffin/waystt-wrapper/internal/lifecycle"
	"github.com/mcoffin/waystt-wrapper/internal/logging"
	"github.com/mcoffin/waystt-wrapper/internal/peers"
	"github.com/mcoffin/waystt-wrapper/internal/process"
	"github.com/mcoffin/waystt-wrapper/internal/supervisor"
	"github.com/mcoffin/waystt-wrapper/internal/tui/overlay"
)

// Hooks for tests.
var (
	spawnFn      = func(command []string) (supervisor.Child, error) { return process.Spawn(command) }
	runOverlayFn = overlay.Run
	runHeadless  = headless.Run

	stderrIsTerminal = func() bool {
		fd := os.Stderr.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

// run supervises one command and records its exit code. Errors returned
// here happen before the child exists and map to lifecycle.ExitFailure.
func (r *runner) run(cmd *cobra.Command, args []string) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer closeLog()

	command := args
	if len(command) == 0 {
		command = cfg.Command
	}

	coordOpts, err := coordinatorOptions(cfg)
	if err != nil {
		return err
	}

	child, err := spawnFn(command)
	if err != nil {
		slog.Error("failed to start process", "command", command, "error", err)
		return err
	}

	var exit lifecycle.ExitCode
	if cfg.Headless || !stderrIsTerminal() {
		runHeadless(cmd.Context(), child, &exit, cfg.PollInterval(), coordOpts...)
	} else if err := runOverlayFn(child, &exit, overlay.OptionsFromConfig(cfg), coordOpts...); err != nil {
		slog.Error("overlay failed", "error", err)
	}

	r.exitCode = lifecycle.ExitFailure
	if exit.Committed() {
		r.exitCode = exit.Code()
	} else {
		slog.Error("run ended without an exit code")
	}
	slog.Info("exiting", "code", r.exitCode, "reason", exit.Reason())
	return nil
}

func coordinatorOptions(cfg *config.Config) ([]supervisor.Option, error) {
	b, err := peers.New(cfg.Peers.Method)
	if err != nil {
		return nil, err
	}
	name := cfg.Peers.Name
	if name == "" {
		name = peers.SelfName()
	}
	return []supervisor.Option{supervisor.WithBroadcaster(b, name)}, nil
}
