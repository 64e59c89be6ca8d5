package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoffin/waystt-wrapper/internal/config"
	"github.com/mcoffin/waystt-wrapper/internal/lifecycle"
)

var (
	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// rootFlags are the root command's flags. Only flags the user set override
// the config file.
type rootFlags struct {
	cfgFile      string
	icon         string
	label        string
	position     string
	margin       int
	headless     bool
	logLevel     string
	logFile      string
	logFormat    string
	peerMethod   string
	pollInterval string
}

// runner carries the supervised run's exit code out of cobra.
type runner struct {
	flags    rootFlags
	exitCode int
}

func newRootCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waystt-wrapper [flags] [--] [command...]",
		Short: "Run a speech-to-text command behind a cancellable status overlay",
		Long: `waystt-wrapper runs a command (waystt --pipe-to wl-copy by default) and shows
a small status badge while it records. Press the cancel key to stop the command
gracefully and wait for it to finish; the panic key also stops every other
running waystt-wrapper.

The wrapper exits with the command's exit code, or 130 when it was dismissed.

Examples:
  waystt-wrapper                               # run the configured command
  waystt-wrapper -- waystt --pipe-to wl-copy   # run an explicit command
  waystt-wrapper --position bottom-left        # move the badge`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args)
		},
	}

	// Everything after the first positional argument belongs to the child.
	cmd.Flags().SetInterspersed(false)

	f := &r.flags
	cmd.PersistentFlags().StringVar(&f.cfgFile, "config", "", "config file (default ~/.config/waystt-wrapper/config.toml)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "glyph shown in the badge")
	cmd.Flags().StringVar(&f.label, "label", "", "text shown next to the glyph")
	cmd.Flags().StringVar(&f.position, "position", "", "badge position: top-left, top-right, bottom-left, bottom-right, center")
	cmd.Flags().IntVar(&f.margin, "margin", 0, "cells between the badge and the screen edges")
	cmd.Flags().BoolVar(&f.headless, "headless", false, "run without the overlay; status is logged")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "append logs to this file instead of stderr")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "log format: text or json")
	cmd.Flags().StringVar(&f.peerMethod, "peer-method", "", "how the panic key reaches other wrappers: killall or scan")
	cmd.Flags().StringVar(&f.pollInterval, "poll-interval", "", "how often to check whether the command exited (e.g. 100ms)")

	cmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(r),
		newKeysCmd(r),
	)
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	r := &runner{}
	cmd := newRootCmd(r)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return lifecycle.ExitFailure
	}
	return r.exitCode
}

// loadConfig loads the config file and applies the flags the user set. A
// missing file at the default path means defaults; a missing explicit
// --config file is an error.
func (r *runner) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(r.flags.cfgFile)
	if err != nil {
		if r.flags.cfgFile != "" || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
		cfg.ApplyEnv()
	}

	flags := cmd.Flags()
	if flags.Changed("icon") {
		cfg.Indicator.Icon = r.flags.icon
	}
	if flags.Changed("label") {
		cfg.Indicator.Label = r.flags.label
	}
	if flags.Changed("position") {
		pos, err := config.ParsePosition(r.flags.position)
		if err != nil {
			return nil, err
		}
		cfg.Indicator.Position = pos
	}
	if flags.Changed("margin") {
		cfg.Indicator.Margin = r.flags.margin
	}
	if flags.Changed("headless") {
		cfg.Headless = r.flags.headless
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = r.flags.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = config.ExpandPath(r.flags.logFile)
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = r.flags.logFormat
	}
	if flags.Changed("peer-method") {
		cfg.Peers.Method = r.flags.peerMethod
	}
	if flags.Changed("poll-interval") {
		cfg.Supervisor.RawPollInterval = r.flags.pollInterval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, Version)
				return
			}
			fmt.Fprintf(out, "waystt-wrapper version %s\n", Version)
			fmt.Fprintf(out, "  commit:  %s\n", Commit)
			fmt.Fprintf(out, "  built:   %s\n", Date)
			fmt.Fprintf(out, "  builder: %s\n", BuiltBy)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}

func newConfigCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			path := r.flags.cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.Load(r.flags.cfgFile)
			if err != nil {
				if r.flags.cfgFile != "" || !errors.Is(err, os.ErrNotExist) {
					return err
				}
				cfg = config.Default()
				cfg.ApplyEnv()
				fmt.Fprintln(out, "# Using default configuration (no config file found)")
				fmt.Fprintln(out)
			}
			return config.Print(cfg, out)
		},
	})

	return cmd
}
