package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-runewidth"
)

// Config represents the main configuration
type Config struct {
	Command    []string         `toml:"command"` // Default command when none is given on the command line
	Headless   bool             `toml:"headless"`
	Indicator  IndicatorConfig  `toml:"indicator"`
	Keys       KeysConfig       `toml:"keys"`
	Supervisor SupervisorConfig `toml:"supervisor"`
	Peers      PeersConfig      `toml:"peers"`
	Log        LogConfig        `toml:"log"`
}

// IndicatorConfig controls the status overlay
type IndicatorConfig struct {
	Icon       string   `toml:"icon"`       // Glyph shown in the badge
	Label      string   `toml:"label"`      // Text next to the glyph while active
	Position   Position `toml:"position"`   // Where the badge sits in the alt screen
	Margin     int      `toml:"margin"`     // Cells from the screen edges
	Fullscreen bool     `toml:"fullscreen"` // Use the alt screen; inline rendering otherwise
}

// KeysConfig holds the key bindings, in bubbletea key string form ("esc", "alt+esc")
type KeysConfig struct {
	Cancel []string `toml:"cancel"`
	Panic  []string `toml:"panic"` // Cancel and also stop sibling wrappers
}

// SupervisorConfig tunes the child supervision
type SupervisorConfig struct {
	RawPollInterval string `toml:"poll_interval"` // e.g. "100ms"
}

// PeersConfig controls how the panic gesture reaches sibling wrappers
type PeersConfig struct {
	Method string `toml:"method"` // "killall" or "scan"
	Name   string `toml:"name"`   // Process name of siblings; defaults to our own
}

// LogConfig controls logging
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
	File   string `toml:"file"`   // Log file; stderr when empty
}

// Defaults
const (
	DefaultIcon         = "🎤"
	DefaultLabel        = "listening"
	DefaultMargin       = 2
	DefaultPollInterval = 100 * time.Millisecond
	DefaultPeerMethod   = "killall"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"

	MaxIconWidth = 2 // terminal cells
)

// Environment variable overrides
const (
	EnvLogLevel = "WAYSTT_WRAPPER_LOG"
	EnvHeadless = "WAYSTT_WRAPPER_HEADLESS"
)

// DefaultCommand is run when neither the command line nor the config file names one.
func DefaultCommand() []string {
	return []string{"waystt", "--pipe-to", "wl-copy"}
}

// DefaultCancelKeys returns the default cancel bindings
func DefaultCancelKeys() []string {
	return []string{"esc", "ctrl+c"}
}

// DefaultPanicKeys returns the default panic bindings
func DefaultPanicKeys() []string {
	return []string{"alt+esc"}
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "waystt-wrapper", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "waystt-wrapper", "config.toml")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Command: DefaultCommand(),
		Indicator: IndicatorConfig{
			Icon:       DefaultIcon,
			Label:      DefaultLabel,
			Position:   PositionTopRight,
			Margin:     DefaultMargin,
			Fullscreen: true,
		},
		Keys: KeysConfig{
			Cancel: DefaultCancelKeys(),
			Panic:  DefaultPanicKeys(),
		},
		Supervisor: SupervisorConfig{
			RawPollInterval: DefaultPollInterval.String(),
		},
		Peers: PeersConfig{
			Method: DefaultPeerMethod,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// PollInterval returns the configured poll interval or the default.
func (c *Config) PollInterval() time.Duration {
	if c.Supervisor.RawPollInterval != "" {
		d, err := time.ParseDuration(c.Supervisor.RawPollInterval)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultPollInterval
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Load loads configuration from a file.
// Missing values fall back to Default(); environment variables override the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults for missing values
	def := Default()
	if len(cfg.Command) == 0 {
		cfg.Command = def.Command
	}
	if cfg.Indicator.Icon == "" {
		cfg.Indicator.Icon = def.Indicator.Icon
	}
	if cfg.Indicator.Label == "" {
		cfg.Indicator.Label = def.Indicator.Label
	}
	if cfg.Indicator.Position == "" {
		cfg.Indicator.Position = def.Indicator.Position
	}
	if !md.IsDefined("indicator", "margin") {
		cfg.Indicator.Margin = def.Indicator.Margin
	}
	if !md.IsDefined("indicator", "fullscreen") {
		cfg.Indicator.Fullscreen = def.Indicator.Fullscreen
	}
	if len(cfg.Keys.Cancel) == 0 {
		cfg.Keys.Cancel = def.Keys.Cancel
	}
	if len(cfg.Keys.Panic) == 0 {
		cfg.Keys.Panic = def.Keys.Panic
	}
	if cfg.Supervisor.RawPollInterval == "" {
		cfg.Supervisor.RawPollInterval = def.Supervisor.RawPollInterval
	}
	if cfg.Peers.Method == "" {
		cfg.Peers.Method = def.Peers.Method
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	cfg.Log.File = ExpandPath(cfg.Log.File)

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if headless := os.Getenv(EnvHeadless); headless != "" {
		c.Headless = headless == "1" || headless == "true"
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := ParsePosition(string(c.Indicator.Position)); err != nil {
		return err
	}
	if w := runewidth.StringWidth(c.Indicator.Icon); w > MaxIconWidth {
		return fmt.Errorf("indicator icon %q is %d cells wide, at most %d allowed", c.Indicator.Icon, w, MaxIconWidth)
	}
	if c.Indicator.Margin < 0 {
		return fmt.Errorf("indicator margin must not be negative, got %d", c.Indicator.Margin)
	}
	switch c.Peers.Method {
	case "killall", "scan":
	default:
		return fmt.Errorf("unknown peer method %q (valid: killall, scan)", c.Peers.Method)
	}
	return nil
}

// CreateDefault creates a default config file
func CreateDefault() (string, error) {
	path := DefaultPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}

	return path, nil
}

// Print writes config to a writer in TOML format
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# waystt-wrapper configuration")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Command to supervise when none is given after --")
	fmt.Fprintf(w, "command = %s\n", quoteList(cfg.Command))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Run without the terminal overlay (also: WAYSTT_WRAPPER_HEADLESS=1)")
	fmt.Fprintf(w, "headless = %t\n", cfg.Headless)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[indicator]")
	fmt.Fprintf(w, "icon = %q\n", cfg.Indicator.Icon)
	fmt.Fprintf(w, "label = %q\n", cfg.Indicator.Label)
	fmt.Fprintf(w, "# One of: %s\n", strings.Join(PositionNames(), ", "))
	fmt.Fprintf(w, "position = %q\n", cfg.Indicator.Position)
	fmt.Fprintf(w, "margin = %d\n", cfg.Indicator.Margin)
	fmt.Fprintf(w, "fullscreen = %t\n", cfg.Indicator.Fullscreen)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[keys]")
	fmt.Fprintln(w, "# Stop the command and wait for it to exit")
	fmt.Fprintf(w, "cancel = %s\n", quoteList(cfg.Keys.Cancel))
	fmt.Fprintln(w, "# Same, and signal every other waystt-wrapper too")
	fmt.Fprintf(w, "panic = %s\n", quoteList(cfg.Keys.Panic))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[supervisor]")
	fmt.Fprintf(w, "poll_interval = %q\n", cfg.Supervisor.RawPollInterval)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[peers]")
	fmt.Fprintln(w, "# killall: shell out to killall(1); scan: walk the process table")
	fmt.Fprintf(w, "method = %q\n", cfg.Peers.Method)
	if cfg.Peers.Name != "" {
		fmt.Fprintf(w, "name = %q\n", cfg.Peers.Name)
	} else {
		fmt.Fprintln(w, "# name = \"waystt-wrapper\"")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[log]")
	fmt.Fprintf(w, "# Environment variable: %s\n", EnvLogLevel)
	fmt.Fprintf(w, "level = %q\n", cfg.Log.Level)
	fmt.Fprintf(w, "format = %q\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "file = %q\n", cfg.Log.File)
	} else {
		fmt.Fprintln(w, "# file = \"~/.local/state/waystt-wrapper.log\"")
	}

	return nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
