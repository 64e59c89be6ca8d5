package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mcoffin/waystt-wrapper/internal/config"
)

func newKeysCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Show the overlay key bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.loadConfig(cmd)
			if err != nil {
				return err
			}
			return renderKeys(cmd.OutOrStdout(), cfg, writerIsTerminal(cmd.OutOrStdout()))
		},
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// keysMarkdown describes the effective bindings as a markdown table.
func keysMarkdown(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("# Key bindings\n\n")
	b.WriteString("| Keys | Action |\n")
	b.WriteString("| --- | --- |\n")
	fmt.Fprintf(&b, "| %s | Stop the command and wait for it to exit |\n", formatKeys(cfg.Keys.Cancel))
	fmt.Fprintf(&b, "| %s | Same, and stop every other `%s` |\n", formatKeys(cfg.Keys.Panic), peerName(cfg))
	b.WriteString("\nClosing the terminal stops the command and exits with code 130.\n")
	return b.String()
}

func formatKeys(keys []string) string {
	if len(keys) == 0 {
		return "_unbound_"
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "`" + k + "`"
	}
	return strings.Join(quoted, ", ")
}

func peerName(cfg *config.Config) string {
	if cfg.Peers.Name != "" {
		return cfg.Peers.Name
	}
	return "waystt-wrapper"
}

func renderKeys(w io.Writer, cfg *config.Config, tty bool) error {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(keysMarkdown(cfg))
	if err != nil {
		return fmt.Errorf("rendering key bindings: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
