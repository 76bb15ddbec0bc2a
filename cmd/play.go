package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/overcue/internal/player"
	"github.com/fakeyudi/overcue/internal/script"
)

var (
	playWatch    bool
	playFPS      int
	playDuration float64
	playPlain    bool
)

var playCmd = &cobra.Command{
	Use:   "play <script>",
	Short: "Play a script file in the terminal annotation player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		// Non-interactive stdout (pipes, CI) gets the plain summary instead
		// of the TUI.
		if playPlain || !term.IsTerminal(os.Stdout.Fd()) {
			return printScript(cmd, path)
		}

		return player.Run(player.Options{
			Path:     path,
			FPS:      playFPS,
			Duration: playDuration,
			Watch:    playWatch,
			Cfg:      GetConfig(),
		})
	},
}

// printScript writes a plain-text summary of the script to the command's
// stdout.
func printScript(cmd *cobra.Command, path string) error {
	doc, err := script.Load(path)
	if err != nil {
		return err
	}
	anns, warnings := script.Build(doc)

	out := cmd.OutOrStdout()
	title := doc.Title
	if title == "" {
		title = path
	}
	fmt.Fprintf(out, "## %s\n", title)
	fmt.Fprintf(out, "  Annotations: %d\n\n", len(anns))

	for i, a := range anns {
		span := a.Span()
		b := a.Bounds()
		fmt.Fprintf(out, "  %2d. ticks %d–%d  at (%.0f%%, %.0f%%) %gx%g%%\n",
			i+1, span.Start, span.End, b.X, b.Y, b.W, b.H)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(out, "\n## Warnings")
		for _, w := range warnings {
			fmt.Fprintf(out, "  ! %s\n", w)
		}
	}
	return nil
}

func init() {
	playCmd.Flags().BoolVar(&playWatch, "watch", false, "reload the script when it changes on disk")
	playCmd.Flags().IntVar(&playFPS, "fps", 0, "simulated playback rate (default from config)")
	playCmd.Flags().Float64Var(&playDuration, "duration", 0, "playback length in seconds (default: last annotation end + 2s)")
	playCmd.Flags().BoolVar(&playPlain, "plain", false, "plain text summary instead of the TUI")
	rootCmd.AddCommand(playCmd)
}
