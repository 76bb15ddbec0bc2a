package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/overcue/internal/script"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check <script>",
	Short: "Validate a script file and report authoring warnings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := script.Load(args[0])
		if err != nil {
			return err
		}
		anns, warnings := script.Build(doc)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d annotation(s), %d warning(s)\n", args[0], len(anns), len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(out, "  ! %s\n", w)
		}
		// Warnings never prevent display; they only fail the check when the
		// author opts in.
		if checkStrict && len(warnings) > 0 {
			return fmt.Errorf("%d warning(s)", len(warnings))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero when warnings are found")
	rootCmd.AddCommand(checkCmd)
}
