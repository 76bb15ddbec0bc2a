package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/overcue/internal/script"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [path]",
	Short: "Write a demonstration script file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "overcue-sample.json"
		if len(args) == 1 {
			path = args[0]
		}
		if err := script.Write(script.Sample(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s — try: overcue play --watch %s\n", path, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
