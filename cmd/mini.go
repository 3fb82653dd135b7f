// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/mini"
)

func init() {
	rootCmd.AddCommand(miniCmd)

	miniCmd.Flags().BoolP("resume", "r", false, "Pick up the most recent search session")
}

// miniCmd starts the prompt-driven survey interface.
var miniCmd = &cobra.Command{
	Use:   "mini",
	Short: "Search with lightweight prompts instead of the full-screen UI",
	Long: `Run the prompt-driven interface: one question at a time, no alternate
screen. Handy over slow SSH links and inside terminal multiplexers.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := mini.Run(&mini.Options{
			Resume: lo.Must(cmd.Flags().GetBool("resume")),
		})

		// survey reports ctrl-c on a prompt as a bare "interrupt" error.
		if err != nil && err.Error() != "interrupt" {
			handleErr(err)
		}
	},
}
