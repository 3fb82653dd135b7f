// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/provider/custom"
	"github.com/vodhound/vodhound/style"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCmd loads a local Lua adapter file without installing it.
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Load a local Lua adapter file and validate its contract",
	Long: `Spin up the Lua 5.1 virtual machine, execute the given adapter script and
check that it exposes the functions the adapter contract requires. Meant for
adapter development before the script is installed into the sources directory.`,
	Args:    cobra.ExactArgs(1),
	Example: "  vodhound run ./mysite.lua",
	Run: func(cmd *cobra.Command, args []string) {
		src, err := custom.LoadSource(args[0])
		handleErr(err)

		fmt.Printf("%s Loaded %s\n", icon.Get(icon.Success), style.Fg(color.Magenta)(src.Name()))
	},
}
