// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/tui"
	"github.com/vodhound/vodhound/util"
	"github.com/vodhound/vodhound/version"
	"github.com/vodhound/vodhound/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
	rootCmd.Flags().BoolP("resume", "r", false, "Resume the most recent search session")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon set to use (emoji, kaomoji, plain, squares, nerd)")
	completeIcons := func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", completeIcons))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	// Every help screen doubles as a version-check touchpoint.
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		originalHelp(cmd, args)
		version.Notify()
	})

	// Scratch files from the previous run are swept in the background.
	go func() { _ = util.Delete(where.Temp()) }()
}

// rootCmd is the bare vodhound invocation: the full-screen interactive UI.
var rootCmd = &cobra.Command{
	Use:   constant.Vodhound,
	Short: "A multi-source video-on-demand search client for the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A multi-source video-on-demand search client for the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(tui.Run(&tui.Options{
			Resume: lo.Must(cmd.Flags().GetBool("resume")),
		}))
	},
}

// Execute runs the CLI, installing colored help output first when enabled.
func Execute() {
	if viper.GetBool(key.CliColored) {
		theme := cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		}
		cc.Init(&theme)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// handleErr logs err and exits with a failure banner. Nil is a no-op.
func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)
	fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}
