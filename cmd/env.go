// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/where"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Show only variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Show only variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the supported environment variables",
	Long:  `Show every environment variable vodhound reads and its current process value.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
		)

		envs := make([]string, 0, len(config.EnvExposed)+1)
		envs = append(envs, where.EnvConfigPath)
		for _, key := range config.EnvExposed {
			envs = append(envs, strings.ToUpper(constant.Vodhound+"_"+config.EnvKeyReplacer.Replace(key)))
		}
		slices.Sort(envs)

		for _, env := range envs {
			value, present := os.LookupEnv(env)

			if setOnly && !present {
				continue
			}

			if unsetOnly && present {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Magenta).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
