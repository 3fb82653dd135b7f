// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version string")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()
		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), buildInfo()))
	},
}

// buildInfo collects the values stamped in at link time plus the runtime
// platform.
func buildInfo() map[string]string {
	return map[string]string{
		"App":      constant.Vodhound,
		"Version":  constant.Version,
		"Revision": constant.Revision,
		"BuiltAt":  strings.TrimSpace(constant.BuiltAt),
		"BuiltBy":  constant.BuiltBy,
		"Platform": runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Magenta),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Git Commit" }}  {{ bold .Revision }}
  {{ faint "Build Date" }}  {{ bold .BuiltAt }}
  {{ faint "Built By" }}    {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .Platform }}
`))
