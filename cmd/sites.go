// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/probe"
	"github.com/vodhound/vodhound/provider"
	"github.com/vodhound/vodhound/site"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/util"
	"github.com/vodhound/vodhound/where"
)

func init() {
	rootCmd.AddCommand(sitesCmd)
}

// sitesCmd provides a parent command for managing upstream collection sites.
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage the collection site registry and custom adapters",
}

// siteIDCompletion completes site ids from the registry.
func siteIDCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	registry, err := site.Open()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(registry.List(), func(s *site.Site, _ int) string {
		return s.ID
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	sitesCmd.AddCommand(sitesListCmd)

	sitesListCmd.Flags().BoolP("raw", "r", false, "Suppress headers and print bare identifiers")
	sitesListCmd.Flags().BoolP("custom", "c", false, "Display only user-installed custom Lua adapters")
	sitesListCmd.Flags().BoolP("builtin", "b", false, "Display only registry-backed collection sites")

	sitesListCmd.MarkFlagsMutuallyExclusive("custom", "builtin")
	sitesListCmd.SetOut(os.Stdout)
}

// sitesListCmd displays the registered collection sites and custom adapters.
var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display the registered collection sites and their status",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			raw         = lo.Must(cmd.Flags().GetBool("raw"))
			onlyBuiltin = lo.Must(cmd.Flags().GetBool("builtin"))
			onlyCustom  = lo.Must(cmd.Flags().GetBool("custom"))
			header      = style.New().Foreground(color.HiBlue).Bold(true).Render
		)

		if !onlyCustom {
			registry, err := site.Open()
			handleErr(err)

			if !raw {
				cmd.Println(header("Sites:"))
			}

			for _, s := range registry.List() {
				if raw {
					cmd.Println(s.ID)
					continue
				}

				state := style.Fg(color.Green)("on ")
				if !s.Enabled {
					state = style.Faint("off")
				}

				cmd.Printf("%s %s %s %s\n", state, style.Bold(s.ID), s.Name, style.Faint(s.BaseURL))
			}
		}

		if onlyBuiltin {
			return
		}

		if !onlyCustom && !raw {
			cmd.Println()
		}

		if !raw {
			cmd.Println(header("Custom:"))
		}

		for _, p := range provider.Customs() {
			if raw {
				cmd.Println(p.Name)
				continue
			}

			cmd.Printf("%s %s\n", icon.Get(icon.Lua), p.Name)
		}
	},
}

func init() {
	sitesCmd.AddCommand(sitesToggleCmd)

	sitesToggleCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	sitesToggleCmd.ValidArgsFunction = siteIDCompletion
}

// sitesToggleCmd flips the enabled flag of a registry site.
var sitesToggleCmd = &cobra.Command{
	Use:   "toggle <site-id>",
	Short: "Enable or disable a collection site",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := site.Open()
		handleErr(err)

		s, err := registry.Lookup(args[0])
		handleErr(err)

		confirmed := lo.Must(cmd.Flags().GetBool("yes"))
		if !confirmed {
			verb := "Enable"
			if s.Enabled {
				verb = "Disable"
			}

			prompt := &survey.Confirm{
				Message: fmt.Sprintf("%s %s?", verb, s.Name),
				Default: false,
			}
			handleErr(survey.AskOne(prompt, &confirmed))
		}

		if !confirmed {
			return
		}

		enabled, err := registry.Toggle(s.ID)
		handleErr(err)

		state := style.Fg(color.Green)("enabled")
		if !enabled {
			state = style.Faint("disabled")
		}

		fmt.Printf("%s %s is now %s\n", icon.Get(icon.Success), style.Bold(s.Name), state)
	},
}

func init() {
	sitesCmd.AddCommand(sitesProbeCmd)

	sitesProbeCmd.ValidArgsFunction = siteIDCompletion
	sitesProbeCmd.SetOut(os.Stdout)
}

// sitesProbeCmd checks reachability and latency of one or all enabled sites.
var sitesProbeCmd = &cobra.Command{
	Use:   "probe [site-id]",
	Short: "Check reachability and latency of collection sites",
	Long: `Send a real search request to one site, or to every enabled site at once,
and report latency and response size per site.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := site.Open()
		handleErr(err)

		var report probe.Report
		if len(args) == 1 {
			s, err := registry.Lookup(args[0])
			handleErr(err)

			result := probe.One(cmd.Context(), s)
			report = probe.Report{Total: 1, Results: []probe.Result{result}}
			if result.OK {
				report.Succeeded = 1
			} else {
				report.Failed = 1
			}
		} else {
			report = probe.All(cmd.Context(), registry.Enabled())
		}

		for _, r := range report.Results {
			if r.OK {
				cmd.Printf("%s %s %s %s\n",
					icon.Get(icon.Success),
					style.Bold(r.Name),
					style.Fg(color.Green)(r.Elapsed.Round(time.Millisecond).String()),
					style.Faint(fmt.Sprintf("%s via %q", util.Quantify(r.ResponseSize, "byte", "bytes"), r.Keyword)),
				)
				continue
			}

			cmd.Printf("%s %s %s\n",
				icon.Get(icon.Fail),
				style.Bold(r.Name),
				style.Fg(color.Red)(r.Err.Error()),
			)
		}

		cmd.Printf("\n%s %d/%d sites reachable\n", icon.Get(icon.Site), report.Succeeded, report.Total)
	},
}

func init() {
	sitesCmd.AddCommand(sitesNewCmd)

	sitesNewCmd.Flags().StringP("url", "u", "https://example.com", "The base URL of the site the adapter targets")
	sitesNewCmd.SetOut(os.Stdout)
}

// sitesNewCmd scaffolds a boilerplate Lua adapter script.
var sitesNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new Lua adapter script from the built-in template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		data := struct {
			Name           string
			URL            string
			SearchVideosFn string
			VideoDetailFn  string
			Author         string
		}{
			Name:           args[0],
			URL:            lo.Must(cmd.Flags().GetString("url")),
			SearchVideosFn: constant.SearchVideosFn,
			VideoDetailFn:  constant.VideoDetailFn,
			Author:         author,
		}

		tmpl := lo.Must(template.New("adapter").Funcs(template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}).Parse(constant.SourceTemplate))

		target := filepath.Join(where.Sources(), util.SanitizeFilename(data.Name)+provider.CustomProviderExtension)
		if lo.Must(filesystem.API().Exists(target)) {
			handleErr(fmt.Errorf("adapter already exists: %s", target))
		}

		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, data))
		cmd.Println(target)
	},
}

func init() {
	sitesCmd.AddCommand(sitesRemoveCmd)

	sitesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Specify the name of the custom adapter(s) to remove")
	lo.Must0(sitesRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		scripts, err := filesystem.API().ReadDir(where.Sources())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.FilterMap(scripts, func(item os.FileInfo, _ int) (string, bool) {
			name := item.Name()
			if !strings.HasSuffix(name, provider.CustomProviderExtension) {
				return "", false
			}

			return util.FileStem(filepath.Base(name)), true
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// sitesRemoveCmd uninstalls custom Lua adapter scripts.
var sitesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Permanently remove custom Lua adapters",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+provider.CustomProviderExtension)
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sitesCmd.AddCommand(sitesSchemaCmd)
}

// sitesSchemaCmd generates the JSON schema for the sites registry file.
var sitesSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for the sites registry file",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		schema := reflector.Reflect(&site.File{})

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
