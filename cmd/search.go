// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/inline"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/provider"
	"github.com/vodhound/vodhound/query"
	"github.com/vodhound/vodhound/source"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("keyword", "k", "", "The keyword to search for across the selected sites")
	lo.Must0(searchCmd.MarkFlagRequired("keyword"))

	searchCmd.Flags().IntP("page", "p", 1, "The result page to request from each site")
	searchCmd.Flags().StringSliceP("site", "S", []string{}, "Restrict the search to specific sites (repeatable)")
	searchCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	searchCmd.Flags().String("pick", "", "Select a single record from the aggregated results")
	searchCmd.Flags().Bool("include-play", false, "Resolve the picked record's play sources and print episode URLs")
	searchCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("keyword", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("site", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var sites []string

		for _, p := range provider.All() {
			sites = append(sites, p.ID)
		}

		return sites, cobra.ShellCompDirectiveNoFileComp
	}))
}

// searchCmd executes the application in non-interactive, scriptable inline mode.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search all sites at once in non-interactive, scriptable mode",
	Long: `Fan the keyword out to the selected sites and print the aggregated results.

Record selectors for the pick flag:
  first - first record in the aggregated list
  last - last record in the aggregated list
  [number] - select a record by index (starting from 0)
  [title] - select the first record whose title matches exactly

Without the pick flag every bucket is printed; with json the full
structured document is emitted instead.`,
	Example: `  vodhound search -k 流浪地球 --json
  vodhound search -k 三体 --pick first --include-play`,
	Run: func(cmd *cobra.Command, args []string) {
		var sources []source.Source

		siteFlag := lo.Must(cmd.Flags().GetStringSlice("site"))
		if len(siteFlag) == 0 {
			// A broken custom script must not take the whole sweep down.
			for _, p := range provider.All() {
				src, err := p.CreateSource()
				if err != nil {
					log.Warnf("skipping site %s: %s", p.Name, err)
					continue
				}

				sources = append(sources, src)
			}
		} else {
			for _, name := range siteFlag {
				p, ok := provider.Get(name)
				if !ok {
					handleErr(fmt.Errorf("site not found: %s", name))
				}

				src, err := p.CreateSource()
				handleErr(err)

				sources = append(sources, src)
			}
		}

		if len(sources) == 0 {
			handleErr(errors.New("no sites available"))
		}

		writer := io.Writer(os.Stdout)
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			f, err := filesystem.API().Create(output)
			handleErr(err)
			writer = f
		}

		pickFlag := lo.Must(cmd.Flags().GetString("pick"))
		picker := mo.None[inline.RecordPicker]()
		if pickFlag != "" {
			fn, err := parsePick(pickFlag)
			handleErr(err)
			picker = mo.Some(fn)
		}

		options := &inline.Options{
			Out:          writer,
			Sources:      sources,
			Keyword:      lo.Must(cmd.Flags().GetString("keyword")),
			Page:         lo.Must(cmd.Flags().GetInt("page")),
			Json:         lo.Must(cmd.Flags().GetBool("json")),
			IncludePlay:  lo.Must(cmd.Flags().GetBool("include-play")),
			RecordPicker: picker,
		}

		handleErr(inline.Run(cmd.Context(), options))
	},
}

// parsePick maps the pick flag value onto a record picker. Bare numbers are
// treated as indices, anything that is not a known selector as an exact title.
func parsePick(value string) (inline.RecordPicker, error) {
	switch value {
	case "first", "last":
		return inline.ParseRecordPicker(value, "")
	}

	if _, err := strconv.Atoi(value); err == nil {
		return inline.ParseRecordPicker("index", value)
	}

	return inline.ParseRecordPicker("exact", value)
}

func init() {
	searchCmd.AddCommand(searchSchemaCmd)
}

// searchSchemaCmd generates the JSON schema for the structured search output.
var searchSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for the structured search output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "record", "output", "pagestate", "stats":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		schema := reflector.Reflect(&inline.Output{})

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
