// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/util"
	"github.com/vodhound/vodhound/where"
)

// clearEntry is one on-disk artifact the clear command can remove.
type clearEntry struct {
	label string
	flag  string
	short mo.Option[string]
	path  func() string
}

var clearEntries = []clearEntry{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"session snapshot", "session", mo.Some("s"), where.Session},
	{"query history", "queries", mo.Some("q"), where.Queries},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, entry := range clearEntries {
		help := "clear " + entry.label
		if short, ok := entry.short.Get(); ok {
			clearCmd.Flags().BoolP(entry.flag, short, false, help)
		} else {
			clearCmd.Flags().Bool(entry.flag, false, help)
		}
	}

	clearCmd.Flags().BoolP("all", "a", false, "clear every artifact at once")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached artifacts, the session snapshot or the query history",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))

		var cleared bool
		for _, entry := range clearEntries {
			if !all && !lo.Must(cmd.Flags().GetBool(entry.flag)) {
				continue
			}
			cleared = true
			label := util.Capitalize(entry.label)

			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), label))
			err := filesystem.API().RemoveAll(entry.path())
			erase()
			handleErr(err)

			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), label)
		}

		if !cleared {
			handleErr(cmd.Help())
		}
	},
}
