// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/where"
)

// whereEntry is one resolvable application directory and its flag spelling.
type whereEntry struct {
	label   string
	resolve func() string
	flag    string
	short   mo.Option[string]
	hidden  bool
}

var whereDirs = []*whereEntry{
	{"Config", where.Config, "config", mo.Some("c"), false},
	{"Sources", where.Sources, "sources", mo.Some("s"), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"Cache", where.Cache, "cache", mo.None[string](), false},
	{"Temp", where.Temp, "temp", mo.None[string](), true},
	{"Session", where.Session, "session", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, entry := range whereDirs {
		if short, ok := entry.short.Get(); ok {
			whereCmd.Flags().BoolP(entry.flag, short, false, entry.label+" path")
		} else {
			whereCmd.Flags().Bool(entry.flag, false, entry.label+" path")
		}

		if entry.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(entry.flag))
		}
	}

	flagNames := lo.Map(whereDirs, func(e *whereEntry, _ int) string { return e.flag })
	whereCmd.MarkFlagsMutuallyExclusive(flagNames...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where vodhound keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		for _, entry := range whereDirs {
			if lo.Must(cmd.Flags().GetBool(entry.flag)) {
				cmd.Println(entry.resolve())
				return
			}
		}

		header := style.New().Bold(true).Foreground(color.HiMagenta).Render

		visible := lo.Filter(whereDirs, func(e *whereEntry, _ int) bool {
			return !e.hidden
		})

		for i, entry := range visible {
			cmd.Printf("%s %s\n", header(entry.label+"?"), style.Fg(color.Yellow)("--"+entry.flag))
			cmd.Println(entry.resolve())

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
