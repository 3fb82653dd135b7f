// Package cmd implements the command-line interface for vodhound.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/where"
)

// errUnknownKey suggests the registered key closest to the mistyped one.
func errUnknownKey(key string) error {
	distance := func(candidate string) int {
		return levenshtein.Distance(key, candidate)
	}

	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return distance(a) < distance(b)
	})

	return fmt.Errorf("unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key), style.Fg(color.Yellow)(closest))
}

func configKeyCompletions(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// configKeyArg resolves the key from the positional argument or --key flag,
// failing the command when neither is given.
func configKeyArg(cmd *cobra.Command, args []string) string {
	if len(args) >= 1 {
		return args[0]
	}

	if flagKey, _ := cmd.Flags().GetString("key"); flagKey != "" {
		return flagKey
	}

	handleErr(errors.New("key is required as an argument or --key flag"))
	return ""
}

func mustKnownKey(key string) {
	if _, ok := config.Default[key]; !ok {
		handleErr(errUnknownKey(key))
	}
}

// coerceValue converts raw CLI input to the type registered for the key.
func coerceValue(key string, raw []string) any {
	switch config.Default[key].Value.(type) {
	case int:
		parsed, err := strconv.Atoi(raw[0])
		if err != nil {
			handleErr(fmt.Errorf("invalid integer value: %s", raw[0]))
		}
		return parsed
	case bool:
		parsed, err := strconv.ParseBool(raw[0])
		if err != nil {
			handleErr(fmt.Errorf("invalid boolean value: %s", raw[0]))
		}
		return parsed
	case []string:
		return raw
	default:
		return raw[0]
	}
}

// saveConfig persists the in-memory state, creating the config file when it
// does not exist yet.
func saveConfig() {
	err := viper.WriteConfig()
	if err == nil {
		return
	}

	if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
		handleErr(viper.SafeWriteConfig())
		return
	}

	handleErr(err)
}

func configFilePath() string {
	return filepath.Join(where.Config(), constant.Vodhound+".toml")
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Keys to describe, all when omitted")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print machine-readable JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", configKeyCompletions)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe configuration fields",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			fields = lo.Values(config.Default)
		)

		if len(keys) > 0 {
			fields = lo.Map(keys, func(key string, _ int) config.Field {
				mustKnownKey(key)
				return config.Default[key]
			})
		}

		slices.SortFunc(fields, func(a, b config.Field) int {
			return strings.Compare(a.Key, b.Key)
		})

		if asJson {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		blocks := lo.Map(fields, func(f config.Field, _ int) string {
			return f.Pretty()
		})

		fmt.Print(strings.Join(blocks, "\n\n"))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", configKeyCompletions)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: configKeyCompletions,
	Run: func(cmd *cobra.Command, args []string) {
		key := configKeyArg(cmd, args)
		mustKnownKey(key)

		fmt.Println(viper.Get(key))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to update")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "Value to assign")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", configKeyCompletions)
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Assign a new value to a key",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: configKeyCompletions,
	Run: func(cmd *cobra.Command, args []string) {
		key := configKeyArg(cmd, args)
		mustKnownKey(key)

		var raw []string
		if len(args) >= 2 {
			raw = args[1:]
		} else if flagValue, _ := cmd.Flags().GetStringSlice("value"); len(flagValue) > 0 {
			raw = flagValue
		} else {
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		value := coerceValue(key, raw)
		viper.Set(key, value)
		saveConfig()

		fmt.Printf("%s set %s to %s\n", icon.Get(icon.Success),
			style.Fg(color.Magenta)(key), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "Key to restore to its default")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key to its default")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", configKeyCompletions)
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore keys to their default values",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			key = lo.Must(cmd.Flags().GetString("key"))
			all = lo.Must(cmd.Flags().GetBool("all"))
		)

		if all {
			for key, field := range config.Default {
				viper.Set(key, field.Value)
			}
		} else {
			mustKnownKey(key)
			viper.Set(key, config.Default[key].Value)
		}

		saveConfig()

		if all {
			fmt.Printf("%s reset all config values\n", icon.Get(icon.Success))
			return
		}

		fmt.Printf("%s reset %s to default value %s\n", icon.Get(icon.Success),
			style.Fg(color.Magenta)(key), style.Fg(color.Yellow)(fmt.Sprint(config.Default[key].Value)))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite the existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(path))
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf("%s wrote config to %s\n", icon.Get(icon.Success), path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFilePath()))
		fmt.Printf("%s deleted config\n", icon.Get(icon.Success))
	},
}
