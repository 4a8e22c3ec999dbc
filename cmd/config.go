package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/config"
	"github.com/vres-cli/vres/icon"
	"github.com/vres-cli/vres/style"
)

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Without(lo.Keys(config.Default), args...), cobra.ShellCompDirectiveNoFileComp
}

func completionConfigKey(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completionConfigKeys(cmd, args, toComplete)
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)

	configShowCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON array")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key to its default value")

	configShowCmd.SetOut(os.Stdout)
	configGetCmd.SetOut(os.Stdout)
	configSetCmd.SetOut(os.Stdout)
	configResetCmd.SetOut(os.Stdout)
}

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change resolver settings",
}

// configShowCmd prints the description, value and default of configuration keys.
var configShowCmd = &cobra.Command{
	Use:               "show [key...]",
	Short:             "Describe configuration keys, all of them when none is given",
	Aliases:           []string{"info"},
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if len(args) > 0 {
			fields = lo.Map(args, func(k string, _ int) config.Field {
				field, err := config.Lookup(k)
				handleErr(err)
				return field
			})
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			data, err := json.MarshalIndent(fields, "", "  ")
			handleErr(err)
			cmd.Println(string(data))
			return
		}

		for i, field := range fields {
			cmd.Println(field.Pretty())
			if i < len(fields)-1 {
				cmd.Println()
			}
		}
	},
}

// configGetCmd prints the current value of a key.
var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a configuration key",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKey,
	Run: func(cmd *cobra.Command, args []string) {
		_, err := config.Lookup(args[0])
		handleErr(err)

		cmd.Println(viper.Get(args[0]))
	},
}

// configSetCmd writes a new value for a key to the config file.
var configSetCmd = &cobra.Command{
	Use:               "set <key> <value...>",
	Short:             "Change a configuration key and save it",
	Example:           "  vres config set resolver.timeout 30\n  vres config set resolver.tls_fingerprint true",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKey,
	Run: func(cmd *cobra.Command, args []string) {
		field, err := config.Lookup(args[0])
		handleErr(err)

		value, err := field.Parse(args[1:])
		handleErr(err)

		handleErr(config.Set(field.Key, value))
		cmd.Printf("%s set %s to %s\n",
			style.Fg(style.SuccessColor)(icon.Get(icon.Success)),
			style.Fg(style.AccentColor)(field.Key),
			style.Bold(fmt.Sprint(value)),
		)
	},
}

// configResetCmd restores keys to their defaults.
var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Restore configuration keys to their defaults",
	ValidArgsFunction: completionConfigKeys,
	PreRun: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		switch {
		case all && len(args) > 0:
			handleErr(fmt.Errorf("--all cannot be combined with keys"))
		case !all && len(args) == 0:
			handleErr(fmt.Errorf("pass the keys to reset or --all"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(config.Reset(args...))

		what := "all config values"
		if len(args) > 0 {
			what = style.Fg(style.AccentColor)(fmt.Sprint(args))
		}
		cmd.Printf("%s reset %s\n", style.Fg(style.SuccessColor)(icon.Get(icon.Success)), what)
	},
}
