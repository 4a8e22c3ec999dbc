// Package cmd implements the command-line interface for vres.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/color"
	"github.com/vres-cli/vres/constant"
	"github.com/vres-cli/vres/icon"
	"github.com/vres-cli/vres/key"
	"github.com/vres-cli/vres/log"
	"github.com/vres-cli/vres/style"
	"github.com/vres-cli/vres/version"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Int("timeout", 0, "Per-request timeout in seconds")
	lo.Must0(viper.BindPFlag(key.ResolverTimeout, rootCmd.PersistentFlags().Lookup("timeout")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd defines the entry point for the vres application.
var rootCmd = &cobra.Command{
	Use:   constant.Vres,
	Short: "Resolve video hosting pages into direct media URLs",
	Long: style.Title(constant.Vres) + "\n\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Resolve video hosting pages into direct media URLs"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		_ = cmd.Help()
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(style.ErrorColor)(icon.Get(icon.Fail)), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
