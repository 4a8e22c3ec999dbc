package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vres-cli/vres/color"
	"github.com/vres-cli/vres/extractor"
	"github.com/vres-cli/vres/style"
)

func completionExtractors(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(extractor.Builtins(), func(e *extractor.Entry, _ int) string {
		return e.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(extractorsCmd)
}

// extractorsCmd provides a parent command for inspecting extractors.
var extractorsCmd = &cobra.Command{
	Use:   "extractors",
	Short: "Inspect the registered hosting-page extractors",
}

func init() {
	extractorsCmd.AddCommand(extractorsListCmd)

	extractorsListCmd.Flags().BoolP("raw", "r", false, "Suppress header and metadata descriptions in the output")
	extractorsListCmd.SetOut(os.Stdout)
}

// extractorsListCmd displays all registered extractors.
var extractorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display all registered extractors",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		if !raw {
			cmd.Println(style.New().Foreground(color.HiYellow).Bold(true).Render("Builtin:"))
		}

		for _, e := range extractor.Builtins() {
			if raw {
				cmd.Println(e.Name)
				continue
			}
			cmd.Printf("%s %s\n", e.Name, style.Faint(e.Extractor().MainURL()))
		}
	},
}
