package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vres-cli/vres/extractor"
	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/icon"
	"github.com/vres-cli/vres/inline"
	"github.com/vres-cli/vres/log"
	"github.com/vres-cli/vres/open"
	"github.com/vres-cli/vres/source"
	"github.com/vres-cli/vres/style"
	"github.com/vres-cli/vres/util"
	"github.com/vres-cli/vres/where"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("referer", "r", "", "Referer sent with the first request")
	resolveCmd.Flags().StringP("extractor", "e", "", "Use this extractor instead of picking one by URL")
	resolveCmd.Flags().StringP("filter", "f", "", "Select videos: first, last, all, N, A-B or @substring@")
	resolveCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON array")
	resolveCmd.Flags().BoolP("raw", "R", false, "Print only media URLs, one per line")
	resolveCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
	resolveCmd.Flags().BoolP("open", "O", false, "Open the first selected video with the default handler")

	resolveCmd.MarkFlagsMutuallyExclusive("json", "raw")

	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("extractor", completionExtractors))
	resolveCmd.SetOut(os.Stdout)
}

// resolveCmd resolves a single hosting page.
var resolveCmd = &cobra.Command{
	Use:     "resolve <url>",
	Short:   "Resolve a hosting page into direct media URLs",
	Example: resolveExample,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rawURL := args[0]

		req, err := source.NewRequest(rawURL, lo.Must(cmd.Flags().GetString("referer")))
		handleErr(err)

		ex := pickExtractor(lo.Must(cmd.Flags().GetString("extractor")), rawURL)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		erase := util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), style.Fg(style.LinkColor)(rawURL)))
		sink := &source.Collector{}
		n := extractor.Resolve(ctx, ex, req, sink)
		erase()

		if n == 0 {
			msg := fmt.Sprintf("no playable videos found for %s", rawURL)
			if log.Enabled() {
				msg += fmt.Sprintf(" (details in %s)", where.Logs())
			}
			stop()
			handleErr(errors.New(msg))
		}

		videos := sink.Videos()
		if filter := lo.Must(cmd.Flags().GetString("filter")); filter != "" {
			fn, err := inline.ParseVideosFilter(filter)
			handleErr(err)

			videos, err = fn(videos)
			handleErr(err)

			if len(videos) == 0 {
				fmt.Fprintf(os.Stderr, "%s filter %s matched none of %s\n",
					style.Fg(style.WarningColor)(icon.Get(icon.Warn)),
					style.Bold(filter),
					util.Quantify(n, "video", "videos"),
				)
			}
		}

		if lo.Must(cmd.Flags().GetBool("open")) && len(videos) > 0 {
			handleErr(open.Start(videos[0].URL))
		}

		var out string
		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			data, err := json.MarshalIndent(videos, "", "  ")
			handleErr(err)
			out = string(data) + "\n"
		case lo.Must(cmd.Flags().GetBool("raw")):
			var b strings.Builder
			for _, v := range videos {
				b.WriteString(v.URL + "\n")
			}
			out = b.String()
		default:
			out = prettyVideos(ex.Name(), videos)
		}

		if path := lo.Must(cmd.Flags().GetString("output")); path != "" {
			handleErr(filesystem.WriteAtomic(path, []byte(out)))
			cmd.Printf("%s wrote %s to %s\n",
				style.Fg(style.SuccessColor)(icon.Get(icon.Success)),
				util.Quantify(len(videos), "video", "videos"),
				path,
			)
			return
		}

		cmd.Print(out)
	},
}

const resolveExample = `  vres resolve "https://videa.hu/videok/film-animacio/example-abc123"
  vres resolve -R -f first "https://videa.hu/player?v=abc123"`

func pickExtractor(name, rawURL string) source.Extractor {
	if name != "" {
		e, ok := extractor.Get(name)
		if !ok {
			handleErr(fmt.Errorf("extractor not found: %s", name))
		}
		return e.Extractor()
	}

	ex, ok := extractor.ForURL(rawURL)
	if !ok {
		handleErr(fmt.Errorf("no extractor supports %s", rawURL))
	}
	return ex
}

func prettyVideos(extractorName string, videos []*source.Video) string {
	var (
		b        strings.Builder
		truncate = style.Truncate(util.TerminalWidth() - 2)
	)

	fmt.Fprintf(&b, "%s %s %s\n\n",
		icon.Get(icon.Extractor),
		style.Bold(extractorName),
		style.Faint(util.Quantify(len(videos), "video", "videos")),
	)

	for i, v := range videos {
		fmt.Fprintf(&b, "%s %s %s\n", icon.Get(icon.Video), style.Fg(style.AccentColor)(v.Source), style.Faint(v.Title))
		fmt.Fprintf(&b, "  %s\n", truncate(v.URL))
		fmt.Fprintf(&b, "  %s\n", style.Faint(truncate("referer "+v.Referer)))

		if i < len(videos)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
