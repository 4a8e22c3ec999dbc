package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/inline"
	"github.com/vres-cli/vres/util"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("input", "i", "", "Read page URLs from a file, one per line (- for stdin)")
	inlineCmd.Flags().StringP("referer", "r", "", "Referer sent with the first request of every page")
	inlineCmd.Flags().StringP("filter", "f", "", "Criteria for selecting videos of every page")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().IntP("concurrency", "c", 0, "Maximum number of pages resolved at once")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

// inlineCmd resolves many pages in non-interactive, scriptable mode.
var inlineCmd = &cobra.Command{
	Use:   "inline [url...]",
	Short: "Resolve many hosting pages in non-interactive, scriptable mode",
	Long: `Resolve every given page concurrently and print the results in input order.

Video selectors:
  first - first video of every page
  last - last video of every page
  all - all videos
  [number] - select video by index (starting from 0)
  [from]-[to] - select videos by range
  @[substring]@ - select videos by source name substring

Plain output prints one media URL per line. Failures are reported in the log,
or in the error field of the JSON output.`,
	Run: func(cmd *cobra.Command, args []string) {
		urls := args

		if input := lo.Must(cmd.Flags().GetString("input")); input != "" {
			var r io.Reader = os.Stdin
			if input != "-" {
				f, err := filesystem.API().Open(input)
				handleErr(err)
				defer util.Ignore(f.Close)
				r = f
			}

			read, err := inline.ReadURLs(r)
			handleErr(err)
			urls = append(urls, read...)
		}

		if len(urls) == 0 {
			handleErr(errors.New("no urls given"))
		}

		filter := mo.None[inline.VideosFilter]()
		if description := lo.Must(cmd.Flags().GetString("filter")); description != "" {
			fn, err := inline.ParseVideosFilter(description)
			handleErr(err)
			filter = mo.Some(fn)
		}

		referer := mo.None[string]()
		if r := lo.Must(cmd.Flags().GetString("referer")); r != "" {
			referer = mo.Some(r)
		}

		output := lo.Must(cmd.Flags().GetString("output"))
		var buf bytes.Buffer
		var writer io.Writer = os.Stdout
		if output != "" {
			writer = &buf
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		options := &inline.Options{
			Out:         writer,
			URLs:        urls,
			Referer:     referer,
			Json:        lo.Must(cmd.Flags().GetBool("json")),
			Concurrency: lo.Must(cmd.Flags().GetInt("concurrency")),
			Filter:      filter,
		}

		handleErr(inline.Run(ctx, options))

		if output != "" {
			handleErr(filesystem.WriteAtomic(output, buf.Bytes()))
		}
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

// inlineSchemaCmd generates the JSON schema of the structured inline output.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the structured inline output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "video", "subtitle", "result", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}
