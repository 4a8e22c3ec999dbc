// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"github.com/vres-cli/vres/extractor"
	"github.com/vres-cli/vres/key"
	"github.com/vres-cli/vres/log"
	"github.com/vres-cli/vres/source"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Run resolves every URL independently, at most Concurrency at a time, and writes
// the results in input order.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Lookup == nil {
		options.Lookup = extractor.ForURL
	}

	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = viper.GetInt(key.ResolverConcurrency)
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make([]*Result, len(options.URLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range options.URLs {
		g.Go(func() error {
			results[i] = resolve(ctx, u, options)
			return nil
		})
	}
	_ = g.Wait()

	if options.Filter.IsPresent() {
		filter := options.Filter.MustGet()
		for _, r := range results {
			filtered, err := filter(r.Videos)
			if err != nil {
				return err
			}
			r.Videos = filtered
		}
	}

	if options.Json {
		return writeJson(options.Out, results)
	}

	for _, r := range results {
		if r.Error != "" {
			log.Warnf("%s: %s", r.URL, r.Error)
		}
		for _, v := range r.Videos {
			if _, err := fmt.Fprintln(options.Out, v.URL); err != nil {
				return err
			}
		}
	}

	return nil
}

func resolve(ctx context.Context, rawURL string, options *Options) *Result {
	result := &Result{
		URL:    rawURL,
		Videos: []*source.Video{},
	}

	req, err := source.NewRequest(rawURL, options.Referer.OrEmpty())
	if err != nil {
		result.Error = err.Error()
		return result
	}

	ex, ok := options.Lookup(rawURL)
	if !ok {
		result.Error = "no extractor supports this url"
		return result
	}
	result.Extractor = ex.Name()

	sink := &source.Collector{}
	if err := ex.Resolve(ctx, req, sink); err != nil {
		result.Error = err.Error()
	}

	if videos := sink.Videos(); videos != nil {
		result.Videos = videos
	}
	result.Subtitles = sink.Subtitles()

	return result
}

func writeJson(out io.Writer, results []*Result) error {
	data, err := asJson(results)
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
