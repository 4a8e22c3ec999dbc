// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vres-cli/vres/source"
	"github.com/vres-cli/vres/util"
)

type (
	VideosFilter func([]*source.Video) ([]*source.Video, error)
	// Lookup picks the extractor for a page URL.
	Lookup func(rawURL string) (source.Extractor, bool)
)

type Options struct {
	Out         io.Writer
	URLs        []string
	Referer     mo.Option[string]
	Json        bool
	Concurrency int
	Filter      mo.Option[VideosFilter]
	Lookup      Lookup
}

// ParseVideosFilter parses a filter description.
// Format: "first", "last", "all", "5", "1-5", "@720p@"
func ParseVideosFilter(description string) (VideosFilter, error) {
	switch description {
	case "first":
		return func(videos []*source.Video) ([]*source.Video, error) {
			if len(videos) == 0 {
				return videos, nil
			}
			return videos[:1], nil
		}, nil
	case "last":
		return func(videos []*source.Video) ([]*source.Video, error) {
			if len(videos) == 0 {
				return videos, nil
			}
			return videos[len(videos)-1:], nil
		}, nil
	case "all":
		return func(videos []*source.Video) ([]*source.Video, error) {
			return videos, nil
		}, nil
	}

	// Range: "1-5"
	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(videos []*source.Video) ([]*source.Video, error) {
				s := util.Min(start, uint64(len(videos)))
				e := util.Min(end+1, uint64(len(videos)))
				if s > e {
					return []*source.Video{}, nil
				}
				return videos[s:e], nil
			}, nil
		}
	}

	// Substring of the source name: "@text@"
	if len(description) >= 2 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(videos []*source.Video) ([]*source.Video, error) {
			return lo.Filter(videos, func(v *source.Video, _ int) bool {
				return strings.Contains(strings.ToLower(v.Source), sub)
			}), nil
		}, nil
	}

	// Single index: "5"
	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(videos []*source.Video) ([]*source.Video, error) {
			if uint64(len(videos)) <= idx {
				return []*source.Video{}, nil
			}
			return []*source.Video{videos[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid videos filter: %s", description)
}

// ReadURLs reads one page URL per line. Blank lines and lines starting with # are skipped.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	return urls, scanner.Err()
}
