// Package extractor manages the built-in hosting-page extractors.
package extractor

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/key"
	"github.com/vres-cli/vres/log"
	"github.com/vres-cli/vres/source"
	"github.com/vres-cli/vres/videa"
)

// Entry describes a registered extractor.
type Entry struct {
	ID     string
	Name   string
	create func() source.Extractor

	once      sync.Once
	extractor source.Extractor
}

func newEntry(name string, create func() source.Extractor) *Entry {
	return &Entry{
		ID:     strings.ToLower(name),
		Name:   name,
		create: create,
	}
}

func (e *Entry) String() string {
	return e.Name
}

// Extractor returns the extractor instance, creating it on first use.
func (e *Entry) Extractor() source.Extractor {
	e.once.Do(func() {
		e.extractor = e.create()
	})
	return e.extractor
}

var builtins = sync.OnceValue(func() []*Entry {
	return []*Entry{
		newEntry(videa.Name, func() source.Extractor {
			return videa.New(videa.WithBaseURL(viper.GetString(key.VideaBaseURL)))
		}),
	}
})

// Builtins returns built-in extractors.
func Builtins() []*Entry {
	return builtins()
}

// Get finds an extractor by name or ID. Misspelled names fall back to the closest fuzzy match.
func Get(name string) (*Entry, bool) {
	return find(Builtins(), name)
}

func find(entries []*Entry, name string) (*Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) || e.ID == name {
			return e, true
		}
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return nil, false
	}

	sort.Sort(ranks)
	return entries[ranks[0].OriginalIndex], true
}

// ForURL returns the first extractor that supports rawURL.
func ForURL(rawURL string) (source.Extractor, bool) {
	return forURL(Builtins(), rawURL)
}

func forURL(entries []*Entry, rawURL string) (source.Extractor, bool) {
	for _, e := range entries {
		if ex := e.Extractor(); ex.Supports(rawURL) {
			return ex, true
		}
	}
	return nil, false
}

// counter counts videos passing through to the wrapped sink.
type counter struct {
	source.Sink
	videos atomic.Int64
}

func (c *counter) Video(v *source.Video) {
	c.videos.Add(1)
	c.Sink.Video(v)
}

// Resolve runs ex best-effort: failures are logged and swallowed, and the number
// of emitted videos is returned.
func Resolve(ctx context.Context, ex source.Extractor, req *source.Request, sink source.Sink) int {
	c := &counter{Sink: sink}
	if err := ex.Resolve(ctx, req, c); err != nil {
		log.WithField("extractor", ex.Name()).Errorf("%s: %v", req.URL, err)
	}
	return int(c.videos.Load())
}
