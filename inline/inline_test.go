package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/vres-cli/vres/source"

	. "github.com/smartystreets/goconvey/convey"
)

type stub struct {
	videos []*source.Video
	err    error

	running, peak *atomic.Int32
}

func (s *stub) Name() string                { return "Stub" }
func (s *stub) MainURL() string             { return "https://stub.test" }
func (s *stub) Supports(rawURL string) bool { return strings.HasPrefix(rawURL, "https://stub.test/") }

func (s *stub) Resolve(ctx context.Context, req *source.Request, sink source.Sink) error {
	if s.running != nil {
		n := s.running.Add(1)
		defer s.running.Add(-1)
		for {
			p := s.peak.Load()
			if n <= p || s.peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
	}

	for _, v := range s.videos {
		copied := *v
		copied.Referer = req.URL
		sink.Video(&copied)
	}
	return s.err
}

func lookupOf(s *stub) Lookup {
	return func(rawURL string) (source.Extractor, bool) {
		if s.Supports(rawURL) {
			return s, true
		}
		return nil, false
	}
}

var testVideos = []*source.Video{
	{Source: "360p", URL: "https://cdn.test/360.mp4"},
	{Source: "720p", URL: "https://cdn.test/720.mp4"},
	{Source: "1080p", URL: "https://cdn.test/1080.mp4"},
}

func TestWriteJson(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Should produce valid JSON for an empty result list", func() {
			var buf bytes.Buffer
			So(writeJson(&buf, nil), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Results, ShouldHaveLength, 0)
			So(buf.String(), ShouldContainSubstring, `"results": []`)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a mix of pages", t, func() {
		var buf bytes.Buffer
		options := &Options{
			Out: &buf,
			URLs: []string{
				"https://stub.test/a",
				"https://elsewhere.test/b",
				"not a url",
				"https://stub.test/c",
			},
			Json:   true,
			Lookup: lookupOf(&stub{videos: testVideos[:2], err: errors.New("partial")}),
		}

		So(Run(context.Background(), options), ShouldBeNil)

		var output Output
		So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)

		Convey("Results keep input order", func() {
			So(output.Results, ShouldHaveLength, 4)
			So(output.Results[0].URL, ShouldEqual, "https://stub.test/a")
			So(output.Results[3].URL, ShouldEqual, "https://stub.test/c")
		})

		Convey("Supported pages carry videos and the diagnostic error", func() {
			r := output.Results[0]
			So(r.Extractor, ShouldEqual, "Stub")
			So(r.Videos, ShouldHaveLength, 2)
			So(r.Videos[0].Referer, ShouldEqual, "https://stub.test/a")
			So(r.Error, ShouldEqual, "partial")
		})

		Convey("Unsupported and invalid pages only carry an error", func() {
			So(output.Results[1].Videos, ShouldBeEmpty)
			So(output.Results[1].Error, ShouldContainSubstring, "no extractor")
			So(output.Results[2].Error, ShouldNotBeEmpty)
		})
	})

	Convey("Given plain output with a filter", t, func() {
		var buf bytes.Buffer
		filter, err := ParseVideosFilter("last")
		So(err, ShouldBeNil)

		options := &Options{
			Out:    &buf,
			URLs:   []string{"https://stub.test/a", "https://stub.test/b"},
			Filter: mo.Some(filter),
			Lookup: lookupOf(&stub{videos: testVideos}),
		}
		So(Run(context.Background(), options), ShouldBeNil)

		Convey("One media URL is printed per line", func() {
			So(buf.String(), ShouldEqual, "https://cdn.test/1080.mp4\nhttps://cdn.test/1080.mp4\n")
		})
	})

	Convey("Given more pages than workers", t, func() {
		var running, peak atomic.Int32
		urls := make([]string, 8)
		for i := range urls {
			urls[i] = "https://stub.test/" + string(rune('a'+i))
		}

		options := &Options{
			Out:         &bytes.Buffer{},
			URLs:        urls,
			Concurrency: 2,
			Lookup:      lookupOf(&stub{videos: testVideos[:1], running: &running, peak: &peak}),
		}
		So(Run(context.Background(), options), ShouldBeNil)

		Convey("No more than the limit run at once", func() {
			So(peak.Load(), ShouldBeLessThanOrEqualTo, 2)
			So(peak.Load(), ShouldBeGreaterThan, 0)
		})
	})
}

func TestParseVideosFilter(t *testing.T) {
	apply := func(description string) []string {
		filter, err := ParseVideosFilter(description)
		So(err, ShouldBeNil)

		videos, err := filter(testVideos)
		So(err, ShouldBeNil)

		names := make([]string, len(videos))
		for i, v := range videos {
			names[i] = v.Source
		}
		return names
	}

	Convey("ParseVideosFilter", t, func() {
		Convey("Should select by position", func() {
			So(apply("first"), ShouldResemble, []string{"360p"})
			So(apply("last"), ShouldResemble, []string{"1080p"})
			So(apply("all"), ShouldHaveLength, 3)
			So(apply("1"), ShouldResemble, []string{"720p"})
			So(apply("9"), ShouldBeEmpty)
		})

		Convey("Should select ranges", func() {
			So(apply("1-2"), ShouldResemble, []string{"720p", "1080p"})
			So(apply("0-99"), ShouldHaveLength, 3)
			So(apply("2-1"), ShouldBeEmpty)
		})

		Convey("Should select by source name", func() {
			So(apply("@720@"), ShouldResemble, []string{"720p"})
			So(apply("@P@"), ShouldHaveLength, 3)
		})

		Convey("Should reject garbage", func() {
			_, err := ParseVideosFilter("best")
			So(err, ShouldNotBeNil)
			_, err = ParseVideosFilter("@")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestReadURLs(t *testing.T) {
	Convey("ReadURLs", t, func() {
		urls, err := ReadURLs(strings.NewReader("https://a.test/1\n\n  # comment\n  https://b.test/2  \n"))
		So(err, ShouldBeNil)
		So(urls, ShouldResemble, []string{"https://a.test/1", "https://b.test/2"})
	})
}
