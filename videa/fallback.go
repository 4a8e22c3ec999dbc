package videa

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vres-cli/vres/source"
)

const maxTitleLen = 100

var (
	// mediaFileRe matches a JSON-ish field such as "file":"https:\/\/cdn\/a.mp4".
	mediaFileRe = regexp.MustCompile(`"[\w-]+"\s*:\s*"(https:(?:\\/|/){2}[^"\s]+?\.(?:mp4|m3u8|webm|mkv|mov))"`)
	titleStrip  = regexp.MustCompile(`[^\p{L}\p{N} ._-]`)
)

// fallback follows an error redirect and scrapes the page it points to.
func (v *Videa) fallback(ctx context.Context, redirect string, sink source.Sink) error {
	resp, err := v.client.Get(ctx, redirect, "", nil)
	if err != nil {
		return newStageError(StageFallback, wrapFetch(err), bodyOf(resp))
	}

	video, err := scrapeMediaPage(resp.Body, redirect)
	if err != nil {
		return newStageError(StageFallback, err, resp.Body)
	}

	sink.Video(video)
	return nil
}

// scrapeMediaPage extracts the first embedded media file URL of page.
func scrapeMediaPage(page, pageURL string) (*source.Video, error) {
	m := mediaFileRe.FindStringSubmatch(page)
	if m == nil {
		return nil, ErrFallback
	}

	title := defaultTitle
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(page)); err == nil {
		title = sanitizeTitle(doc.Find("title").First().Text())
	}

	return &source.Video{
		Source:  title,
		Title:   title,
		URL:     strings.ReplaceAll(m[1], `\/`, "/"),
		Referer: pageURL,
		Quality: source.QualityUnknown,
	}, nil
}

// sanitizeTitle keeps letters, digits, spaces, dots, dashes and underscores.
func sanitizeTitle(s string) string {
	s = strings.TrimSpace(titleStrip.ReplaceAllString(s, ""))

	if r := []rune(s); len(r) > maxTitleLen {
		s = strings.TrimSpace(string(r[:maxTitleLen]))
	}

	if s == "" {
		return defaultTitle
	}
	return s
}
