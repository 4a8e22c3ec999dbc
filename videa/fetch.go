package videa

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vres-cli/vres/log"
	"github.com/vres-cli/vres/network"
	"github.com/vres-cli/vres/source"
)

const playerPath = "/player"

// playerURL returns the URL of the embedded player. Player URLs are used as is,
// anything else is fetched and searched for a player iframe.
func (v *Videa) playerURL(ctx context.Context, req *source.Request, page *url.URL) (string, error) {
	if isPlayerPath(page.Path) {
		return req.URL, nil
	}

	resp, err := v.client.Get(ctx, req.URL, req.Referer.OrEmpty(), nil)
	if err != nil {
		return "", newStageError(StageLanding, wrapFetch(err), bodyOf(resp))
	}

	src, ok := findPlayerIframe(resp.Body)
	if !ok {
		log.WithField("url", req.URL).Debugf("no player iframe, using page url")
		return req.URL, nil
	}

	ref, err := url.Parse(src)
	if err != nil {
		return req.URL, nil
	}

	return page.ResolveReference(ref).String(), nil
}

// sessionKey fetches the player page and derives the session key from its nonce.
func (v *Videa) sessionKey(ctx context.Context, playerURL, referer string) (Key, error) {
	resp, err := v.client.Get(ctx, playerURL, referer, nil)
	if err != nil {
		return "", newStageError(StagePlayer, wrapFetch(err), bodyOf(resp))
	}

	nonce, err := ExtractNonce(resp.Body)
	if err != nil {
		return "", newStageError(StagePlayer, err, resp.Body)
	}

	key, err := DeriveKey(nonce)
	if err != nil {
		return "", newStageError(StagePlayer, err, resp.Body)
	}

	return key, nil
}

// findPlayerIframe returns the src of the first iframe pointing at a player endpoint.
func findPlayerIframe(page string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", false
	}

	var found string
	doc.Find("iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		u, err := url.Parse(src)
		if err != nil || !isPlayerPath(u.Path) {
			return true
		}
		found = src
		return false
	})

	return found, found != ""
}

func isPlayerPath(p string) bool {
	return p == playerPath || strings.HasPrefix(p, playerPath+"/")
}

// videoID reads the v parameter from the page URL, then from the player URL.
func videoID(page *url.URL, playerURL string) string {
	if id := page.Query().Get("v"); id != "" {
		return id
	}

	u, err := url.Parse(playerURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}

func wrapFetch(err error) error {
	return fmt.Errorf("%w: %v", ErrManifestFetch, err)
}

func bodyOf(resp *network.Response) string {
	if resp == nil {
		return ""
	}
	return resp.Body
}
