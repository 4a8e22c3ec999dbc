// Package videa resolves videa.hu hosting pages into direct media URLs.
//
// Resolution is a strict pipeline of HTTP round trips: the landing page yields the
// player URL, the player page yields a scrambled session key, and the key unlocks
// the XML manifest listing the media sources. A manifest that carries an error
// redirect instead of sources is followed once and scraped for a media file.
package videa

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/vres-cli/vres/log"
	"github.com/vres-cli/vres/network"
	"github.com/vres-cli/vres/source"
)

const (
	// Name identifies the extractor.
	Name = "Videa"
	// DefaultBaseURL is the origin serving the manifest endpoint.
	DefaultBaseURL = "https://videa.hu"

	manifestPath    = "/player/xml"
	signatureHeader = "X-Videa-XS"
	seedLen         = 8
	seedAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Getter performs GET requests. *network.Client implements it.
type Getter interface {
	Get(ctx context.Context, rawURL, referer string, query url.Values) (*network.Response, error)
}

// Videa is the videa.hu extractor. It keeps no per-resolution state, so a single
// value serves concurrent resolutions.
type Videa struct {
	client  Getter
	baseURL string
	hosts   []string
	seed    func() string
}

// Option configures a Videa extractor.
type Option func(*Videa)

// WithClient sets the HTTP client.
func WithClient(client Getter) Option {
	return func(v *Videa) {
		v.client = client
	}
}

// WithBaseURL points the manifest endpoint and the supported host at baseURL.
// An empty baseURL keeps the default.
func WithBaseURL(baseURL string) Option {
	return func(v *Videa) {
		if baseURL != "" {
			v.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithSeed replaces the random session seed generator.
func WithSeed(seed func() string) Option {
	return func(v *Videa) {
		v.seed = seed
	}
}

// New returns a videa extractor using the default network client unless told otherwise.
func New(options ...Option) *Videa {
	v := &Videa{
		baseURL: DefaultBaseURL,
		seed:    randomSeed,
	}
	for _, option := range options {
		option(v)
	}

	if v.client == nil {
		v.client = network.Default()
	}

	v.hosts = []string{"videakid.hu"}
	if u, err := url.Parse(v.baseURL); err == nil && u.Hostname() != "" {
		v.hosts = append(v.hosts, u.Hostname())
	}

	return v
}

func (v *Videa) Name() string {
	return Name
}

func (v *Videa) MainURL() string {
	return v.baseURL
}

// Supports reports whether rawURL belongs to a videa host.
func (v *Videa) Supports(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range v.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Resolve emits every source listed by the page's manifest, or the single media file
// found behind its error redirect. Failures are logged with their stage and returned.
func (v *Videa) Resolve(ctx context.Context, req *source.Request, sink source.Sink) error {
	entry := log.WithField("extractor", Name).WithField("url", req.URL)

	err := v.resolve(ctx, req, sink)
	if err == nil {
		entry.Debugf("resolved")
		return nil
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		entry = entry.WithField("stage", stageErr.Stage).WithField("body", stageErr.Body)
	}
	entry.Warnf("resolution failed: %v", err)
	return err
}

func (v *Videa) resolve(ctx context.Context, req *source.Request, sink source.Sink) error {
	page, err := url.Parse(req.URL)
	if err != nil || page.Host == "" {
		return newStageError(StageLanding, ErrInvalidRequest, "")
	}

	playerURL, err := v.playerURL(ctx, req, page)
	if err != nil {
		return err
	}

	key, err := v.sessionKey(ctx, playerURL, req.URL)
	if err != nil {
		return err
	}

	id := videoID(page, playerURL)
	if id == "" {
		return newStageError(StageManifest, ErrInvalidRequest, "")
	}

	seed := v.seed()
	query := url.Values{
		"v":  {id},
		"_s": {seed},
		"_t": {key.QueryToken()},
	}

	resp, err := v.client.Get(ctx, v.baseURL+manifestPath, playerURL, query)
	if err != nil {
		return newStageError(StageManifest, wrapFetch(err), bodyOf(resp))
	}

	return v.decode(ctx, req, resp.Body, key, seed, resp.Header.Get(signatureHeader), sink)
}

// decode turns a manifest body into emitted videos, following the error redirect
// when the manifest lists no video.
func (v *Videa) decode(ctx context.Context, req *source.Request, body string, key Key, seed, signature string, sink source.Sink) error {
	text, decodeErr := DecodeBody(body, key.CipherPart(), seed, signature)
	if strings.TrimSpace(text) == "" {
		if redirect, ok := scanErrorURL(body); ok {
			return v.fallback(ctx, redirect, sink)
		}
		if decodeErr == nil {
			decodeErr = ErrManifestDecrypt
		}
		return newStageError(StageDecode, decodeErr, body)
	}

	manifest, err := ParseManifest(text)
	if err != nil {
		if redirect, ok := scanErrorURL(text); ok {
			return v.fallback(ctx, redirect, sink)
		}
		return newStageError(StageDecode, err, text)
	}

	if manifest.HasVideo {
		videos := manifest.Videos(req.URL)
		for _, video := range videos {
			sink.Video(video)
		}
		if len(videos) == 0 {
			return newStageError(StageDecode, ErrNoSources, text)
		}
		return nil
	}

	redirect, ok := manifest.RedirectURL()
	if !ok {
		redirect, ok = scanErrorURL(text)
	}
	if ok {
		return v.fallback(ctx, redirect, sink)
	}

	return newStageError(StageDecode, ErrNoSources, text)
}

func randomSeed() string {
	b := make([]byte, seedLen)
	for i := range b {
		b[i] = seedAlphabet[rand.IntN(len(seedAlphabet))]
	}
	return string(b)
}
