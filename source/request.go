// Package source defines the domain models and interfaces for hosting-page resolution.
package source

import (
	"fmt"
	"net/url"

	"github.com/samber/mo"
)

// Request identifies a hosting page to resolve.
type Request struct {
	// URL of the hosting page.
	URL string
	// Referer sent with the first request, if any.
	Referer mo.Option[string]
}

// NewRequest validates rawURL and returns a request for it.
// An empty referer is treated as absent.
func NewRequest(rawURL, referer string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("not an absolute http(s) url: %s", rawURL)
	}

	req := &Request{URL: rawURL, Referer: mo.None[string]()}
	if referer != "" {
		req.Referer = mo.Some(referer)
	}
	return req, nil
}

// String returns the page URL.
func (r *Request) String() string {
	return r.URL
}
