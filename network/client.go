// Package network provides the HTTP client shared by every resolution stage.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/vres-cli/vres/constant"
	"github.com/vres-cli/vres/key"
	"go.uber.org/ratelimit"
)

// maxBodySize caps how much of a response body is read into memory.
const maxBodySize = 16 << 20

// Options configures a Client.
type Options struct {
	// Timeout bounds every single request, including reading the body.
	Timeout time.Duration
	// UserAgent is sent when a request does not set one.
	UserAgent string
	// RateLimit is the maximum number of requests per second, 0 disables throttling.
	RateLimit int
	// Fingerprint routes https traffic through a Chrome-like TLS handshake.
	Fingerprint bool
}

// OptionsFromConfig reads client options from the global configuration.
func OptionsFromConfig() Options {
	return Options{
		Timeout:     time.Duration(viper.GetInt(key.ResolverTimeout)) * time.Second,
		UserAgent:   viper.GetString(key.ResolverUserAgent),
		RateLimit:   viper.GetInt(key.ResolverRateLimit),
		Fingerprint: viper.GetBool(key.ResolverTLSFingerprint),
	}
}

// Client wraps http.Client with default headers and optional throttling.
// It is safe for concurrent use.
type Client struct {
	http      *http.Client
	limiter   ratelimit.Limiter
	userAgent string
}

// New builds a client from options.
func New(options Options) *Client {
	if options.Timeout <= 0 {
		options.Timeout = 15 * time.Second
	}
	if options.UserAgent == "" {
		options.UserAgent = constant.UserAgent
	}

	var transport http.RoundTripper = newTransport()
	if options.Fingerprint {
		transport = newFingerprintTransport(options.Timeout)
	}

	limiter := ratelimit.NewUnlimited()
	if options.RateLimit > 0 {
		limiter = ratelimit.New(options.RateLimit)
	}

	return &Client{
		http: &http.Client{
			Timeout:   options.Timeout,
			Transport: transport,
		},
		limiter:   limiter,
		userAgent: options.UserAgent,
	}
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// Default returns the process-wide client built from the configuration on first use.
func Default() *Client {
	defaultOnce.Do(func() {
		defaultClient = New(OptionsFromConfig())
	})
	return defaultClient
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Do sends req after waiting for the rate limiter.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	c.limiter.Take()
	return c.http.Do(req)
}

// Response is a fully read HTTP response.
type Response struct {
	// URL is the final URL after redirects.
	URL    string
	Status int
	Header http.Header
	Body   string
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Status)
}

// Get performs a GET request with optional referer and query parameters, which are
// merged into any query already present in rawURL. A non-2xx status yields both the
// response and a *StatusError.
func (c *Client) Get(ctx context.Context, rawURL, referer string, query url.Values) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	out := &Response{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   string(body),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &StatusError{URL: u.String(), Status: resp.StatusCode}
	}

	return out, nil
}
