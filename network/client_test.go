package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vres-cli/vres/constant"
)

func TestClientGet(t *testing.T) {
	Convey("Given a test server echoing request details", t, func() {
		var last *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			last = r
			switch r.URL.Path {
			case "/missing":
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("gone"))
			case "/redirect":
				http.Redirect(w, r, "/final", http.StatusFound)
			default:
				w.Header().Set("X-Test", "yes")
				_, _ = w.Write([]byte("hello"))
			}
		}))
		defer server.Close()

		client := New(Options{Timeout: 5 * time.Second})
		ctx := context.Background()

		Convey("Get should return the body and headers", func() {
			resp, err := client.Get(ctx, server.URL+"/page", "", nil)
			So(err, ShouldBeNil)
			So(resp.Body, ShouldEqual, "hello")
			So(resp.Header.Get("X-Test"), ShouldEqual, "yes")
			So(resp.Status, ShouldEqual, http.StatusOK)
		})

		Convey("Get should send the default user agent and the referer", func() {
			_, err := client.Get(ctx, server.URL+"/page", "https://ref.example/", nil)
			So(err, ShouldBeNil)
			So(last.Header.Get("User-Agent"), ShouldEqual, constant.UserAgent)
			So(last.Header.Get("Referer"), ShouldEqual, "https://ref.example/")
		})

		Convey("Get should merge query parameters into the url", func() {
			_, err := client.Get(ctx, server.URL+"/page?v=abc&_s=old", "", url.Values{"_s": {"seed"}, "_t": {"tok"}})
			So(err, ShouldBeNil)
			So(last.URL.Query().Get("v"), ShouldEqual, "abc")
			So(last.URL.Query().Get("_s"), ShouldEqual, "seed")
			So(last.URL.Query().Get("_t"), ShouldEqual, "tok")
		})

		Convey("Get should report the final url after redirects", func() {
			resp, err := client.Get(ctx, server.URL+"/redirect", "", nil)
			So(err, ShouldBeNil)
			So(resp.URL, ShouldEqual, server.URL+"/final")
		})

		Convey("A non-2xx status should yield a StatusError and the response", func() {
			resp, err := client.Get(ctx, server.URL+"/missing", "", nil)
			var statusErr *StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.Status, ShouldEqual, http.StatusNotFound)
			So(resp.Body, ShouldEqual, "gone")
		})

		Convey("A cancelled context should abort the request", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := client.Get(cancelled, server.URL+"/page", "", nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("New", t, func() {
		Convey("Should apply defaults to zero options", func() {
			c := New(Options{})
			So(c.http.Timeout, ShouldEqual, 15*time.Second)
			So(c.userAgent, ShouldEqual, constant.UserAgent)
		})

		Convey("Should install the fingerprint transport when requested", func() {
			c := New(Options{Fingerprint: true})
			_, ok := c.http.Transport.(*fingerprintTransport)
			So(ok, ShouldBeTrue)
		})

		Convey("Should keep a caller supplied user agent", func() {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("User-Agent")
			}))
			defer server.Close()

			req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
			req.Header.Set("User-Agent", "custom/1.0")
			resp, err := New(Options{RateLimit: 100}).Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(got, ShouldEqual, "custom/1.0")
		})
	})
}

func TestFingerprintTransport(t *testing.T) {
	Convey("Plain http requests should bypass the TLS fingerprint", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("plain"))
		}))
		defer server.Close()

		client := New(Options{Fingerprint: true, Timeout: 5 * time.Second})
		resp, err := client.Get(context.Background(), server.URL, "", nil)
		So(err, ShouldBeNil)
		So(resp.Body, ShouldEqual, "plain")
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestFingerprintFallback(t *testing.T) {
	Convey("Given a fingerprint transport with stubbed protocols", t, func() {
		var h1Calls int
		ok := &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}
		h1 := roundTripFunc(func(*http.Request) (*http.Response, error) {
			h1Calls++
			return ok, nil
		})

		req, err := http.NewRequest(http.MethodGet, "https://videa.example/player", nil)
		So(err, ShouldBeNil)

		Convey("A server without h2 should be retried over HTTP/1.1", func() {
			tr := &fingerprintTransport{
				h2: roundTripFunc(func(*http.Request) (*http.Response, error) {
					return nil, fmt.Errorf("dial: %w", errNoH2)
				}),
				h1: h1,
			}

			resp, err := tr.RoundTrip(req)
			So(err, ShouldBeNil)
			So(resp, ShouldEqual, ok)
			So(h1Calls, ShouldEqual, 1)
		})

		Convey("Any other h2 error should be returned without a second request", func() {
			reset := errors.New("stream error: stream ID 1; INTERNAL_ERROR")
			tr := &fingerprintTransport{
				h2: roundTripFunc(func(*http.Request) (*http.Response, error) {
					return nil, reset
				}),
				h1: h1,
			}

			_, err := tr.RoundTrip(req)
			So(err, ShouldEqual, reset)
			So(h1Calls, ShouldEqual, 0)
		})
	})
}
