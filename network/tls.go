// Package network provides the HTTP client shared by every resolution stage.
//
// Some hosts sit behind anti-bot layers that reject the Go TLS client hello. The
// fingerprint transport dials with refraction-networking/utls using Chrome's hello,
// tries HTTP/2 first and falls back to HTTP/1.1 when the server does not
// negotiate h2.
package network

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

var errNoH2 = errors.New("server did not negotiate h2")

type fingerprintTransport struct {
	h2    http.RoundTripper
	h1    http.RoundTripper
	plain http.RoundTripper
}

func newFingerprintTransport(timeout time.Duration) *fingerprintTransport {
	h1 := newTransport()
	h1.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialChrome(ctx, network, addr, timeout, []string{"http/1.1"})
	}

	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, network, addr, timeout, nil)
			},
		},
		h1:    h1,
		plain: newTransport(),
	}
}

// RoundTrip implements http.RoundTripper. Only a failed h2 negotiation moves the
// request to HTTP/1.1, every other error is returned as is.
func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if !errors.Is(err, errNoH2) {
		return resp, err
	}

	retry := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, err
		}
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}

	return t.h1.RoundTrip(retry)
}

// dialChrome opens a TLS connection presenting Chrome 120's client hello.
// With nil protos the hello advertises h2 and http/1.1 and the connection is
// rejected unless h2 is negotiated.
func dialChrome(ctx context.Context, network, addr string, timeout time.Duration, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	if protos == nil && tlsConn.ConnectionState().NegotiatedProtocol != http2.NextProtoTLS {
		tlsConn.Close()
		return nil, errNoH2
	}

	return tlsConn, nil
}
