// Package source defines the domain models and interfaces for hosting-page resolution.
package source

import "context"

// Extractor resolves pages of a single video host into playable media.
type Extractor interface {
	// Name returns the unique identifier of the extractor.
	Name() string

	// MainURL returns the origin of the host the extractor targets.
	MainURL() string

	// Supports reports whether the extractor understands the given page URL.
	Supports(rawURL string) bool

	// Resolve emits every playable video found behind the request through sink.
	// Videos emitted before a failure stay emitted; the returned error is diagnostic
	// and describes why resolution stopped early.
	Resolve(ctx context.Context, req *Request, sink Sink) error
}
