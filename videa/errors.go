package videa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates the page URL cannot be resolved at all.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNonceNotFound indicates the player page carries no usable nonce.
	ErrNonceNotFound = errors.New("nonce not found")
	// ErrKeyCorrupt indicates the nonce pointed outside its payload during key derivation.
	ErrKeyCorrupt = fmt.Errorf("%w: derived key out of range", ErrNonceNotFound)
	// ErrManifestFetch indicates one of the HTTP round trips failed.
	ErrManifestFetch = errors.New("manifest fetch failed")
	// ErrManifestDecrypt indicates the manifest body could not be base64 decoded or deciphered.
	ErrManifestDecrypt = errors.New("manifest decrypt failed")
	// ErrManifestParse indicates the manifest is not well-formed XML.
	ErrManifestParse = errors.New("manifest parse failed")
	// ErrNoSources indicates a well-formed manifest without playable sources or redirect.
	ErrNoSources = errors.New("no playable sources")
	// ErrFallback indicates the redirect page held no media URL.
	ErrFallback = errors.New("fallback scraping failed")
)

// Resolution stages, used in errors and log fields.
const (
	StageLanding  = "landing"
	StagePlayer   = "player"
	StageManifest = "manifest"
	StageDecode   = "decode"
	StageFallback = "fallback"
)

// maxErrorBody bounds the response excerpt kept in a StageError.
const maxErrorBody = 256

// StageError attaches the failing stage and a response excerpt to a resolution error.
type StageError struct {
	Stage string
	Err   error
	// Body is a truncated excerpt of the response that caused the failure.
	Body string
}

func newStageError(stage string, err error, body string) *StageError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StageError{Stage: stage, Err: err, Body: body}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
