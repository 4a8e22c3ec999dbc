// Package source defines the domain models and interfaces for hosting-page resolution.
package source

// Quality is a stream quality label such as "720p".
type Quality string

// QualityUnknown marks streams whose host does not expose reliable quality metadata.
const QualityUnknown Quality = "unknown"

// Video represents a resolved, directly playable media URL.
type Video struct {
	// Source is the host-side name of the stream (e.g. "360p", "mp4").
	Source string `json:"source"`
	// Title is the display title reported by the host.
	Title string `json:"title"`
	// URL is the direct media URL.
	URL string `json:"url"`
	// Referer must accompany requests for URL.
	Referer string `json:"referer"`
	// Quality label, QualityUnknown when the host does not say.
	Quality Quality `json:"quality"`
}

// String returns the source name or URL for display.
func (v *Video) String() string {
	if v.Source != "" {
		return v.Source
	}
	return v.URL
}

// Subtitle is a subtitle track accompanying a video.
type Subtitle struct {
	Language string `json:"language"`
	URL      string `json:"url"`
}
