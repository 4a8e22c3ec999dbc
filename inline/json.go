// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"

	"github.com/vres-cli/vres/source"
)

// Result is the outcome of resolving a single page.
type Result struct {
	// URL is the page as given on input.
	URL string `json:"url"`
	// Extractor is the name of the extractor that handled the page.
	Extractor string             `json:"extractor,omitempty"`
	Videos    []*source.Video    `json:"videos"`
	Subtitles []*source.Subtitle `json:"subtitles,omitempty"`
	// Error describes why resolution stopped early, if it did.
	Error string `json:"error,omitempty"`
}

type Output struct {
	Results []*Result `json:"results"`
}

func asJson(results []*Result) ([]byte, error) {
	if results == nil {
		results = []*Result{}
	}

	return json.MarshalIndent(&Output{Results: results}, "", "  ")
}
