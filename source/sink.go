// Package source defines the domain models and interfaces for hosting-page resolution.
package source

import "sync"

// Sink receives resolution output one item at a time.
type Sink interface {
	Video(v *Video)
	Subtitle(s *Subtitle)
}

// SinkFunc adapts a video callback into a Sink that drops subtitles.
type SinkFunc func(v *Video)

func (f SinkFunc) Video(v *Video) { f(v) }

func (SinkFunc) Subtitle(*Subtitle) {}

// Collector is a Sink that keeps everything it receives in emission order.
// It is safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	videos    []*Video
	subtitles []*Subtitle
}

func (c *Collector) Video(v *Video) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos = append(c.videos, v)
}

func (c *Collector) Subtitle(s *Subtitle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subtitles = append(c.subtitles, s)
}

// Videos returns a copy of the collected videos.
func (c *Collector) Videos() []*Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Video(nil), c.videos...)
}

// Subtitles returns a copy of the collected subtitles.
func (c *Collector) Subtitles() []*Subtitle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Subtitle(nil), c.subtitles...)
}
