package videa

import (
	"encoding/base64"
	"fmt"
	"html"
	"net/url"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/vres-cli/vres/crypt"
	"github.com/vres-cli/vres/source"
)

const (
	xmlDeclaration = "<?xml"
	defaultTitle   = "Video"
	hashPrefix     = "hash_value_"
)

// Manifest is the parsed player/xml document.
type Manifest struct {
	// HasVideo reports whether a video element was present.
	HasVideo bool
	Title    string
	Sources  []ManifestSource
	// Hashes maps a source name to its hash_value_<name> entry.
	Hashes map[string]string
	// Error is the text of the error element, usually a redirect URL.
	Error string
}

// ManifestSource is a single video_source entry.
type ManifestSource struct {
	Name    string
	URL     string
	Expires string
}

// DecodeBody returns the manifest XML. Plain XML bodies pass through untouched; anything
// else is base64 decoded and deciphered with cipherPart+seed+signature.
func DecodeBody(body, cipherPart, seed, signature string) (string, error) {
	if strings.HasPrefix(strings.TrimLeftFunc(body, unicode.IsSpace), xmlDeclaration) {
		return body, nil
	}

	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, body)

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(compact, "="))
	if err != nil {
		return "", fmt.Errorf("%w: base64: %v", ErrManifestDecrypt, err)
	}

	plain, err := crypt.Decrypt(raw, cipherPart+seed+signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrManifestDecrypt, err)
	}

	return string(plain), nil
}

// ParseManifest reads the manifest document.
func ParseManifest(text string) (*Manifest, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true

	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrManifestParse)
	}

	m := &Manifest{
		Title:  defaultTitle,
		Hashes: make(map[string]string),
	}

	if video := doc.FindElement("//video"); video != nil {
		m.HasVideo = true
		if title := video.FindElement(".//title"); title != nil {
			if t := strings.TrimSpace(textContent(title)); t != "" {
				m.Title = t
			}
		}
	}

	for _, el := range doc.FindElements("//video_source") {
		m.Sources = append(m.Sources, ManifestSource{
			Name:    el.SelectAttrValue("name", ""),
			URL:     strings.TrimSpace(textContent(el)),
			Expires: el.SelectAttrValue("exp", ""),
		})
	}

	if hashes := doc.FindElement("//hash_values"); hashes != nil {
		for _, el := range hashes.FindElements(".//*") {
			if name, ok := strings.CutPrefix(el.Tag, hashPrefix); ok {
				m.Hashes[name] = strings.TrimSpace(textContent(el))
			}
		}
	}

	if e := doc.FindElement("//error"); e != nil {
		m.Error = strings.TrimSpace(textContent(e))
	}

	return m, nil
}

// Videos converts the sources into resolved videos, in document order.
func (m *Manifest) Videos(referer string) []*source.Video {
	videos := make([]*source.Video, 0, len(m.Sources))
	for _, s := range m.Sources {
		u := s.URL
		if hash, ok := m.Hashes[s.Name]; ok {
			u = appendQuery(u, "md5="+hash+"&expires="+s.Expires)
		}

		videos = append(videos, &source.Video{
			Source:  s.Name,
			Title:   m.Title,
			URL:     normalizeURL(u),
			Referer: referer,
			Quality: source.QualityUnknown,
		})
	}
	return videos
}

// RedirectURL returns the error element text when it is an absolute http(s) URL.
func (m *Manifest) RedirectURL() (string, bool) {
	return absoluteURL(m.Error)
}

func appendQuery(u, query string) string {
	if strings.Contains(u, "?") {
		return u + "&" + query
	}
	return u + "?" + query
}

// normalizeURL turns protocol-relative URLs into https ones.
func normalizeURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

func absoluteURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return s, true
}

func textContent(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString(textContent(t))
		}
	}
	return b.String()
}

// scanErrorURL looks for <error>...</error> without an XML parser, for bodies that
// failed to decode or parse. Quoted attribute values may contain '>'.
func scanErrorURL(text string) (string, bool) {
	const open, closing = "<error", "</error>"

	for offset := 0; ; {
		i := strings.Index(text[offset:], open)
		if i < 0 {
			return "", false
		}
		rest := text[offset+i+len(open):]
		offset += i + len(open)

		if rest == "" {
			return "", false
		}
		if rest[0] != '>' && !isSpace(rest[0]) && rest[0] != '/' {
			continue
		}

		end := tagEnd(rest)
		if end < 0 {
			return "", false
		}
		if end > 0 && rest[end-1] == '/' {
			continue
		}

		body := rest[end+1:]
		stop := strings.Index(body, closing)
		if stop < 0 {
			return "", false
		}

		content := strings.TrimSpace(body[:stop])
		content = strings.TrimSuffix(strings.TrimPrefix(content, "<![CDATA["), "]]>")
		return absoluteURL(html.UnescapeString(content))
	}
}

// tagEnd returns the index of the '>' closing a start tag, skipping quoted values.
func tagEnd(s string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
