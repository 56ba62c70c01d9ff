// Package linkify splits post text into plain runs and links, and classifies
// each link as app-internal or external relative to the application origin.
package linkify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

// FromParam marks navigation that started on the archive page.
const (
	FromParam = "from"
	FromValue = "archive"
)

// Kind classifies a segment of text.
type Kind int

const (
	Plain Kind = iota
	Internal
	External
)

// Segment is a run of text. Href is set for Internal and External segments.
type Segment struct {
	Kind Kind
	Text string
	Href string
}

func (s Segment) IsInternal() bool { return s.Kind == Internal }

func (s Segment) IsExternal() bool { return s.Kind == External }

// Linker detects links in text.
type Linker struct {
	origin *url.URL
	rx     *regexp.Regexp
}

// New creates a Linker for the given origin (scheme and host).
func New(origin string) (*Linker, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("failed to parse origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must have scheme and host", origin)
	}

	return &Linker{
		origin: u,
		rx:     xurls.Relaxed(),
	}, nil
}

// Split returns text as a sequence of segments whose Text values concatenate
// back to text.
func (l *Linker) Split(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range l.rx.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Kind: Plain, Text: text[last:loc[0]]})
		}
		segments = append(segments, l.link(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Kind: Plain, Text: text[last:]})
	}
	return segments
}

func (l *Linker) link(match string) Segment {
	if isEmail(match) {
		return Segment{Kind: External, Text: match, Href: "mailto:" + match}
	}

	raw := match
	schemeless := !strings.Contains(match, "://") && !strings.HasPrefix(strings.ToLower(match), "mailto:")
	if schemeless {
		raw = "http://" + match
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Segment{Kind: External, Text: match, Href: raw}
	}

	if l.sameOrigin(u, schemeless) {
		return Segment{Kind: Internal, Text: match, Href: internalHref(u)}
	}

	return Segment{Kind: External, Text: match, Href: u.String()}
}

// sameOrigin compares scheme and host. A link written without a scheme only
// needs a matching host.
func (l *Linker) sameOrigin(u *url.URL, schemeless bool) bool {
	if !strings.EqualFold(u.Host, l.origin.Host) {
		return false
	}
	return schemeless || strings.EqualFold(u.Scheme, l.origin.Scheme)
}

func internalHref(u *url.URL) string {
	q := u.Query()
	q.Set(FromParam, FromValue)

	ref := url.URL{
		Path:     u.Path,
		RawQuery: q.Encode(),
		Fragment: u.Fragment,
	}
	if ref.Path == "" {
		ref.Path = "/"
	}
	return ref.String()
}

func isEmail(s string) bool {
	return !strings.Contains(s, "/") && !strings.Contains(s, ":") && strings.Contains(s, "@")
}
