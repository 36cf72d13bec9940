// Package domain holds the core types of the recommendation engine:
// tracks, traits, sessions, queries and replies. It has no dependencies
// on adapters or transport.
package domain

import "strings"

// RefKind distinguishes how a streaming reference is rendered.
type RefKind string

const (
	RefEmbed RefKind = "embed"
	RefVideo RefKind = "video"
)

// StreamRef is a playable reference to a track on some platform.
type StreamRef struct {
	Kind RefKind `json:"kind"`
	URL  string  `json:"url"`
}

// Track is an immutable catalog entry. Identity is the (Title, Artist)
// pair; titles are additionally unique across the catalog because play
// history is tracked by title alone.
type Track struct {
	Title      string
	Artist     string
	Year       int
	Traits     map[string]float64 // trait id -> weight in (0,1]
	Commentary string
	Refs       []StreamRef
	TagTitle   string
	TagURL     string
}

// VideoOnly reports whether the track's only playable references are videos.
func (t Track) VideoOnly() bool {
	if len(t.Refs) == 0 {
		return false
	}
	for _, r := range t.Refs {
		if r.Kind != RefVideo {
			return false
		}
	}
	return true
}

// PlayableURL returns the preferred streaming URL: the first embed
// reference if one exists, otherwise the first reference of any kind.
func (t Track) PlayableURL() string {
	for _, r := range t.Refs {
		if r.Kind == RefEmbed {
			return r.URL
		}
	}
	if len(t.Refs) > 0 {
		return t.Refs[0].URL
	}
	return ""
}

// TitleKey folds a title for history and lookup comparisons.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Bridge is a curated transition remark connecting two specific tracks.
// Bridges take priority over generically discovered related tracks.
type Bridge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}
