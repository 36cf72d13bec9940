package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrDuplicateTitle = errors.New("domain: duplicate track title")

// Catalog is the immutable in-memory track set, built once at startup.
type Catalog struct {
	tracks  []Track
	byTitle map[string]int
	bridges map[string]Bridge // keyed by folded "from" title
}

// NewCatalog validates the track set and indexes it. Titles must be
// unique because sessions track play history by title.
func NewCatalog(tracks []Track, bridges []Bridge) (*Catalog, error) {
	c := &Catalog{
		tracks:  tracks,
		byTitle: make(map[string]int, len(tracks)),
		bridges: make(map[string]Bridge, len(bridges)),
	}
	for i, t := range tracks {
		if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Artist) == "" {
			return nil, fmt.Errorf("domain: track %d missing title or artist", i)
		}
		key := TitleKey(t.Title)
		if _, dup := c.byTitle[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, t.Title)
		}
		c.byTitle[key] = i
	}
	for _, b := range bridges {
		if _, ok := c.byTitle[TitleKey(b.To)]; !ok {
			return nil, fmt.Errorf("domain: bridge target %q not in catalog", b.To)
		}
		c.bridges[TitleKey(b.From)] = b
	}
	return c, nil
}

// Tracks returns the full track list. Callers must not mutate it.
func (c *Catalog) Tracks() []Track { return c.tracks }

// Len returns the catalog size.
func (c *Catalog) Len() int { return len(c.tracks) }

// ByTitle looks a track up by folded title.
func (c *Catalog) ByTitle(title string) (Track, bool) {
	i, ok := c.byTitle[TitleKey(title)]
	if !ok {
		return Track{}, false
	}
	return c.tracks[i], true
}

// BridgeFrom returns the curated bridge leaving the given title, if any.
func (c *Catalog) BridgeFrom(title string) (Bridge, bool) {
	b, ok := c.bridges[TitleKey(title)]
	return b, ok
}

// Unplayed returns the tracks whose titles are not in the play history.
func (c *Catalog) Unplayed(history []string) []Track {
	played := make(map[string]bool, len(history))
	for _, h := range history {
		played[TitleKey(h)] = true
	}
	out := make([]Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		if !played[TitleKey(t.Title)] {
			out = append(out, t)
		}
	}
	return out
}

// Artists returns the distinct artist names, sorted longest first so
// multi-word names are tried before any single-word substring of them.
func (c *Catalog) Artists() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range c.tracks {
		if !seen[t.Artist] {
			seen[t.Artist] = true
			names = append(names, t.Artist)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// ByArtist returns all tracks by the named artist.
func (c *Catalog) ByArtist(artist string) []Track {
	var out []Track
	for _, t := range c.tracks {
		if strings.EqualFold(t.Artist, artist) {
			out = append(out, t)
		}
	}
	return out
}

// CountWithTrait counts the given tracks carrying the trait at any weight.
func CountWithTrait(tracks []Track, trait string) int {
	n := 0
	for _, t := range tracks {
		if _, ok := t.Traits[trait]; ok {
			n++
		}
	}
	return n
}
