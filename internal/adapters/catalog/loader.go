// Package catalog loads the on-disk JSON catalog and normalizes it
// into the canonical in-memory shape exactly once at startup.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
)

type fileShape struct {
	Tracks  []trackRecord   `json:"tracks"`
	Bridges []domain.Bridge `json:"bridges"`
}

type trackRecord struct {
	Title      string             `json:"title"`
	Artist     string             `json:"artist"`
	Year       int                `json:"year"`
	Traits     json.RawMessage    `json:"traits"`
	Tags       json.RawMessage    `json:"tags"` // legacy field name, same payload
	Commentary string             `json:"commentary"`
	Refs       []domain.StreamRef `json:"streamingRefs"`
	TagTitle   string             `json:"tagTitle"`
	TagURL     string             `json:"tagUrl"`
}

type traitEntry struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Load reads and validates the catalog file.
func Load(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw JSON.
func Parse(data []byte) (*domain.Catalog, error) {
	var f fileShape
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	tracks := make([]domain.Track, 0, len(f.Tracks))
	for i, rec := range f.Tracks {
		raw := rec.Traits
		if len(raw) == 0 {
			raw = rec.Tags
		}
		traits, err := parseTraits(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: track %d (%s): %w", i, rec.Title, err)
		}
		tracks = append(tracks, domain.Track{
			Title:      rec.Title,
			Artist:     rec.Artist,
			Year:       rec.Year,
			Traits:     traits,
			Commentary: rec.Commentary,
			Refs:       rec.Refs,
			TagTitle:   rec.TagTitle,
			TagURL:     rec.TagURL,
		})
	}
	return domain.NewCatalog(tracks, f.Bridges)
}

// parseTraits accepts either a delimited string
// ("mood:dark:0.8, genre:jazz") or a native list of {id, weight}.
// A missing weight means 1.0; weights are clamped to (0,1].
func parseTraits(raw json.RawMessage) (map[string]float64, error) {
	if len(raw) == 0 {
		return map[string]float64{}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseTraitString(s)
	}

	var entries []traitEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("traits are neither a string nor a list: %w", err)
	}
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("trait entry with empty id")
		}
		out[id] = clampWeight(e.Weight)
	}
	return out, nil
}

func parseTraitString(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		switch len(fields) {
		case 2:
			out[fields[0]+":"+fields[1]] = 1.0
		case 3:
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("bad trait weight in %q: %w", part, err)
			}
			out[fields[0]+":"+fields[1]] = clampWeight(w)
		default:
			return nil, fmt.Errorf("malformed trait %q", part)
		}
	}
	return out, nil
}

func clampWeight(w float64) float64 {
	if w <= 0 || w > 1 {
		return 1.0
	}
	return w
}
