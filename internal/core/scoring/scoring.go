// Package scoring ranks catalog tracks against a query and selects a
// track under the confidence-gating rules. The engine itself never
// filters: gating happens in Select so the same scorer serves every
// confidence threshold.
package scoring

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
	"github.com/EfrainCalderon/efrain-fm/internal/core/vocab"
)

// Terminal selection states. Callers distinguish all three: a silent
// re-serve on exhaustion is a contract violation.
var (
	// ErrNoMatch: nothing anywhere in the catalog plausibly matches.
	ErrNoMatch = errors.New("scoring: no match in catalog")
	// ErrLowConfidence: a weak match exists, but below the floor where
	// the system prefers to ask a clarifying question.
	ErrLowConfidence = errors.New("scoring: best match below confidence floor")
	// ErrAllPlayed: matches exist but every one is already in the history.
	ErrAllPlayed = errors.New("scoring: all matching tracks already played")
)

// Tuning carries the empirically tuned constants. Override via
// configuration; do not re-derive.
type Tuning struct {
	MinScore        float64 `koanf:"min_score"`
	ConfidenceFloor float64 `koanf:"confidence_floor"`
	ToleranceRatio  float64 `koanf:"tolerance_ratio"`
	TitleBonus      float64 `koanf:"title_bonus"`
	ArtistBonus     float64 `koanf:"artist_bonus"`
	CommentaryBonus float64 `koanf:"commentary_bonus"`
	ContrastDamp    float64 `koanf:"contrast_damp"`
	ContrastBoost   float64 `koanf:"contrast_boost"`
	VideoBonus      float64 `koanf:"video_bonus"`
}

// DefaultTuning returns the tuned constants.
func DefaultTuning() Tuning {
	return Tuning{
		MinScore:        0.4,
		ConfidenceFloor: 0.6,
		ToleranceRatio:  0.85,
		TitleBonus:      0.8,
		ArtistBonus:     0.8,
		CommentaryBonus: 0.3,
		ContrastDamp:    0.3,
		ContrastBoost:   1.5,
		VideoBonus:      1.5,
	}
}

// Scored pairs a candidate with its query score.
type Scored struct {
	Track domain.Track
	Score float64
}

// Engine scores candidates and applies selection policy.
type Engine struct {
	tun Tuning
	rng *rand.Rand
}

// New builds an engine. rng may be nil for a default source; tests
// inject a seeded one.
func New(tun Tuning, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Engine{tun: tun, rng: rng}
}

// Score computes a numeric score for every candidate. Resolved trait
// terms multiply track-side weight by query-side confidence; raw
// keywords run a much weaker word-boundary pass over title, artist and
// commentary in that priority order. Genre words never enter the raw
// pass, which keeps "country" from matching a band name.
func (e *Engine) Score(candidates []domain.Track, q domain.Query) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, t := range candidates {
		out = append(out, Scored{Track: t, Score: e.scoreOne(t, q)})
	}
	return out
}

func (e *Engine) scoreOne(t domain.Track, q domain.Query) float64 {
	var score float64
	for _, term := range q.Terms {
		if term.Trait != "" {
			if w, ok := t.Traits[term.Trait]; ok {
				score += w * e.termWeight(term, q.Contrast)
			}
			continue
		}
		score += e.rawKeywordScore(t, term.Raw)
	}
	if q.PreferVideo && t.VideoOnly() {
		score += e.tun.VideoBonus
	}
	return score
}

// termWeight applies the contrast modifier: the "before" clause is a
// relative reinterpretation, not an exclusion, so it dampens rather
// than zeroes.
func (e *Engine) termWeight(term domain.Term, c *domain.Contrast) float64 {
	w := term.Weight
	if c == nil {
		return w
	}
	for _, id := range c.Before {
		if id == term.Trait {
			return w * e.tun.ContrastDamp
		}
	}
	for _, id := range c.After {
		if id == term.Trait {
			return w * e.tun.ContrastBoost
		}
	}
	return w
}

func (e *Engine) rawKeywordScore(t domain.Track, word string) float64 {
	if vocab.IsGenreWord(word) {
		return 0
	}
	if vocab.ContainsToken(t.Title, word) {
		return e.tun.TitleBonus
	}
	if vocab.ContainsToken(t.Artist, word) {
		return e.tun.ArtistBonus
	}
	if !vocab.IsCommentaryStopword(word) && vocab.ContainsToken(t.Commentary, word) {
		return e.tun.CommentaryBonus
	}
	return 0
}

// Select runs the full gate-then-pick policy. The whole catalog judges
// whether the query has any plausible match at all; only then is
// scoring restricted to the unplayed subset, and the winner is drawn
// uniformly from everything within the tolerance band of the top score
// so identical queries do not always return the same track.
func (e *Engine) Select(catalog []domain.Track, history []string, q domain.Query) (domain.Track, error) {
	all := e.Score(catalog, q)
	best := maxScore(all)
	if best < e.tun.MinScore {
		return domain.Track{}, ErrNoMatch
	}
	if best < e.tun.ConfidenceFloor {
		return domain.Track{}, ErrLowConfidence
	}

	played := make(map[string]bool, len(history))
	for _, h := range history {
		played[domain.TitleKey(h)] = true
	}
	var pool []Scored
	for _, s := range all {
		if played[domain.TitleKey(s.Track.Title)] {
			continue
		}
		if q.ExcludeArtist != "" && strings.EqualFold(s.Track.Artist, q.ExcludeArtist) {
			continue
		}
		pool = append(pool, s)
	}
	if len(pool) == 0 {
		return domain.Track{}, ErrAllPlayed
	}

	if q.Negated {
		return e.pickInverted(pool), nil
	}

	top := maxScore(pool)
	if top < e.tun.MinScore {
		return domain.Track{}, ErrAllPlayed
	}
	return e.pickBand(pool, top), nil
}

// pickBand draws uniformly among candidates within ToleranceRatio of top.
func (e *Engine) pickBand(pool []Scored, top float64) domain.Track {
	floor := top * e.tun.ToleranceRatio
	var band []domain.Track
	for _, s := range pool {
		if s.Score >= floor {
			band = append(band, s.Track)
		}
	}
	return band[e.rng.Intn(len(band))]
}

// pickInverted selects from the lowest scorers: "nothing like X" means
// the bottom of the ranking, zero scores included.
func (e *Engine) pickInverted(pool []Scored) domain.Track {
	low := pool[0].Score
	for _, s := range pool[1:] {
		if s.Score < low {
			low = s.Score
		}
	}
	// Mirror the tolerance band around the minimum so ties at the
	// bottom stay interchangeable.
	ceil := low + (1.0 - e.tun.ToleranceRatio)
	var band []domain.Track
	for _, s := range pool {
		if s.Score <= ceil {
			band = append(band, s.Track)
		}
	}
	return band[e.rng.Intn(len(band))]
}

func maxScore(scored []Scored) float64 {
	var m float64
	for _, s := range scored {
		if s.Score > m {
			m = s.Score
		}
	}
	return m
}
