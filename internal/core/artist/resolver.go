// Package artist detects direct or fuzzy artist-name references in an
// utterance against the catalog's distinct artist names.
package artist

import (
	"regexp"
	"strings"

	"github.com/EfrainCalderon/efrain-fm/internal/core/vocab"
)

const meaningfulWordLen = 5

// Resolver matches utterances against catalog artist names. Names are
// kept longest-first so multi-word names win before any single-word
// substring of them.
type Resolver struct {
	names []string // original casing, longest first
}

// New builds a resolver over the distinct artist names, which must
// already be sorted longest-first (domain.Catalog.Artists does this).
func New(names []string) *Resolver {
	return &Resolver{names: names}
}

// Resolve returns the referenced artist name, if any. Pass 1 is
// bidirectional substring containment over normalized text. Pass 2
// requires overlap on meaningful words. Short names need an explicit
// "by X" or "X song/band" signal so two-letter bands don't fire on
// common words.
func (r *Resolver) Resolve(message string) (string, bool) {
	msg := vocab.Normalize(message)
	if msg == "" {
		return "", false
	}
	// A message that is nothing but genre words is a genre request, not
	// an artist reference, even when a band name happens to contain one.
	if genreWordsOnly(msg) {
		return "", false
	}
	msgTokens := vocab.Tokens(message)

	for _, name := range r.names {
		norm := vocab.Normalize(name)
		if norm == "" {
			continue
		}
		if isShortName(norm) {
			if hasExplicitSignal(msg, norm) {
				return name, true
			}
			continue
		}
		if strings.Contains(msg, norm) || strings.Contains(norm, msg) {
			return name, true
		}
	}

	for _, name := range r.names {
		norm := vocab.Normalize(name)
		if isShortName(norm) {
			continue // short names only match with an explicit signal
		}
		if meaningfulOverlap(msgTokens, strings.Fields(norm)) {
			return name, true
		}
	}
	return "", false
}

func isShortName(norm string) bool {
	return len(norm) < meaningfulWordLen && !strings.Contains(norm, " ")
}

func genreWordsOnly(msg string) bool {
	for _, w := range strings.Fields(msg) {
		if !vocab.IsGenreWord(w) {
			return false
		}
	}
	return true
}

var signalPatterns = []string{
	`\bby (the )?%s\b`,
	`\b%s (song|songs|band|track|tracks)\b`,
}

// hasExplicitSignal looks for "by X" or "X song/band" around a short name.
func hasExplicitSignal(msg, norm string) bool {
	quoted := regexp.QuoteMeta(norm)
	for _, p := range signalPatterns {
		re := regexp.MustCompile(strings.Replace(p, "%s", quoted, 1))
		if re.MatchString(msg) {
			return true
		}
	}
	return false
}

// meaningfulOverlap applies the pass-2 rule: for multi-word names all
// meaningful words must appear in the message, for single-word names
// any one is enough. Words shorter than five characters, generic
// band-name components and genre words never count.
func meaningfulOverlap(msgTokens, nameTokens []string) bool {
	present := make(map[string]bool, len(msgTokens))
	for _, t := range msgTokens {
		present[t] = true
	}

	var meaningful []string
	for _, w := range nameTokens {
		if len(w) < meaningfulWordLen || vocab.IsBandStopword(w) || vocab.IsGenreWord(w) {
			continue
		}
		meaningful = append(meaningful, w)
	}
	if len(meaningful) == 0 {
		return false
	}

	if len(nameTokens) > 1 {
		for _, w := range meaningful {
			if !present[w] {
				return false
			}
		}
		return true
	}
	return present[meaningful[0]]
}
