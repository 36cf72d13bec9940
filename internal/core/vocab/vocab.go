// Package vocab maps free-form words onto controlled trait identifiers
// and owns the word sets that gate raw-keyword matching.
package vocab

import (
	"sort"
	"strings"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
)

// Trait categories. A well-formed id is "category:value".
var categories = map[string]bool{
	"energy":    true,
	"mood":      true,
	"texture":   true,
	"genre":     true,
	"era":       true,
	"character": true,
}

const substringWeight = 0.7

// aliases maps free-form words and short phrases to trait ids. Exact
// hits carry full confidence; substring hits are discounted.
var aliases = map[string]string{
	// energy
	"mellow":     "energy:low",
	"chill":      "energy:low",
	"calm":       "energy:low",
	"quiet":      "energy:low",
	"sleepy":     "energy:low",
	"laid back":  "energy:low",
	"slow":       "energy:low",
	"driving":    "energy:high",
	"upbeat":     "energy:high",
	"energetic":  "energy:high",
	"loud":       "energy:high",
	"fast":       "energy:high",
	"danceable":  "energy:high",
	"mid tempo":  "energy:medium",
	"steady":     "energy:medium",

	// mood
	"sad":         "mood:melancholic",
	"melancholy":  "mood:melancholic",
	"melancholic": "mood:melancholic",
	"wistful":     "mood:melancholic",
	"heartbreak":  "mood:melancholic",
	"dark":        "mood:dark",
	"brooding":    "mood:dark",
	"sinister":    "mood:dark",
	"happy":       "mood:bright",
	"sunny":       "mood:bright",
	"joyful":      "mood:bright",
	"romantic":    "mood:romantic",
	"dreamy":      "mood:dreamy",
	"hazy":        "mood:dreamy",
	"nostalgic":   "mood:nostalgic",

	// texture
	"warm":       "texture:warm",
	"lush":       "texture:lush",
	"sparse":     "texture:sparse",
	"minimal":    "texture:sparse",
	"fuzzy":      "texture:fuzzy",
	"distorted":  "texture:fuzzy",
	"acoustic":   "texture:acoustic",
	"electric":   "texture:electric",
	"lofi":       "texture:lofi",
	"lo fi":      "texture:lofi",
	"polished":   "texture:polished",
	"raw":        "texture:raw",

	// genre
	"jazz":       "genre:jazz",
	"jazzy":      "genre:jazz",
	"country":    "genre:country",
	"folk":       "genre:folk",
	"rock":       "genre:rock",
	"punk":       "genre:punk",
	"soul":       "genre:soul",
	"funk":       "genre:funk",
	"funky":      "genre:funk",
	"disco":      "genre:disco",
	"blues":      "genre:blues",
	"bluesy":     "genre:blues",
	"pop":        "genre:pop",
	"metal":      "genre:metal",
	"ambient":    "genre:ambient",
	"electronic": "genre:electronic",
	"synth":      "genre:electronic",
	"hip hop":    "genre:hiphop",
	"rap":        "genre:hiphop",
	"reggae":     "genre:reggae",
	"gospel":     "genre:gospel",
	"psychedelic": "character:psychedelic",

	// era
	"fifties":   "era:50s",
	"50s":       "era:50s",
	"sixties":   "era:60s",
	"60s":       "era:60s",
	"seventies": "era:70s",
	"70s":       "era:70s",
	"eighties":  "era:80s",
	"80s":       "era:80s",
	"nineties":  "era:90s",
	"90s":       "era:90s",
	"oldies":    "era:60s",
	"modern":    "era:2010s",
	"recent":    "era:2010s",

	// character
	"weird":        "character:strange",
	"strange":      "character:strange",
	"trippy":       "character:psychedelic",
	"groovy":       "character:groovy",
	"epic":         "character:epic",
	"cinematic":    "character:epic",
	"intimate":     "character:intimate",
	"experimental": "character:experimental",
	"catchy":       "character:catchy",
}

// aliasKeys holds the alias table keys in a fixed order so substring
// resolution is deterministic when a word grazes several aliases.
var aliasKeys = func() []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// genreWords enumerates words that denote genre or mood concepts and
// are forbidden from matching title/artist/commentary text directly.
// Several of these are literal substrings of unrelated artist names.
var genreWords = map[string]bool{
	"jazz": true, "country": true, "folk": true, "rock": true,
	"punk": true, "soul": true, "funk": true, "disco": true,
	"blues": true, "pop": true, "metal": true, "ambient": true,
	"electronic": true, "rap": true, "reggae": true, "gospel": true,
	"mellow": true, "dark": true, "chill": true,
}

// commentaryStopwords filters overly common words out of the commentary
// fallback pass to avoid false positives from incidental phrasing.
var commentaryStopwords = map[string]bool{
	"love": true, "good": true, "time": true, "song": true,
	"music": true, "great": true, "really": true, "night": true,
	"life": true, "heart": true, "little": true, "best": true,
	"back": true, "thing": true, "world": true, "sound": true,
}

// bandStopwords are generic band-name components that never count as
// meaningful words when resolving an artist reference.
var bandStopwords = map[string]bool{
	"music": true, "band": true, "tapes": true, "brothers": true,
	"black": true, "white": true, "red": true, "blue": true,
	"green": true, "orange": true, "golden": true, "young": true,
	"little": true, "sound": true,
}

// IsGenreWord reports whether w is in the protected genre-word set.
func IsGenreWord(w string) bool { return genreWords[strings.ToLower(w)] }

// IsCommentaryStopword reports whether w is too common for the
// commentary fallback.
func IsCommentaryStopword(w string) bool { return commentaryStopwords[strings.ToLower(w)] }

// IsBandStopword reports whether w is a generic band-name component.
func IsBandStopword(w string) bool { return bandStopwords[strings.ToLower(w)] }

// WellFormed reports whether s already looks like a known trait id.
func WellFormed(s string) bool {
	cat, _, ok := strings.Cut(s, ":")
	return ok && categories[cat]
}

// Resolve maps one keyword to a query term. Exact alias matches and
// well-formed trait ids pass through at full confidence, substring
// alias matches are discounted, and everything else is retained as a
// raw keyword for the restricted text-search fallback.
func Resolve(word string) domain.Term {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return domain.Term{}
	}
	if id, ok := aliases[w]; ok {
		return domain.ResolvedTerm(id, 1.0)
	}
	if WellFormed(w) {
		return domain.ResolvedTerm(w, 1.0)
	}
	if len(w) >= 3 {
		for _, alias := range aliasKeys {
			if strings.Contains(alias, w) || strings.Contains(w, alias) {
				return domain.ResolvedTerm(aliases[alias], substringWeight)
			}
		}
	}
	return domain.RawTerm(w)
}

// ResolveAll maps a keyword list to query terms, dropping empties and
// duplicate trait ids (the higher-confidence resolution wins).
func ResolveAll(words []string) []domain.Term {
	var terms []domain.Term
	best := make(map[string]int) // trait id -> index in terms
	for _, w := range words {
		term := Resolve(w)
		if term.Weight == 0 {
			continue
		}
		if term.Trait == "" {
			terms = append(terms, term)
			continue
		}
		if i, seen := best[term.Trait]; seen {
			if term.Weight > terms[i].Weight {
				terms[i] = term
			}
			continue
		}
		best[term.Trait] = len(terms)
		terms = append(terms, term)
	}
	return terms
}

// GenreTraits returns the genre trait ids present anywhere in the
// given tracks, used to build dynamic pivot options.
func GenreTraits(tracks []domain.Track) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tracks {
		for id := range t.Traits {
			if strings.HasPrefix(id, "genre:") && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Label turns a trait id into a human-facing word ("genre:jazz" -> "jazz").
func Label(traitID string) string {
	if _, val, ok := strings.Cut(traitID, ":"); ok {
		return val
	}
	return traitID
}
