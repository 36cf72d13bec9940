package domain

// Term is one query component: either a resolved trait id with a
// confidence weight, or an unresolved raw keyword kept for the
// restricted text-search fallback.
type Term struct {
	Trait  string // empty for raw keywords
	Raw    string // empty for resolved traits
	Weight float64
}

// ResolvedTerm builds a trait term.
func ResolvedTerm(trait string, weight float64) Term {
	return Term{Trait: trait, Weight: weight}
}

// RawTerm builds an unresolved keyword term.
func RawTerm(word string) Term {
	return Term{Raw: word, Weight: 1.0}
}

// Contrast is an "X but Y" modifier: trait ids from the clause before
// "but" are dampened, those after are boosted.
type Contrast struct {
	Before []string
	After  []string
}

// Query is the transient per-message value fed to the scoring engine.
type Query struct {
	Terms       []Term
	PreferVideo bool
	Contrast    *Contrast
	// Negated inverts the ranking: select from the lowest scorers.
	Negated bool
	// ExcludeArtist drops that artist's tracks from selection entirely,
	// used for negated similarity requests.
	ExcludeArtist string
}

// HasTraits reports whether any term resolved to a trait id.
func (q Query) HasTraits() bool {
	for _, t := range q.Terms {
		if t.Trait != "" {
			return true
		}
	}
	return false
}
