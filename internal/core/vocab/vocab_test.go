package vocab

import (
	"testing"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
)

func TestResolveTiers(t *testing.T) {
	cases := []struct {
		word       string
		wantTrait  string
		wantRaw    string
		wantWeight float64
	}{
		{"mellow", "energy:low", "", 1.0},
		{"SAD", "mood:melancholic", "", 1.0},
		{"70s", "era:70s", "", 1.0},
		{"mood:dark", "mood:dark", "", 1.0},      // well-formed id passes through
		{"mello", "energy:low", "", 0.7},          // substring of an alias, discounted
		{"jaz", "genre:jazz", "", 0.7},
		{"moonlight", "", "moonlight", 1.0},       // unknown word stays raw
		{"ab", "", "ab", 1.0},                     // too short for substring matching
	}
	for _, tc := range cases {
		t.Run(tc.word, func(t *testing.T) {
			got := Resolve(tc.word)
			if got.Trait != tc.wantTrait || got.Raw != tc.wantRaw || got.Weight != tc.wantWeight {
				t.Errorf("Resolve(%q) = %+v, want trait=%q raw=%q weight=%v",
					tc.word, got, tc.wantTrait, tc.wantRaw, tc.wantWeight)
			}
		})
	}
}

func TestResolveEmpty(t *testing.T) {
	if got := Resolve("   "); got.Weight != 0 {
		t.Errorf("Resolve(blank) = %+v, want zero term", got)
	}
}

func TestResolveAllDeduplicatesKeepingHigherConfidence(t *testing.T) {
	// "mello" resolves to energy:low at 0.7, "mellow" at 1.0; the exact
	// hit must win regardless of order.
	terms := ResolveAll([]string{"mello", "mellow", "moonlight"})
	if len(terms) != 2 {
		t.Fatalf("ResolveAll = %+v, want 2 terms", terms)
	}
	if terms[0].Trait != "energy:low" || terms[0].Weight != 1.0 {
		t.Errorf("terms[0] = %+v, want energy:low at 1.0", terms[0])
	}
	if terms[1].Raw != "moonlight" {
		t.Errorf("terms[1] = %+v, want raw moonlight", terms[1])
	}
}

func TestGenreWordsAreProtected(t *testing.T) {
	for _, w := range []string{"country", "soul", "rock", "Mellow"} {
		if !IsGenreWord(w) {
			t.Errorf("IsGenreWord(%q) = false, want true", w)
		}
	}
	if IsGenreWord("moonlight") {
		t.Error("IsGenreWord(moonlight) = true")
	}
}

func TestGenreTraits(t *testing.T) {
	tracks := []domain.Track{
		{Traits: map[string]float64{"genre:jazz": 0.8, "mood:dark": 0.5}},
		{Traits: map[string]float64{"genre:jazz": 0.4, "genre:folk": 0.9}},
	}
	got := GenreTraits(tracks)
	seen := map[string]bool{}
	for _, id := range got {
		seen[id] = true
	}
	if len(got) != 2 || !seen["genre:jazz"] || !seen["genre:folk"] {
		t.Errorf("GenreTraits = %v, want genre:jazz and genre:folk once each", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("genre:jazz"); got != "jazz" {
		t.Errorf("Label(genre:jazz) = %q", got)
	}
	if got := Label("bare"); got != "bare" {
		t.Errorf("Label(bare) = %q", got)
	}
}

func TestWellFormed(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"mood:dark", true},
		{"era:70s", true},
		{"flavor:spicy", false}, // unknown category
		{"mood", false},
	}
	for _, tc := range cases {
		if got := WellFormed(tc.id); got != tc.want {
			t.Errorf("WellFormed(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
