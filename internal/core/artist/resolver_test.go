package artist

import "testing"

func newTestResolver() *Resolver {
	// Longest-first, as domain.Catalog.Artists delivers them.
	return New([]string{
		"Mirelle Fontaine",
		"Golden Brothers",
		"Dust Choir",
		"Ray Hollow",
		"TV",
	})
}

func TestResolve(t *testing.T) {
	r := newTestResolver()
	cases := []struct {
		name     string
		message  string
		want     string
		wantHit  bool
	}{
		{"full name in message", "play some Mirelle Fontaine for me", "Mirelle Fontaine", true},
		{"message inside name", "fontaine", "Mirelle Fontaine", true},
		{"accented variant", "got any Mirelle Fontainé?", "Mirelle Fontaine", true},
		{"meaningful overlap out of order", "anything by fontaine, the mirelle one", "Mirelle Fontaine", true},
		{"single word of multi-word name is not enough", "got any mirelle tracks", "", false},
		{"generic band words never count", "brothers please", "", false},
		{"plain mention of another band", "dust choir again", "Dust Choir", true},
		{"no artist at all", "something mellow and slow", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := r.Resolve(tc.message)
			if hit != tc.wantHit || got != tc.want {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tc.message, got, hit, tc.want, tc.wantHit)
			}
		})
	}
}

func TestGenreWordsDoNotResolveArtists(t *testing.T) {
	r := New([]string{
		"Country Joe and the Fish",
		"Soul Brothers",
		"Dust Choir",
	})
	cases := []struct {
		name    string
		message string
		want    string
		wantHit bool
	}{
		{"bare genre word inside a band name", "country", "", false},
		{"two genre words", "country folk", "", false},
		{"genre word plus real name part", "country joe", "Country Joe and the Fish", true},
		{"genre word elsewhere in message", "some country tunes", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := r.Resolve(tc.message)
			if hit != tc.wantHit || got != tc.want {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tc.message, got, hit, tc.want, tc.wantHit)
			}
		})
	}
}

func TestShortNamesNeedExplicitSignal(t *testing.T) {
	r := newTestResolver()
	cases := []struct {
		name    string
		message string
		wantHit bool
	}{
		{"bare common word", "i watch tv all day", false},
		{"by signal", "something by tv", true},
		{"by-the signal", "play a track by the tv", true},
		{"songs signal", "tv songs please", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := r.Resolve(tc.message)
			if hit != tc.wantHit {
				t.Errorf("Resolve(%q) = %q, %v; want hit=%v", tc.message, got, hit, tc.wantHit)
			}
			if tc.wantHit && got != "TV" {
				t.Errorf("Resolve(%q) = %q, want TV", tc.message, got)
			}
		})
	}
}
