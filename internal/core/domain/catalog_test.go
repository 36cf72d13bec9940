package domain

import (
	"errors"
	"testing"
)

func testTracks() []Track {
	return []Track{
		{Title: "Night Drive", Artist: "Dust Choir", Traits: map[string]float64{"mood:dark": 0.8, "genre:rock": 0.6}},
		{Title: "Golden Hour", Artist: "Mirelle Fontaine", Traits: map[string]float64{"mood:bright": 0.9}},
		{Title: "Slow Rain", Artist: "Dust Choir", Traits: map[string]float64{"energy:low": 0.7, "genre:rock": 0.4}},
	}
}

func TestNewCatalogRejectsDuplicateTitles(t *testing.T) {
	tracks := testTracks()
	tracks = append(tracks, Track{Title: "night drive", Artist: "Someone Else"})

	_, err := NewCatalog(tracks, nil)
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestNewCatalogRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		track Track
	}{
		{"empty title", Track{Title: "  ", Artist: "Dust Choir"}},
		{"empty artist", Track{Title: "Night Drive", Artist: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCatalog([]Track{tc.track}, nil); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestNewCatalogRejectsUnknownBridgeTarget(t *testing.T) {
	bridges := []Bridge{{From: "Night Drive", To: "Not In Catalog", Text: "trust me"}}
	if _, err := NewCatalog(testTracks(), bridges); err == nil {
		t.Fatal("expected bridge validation error, got nil")
	}
}

func TestBridgeFrom(t *testing.T) {
	bridges := []Bridge{{From: "Night Drive", To: "Slow Rain", Text: "same storm, slower"}}
	c, err := NewCatalog(testTracks(), bridges)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	b, ok := c.BridgeFrom("NIGHT DRIVE")
	if !ok {
		t.Fatal("expected bridge from Night Drive")
	}
	if b.To != "Slow Rain" {
		t.Errorf("bridge target = %q, want Slow Rain", b.To)
	}
	if _, ok := c.BridgeFrom("Golden Hour"); ok {
		t.Error("unexpected bridge from Golden Hour")
	}
}

func TestUnplayed(t *testing.T) {
	c, err := NewCatalog(testTracks(), nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	got := c.Unplayed([]string{"night drive", "Golden Hour"})
	if len(got) != 1 || got[0].Title != "Slow Rain" {
		t.Fatalf("Unplayed = %v, want just Slow Rain", got)
	}
	if n := len(c.Unplayed(nil)); n != 3 {
		t.Errorf("Unplayed(nil) = %d tracks, want 3", n)
	}
}

func TestArtistsLongestFirst(t *testing.T) {
	c, err := NewCatalog(testTracks(), nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	got := c.Artists()
	want := []string{"Mirelle Fontaine", "Dust Choir"}
	if len(got) != len(want) {
		t.Fatalf("Artists = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Artists[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestByArtistIsCaseInsensitive(t *testing.T) {
	c, err := NewCatalog(testTracks(), nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if n := len(c.ByArtist("dust choir")); n != 2 {
		t.Errorf("ByArtist(dust choir) = %d tracks, want 2", n)
	}
}

func TestCountWithTrait(t *testing.T) {
	tracks := testTracks()
	if n := CountWithTrait(tracks, "genre:rock"); n != 2 {
		t.Errorf("CountWithTrait(genre:rock) = %d, want 2", n)
	}
	if n := CountWithTrait(tracks, "genre:jazz"); n != 0 {
		t.Errorf("CountWithTrait(genre:jazz) = %d, want 0", n)
	}
}
