package interrupt

import (
	"testing"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
)

func schedTracks() []domain.Track {
	return []domain.Track{
		{Title: "Deep Night", Artist: "Dust Choir", Traits: map[string]float64{"mood:dark": 1.0, "texture:fuzzy": 0.8, "genre:rock": 0.6}},
		{Title: "Half Light", Artist: "Mirelle Fontaine", Traits: map[string]float64{"mood:dark": 0.9}},
		{Title: "Night Shift", Artist: "Dust Choir", Traits: map[string]float64{"mood:dark": 1.0}},
		{Title: "Lantern", Artist: "Mirelle Fontaine", Traits: map[string]float64{"mood:dark": 0.6}},
		{Title: "Era Twin", Artist: "Ray Hollow", Traits: map[string]float64{"era:70s": 1.0}},
		{Title: "Blue Corner", Artist: "Osei Trio", Traits: map[string]float64{"genre:jazz": 1.0}},
		{Title: "Round Two", Artist: "Osei Trio", Traits: map[string]float64{"genre:jazz": 0.8}},
		{Title: "Creek Song", Artist: "The Ramblers", Traits: map[string]float64{"genre:folk": 0.9}},
		{Title: "Barn Door", Artist: "The Ramblers", Traits: map[string]float64{"genre:folk": 0.7}},
	}
}

func newSched(t *testing.T, bridges ...domain.Bridge) (*Scheduler, *domain.Catalog) {
	t.Helper()
	cat, err := domain.NewCatalog(schedTracks(), bridges)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return New(DefaultCadence(), cat), cat
}

func sessionAt(count int, history ...string) *domain.Session {
	s := domain.NewSession("s")
	s.History = history
	s.SongCount = count
	return s
}

func justPlayed(t *testing.T, cat *domain.Catalog, title string) domain.Track {
	t.Helper()
	track, ok := cat.ByTitle(title)
	if !ok {
		t.Fatalf("track %q not in catalog", title)
	}
	return track
}

func TestTickRespectsCooldown(t *testing.T) {
	s, cat := newSched(t)
	sess := sessionAt(5, "Deep Night")
	sess.LastInterruptAt = 3 // two tracks ago, inside the cooldown

	if out := s.Tick(sess, justPlayed(t, cat, "Deep Night")); out != nil {
		t.Fatalf("Tick fired inside cooldown: %+v", out)
	}
}

func TestRelatedOfferFromOverlap(t *testing.T) {
	s, cat := newSched(t)
	sess := sessionAt(5, "Deep Night")

	out := s.Tick(sess, justPlayed(t, cat, "Deep Night"))
	if out == nil {
		t.Fatal("expected a related offer")
	}
	if out.Interrupt.Type != domain.InterruptRelated {
		t.Fatalf("interrupt type = %q", out.Interrupt.Type)
	}
	p, ok := out.Pending.(domain.PendingRelated)
	if !ok {
		t.Fatalf("Pending = %T, want PendingRelated", out.Pending)
	}
	// Half Light is the strongest different-artist overlap; Night Shift
	// shares the artist and must never be offered.
	if p.Title != "Half Light" {
		t.Errorf("offered %q, want Half Light", p.Title)
	}
	if len(out.Buttons) != 2 {
		t.Errorf("buttons = %v, want accept/decline pair", out.Buttons)
	}
}

func TestRelatedIgnoresEraOnlyOverlap(t *testing.T) {
	s, cat := newSched(t)
	// Every dark track besides the just-played one is in the history, so
	// the only unplayed overlap candidates share nothing but a decade.
	sess := sessionAt(5, "Deep Night", "Half Light", "Night Shift", "Lantern")

	if out := s.Tick(sess, justPlayed(t, cat, "Deep Night")); out != nil {
		t.Fatalf("Tick fired on era-only overlap: %+v", out)
	}
}

func TestCuratedBridgeBeatsDiscoveredOverlap(t *testing.T) {
	s, cat := newSched(t, domain.Bridge{From: "Deep Night", To: "Lantern", Text: "same storm, dimmer light"})
	sess := sessionAt(5, "Deep Night")

	out := s.Tick(sess, justPlayed(t, cat, "Deep Night"))
	if out == nil {
		t.Fatal("expected a related offer")
	}
	p, ok := out.Pending.(domain.PendingRelated)
	if !ok {
		t.Fatalf("Pending = %T", out.Pending)
	}
	if p.Title != "Lantern" || p.Bridge != "same storm, dimmer light" {
		t.Errorf("offer = %+v, want the curated bridge target", p)
	}
}

func TestBridgeFallsBackWhenTargetPlayed(t *testing.T) {
	s, cat := newSched(t, domain.Bridge{From: "Deep Night", To: "Lantern", Text: "same storm"})
	sess := sessionAt(5, "Deep Night", "Lantern")

	out := s.Tick(sess, justPlayed(t, cat, "Deep Night"))
	if out == nil {
		t.Fatal("expected a fallback related offer")
	}
	p := out.Pending.(domain.PendingRelated)
	if p.Title != "Half Light" || p.Bridge != "" {
		t.Errorf("offer = %+v, want discovered Half Light with no bridge text", p)
	}
}

func TestGenrePivotOffersViableContrastingLabels(t *testing.T) {
	s, cat := newSched(t)
	sess := sessionAt(9, "Deep Night", "Half Light", "Night Shift", "Lantern")

	out := s.Tick(sess, justPlayed(t, cat, "Deep Night"))
	if out == nil {
		t.Fatal("expected a genre pivot")
	}
	if out.Interrupt.Type != domain.InterruptGenre {
		t.Fatalf("interrupt type = %q", out.Interrupt.Type)
	}
	// folk and jazz both cover two unplayed tracks; rock is strongly
	// carried by the just-played track and never offered. Ties break
	// alphabetically.
	want := []string{"folk", "jazz"}
	if len(out.Interrupt.Options) != len(want) {
		t.Fatalf("options = %v, want %v", out.Interrupt.Options, want)
	}
	for i := range want {
		if out.Interrupt.Options[i] != want[i] {
			t.Errorf("options[%d] = %q, want %q", i, out.Interrupt.Options[i], want[i])
		}
	}
	if _, ok := out.Pending.(domain.NoPending); !ok {
		t.Errorf("Pending = %T, want NoPending", out.Pending)
	}
}

func TestGenrePivotSkippedWithOneViableOption(t *testing.T) {
	s, cat := newSched(t)
	// Only the jazz pair and the era track remain unplayed: one viable
	// label is a degenerate prompt, so nothing fires.
	sess := sessionAt(9, "Deep Night", "Half Light", "Night Shift", "Lantern", "Creek Song", "Barn Door")

	if out := s.Tick(sess, justPlayed(t, cat, "Deep Night")); out != nil {
		t.Fatalf("Tick fired a degenerate pivot: %+v", out)
	}
}

func TestOpenPivotFiresExactlyOnce(t *testing.T) {
	s, cat := newSched(t)
	sess := sessionAt(12, "Deep Night", "Half Light", "Night Shift", "Lantern")

	out := s.Tick(sess, justPlayed(t, cat, "Deep Night"))
	if out == nil {
		t.Fatal("expected the open pivot")
	}
	if out.Interrupt.Type != domain.InterruptOpenPivot || !out.Interrupt.FreeText {
		t.Fatalf("interrupt = %+v, want free-text open pivot", out.Interrupt)
	}
	if !out.MarkOpenFired {
		t.Error("MarkOpenFired not set")
	}

	sess.OpenPivotFired = true
	if out := s.Tick(sess, justPlayed(t, cat, "Deep Night")); out != nil {
		t.Fatalf("open pivot fired twice: %+v", out)
	}
}

func TestOverlapIgnoresEraTraits(t *testing.T) {
	a := domain.Track{Traits: map[string]float64{"mood:dark": 0.8, "era:70s": 1.0}}
	b := domain.Track{Traits: map[string]float64{"mood:dark": 0.5, "era:70s": 1.0, "genre:jazz": 1.0}}

	got := Overlap(a, b)
	want := 0.8 * 0.5
	if got != want {
		t.Errorf("Overlap = %v, want %v", got, want)
	}
}
