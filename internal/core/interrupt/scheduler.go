// Package interrupt decides, after each served track, whether to append
// a system-initiated suggestion to the reply. The scheduler is a pure
// policy over session counters; it mutates nothing itself.
package interrupt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
	"github.com/EfrainCalderon/efrain-fm/internal/core/vocab"
)

// Cadence carries the tuned scheduling constants. Override via
// configuration.
type Cadence struct {
	Cooldown         int     `koanf:"cooldown"`           // min tracks between interrupts
	RelatedStart     int     `koanf:"related_start"`      // first track eligible for a related offer
	RelatedEvery     int     `koanf:"related_every"`      // cadence after RelatedStart
	PivotStart       int     `koanf:"pivot_start"`        // first track eligible for a genre pivot
	PivotEvery       int     `koanf:"pivot_every"`        // cadence after PivotStart
	OpenStart        int     `koanf:"open_start"`         // one-shot open pivot from here on
	OverlapThreshold float64 `koanf:"overlap_threshold"`  // min trait overlap for "related"
	StrongCarry      float64 `koanf:"strong_carry"`       // weight above which a trait is "already carried"
	MinPivotOptions  int     `koanf:"min_pivot_options"`  // below this the interrupt is skipped
	MaxPivotOptions  int     `koanf:"max_pivot_options"`  //
	MinTracksPerOpt  int     `koanf:"min_tracks_per_opt"` // unplayed tracks a label must cover
}

// DefaultCadence returns the tuned constants.
func DefaultCadence() Cadence {
	return Cadence{
		Cooldown:         3,
		RelatedStart:     5,
		RelatedEvery:     4,
		PivotStart:       9,
		PivotEvery:       4,
		OpenStart:        12,
		OverlapThreshold: 0.5,
		StrongCarry:      0.5,
		MinPivotOptions:  2,
		MaxPivotOptions:  3,
		MinTracksPerOpt:  2,
	}
}

// genericTraitPrefixes are excluded from related-track overlap: sharing
// a decade says nothing about two tracks belonging together.
var genericTraitPrefixes = []string{"era:"}

// Outcome is a scheduled interrupt plus the session bookkeeping the
// orchestrator must commit alongside it.
type Outcome struct {
	Interrupt     domain.Interrupt
	Pending       domain.Pending // PendingRelated for related offers, else NoPending
	Buttons       []domain.Button
	MarkOpenFired bool
}

// Scheduler computes interrupt outcomes against the catalog.
type Scheduler struct {
	cad     Cadence
	catalog *domain.Catalog
}

// New builds a scheduler.
func New(cad Cadence, catalog *domain.Catalog) *Scheduler {
	return &Scheduler{cad: cad, catalog: catalog}
}

// Tick is called once per served track, after the session's counters
// have been updated for that serve. It returns nil when no interrupt
// should fire.
func (s *Scheduler) Tick(sess *domain.Session, just domain.Track) *Outcome {
	if sess.SongCount-sess.LastInterruptAt < s.cad.Cooldown {
		return nil
	}
	unplayed := s.catalog.Unplayed(sess.History)

	if s.due(sess.SongCount, s.cad.RelatedStart, s.cad.RelatedEvery) {
		if out := s.related(just, unplayed); out != nil {
			return out
		}
	}
	if s.due(sess.SongCount, s.cad.PivotStart, s.cad.PivotEvery) {
		if out := s.genrePivot(just, unplayed); out != nil {
			return out
		}
	}
	if sess.SongCount >= s.cad.OpenStart && !sess.OpenPivotFired {
		if out := s.openPivot(just, unplayed); out != nil {
			out.MarkOpenFired = true
			return out
		}
	}
	return nil
}

func (s *Scheduler) due(count, start, every int) bool {
	return count >= start && (count-start)%every == 0
}

// related offers an unplayed, different-artist track whose non-generic
// trait overlap with the just-played track clears the threshold. A
// curated bridge beats any discovered candidate.
func (s *Scheduler) related(just domain.Track, unplayed []domain.Track) *Outcome {
	var pick *domain.Track
	bridgeText := ""

	if b, ok := s.catalog.BridgeFrom(just.Title); ok {
		if t, found := s.catalog.ByTitle(b.To); found && !strings.EqualFold(t.Artist, just.Artist) {
			for _, u := range unplayed {
				if domain.TitleKey(u.Title) == domain.TitleKey(t.Title) {
					pick = &t
					bridgeText = b.Text
					break
				}
			}
		}
	}

	if pick == nil {
		bestOverlap := s.cad.OverlapThreshold
		for i, u := range unplayed {
			if strings.EqualFold(u.Artist, just.Artist) {
				continue
			}
			if ov := Overlap(just, u); ov > bestOverlap {
				bestOverlap = ov
				pick = &unplayed[i]
			}
		}
	}
	if pick == nil {
		return nil
	}

	msg := fmt.Sprintf("If that landed, I've got something adjacent: %q by %s. Want it next?", pick.Title, pick.Artist)
	return &Outcome{
		Interrupt: domain.Interrupt{
			Type:    domain.InterruptRelated,
			Message: msg,
			Options: []string{labelPlayIt, labelNoThanks},
		},
		Pending: domain.PendingRelated{Title: pick.Title, Bridge: bridgeText},
		Buttons: []domain.Button{
			{Label: labelPlayIt, Action: domain.ActionAcceptRelated},
			{Label: labelNoThanks, Action: domain.ActionDeclineRelated},
		},
	}
}

const (
	labelPlayIt   = "Play it"
	labelNoThanks = "No thanks"
)

// genrePivot offers up to three contrasting genre labels. A label
// qualifies only if the just-played track does not already strongly
// carry it and at least MinTracksPerOpt unplayed tracks do.
func (s *Scheduler) genrePivot(just domain.Track, unplayed []domain.Track) *Outcome {
	options := s.pivotOptions(just, unplayed)
	if len(options) < s.cad.MinPivotOptions {
		return nil // never show a single degenerate option
	}
	labels := make([]string, len(options))
	buttons := make([]domain.Button, len(options))
	for i, id := range options {
		labels[i] = vocab.Label(id)
		buttons[i] = domain.Button{Label: labels[i], Action: domain.ActionGenre, Arg: id}
	}
	return &Outcome{
		Interrupt: domain.Interrupt{
			Type:    domain.InterruptGenre,
			Message: "We could also swerve somewhere else entirely. Any of these?",
			Options: labels,
		},
		Pending: domain.NoPending{},
		Buttons: buttons,
	}
}

// openPivot asks the one-shot open question with the same dynamic options.
func (s *Scheduler) openPivot(just domain.Track, unplayed []domain.Track) *Outcome {
	options := s.pivotOptions(just, unplayed)
	if len(options) < s.cad.MinPivotOptions {
		return nil
	}
	labels := make([]string, len(options))
	buttons := make([]domain.Button, len(options))
	for i, id := range options {
		labels[i] = vocab.Label(id)
		buttons[i] = domain.Button{Label: labels[i], Action: domain.ActionGenre, Arg: id}
	}
	return &Outcome{
		Interrupt: domain.Interrupt{
			Type:     domain.InterruptOpenPivot,
			Message:  "What else are you feeling? Tell me anything, or grab one of these.",
			Options:  labels,
			FreeText: true,
		},
		Pending: domain.NoPending{},
		Buttons: buttons,
	}
}

func (s *Scheduler) pivotOptions(just domain.Track, unplayed []domain.Track) []string {
	var viable []string
	for _, id := range vocab.GenreTraits(unplayed) {
		if just.Traits[id] >= s.cad.StrongCarry {
			continue
		}
		if domain.CountWithTrait(unplayed, id) < s.cad.MinTracksPerOpt {
			continue
		}
		viable = append(viable, id)
	}
	// Deterministic order: deepest unplayed coverage first.
	sort.Slice(viable, func(i, j int) bool {
		ci := domain.CountWithTrait(unplayed, viable[i])
		cj := domain.CountWithTrait(unplayed, viable[j])
		if ci != cj {
			return ci > cj
		}
		return viable[i] < viable[j]
	})
	if len(viable) > s.cad.MaxPivotOptions {
		viable = viable[:s.cad.MaxPivotOptions]
	}
	return viable
}

// Overlap sums paired trait-weight products over non-generic traits.
func Overlap(a, b domain.Track) float64 {
	var sum float64
	for id, wa := range a.Traits {
		if isGenericTrait(id) {
			continue
		}
		if wb, ok := b.Traits[id]; ok {
			sum += wa * wb
		}
	}
	return sum
}

func isGenericTrait(id string) bool {
	for _, p := range genericTraitPrefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}
