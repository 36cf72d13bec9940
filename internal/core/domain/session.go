package domain

// Pending is the deferred-suggestion slot. It is a sealed variant so
// resolution and expiry logic can be checked exhaustively: a session
// holds either NoPending or one PendingRelated awaiting a yes/no reply.
type Pending interface{ pending() }

// NoPending means no suggestion is awaiting a reply.
type NoPending struct{}

func (NoPending) pending() {}

// PendingRelated is a related-track offer awaiting accept/decline.
type PendingRelated struct {
	Title  string
	Bridge string // transitional remark shown if accepted
}

func (PendingRelated) pending() {}

// ButtonAction identifies what a pending UI button does when clicked.
type ButtonAction int

const (
	ActionKeepVibe ButtonAction = iota
	ActionAcceptRelated
	ActionDeclineRelated
	ActionFavoriteYes
	ActionFavoriteNo
	ActionGenre // Arg carries the trait id
)

// Button is a choice the last reply offered; the router matches incoming
// messages against these labels before any heuristic classifier runs.
type Button struct {
	Label  string
	Action ButtonAction
	Arg    string
}

// Session is the mutable per-conversation state, keyed by an opaque
// client-supplied identifier. Created lazily on first message.
type Session struct {
	ID string

	// History is append-only; the unplayed set is the catalog minus it.
	History []string

	LastTitle  string
	LastArtist string
	LastTraits map[string]float64

	SongCount       int
	LastInterruptAt int // SongCount value when the last interrupt fired

	FavoritePromptFired bool
	OpenPivotFired      bool

	Pending Pending
	Buttons []Button
}

// NewSession returns a fresh session with an empty pending slot.
func NewSession(id string) *Session {
	return &Session{ID: id, Pending: NoPending{}}
}

// Played reports whether a title is already in the play history.
func (s *Session) Played(title string) bool {
	key := TitleKey(title)
	for _, h := range s.History {
		if TitleKey(h) == key {
			return true
		}
	}
	return false
}

// RecordPlay appends a served track to the history and updates the
// last-track fields and counters in one step, so history and counters
// can never diverge.
func (s *Session) RecordPlay(t Track) {
	s.History = append(s.History, t.Title)
	s.LastTitle = t.Title
	s.LastArtist = t.Artist
	s.LastTraits = t.Traits
	s.SongCount++
}

// ClearOffer resets the pending slot and button set.
func (s *Session) ClearOffer() {
	s.Pending = NoPending{}
	s.Buttons = nil
}

// ButtonFor matches a message against the pending button labels.
func (s *Session) ButtonFor(message string) (Button, bool) {
	for _, b := range s.Buttons {
		if TitleKey(b.Label) == TitleKey(message) {
			return b, true
		}
	}
	return Button{}, false
}
