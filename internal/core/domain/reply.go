package domain

// TrackView is the client-facing projection of a served track.
type TrackView struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	PlayableURL string `json:"playableUrl"`
	TagTitle    string `json:"tagTitle,omitempty"`
	TagURL      string `json:"tagUrl,omitempty"`
}

// ViewOf projects a track for the wire.
func ViewOf(t Track) *TrackView {
	return &TrackView{
		Title:       t.Title,
		Artist:      t.Artist,
		PlayableURL: t.PlayableURL(),
		TagTitle:    t.TagTitle,
		TagURL:      t.TagURL,
	}
}

// Interrupt types.
const (
	InterruptRelated   = "related"
	InterruptGenre     = "genre_pivot"
	InterruptOpenPivot = "open_pivot"
	InterruptFavorite  = "favorite_prompt"
)

// Interrupt is a system-initiated suggestion appended to a reply.
type Interrupt struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Options  []string `json:"options,omitempty"`
	FreeText bool     `json:"freeText,omitempty"`
}

// Reply is the outgoing payload for one chat message. SessionID echoes
// the effective session id so clients that omitted one can keep the
// session the server minted for them.
type Reply struct {
	Response         string     `json:"response"`
	Song             *TrackView `json:"song"`
	SessionID        string     `json:"sessionId,omitempty"`
	BridgingResponse string     `json:"bridgingResponse,omitempty"`
	Interrupt        *Interrupt `json:"interrupt,omitempty"`
}

// CatalogStats is a small observability projection of the catalog.
type CatalogStats struct {
	Tracks  int            `json:"tracks"`
	Artists int            `json:"artists"`
	Genres  map[string]int `json:"genres"`
}
