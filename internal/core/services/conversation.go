// Package services ties the catalog, scoring engine, artist resolver,
// interrupt scheduler and session store together: one HandleMessage per
// incoming chat message, one HandleFavorite per favorite submission.
package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
	"github.com/EfrainCalderon/efrain-fm/internal/core/interrupt"
	"github.com/EfrainCalderon/efrain-fm/internal/core/ports"
	"github.com/EfrainCalderon/efrain-fm/internal/core/scoring"
	"github.com/EfrainCalderon/efrain-fm/internal/core/vocab"
)

// MaxMessageLen is the over-length rejection bound.
const MaxMessageLen = 500

const buttonKeepVibe = "Keep this vibe"

// Conversation is the orchestrator. All dependencies come in through
// the constructor; the core never reaches out to adapters directly.
type Conversation struct {
	catalog   *domain.Catalog
	engine    *scoring.Engine
	resolver  artistResolver
	scheduler *interrupt.Scheduler
	sessions  ports.SessionStore
	mind      ports.Understanding
	favorites ports.FavoriteLog
	rng       *rand.Rand
	log       zerolog.Logger
	routes    []route
}

// artistResolver is the narrow slice of the resolver the orchestrator needs.
type artistResolver interface {
	Resolve(message string) (string, bool)
}

// New wires a Conversation. rng may be nil; tests inject a seeded one.
func New(
	catalog *domain.Catalog,
	engine *scoring.Engine,
	resolver artistResolver,
	scheduler *interrupt.Scheduler,
	sessions ports.SessionStore,
	mind ports.Understanding,
	favorites ports.FavoriteLog,
	rng *rand.Rand,
	log zerolog.Logger,
) *Conversation {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	c := &Conversation{
		catalog:   catalog,
		engine:    engine,
		resolver:  resolver,
		scheduler: scheduler,
		sessions:  sessions,
		mind:      mind,
		favorites: favorites,
		rng:       rng,
		log:       log.With().Str("component", "conversation").Logger(),
	}
	c.routes = c.buildRoutes()
	return c
}

// turn is the per-message working state handed to route handlers.
type turn struct {
	sess *domain.Session
	msg  string // trimmed original
	norm string // normalized for pattern tests
}

// HandleMessage classifies and answers one chat message. Session
// mutations are committed only through serve/offer helpers after all
// fallible work has finished, so a failure never leaves the session
// half-updated.
func (c *Conversation) HandleMessage(ctx context.Context, sessionID, message string) (domain.Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	reply, err := c.dispatch(ctx, sessionID, message)
	if err != nil {
		return domain.Reply{}, err
	}
	reply.SessionID = sessionID
	return reply, nil
}

func (c *Conversation) dispatch(ctx context.Context, sessionID, message string) (domain.Reply, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return domain.Reply{Response: replyEmptyPrompt}, nil
	}
	if len(msg) > MaxMessageLen {
		return domain.Reply{Response: replyTooLong}, nil
	}

	sess, release := c.sessions.Acquire(sessionID)
	defer release()

	// Exhaustion is terminal: once the history covers the catalog,
	// every message gets the whole-collection response.
	if len(sess.History) >= c.catalog.Len() {
		return domain.Reply{Response: replyExhausted}, nil
	}

	t := &turn{sess: sess, msg: msg, norm: vocab.Normalize(msg)}
	for _, r := range c.routes {
		if r.match(t) {
			reply, err := r.handle(ctx, t)
			if err != nil {
				return domain.Reply{}, fmt.Errorf("services: route %s: %w", r.name, err)
			}
			c.log.Debug().Str("route", r.name).Str("session", sessionID).Msg("message handled")
			return reply, nil
		}
	}
	// buildRoutes ends with a catch-all, so this is unreachable.
	return domain.Reply{Response: replyNoKeywords}, nil
}

// HandleFavorite records a favorite submission and, when the input
// resolves to an unplayed catalog entry, serves that track.
func (c *Conversation) HandleFavorite(ctx context.Context, sessionID, input string) (domain.Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	reply, err := c.favorite(ctx, sessionID, input)
	if err != nil {
		return domain.Reply{}, err
	}
	reply.SessionID = sessionID
	return reply, nil
}

func (c *Conversation) favorite(ctx context.Context, sessionID, input string) (domain.Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Reply{Response: replyFavoriteInvite}, nil
	}

	// At-least-once: one retry, then fail the request. Duplicates are
	// acceptable, loss is not.
	if err := c.favorites.Append(ctx, sessionID, input); err != nil {
		c.log.Warn().Err(err).Msg("favorite append failed, retrying")
		if err := c.favorites.Append(ctx, sessionID, input); err != nil {
			return domain.Reply{}, fmt.Errorf("services: favorite log: %w", err)
		}
	}

	sess, release := c.sessions.Acquire(sessionID)
	defer release()
	sess.FavoritePromptFired = true

	track, found := c.catalog.ByTitle(input)
	if !found {
		if name, ok := c.resolver.Resolve(input); ok {
			if picked, ok := c.pickUnplayedByArtist(sess, name); ok {
				track, found = picked, true
			}
		}
	}
	if found && !sess.Played(track.Title) {
		return c.serve(sess, track, replyFavoriteAck, ""), nil
	}
	return domain.Reply{Response: replyFavoriteAck}, nil
}

// Stats summarizes the catalog for the stats endpoint.
func (c *Conversation) Stats() domain.CatalogStats {
	genres := make(map[string]int)
	for _, id := range vocab.GenreTraits(c.catalog.Tracks()) {
		genres[vocab.Label(id)] = domain.CountWithTrait(c.catalog.Tracks(), id)
	}
	return domain.CatalogStats{
		Tracks:  c.catalog.Len(),
		Artists: len(c.catalog.Artists()),
		Genres:  genres,
	}
}

// serve commits a played track to the session, ticks the interrupt
// scheduler, and assembles the outgoing payload. This is the only
// place a track enters the history.
func (c *Conversation) serve(sess *domain.Session, t domain.Track, response, bridging string) domain.Reply {
	sess.RecordPlay(t)
	sess.ClearOffer()

	reply := domain.Reply{
		Response:         response,
		Song:             domain.ViewOf(t),
		BridgingResponse: bridging,
	}

	buttons := []domain.Button{{Label: buttonKeepVibe, Action: domain.ActionKeepVibe}}
	if out := c.scheduler.Tick(sess, t); out != nil {
		sess.LastInterruptAt = sess.SongCount
		sess.Pending = out.Pending
		if out.MarkOpenFired {
			sess.OpenPivotFired = true
		}
		i := out.Interrupt
		reply.Interrupt = &i
		buttons = append(buttons, out.Buttons...)
	}
	sess.Buttons = buttons
	return reply
}

// selectAndServe runs gate-then-pick and maps every terminal state to a
// reply; only genuine internal failures become errors.
func (c *Conversation) selectAndServe(sess *domain.Session, q domain.Query, response string) domain.Reply {
	track, err := c.engine.Select(c.catalog.Tracks(), sess.History, q)
	switch {
	case err == nil:
		return c.serve(sess, track, response, "")
	case err == scoring.ErrAllPlayed:
		sess.ClearOffer()
		return domain.Reply{Response: replyAllPlayedDirection()}
	case err == scoring.ErrLowConfidence:
		return c.clarifier(sess, replyLowConfidence())
	default: // scoring.ErrNoMatch
		return c.noMatch(sess)
	}
}

// noMatch produces the apology, with a genre-pivot suggestion when at
// least two viable directions exist.
func (c *Conversation) noMatch(sess *domain.Session) domain.Reply {
	return c.clarifierWith(sess, replyNoMatch(), replyNoMatchPlain())
}

func (c *Conversation) clarifier(sess *domain.Session, msg string) domain.Reply {
	return c.clarifierWith(sess, msg, msg)
}

// clarifierWith attaches contrasting genre options when enough exist,
// falling back to the plain message otherwise.
func (c *Conversation) clarifierWith(sess *domain.Session, withOptions, plain string) domain.Reply {
	unplayed := c.catalog.Unplayed(sess.History)
	var options []string
	var buttons []domain.Button
	for _, id := range vocab.GenreTraits(unplayed) {
		if domain.CountWithTrait(unplayed, id) < 2 {
			continue
		}
		options = append(options, vocab.Label(id))
		buttons = append(buttons, domain.Button{Label: vocab.Label(id), Action: domain.ActionGenre, Arg: id})
		if len(options) == 3 {
			break
		}
	}
	if len(options) < 2 {
		sess.ClearOffer()
		return domain.Reply{Response: plain}
	}
	sess.Pending = domain.NoPending{}
	sess.Buttons = buttons
	return domain.Reply{
		Response:  withOptions,
		Interrupt: &domain.Interrupt{Type: domain.InterruptGenre, Message: withOptions, Options: options},
	}
}

// pickUnplayedByArtist draws uniformly among an artist's unplayed tracks.
func (c *Conversation) pickUnplayedByArtist(sess *domain.Session, name string) (domain.Track, bool) {
	var pool []domain.Track
	for _, t := range c.catalog.ByArtist(name) {
		if !sess.Played(t.Title) {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		return domain.Track{}, false
	}
	return pool[c.rng.Intn(len(pool))], true
}

// pickUnplayed draws uniformly from the whole unplayed set, bypassing
// scoring entirely.
func (c *Conversation) pickUnplayed(sess *domain.Session) (domain.Track, bool) {
	pool := c.catalog.Unplayed(sess.History)
	if len(pool) == 0 {
		return domain.Track{}, false
	}
	return pool[c.rng.Intn(len(pool))], true
}
