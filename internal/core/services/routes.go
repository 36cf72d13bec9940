package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
	"github.com/EfrainCalderon/efrain-fm/internal/core/vocab"
)

// route is one (predicate, handler) pair. The router is this ordered
// list evaluated fresh per message, short-circuiting on first match;
// the priority order is the artifact, not incidental code order.
type route struct {
	name   string
	match  func(*turn) bool
	handle func(context.Context, *turn) (domain.Reply, error)
}

// Heuristic detectors, each a precise phrase-pattern test. Kept
// deliberately narrow: a miss falls through to the descriptive search,
// a false positive hijacks the conversation.
var (
	reFavoriteAsk = regexp.MustCompile(`(?i)your favou?rite|you like (the )?most|your top (song|track|pick)`)
	reNegative    = regexp.MustCompile(`(?i)(don'?t|do not|didn'?t) like|not (really )?(my|for me)|\bhate[sd]? (it|this|that)|\bskip (it|this|that)\b|\bnope\b|\bmeh\b|not feeling (it|this|that)|\bawful\b|\bterrible\b|make it stop|something (else|better), please`)
	reAffirm      = regexp.MustCompile(`(?i)\blove[d]? (it|this|that)\b|\b(amazing|awesome|perfect|beautiful|gorgeous|incredible)\b|\b(great|nice|cool|good) (one|track|song|pick|choice|call)\b|thank(s| you)|this is (great|good|nice)`)
	rePlayback    = regexp.MustCompile(`(?i)(won'?t|doesn'?t|can'?t|isn'?t) (play|playing|work|working)|no sound|can'?t hear|how do i (play|listen|start)|nothing (is )?(playing|happening)`)
	rePlatform    = regexp.MustCompile(`(?i)what platform|is this (on )?(spotify|youtube|bandcamp|apple music)|where (is this|are these) (from|hosted)|what (app|service|site) is this`)
	reEmbedWhy    = regexp.MustCompile(`(?i)why (is this |is it )?(a )?(video|youtube)`)
	rePersona     = regexp.MustCompile(`(?i)who are you|what are you\b|are you (a )?(bot|robot|human|real|an ai)|how old are you|where are you from|what'?s your (name|deal|story)`)
	reMoreSame    = regexp.MustCompile(`(?i)more like (this|that)|another (one )?like (this|that)|keep (this|that|it|the vibe) going|same (vibe|energy|mood)|more of (the same|that|this)`)

	reLikeNeg = regexp.MustCompile(`(?i)\b(?:nothing like|anything but|not like|nothing by)\s+(.+)$`)
	reLikePos = regexp.MustCompile(`(?i)\b(?:sounds? like|something like|similar to|reminds? me of|in the vein of|like)\s+(.+)$`)

	rePreferVideo = regexp.MustCompile(`(?i)\b(video|watch|visual)`)
	reContrast    = regexp.MustCompile(`(?i)^(.+?)\s+but\s+(.+)$`)

	reFiller = regexp.MustCompile(`(?i)\b(can you|could you|please|play me|put on|give me|i want to hear|i want|i'?d like|i would like|how about|what about|something|some|a bit of|kinda|maybe|for me|play)\b`)
)

// genericRequests are the bare "you pick" utterances that short-circuit
// to uniform-random selection, bypassing scoring entirely.
var genericRequests = map[string]bool{
	"":               true,
	"surprise me":    true,
	"something else": true,
	"anything":       true,
	"whatever":       true,
	"random":         true,
	"you pick":       true,
	"dealer s choice": true,
	"something new":  true,
	"another":        true,
	"another one":    true,
	"more":           true,
	"next":           true,
}

func (c *Conversation) buildRoutes() []route {
	return []route{
		// Button labels outrank every heuristic: "No thanks" would
		// otherwise read as a negative reaction.
		{name: "button", match: c.matchButton, handle: c.handleButton},
		{name: "favorite_ask", match: matchRe(reFavoriteAsk), handle: c.handleFavoriteAsk},
		{name: "negative", match: matchRe(reNegative), handle: c.handleNegative},
		{name: "affirmation", match: c.matchAffirmation, handle: c.handleAffirmation},
		{name: "playback", match: matchRe(rePlayback), handle: fixedReply(replyPlaybackHelp)},
		{name: "platform", match: matchRe(rePlatform), handle: fixedReply(replyPlatform)},
		{name: "embed_why", match: matchRe(reEmbedWhy), handle: fixedReply(replyEmbedWhy)},
		{name: "persona", match: matchRe(rePersona), handle: c.handlePersona},
		{name: "more_same", match: c.matchMoreSame, handle: c.handleMoreSame},
		{name: "play_title", match: c.matchPlayTitle, handle: c.handlePlayTitle},
		{name: "like_artist", match: c.matchLikeArtist, handle: c.handleLikeArtist},
		{name: "artist_lookup", match: c.matchArtistLookup, handle: c.handleArtistLookup},
		{name: "descriptive", match: func(*turn) bool { return true }, handle: c.handleDescriptive},
	}
}

func matchRe(re *regexp.Regexp) func(*turn) bool {
	return func(t *turn) bool { return re.MatchString(t.msg) }
}

func fixedReply(text string) func(context.Context, *turn) (domain.Reply, error) {
	return func(context.Context, *turn) (domain.Reply, error) {
		return domain.Reply{Response: text}, nil
	}
}

// --- buttons ---

func (c *Conversation) matchButton(t *turn) bool {
	_, ok := t.sess.ButtonFor(t.msg)
	return ok
}

func (c *Conversation) handleButton(ctx context.Context, t *turn) (domain.Reply, error) {
	b, _ := t.sess.ButtonFor(t.msg)
	switch b.Action {
	case domain.ActionKeepVibe:
		return c.handleMoreSame(ctx, t)
	case domain.ActionAcceptRelated:
		switch p := t.sess.Pending.(type) {
		case domain.PendingRelated:
			track, ok := c.catalog.ByTitle(p.Title)
			if !ok || t.sess.Played(track.Title) {
				t.sess.ClearOffer()
				return domain.Reply{Response: replyNothingQueued}, nil
			}
			return c.serve(t.sess, track, replyServe(), p.Bridge), nil
		default: // domain.NoPending
			t.sess.ClearOffer()
			return domain.Reply{Response: replyNothingQueued}, nil
		}
	case domain.ActionDeclineRelated:
		t.sess.ClearOffer()
		return domain.Reply{Response: replyDeclineRelated}, nil
	case domain.ActionFavoriteYes:
		t.sess.ClearOffer()
		return domain.Reply{Response: replyFavoriteInvite}, nil
	case domain.ActionFavoriteNo:
		t.sess.ClearOffer()
		return domain.Reply{Response: replyFavoriteNoAck}, nil
	case domain.ActionGenre:
		q := domain.Query{Terms: []domain.Term{domain.ResolvedTerm(b.Arg, 1.0)}}
		return c.selectAndServe(t.sess, q, replyServe()), nil
	}
	return domain.Reply{Response: replyNoKeywords}, nil
}

// --- heuristics ---

func (c *Conversation) handleFavoriteAsk(ctx context.Context, t *turn) (domain.Reply, error) {
	text := c.persona(ctx, "the visitor asked what your favorite song in the collection is", t, replyBotFavorite())
	reply := domain.Reply{Response: text}
	if !t.sess.FavoritePromptFired {
		t.sess.FavoritePromptFired = true
		reply.Interrupt = &domain.Interrupt{
			Type:    domain.InterruptFavorite,
			Message: askUserFavorite,
			Options: []string{"I'll tell you", "Not now"},
		}
		t.sess.Pending = domain.NoPending{}
		t.sess.Buttons = []domain.Button{
			{Label: "I'll tell you", Action: domain.ActionFavoriteYes},
			{Label: "Not now", Action: domain.ActionFavoriteNo},
		}
	}
	return reply, nil
}

func (c *Conversation) handleNegative(_ context.Context, t *turn) (domain.Reply, error) {
	t.sess.ClearOffer()
	return domain.Reply{Response: replyNegative(t.sess.LastArtist)}, nil
}

func (c *Conversation) matchAffirmation(t *turn) bool {
	return t.sess.SongCount > 0 && reAffirm.MatchString(t.msg)
}

func (c *Conversation) handleAffirmation(_ context.Context, t *turn) (domain.Reply, error) {
	return domain.Reply{Response: replyAffirmation(t.sess.LastArtist)}, nil
}

func (c *Conversation) handlePersona(ctx context.Context, t *turn) (domain.Reply, error) {
	return domain.Reply{Response: c.persona(ctx, t.msg, t, replyPersonaDefault)}, nil
}

// persona calls the generator before any session mutation and degrades
// to the fixed fallback on failure or empty output.
func (c *Conversation) persona(ctx context.Context, prompt string, t *turn, fallback string) string {
	bg := ""
	if t.sess.LastTitle != "" {
		bg = "currently playing: " + t.sess.LastTitle + " by " + t.sess.LastArtist
	}
	text, err := c.mind.GeneratePersonaReply(ctx, prompt, bg)
	if err != nil {
		c.log.Warn().Err(err).Msg("persona generation failed, using fallback")
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// --- more of the same ---

func (c *Conversation) matchMoreSame(t *turn) bool {
	return len(t.sess.LastTraits) > 0 && reMoreSame.MatchString(t.msg)
}

func (c *Conversation) handleMoreSame(_ context.Context, t *turn) (domain.Reply, error) {
	ids := make([]string, 0, len(t.sess.LastTraits))
	for id := range t.sess.LastTraits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	terms := make([]domain.Term, 0, len(ids))
	for _, id := range ids {
		terms = append(terms, domain.ResolvedTerm(id, t.sess.LastTraits[id]))
	}
	if len(terms) == 0 {
		return domain.Reply{Response: replyNoKeywords}, nil
	}
	return c.selectAndServe(t.sess, domain.Query{Terms: terms}, replyServeMoreSame()), nil
}

// --- play <title> ---

func (c *Conversation) playTitleArg(t *turn) (domain.Track, bool) {
	lower := strings.ToLower(t.msg)
	if !strings.HasPrefix(lower, "play ") {
		return domain.Track{}, false
	}
	title := strings.Trim(strings.TrimSpace(t.msg[len("play "):]), `"'`)
	return c.catalog.ByTitle(title)
}

func (c *Conversation) matchPlayTitle(t *turn) bool {
	_, ok := c.playTitleArg(t)
	return ok
}

func (c *Conversation) handlePlayTitle(_ context.Context, t *turn) (domain.Reply, error) {
	track, _ := c.playTitleArg(t)
	if t.sess.Played(track.Title) {
		return domain.Reply{Response: replyAlreadyPlayed(track.Title)}, nil
	}
	// Exact title requests bypass scoring entirely.
	return c.serve(t.sess, track, replyServe(), ""), nil
}

// --- like <artist> / nothing like <artist> ---

// pronounRefs are captures after "like" that point back at the current
// track rather than naming an artist ("i like it", "nothing like that").
var pronounRefs = map[string]bool{
	"it": true, "this": true, "that": true, "them": true,
	"these": true, "those": true, "him": true, "her": true,
	"me": true, "you": true, "us": true, "this one": true,
	"that one": true,
}

// likeArtistArg extracts the reference name, rejecting captures that are
// really descriptive ("like something mellow" resolves to traits, not a
// band) or pronouns pointing at the current track.
func likeArtistArg(msg string) (name string, negated, ok bool) {
	if m := reLikeNeg.FindStringSubmatch(msg); m != nil {
		name, negated = m[1], true
	} else if m := reLikePos.FindStringSubmatch(msg); m != nil {
		name = m[1]
	} else {
		return "", false, false
	}
	name = strings.Trim(strings.TrimSpace(name), `"'.,!?`)
	if name == "" || pronounRefs[strings.ToLower(name)] {
		return "", false, false
	}
	for _, tok := range vocab.Tokens(name) {
		if vocab.IsGenreWord(tok) {
			return "", false, false
		}
		if term := vocab.Resolve(tok); term.Trait != "" {
			return "", false, false
		}
	}
	return name, negated, true
}

func (c *Conversation) matchLikeArtist(t *turn) bool {
	_, _, ok := likeArtistArg(t.msg)
	return ok
}

func (c *Conversation) handleLikeArtist(ctx context.Context, t *turn) (domain.Reply, error) {
	name, negated, _ := likeArtistArg(t.msg)

	// The reference artist is described by the understanding service,
	// not looked up in the catalog.
	words, err := c.mind.ExtractEntityTraits(ctx, name)
	if err != nil {
		c.log.Warn().Err(err).Str("artist", name).Msg("entity trait extraction failed")
		words = nil
	}
	var terms []domain.Term
	for _, term := range vocab.ResolveAll(words) {
		if term.Trait != "" {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return domain.Reply{Response: replyNoKeywords}, nil
	}

	q := domain.Query{Terms: terms, Negated: negated}
	response := replyServeLike(name)
	if negated {
		q.ExcludeArtist = name
		response = replyServeUnlike(name)
	}
	return c.selectAndServe(t.sess, q, response), nil
}

// --- direct artist lookup ---

func (c *Conversation) matchArtistLookup(t *turn) bool {
	_, ok := c.resolver.Resolve(t.msg)
	return ok
}

func (c *Conversation) handleArtistLookup(_ context.Context, t *turn) (domain.Reply, error) {
	name, _ := c.resolver.Resolve(t.msg)
	if track, ok := c.pickUnplayedByArtist(t.sess, name); ok {
		return c.serve(t.sess, track, replyServeArtist(name), ""), nil
	}
	return domain.Reply{Response: replyArtistExhausted(name)}, nil
}

// --- descriptive search (fallback, always matches) ---

func (c *Conversation) handleDescriptive(ctx context.Context, t *turn) (domain.Reply, error) {
	stripped := strings.TrimSpace(reFiller.ReplaceAllString(t.msg, " "))

	if genericRequests[vocab.Normalize(stripped)] {
		return c.serveSurprise(t), nil
	}

	q := domain.Query{PreferVideo: rePreferVideo.MatchString(t.msg)}
	if m := reContrast.FindStringSubmatch(stripped); m != nil {
		before := traitIDs(vocab.ResolveAll(vocab.Tokens(m[1])))
		after := traitIDs(vocab.ResolveAll(vocab.Tokens(m[2])))
		if len(before) > 0 && len(after) > 0 {
			q.Contrast = &domain.Contrast{Before: before, After: after}
		}
	}

	words, err := c.mind.ExtractQueryTerms(ctx, stripped)
	if err != nil {
		c.log.Warn().Err(err).Msg("query term extraction failed, degrading to literal tokens")
		words = nil
	}
	if len(words) == 0 {
		// Typed-directly path: resolve the visitor's own words.
		words = vocab.Tokens(stripped)
	}

	terms := usableTerms(vocab.ResolveAll(words))
	if len(terms) == 0 {
		return c.serveSurprise(t), nil
	}
	q.Terms = terms
	return c.selectAndServe(t.sess, q, replyServe()), nil
}

// serveSurprise draws uniformly from the unplayed set.
func (c *Conversation) serveSurprise(t *turn) domain.Reply {
	track, ok := c.pickUnplayed(t.sess)
	if !ok {
		return domain.Reply{Response: replyExhausted}
	}
	return c.serve(t.sess, track, replyServeSurprise(), "")
}

func traitIDs(terms []domain.Term) []string {
	var ids []string
	for _, t := range terms {
		if t.Trait != "" {
			ids = append(ids, t.Trait)
		}
	}
	return ids
}

// functionWords never count as raw keywords; they would otherwise
// collide with articles and prepositions inside track titles.
var functionWords = map[string]bool{
	"from": true, "with": true, "that": true, "this": true,
	"what": true, "have": true, "want": true, "hear": true,
	"like": true, "feel": true, "more": true, "less": true,
	"really": true, "very": true, "then": true, "when": true,
}

// usableTerms keeps every resolved trait and only the raw keywords
// substantial enough for the restricted text fallback.
func usableTerms(terms []domain.Term) []domain.Term {
	var out []domain.Term
	for _, t := range terms {
		if t.Trait != "" {
			out = append(out, t)
			continue
		}
		if len(t.Raw) >= 4 && !vocab.IsGenreWord(t.Raw) && !functionWords[t.Raw] {
			out = append(out, t)
		}
	}
	return out
}
