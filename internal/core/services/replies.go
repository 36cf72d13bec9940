package services

import "fmt"

// Canned copy for the paths that never reach the persona generator, and
// the fallbacks for when it is unavailable. Scoring never depends on
// any of this.

const (
	replyEmptyPrompt = "Say something — a mood, a decade, an artist, anything. I'll find you a song."
	replyTooLong     = "That's a lot of words. Give me the short version — a vibe, an artist, a feeling."

	replyExhausted = "That's the whole collection — you've heard every single one. Come back after the next crate dig."

	replyPlaybackHelp   = "Hit play on the embedded player. If it stays silent, your browser may be blocking autoplay — click directly on the player once and it should wake up."
	replyPlatform       = "Everything here streams from wherever the track actually lives — Bandcamp or YouTube mostly. No accounts needed."
	replyEmbedWhy       = "Some of these never made it to streaming, so a video upload is the only place they exist online. Rips and rarities live where they live."
	replyPersonaDefault = "I'm the resident record collector around here. I've got opinions, a crate of songs, and nothing better to do. Ask me for music."

	replyFavoriteAck    = "Noted and logged. I take favorites seriously around here."
	replyFavoriteInvite = "Type it in — a title or an artist, whatever you remember."
	replyFavoriteNoAck  = "Fair enough. The offer stands."

	replyDeclineRelated = "No harm done. Tell me where to go instead."
	replyNothingQueued  = "I don't have anything queued up — tell me what you're after."

	replyNoKeywords = "I couldn't get a read on that one. Try a mood, a genre, a decade — or just say surprise me."
)

func replyNegative(artist string) string {
	if artist == "" {
		return "Fair enough. Point me somewhere better."
	}
	return fmt.Sprintf("Fair — %s isn't for everyone. Tell me what direction to steer instead.", artist)
}

func replyAffirmation(artist string) string {
	if artist == "" {
		return "Glad it landed."
	}
	return fmt.Sprintf("Glad it landed. %s rarely misses. Say the word when you want another.", artist)
}

func replyAlreadyPlayed(title string) string {
	return fmt.Sprintf("Already spun %q this session — I don't repeat myself. Want something in the same lane?", title)
}

func replyArtistExhausted(artist string) string {
	return fmt.Sprintf("You've heard everything I've got from %s. I can chase the same feeling elsewhere if you want.", artist)
}

func replyNoMatch() string {
	return "Nothing in the crate matches that, and I won't pretend otherwise. Maybe one of these directions instead?"
}

func replyNoMatchPlain() string {
	return "Nothing in the crate matches that, and I won't pretend otherwise. Try a different direction."
}

func replyLowConfidence() string {
	return "I could guess, but I'd rather not. Which of these is closest to what you mean?"
}

func replyAllPlayedDirection() string {
	return "You've heard everything I've got in that direction. Time to branch out."
}

func replyServe() string {
	return "Try this one."
}

func replyServeArtist(artist string) string {
	return fmt.Sprintf("Had %s loaded and ready.", artist)
}

func replyServeLike(name string) string {
	return fmt.Sprintf("Channeling %s. This should sit right.", name)
}

func replyServeUnlike(name string) string {
	return fmt.Sprintf("Steering well clear of %s. Opposite end of the crate.", name)
}

func replyServeSurprise() string {
	return "Dealer's choice. Here you go."
}

func replyServeMoreSame() string {
	return "Staying in the pocket."
}

func replyBotFavorite() string {
	return "Asking a collector for one favorite is cruel. Today it's whatever I heard last — ask me tomorrow and it'll change."
}

const askUserFavorite = "But fair's fair — got a favorite in here yet?"
