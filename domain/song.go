package domain

type Platform string

const (
	PlatformSpotify    Platform = "spotify"
	PlatformYoutube    Platform = "youtube"
	PlatformApple      Platform = "apple"
	PlatformSoundcloud Platform = "soundcloud"
	PlatformOther      Platform = "other"
)

type Reaction string

const (
	ReactionLike   Reaction = "like"
	ReactionRepeat Reaction = "repeat"
	ReactionSkip   Reaction = "skip"
)

// Song is the structured payload of a music_card message. The song feed
// is derived from those messages at read time; reactions live in their
// own records so that messages stay immutable.
type Song struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	CoverArt string   `json:"coverArt"`
	AddedBy  string   `json:"addedBy"`
	Platform Platform `json:"platform"`

	// Reactions maps user id to reaction, merged in when the feed is built.
	Reactions map[string]Reaction `json:"reactions,omitempty"`
}

// KnownPlatform normalizes free-form platform strings coming back from
// the enrichment collaborator.
func KnownPlatform(s string) Platform {
	switch Platform(s) {
	case PlatformSpotify, PlatformYoutube, PlatformApple, PlatformSoundcloud:
		return Platform(s)
	default:
		return PlatformOther
	}
}

// KnownReaction reports whether s is one of the supported reactions.
func KnownReaction(s string) bool {
	switch Reaction(s) {
	case ReactionLike, ReactionRepeat, ReactionSkip:
		return true
	default:
		return false
	}
}
