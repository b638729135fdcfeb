//go:generate go run go.uber.org/mock/mockgen -source=enricher.go -destination=../mocks/mock_enricher.go -package=mocks
// Package enrichment talks to the external metadata-enrichment model.
// Both calls may be slow and may fail; callers degrade to deterministic
// fallbacks and never let a failure reach the game or message state
// machines.
package enrichment

import "context"

// SongMetadata is what the model extracts from a shared link.
type SongMetadata struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Platform string `json:"platform"`
	CoverArt string `json:"coverArt"`
}

// HistoryEntry is one prior line of conversation handed to the model as
// context. Sender is the display name, or "You" for the companion's own
// lines.
type HistoryEntry struct {
	Sender  string
	Content string
}

type Enricher interface {
	// CompanionReply generates the companion's answer to prompt given
	// recent history and the display names of the space members.
	CompanionReply(ctx context.Context, prompt string, history []HistoryEntry, members []string) (string, error)

	// SongMetadata extracts title, artist, platform, and cover art for a URL.
	SongMetadata(ctx context.Context, url string) (SongMetadata, error)
}

// Deterministic fallbacks used when the collaborator is unreachable or
// returns garbage. These exact strings are part of the observable
// behavior: the feed renders them instead of blocking.
const (
	FallbackReply = "I couldn't quite catch that. Try again?"
)

func FallbackSongMetadata() SongMetadata {
	return SongMetadata{
		Title:    "Shared Link",
		Artist:   "Unknown Source",
		Platform: "other",
		CoverArt: "https://picsum.photos/200/200",
	}
}
