package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"duospace/auth"
	"duospace/domain"
	"duospace/enrichment"
	"duospace/errors"
	"duospace/moderation"
	"duospace/repositories"
	"duospace/search"
)

type IMessageService interface {
	Send(cmd domain.SendMessageCommand) (domain.Message, error)
	List(spaceID string) ([]domain.Message, error)
	MarkRead(spaceID, messageID, userID string) error
	ShareSong(ctx context.Context, spaceID, userID, url string) (domain.Message, error)
	CompanionReply(ctx context.Context, spaceID, prompt string) (domain.Message, error)
	SongFeed(spaceID string) ([]domain.Song, error)
	ReactToSong(spaceID, songID, userID string, reaction domain.Reaction) error
	Search(ctx context.Context, spaceID, terms string, limit int) ([]search.Hit, error)
}

// companionHistory bounds how much conversation is replayed to the model.
const companionHistory = 10

// MessageService owns the append-only log plus everything derived from
// it: the song feed, companion replies, read receipts, and full-text
// search. Appends never rewrite existing records, so two clients
// sending at once cannot lose each other's messages.
type MessageService struct {
	messages  repositories.IMessageRepository
	spaces    repositories.ISpaceRepository
	users     repositories.IUserRepository
	reactions repositories.IReactionRepository
	index     *search.MessageIndex
	censor    *moderation.Censor
	enricher  enrichment.Enricher
	log       *slog.Logger
}

func NewMessageService(
	messages repositories.IMessageRepository,
	spaces repositories.ISpaceRepository,
	users repositories.IUserRepository,
	reactions repositories.IReactionRepository,
	index *search.MessageIndex,
	censor *moderation.Censor,
	enricher enrichment.Enricher,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		messages:  messages,
		spaces:    spaces,
		users:     users,
		reactions: reactions,
		index:     index,
		censor:    censor,
		enricher:  enricher,
		log:       log,
	}
}

func (s *MessageService) Send(cmd domain.SendMessageCommand) (domain.Message, error) {
	if err := auth.ValidateCommand(cmd); err != nil {
		return domain.Message{}, err
	}

	messageType := cmd.Type
	if messageType == "" {
		messageType = domain.MessageText
	}
	sentAt := cmd.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now().UTC()
	}

	message := domain.Message{
		ID:       uuid.New().String(),
		SpaceID:  cmd.SpaceID,
		SenderID: cmd.SenderID,
		Content:  s.censor.Apply(cmd.Content),
		Type:     messageType,
		SentAt:   sentAt,
		ReadBy:   []string{cmd.SenderID},
	}

	if cmd.ReplyToID != "" {
		if target, ok := s.findMessage(cmd.SpaceID, cmd.ReplyToID); ok {
			// Snapshot, not a live link: the reference keeps this
			// content even though messages are never edited anyway.
			message.ReplyTo = target.SnapshotReply()
		}
	}

	return s.append(message)
}

func (s *MessageService) List(spaceID string) ([]domain.Message, error) {
	return s.messages.List(spaceID)
}

func (s *MessageService) MarkRead(spaceID, messageID, userID string) error {
	return s.messages.MarkRead(spaceID, messageID, userID)
}

// ShareSong enriches a URL into a music card. A slow or failing
// enrichment call degrades to placeholder metadata; sharing never
// blocks on the collaborator being healthy.
func (s *MessageService) ShareSong(ctx context.Context, spaceID, userID, url string) (domain.Message, error) {
	meta, err := s.enricher.SongMetadata(ctx, url)
	if err != nil {
		s.log.Warn("song enrichment failed, using fallback", "error", err)
		meta = enrichment.FallbackSongMetadata()
	}

	song := &domain.Song{
		ID:       uuid.New().String(),
		URL:      url,
		Title:    meta.Title,
		Artist:   meta.Artist,
		CoverArt: meta.CoverArt,
		AddedBy:  userID,
		Platform: domain.KnownPlatform(meta.Platform),
	}

	return s.append(domain.Message{
		ID:       uuid.New().String(),
		SpaceID:  spaceID,
		SenderID: userID,
		Content:  url,
		Type:     domain.MessageMusicCard,
		SentAt:   time.Now().UTC(),
		Metadata: &domain.Metadata{MusicData: song},
		ReadBy:   []string{userID},
	})
}

// CompanionReply asks the model for an answer and appends it under the
// reserved companion id. A failing call appends the deterministic
// fallback line instead of surfacing an error to the sender.
func (s *MessageService) CompanionReply(ctx context.Context, spaceID, prompt string) (domain.Message, error) {
	space, err := s.spaces.Get(spaceID)
	if err != nil {
		return domain.Message{}, err
	}

	history, names := s.companionContext(space)
	reply, err := s.enricher.CompanionReply(ctx, prompt, history, names)
	if err != nil {
		s.log.Warn("companion reply failed, using fallback", "error", err)
		reply = enrichment.FallbackReply
	}

	return s.append(domain.Message{
		ID:       uuid.New().String(),
		SpaceID:  spaceID,
		SenderID: domain.CompanionID,
		Content:  reply,
		Type:     domain.MessageText,
		SentAt:   time.Now().UTC(),
	})
}

// SongFeed derives the shared-song view from music_card messages and
// merges in stored reactions. It is a read-time projection, not a
// separately persisted collection.
func (s *MessageService) SongFeed(spaceID string) ([]domain.Song, error) {
	messages, err := s.messages.List(spaceID)
	if err != nil {
		return nil, err
	}
	byUser, err := s.reactions.ForSpace(spaceID)
	if err != nil {
		return nil, err
	}

	var feed []domain.Song
	for _, message := range messages {
		if message.Type != domain.MessageMusicCard || message.Metadata == nil || message.Metadata.MusicData == nil {
			continue
		}
		song := *message.Metadata.MusicData
		song.Reactions = byUser[song.ID]
		feed = append(feed, song)
	}
	return feed, nil
}

func (s *MessageService) ReactToSong(spaceID, songID, userID string, reaction domain.Reaction) error {
	if !domain.KnownReaction(string(reaction)) {
		return errors.ErrInvalidReaction
	}
	return s.reactions.React(spaceID, songID, userID, reaction)
}

func (s *MessageService) Search(ctx context.Context, spaceID, terms string, limit int) ([]search.Hit, error) {
	return s.index.Search(ctx, spaceID, terms, limit)
}

func (s *MessageService) append(message domain.Message) (domain.Message, error) {
	if err := s.messages.Append(message); err != nil {
		return domain.Message{}, err
	}
	// Indexing is best-effort: the log is the source of truth.
	if err := s.index.Index(message); err != nil {
		s.log.Warn("failed to index message", "message", message.ID, "error", err)
	}
	return message, nil
}

func (s *MessageService) findMessage(spaceID, messageID string) (domain.Message, bool) {
	messages, err := s.messages.List(spaceID)
	if err != nil {
		return domain.Message{}, false
	}
	return lo.Find(messages, func(m domain.Message) bool { return m.ID == messageID })
}

// companionContext assembles the recent history and member display
// names for the model prompt. The companion's own lines read as "You".
func (s *MessageService) companionContext(space domain.Space) ([]enrichment.HistoryEntry, []string) {
	names := make(map[string]string, len(space.Members))
	var members []string
	for _, id := range space.Members {
		user, err := s.users.GetByID(id)
		if err != nil {
			continue
		}
		names[id] = user.DisplayName
		members = append(members, user.DisplayName)
	}

	messages, err := s.messages.List(space.ID)
	if err != nil {
		return nil, members
	}
	if len(messages) > companionHistory {
		messages = messages[len(messages)-companionHistory:]
	}

	history := make([]enrichment.HistoryEntry, 0, len(messages))
	for _, m := range messages {
		sender := "You"
		if m.SenderID != domain.CompanionID {
			if name, ok := names[m.SenderID]; ok {
				sender = name
			} else {
				sender = "Friend"
			}
		}
		history = append(history, enrichment.HistoryEntry{Sender: sender, Content: m.Content})
	}
	return history, members
}
