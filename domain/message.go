// Messages are immutable once appended: the only permitted mutation is
// the read-by set. Reply references are materialized at send time and
// never follow the original afterwards.
package domain

import (
	"time"

	"github.com/samber/lo"
)

type MessageType string

const (
	MessageText      MessageType = "text"
	MessageImage     MessageType = "image"
	MessageSystem    MessageType = "system"
	MessageMusicCard MessageType = "music_card"
)

// ReplyRef is a snapshot of the replied-to message taken when the reply
// is sent: id, a snippet of the content, and the sender. Not a live link.
type ReplyRef struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	SenderID string `json:"senderId"`
}

// Metadata carries the structured payload of non-text messages.
type Metadata struct {
	ImageURL  string `json:"imageUrl,omitempty"`
	MusicData *Song  `json:"musicData,omitempty"`
}

// Message is one entry of a space's append-only log. Timestamps are
// client-assigned at append time; storage order, not timestamp order, is
// the rendering order.
type Message struct {
	ID       string      `json:"id"`
	SpaceID  string      `json:"spaceId"`
	SenderID string      `json:"senderId"`
	Content  string      `json:"content"`
	Type     MessageType `json:"type"`
	SentAt   time.Time   `json:"timestamp"`
	Metadata *Metadata   `json:"metadata,omitempty"`
	ReplyTo  *ReplyRef   `json:"replyTo,omitempty"`
	ReadBy   []string    `json:"readBy"`
}

// ReplySnippetLength bounds the content copied into a ReplyRef.
const ReplySnippetLength = 120

// SnapshotReply builds the materialized reference for a reply to m.
func (m *Message) SnapshotReply() *ReplyRef {
	snippet := []rune(m.Content)
	if len(snippet) > ReplySnippetLength {
		snippet = snippet[:ReplySnippetLength]
	}
	return &ReplyRef{ID: m.ID, Content: string(snippet), SenderID: m.SenderID}
}

// MarkReadBy records that userID has seen the message. Idempotent.
func (m *Message) MarkReadBy(userID string) {
	if !lo.Contains(m.ReadBy, userID) {
		m.ReadBy = append(m.ReadBy, userID)
	}
}
