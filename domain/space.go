package domain

import (
	"time"

	"github.com/samber/lo"
)

// MaxMembers is the hard cap on space membership. The whole design is
// built around exactly two people sharing a space.
const MaxMembers = 2

// InviteCodeLength is the wire format of invite codes: short,
// human-typeable, uppercase alphanumeric.
const InviteCodeLength = 6

// Space is the shared two-person container for chat, game, and songs.
// Members are stored in join order. Version is a monotonic counter used
// for compare-and-swap writes against the shared store: a writer must
// present the version it read, and the store rejects the write if a
// concurrent writer bumped it first.
type Space struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Code       string     `json:"code"`
	Members    []string   `json:"members"`
	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	ActiveGame *GameState `json:"activeGame,omitempty"`
	Version    int64      `json:"version"`
}

func (s *Space) HasMember(userID string) bool {
	return lo.Contains(s.Members, userID)
}

func (s *Space) IsFull() bool {
	return len(s.Members) >= MaxMembers
}

// Partner returns the member who is not userID, or "" when the space
// still has a single member. There is no placeholder id: a one-member
// space simply has no partner and the game stays inert.
func (s *Space) Partner(userID string) string {
	for _, m := range s.Members {
		if m != userID {
			return m
		}
	}
	return ""
}

// AddMember appends userID to the member set, preserving join order.
// It is a no-op when the user is already a member.
func (s *Space) AddMember(userID string) {
	if s.HasMember(userID) {
		return
	}
	s.Members = append(s.Members, userID)
}

// RemoveMember drops userID from the member set. A no-op when the user
// was not a member.
func (s *Space) RemoveMember(userID string) {
	s.Members = lo.Filter(s.Members, func(m string, _ int) bool {
		return m != userID
	})
}
