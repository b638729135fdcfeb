package client

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"duospace/domain"
)

// Snapshot is what one poll cycle fetched from the shared store.
type Snapshot struct {
	Space     *domain.Space
	Messages  []domain.Message
	FetchedAt time.Time
}

// View holds the client's current picture of the space. Each poll
// replaces the fetched slice of state wholesale rather than merging,
// so a stale view self-heals on the next cycle. Messages the local
// user sent between polls are echoed optimistically and dropped once
// they show up in a fetched snapshot.
type View struct {
	mu       sync.RWMutex
	space    *domain.Space
	messages []domain.Message
	pending  []domain.Message
	fetched  time.Time
}

func NewView() *View {
	return &View{}
}

func (v *View) SetSpace(space *domain.Space, at time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.space = space
	v.fetched = at
	if space == nil {
		v.messages = nil
		v.pending = nil
	}
}

func (v *View) SetMessages(messages []domain.Message, at time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = messages
	v.fetched = at
	v.pending = lo.Filter(v.pending, func(p domain.Message, _ int) bool {
		return !lo.ContainsBy(messages, func(m domain.Message) bool { return m.ID == p.ID })
	})
}

// Echo appends a locally sent message ahead of the next poll so the
// sender sees their own message immediately.
func (v *View) Echo(message domain.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = append(v.pending, message)
}

func (v *View) Space() *domain.Space {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.space == nil {
		return nil
	}
	space := *v.space
	return &space
}

func (v *View) Game() *domain.GameState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.space == nil || v.space.ActiveGame == nil {
		return nil
	}
	game := *v.space.ActiveGame
	return &game
}

// Messages returns the fetched log followed by any optimistic echoes
// not yet confirmed by a poll.
func (v *View) Messages() []domain.Message {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]domain.Message, 0, len(v.messages)+len(v.pending))
	out = append(out, v.messages...)
	out = append(out, v.pending...)
	return out
}

func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Snapshot{
		Space:     v.space,
		Messages:  append([]domain.Message{}, v.messages...),
		FetchedAt: v.fetched,
	}
}
