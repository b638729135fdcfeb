package client

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"duospace/domain"
)

// SpaceSource yields the space (and embedded game) for a user.
type SpaceSource interface {
	ListSpaces(userID string) ([]domain.Space, error)
}

// MessageSource yields the message log for a space.
type MessageSource interface {
	List(spaceID string) ([]domain.Message, error)
}

// Poller converges the local View on the shared store by fetching on
// fixed cadences, a slower one for the space and game and a faster one
// for messages. A tick that fires while the previous fetch is still in
// flight is skipped, so a slow store stretches the cadence instead of
// stacking requests. Failed fetches keep the previous view and are
// retried on the next tick.
type Poller struct {
	spaces    SpaceSource
	messages  MessageSource
	view      *View
	userID    string
	spaceTick time.Duration
	msgTick   time.Duration
	jitter    time.Duration
	inFlight  atomic.Bool
	log       *slog.Logger
}

func NewPoller(spaces SpaceSource, messages MessageSource, view *View, userID string,
	spaceTick, msgTick, jitter time.Duration, log *slog.Logger) *Poller {
	return &Poller{
		spaces:    spaces,
		messages:  messages,
		view:      view,
		userID:    userID,
		spaceTick: spaceTick,
		msgTick:   msgTick,
		jitter:    jitter,
		log:       log,
	}
}

func (p *Poller) Run(ctx context.Context) error {
	// Stagger startup so concurrently launched clients do not poll in
	// lockstep against the same store.
	if p.jitter > 0 {
		select {
		case <-time.After(rand.N(p.jitter)):
		case <-ctx.Done():
			return nil
		}
	}

	p.poll(true)

	spaceTicker := time.NewTicker(p.spaceTick)
	defer spaceTicker.Stop()
	msgTicker := time.NewTicker(p.msgTick)
	defer msgTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-spaceTicker.C:
			p.poll(true)
		case <-msgTicker.C:
			p.poll(false)
		}
	}
}

func (p *Poller) poll(withSpace bool) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.log.Debug("poll tick skipped, previous fetch still in flight")
		return
	}
	defer p.inFlight.Store(false)

	if withSpace {
		p.fetchSpace()
	}
	p.fetchMessages()
}

func (p *Poller) fetchSpace() {
	spaces, err := p.spaces.ListSpaces(p.userID)
	if err != nil {
		p.log.Warn("space poll failed", "error", err)
		return
	}
	if len(spaces) == 0 {
		p.view.SetSpace(nil, time.Now())
		return
	}
	space := spaces[0]
	p.view.SetSpace(&space, time.Now())
}

func (p *Poller) fetchMessages() {
	space := p.view.Space()
	if space == nil {
		return
	}
	messages, err := p.messages.List(space.ID)
	if err != nil {
		p.log.Warn("message poll failed", "error", err)
		return
	}
	p.view.SetMessages(messages, time.Now())
}
