// Package e2e drives the whole stack end to end: two client instances
// polling one shared store, with every write going through the service
// layer exactly as the terminal front end would issue it.
package e2e

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/suite"

	"duospace/client"
	"duospace/domain"
	"duospace/enrichment"
	"duospace/moderation"
	"duospace/repositories"
	"duospace/search"
	"duospace/services"
)

type BaseSuite struct {
	suite.Suite
	Config Config

	auth     *services.AuthService
	registry *services.RegistryService
	games    *services.GameService
	messages *services.MessageService

	cancel context.CancelFunc
	ctx    context.Context
}

// staticEnricher stands in for the external model so the scenarios stay
// hermetic and deterministic.
type staticEnricher struct{}

func (staticEnricher) CompanionReply(context.Context, string, []enrichment.HistoryEntry, []string) (string, error) {
	return "Sounds lovely. Tell me more!", nil
}

func (staticEnricher) SongMetadata(context.Context, string) (enrichment.SongMetadata, error) {
	return enrichment.SongMetadata{Title: "Golden Hour", Artist: "JVKE", Platform: "spotify"}, nil
}

func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	index, err := search.Open(s.T().TempDir(), log)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = index.Close() })

	censor, err := moderation.NewCensor([]string{"loser"}, '*')
	s.Require().NoError(err)

	users := repositories.NewUserRepository(db)
	spaces := repositories.NewSpaceRepository(db, log)
	messages := repositories.NewMessageRepository(db, log)
	reactions := repositories.NewReactionRepository(db)

	s.auth = services.NewAuthService(users, log, s.Config.TokenLifetime)
	s.registry = services.NewRegistryService(spaces, messages, reactions, index, log, s.Config.WriteRetries)
	s.games = services.NewGameService(spaces, log, s.Config.WriteRetries)
	s.messages = services.NewMessageService(
		messages, spaces, users, reactions, index, censor, staticEnricher{}, log)

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.T().Cleanup(s.cancel)
}

// Client is one simulated app instance: a session, a view, and a poll
// loop converging that view on the shared store.
type Client struct {
	User   domain.User
	Holder *client.SessionHolder
	View   *client.View
	done   chan struct{}
}

// NewClient logs in as username and starts its poll loop.
func (s *BaseSuite) NewClient(username string) *Client {
	session, err := s.auth.Login(username)
	s.Require().NoError(err)

	holder := client.NewSessionHolder()
	holder.Set(session)

	view := client.NewView()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	poller := client.NewPoller(s.registry, s.messages, view, session.User.ID,
		s.Config.SpacePollInterval, s.Config.MessagePollInterval, 0, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = poller.Run(s.ctx)
	}()
	s.T().Cleanup(func() {
		s.cancel()
		<-done
	})

	return &Client{User: session.User, Holder: holder, View: view, done: done}
}

// Converged waits until cond holds against the client's polled view.
func (s *BaseSuite) Converged(c *Client, cond func(*client.View) bool) {
	s.Require().Eventually(func() bool { return cond(c.View) },
		s.Config.ConvergeTimeout, 10*time.Millisecond)
}
