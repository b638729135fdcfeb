package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"duospace/domain"
	"duospace/enrichment"
	"duospace/mocks"
	"duospace/moderation"
	"duospace/repositories"
	"duospace/search"
)

const testRetries = 3

// fixture wires the full service stack against a throwaway Badger and
// Bluge instance, with the enrichment collaborator mocked out.
type fixture struct {
	users     *repositories.UserRepository
	spaces    *repositories.SpaceRepository
	messages  *repositories.MessageRepository
	reactions *repositories.ReactionRepository
	index     *search.MessageIndex
	enricher  *mocks.MockEnricher

	auth       *AuthService
	registry   *RegistryService
	game       *GameService
	messageSvc *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	req := require.New(t)
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	index, err := search.Open(t.TempDir(), log)
	req.NoError(err)
	t.Cleanup(func() { _ = index.Close() })

	censor, err := moderation.NewCensor([]string{"loser"}, '*')
	req.NoError(err)

	ctrl := gomock.NewController(t)
	enricher := mocks.NewMockEnricher(ctrl)

	f := &fixture{
		users:     repositories.NewUserRepository(db),
		spaces:    repositories.NewSpaceRepository(db, log),
		messages:  repositories.NewMessageRepository(db, log),
		reactions: repositories.NewReactionRepository(db),
		index:     index,
		enricher:  enricher,
	}
	f.auth = NewAuthService(f.users, log, time.Hour)
	f.registry = NewRegistryService(f.spaces, f.messages, f.reactions, f.index, log, testRetries)
	f.game = NewGameService(f.spaces, log, testRetries)
	f.messageSvc = NewMessageService(
		f.messages, f.spaces, f.users, f.reactions, f.index, censor, enricher, log)
	return f
}

var _ enrichment.Enricher = (*mocks.MockEnricher)(nil)

// login creates (or resumes) a user and returns it.
func (f *fixture) login(t *testing.T, username string) domain.User {
	t.Helper()
	session, err := f.auth.Login(username)
	require.NoError(t, err)
	return session.User
}

// pair creates two users sharing one space and returns them with the space.
func (f *fixture) pair(t *testing.T) (domain.User, domain.User, domain.Space) {
	t.Helper()
	req := require.New(t)

	creator := f.login(t, "mira")
	joiner := f.login(t, "theo")

	space, err := f.registry.CreateSpace(domain.CreateSpaceCommand{UserID: creator.ID, Name: "Nest"})
	req.NoError(err)

	space, err = f.registry.JoinSpace(domain.JoinSpaceCommand{UserID: joiner.ID, Code: space.Code})
	req.NoError(err)

	return creator, joiner, space
}
