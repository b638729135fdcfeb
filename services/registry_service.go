package services

import (
	"context"
	goerrors "errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"duospace/auth"
	"duospace/domain"
	"duospace/errors"
	"duospace/repositories"
	"duospace/search"
)

type IRegistryService interface {
	CreateSpace(cmd domain.CreateSpaceCommand) (domain.Space, error)
	JoinSpace(cmd domain.JoinSpaceCommand) (domain.Space, error)
	LeaveSpace(ctx context.Context, userID, spaceID string) error
	ListSpaces(userID string) ([]domain.Space, error)
}

const (
	codeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeAttempts     = 10
	defaultSpaceName = "Cozy Corner"
)

// RegistryService owns space creation, invite-code issuance, join/leave,
// and the single-space-per-user invariant. The invariant is checked
// against the state read at the start of each action; the compare-and-
// swap write below closes the lost-update window, but two truly
// concurrent creates by the same user on two clients remain advisory
// best-effort, which human-paced UI actions make acceptable.
type RegistryService struct {
	spaces    repositories.ISpaceRepository
	messages  repositories.IMessageRepository
	reactions repositories.IReactionRepository
	index     *search.MessageIndex
	log       *slog.Logger
	retries   int
}

func NewRegistryService(
	spaces repositories.ISpaceRepository,
	messages repositories.IMessageRepository,
	reactions repositories.IReactionRepository,
	index *search.MessageIndex,
	log *slog.Logger,
	retries int,
) *RegistryService {
	return &RegistryService{
		spaces:    spaces,
		messages:  messages,
		reactions: reactions,
		index:     index,
		log:       log,
		retries:   retries,
	}
}

func (s *RegistryService) CreateSpace(cmd domain.CreateSpaceCommand) (domain.Space, error) {
	if err := auth.ValidateCommand(cmd); err != nil {
		return domain.Space{}, err
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = defaultSpaceName
	}

	existing, err := s.spaces.FindByMember(cmd.UserID)
	if err != nil {
		return domain.Space{}, err
	}
	if len(existing) > 0 {
		return domain.Space{}, errors.ErrAlreadyInSpace
	}

	space := domain.Space{
		ID:        uuid.New().String(),
		Name:      name,
		Members:   []string{cmd.UserID},
		CreatedBy: cmd.UserID,
		CreatedAt: time.Now().UTC(),
	}

	// Codes are short, so regenerate on collision instead of trusting
	// randomness alone. The repository re-checks atomically on create.
	for attempt := 0; attempt < codeAttempts; attempt++ {
		space.Code = newInviteCode()
		inUse, err := s.spaces.CodeInUse(space.Code)
		if err != nil {
			return domain.Space{}, err
		}
		if inUse {
			continue
		}
		err = s.spaces.Create(space)
		if goerrors.Is(err, errors.ErrCodeExhausted) {
			continue
		}
		if err != nil {
			return domain.Space{}, err
		}
		space.Version = 1
		s.log.Info("space created", "space", space.ID, "code", space.Code)
		return space, nil
	}
	return domain.Space{}, errors.ErrCodeExhausted
}

func (s *RegistryService) JoinSpace(cmd domain.JoinSpaceCommand) (domain.Space, error) {
	if err := auth.ValidateCommand(cmd); err != nil {
		return domain.Space{}, err
	}
	// Codes are typed by humans: compare case-insensitively.
	code := strings.ToUpper(strings.TrimSpace(cmd.Code))

	var joined domain.Space
	err := withRetry(s.retries, func() error {
		space, err := s.spaces.GetByCode(code)
		if err != nil {
			return err
		}
		if space.HasMember(cmd.UserID) {
			// Re-joining your own space is a no-op.
			joined = space
			return nil
		}

		existing, err := s.spaces.FindByMember(cmd.UserID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return errors.ErrAlreadyInSpace
		}
		if space.IsFull() {
			return errors.ErrSpaceFull
		}

		space.AddMember(cmd.UserID)
		joined, err = s.spaces.Update(space, space.Version)
		return err
	})
	if err != nil {
		return domain.Space{}, err
	}
	s.log.Info("user joined space", "space", joined.ID, "user", cmd.UserID)
	return joined, nil
}

// LeaveSpace removes the user from the member set. Always succeeds even
// when the user was not a member. When the last member leaves, the
// space and everything it owns (messages, reactions, index entries) is
// purged.
func (s *RegistryService) LeaveSpace(ctx context.Context, userID, spaceID string) error {
	return withRetry(s.retries, func() error {
		space, err := s.spaces.Get(spaceID)
		if goerrors.Is(err, errors.ErrSpaceNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !space.HasMember(userID) {
			return nil
		}

		space.RemoveMember(userID)
		if len(space.Members) > 0 {
			_, err = s.spaces.Update(space, space.Version)
			return err
		}

		// Last one out: cascading delete.
		if err := s.spaces.Delete(space.ID); err != nil {
			return err
		}
		if err := s.messages.PurgeSpace(space.ID); err != nil {
			return err
		}
		if err := s.reactions.PurgeSpace(space.ID); err != nil {
			return err
		}
		if err := s.index.PurgeSpace(ctx, space.ID); err != nil {
			return err
		}
		s.log.Info("space purged", "space", space.ID)
		return nil
	})
}

// ListSpaces reports the spaces containing userID, expected to be zero
// or one. Clients use it to discover their current space and its game.
func (s *RegistryService) ListSpaces(userID string) ([]domain.Space, error) {
	return s.spaces.FindByMember(userID)
}

func newInviteCode() string {
	code := make([]byte, domain.InviteCodeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(code)
}
