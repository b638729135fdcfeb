package services

import (
	"log/slog"

	"duospace/auth"
	"duospace/domain"
	"duospace/errors"
	"duospace/repositories"
)

type IGameService interface {
	MakeMove(cmd domain.MakeMoveCommand) (domain.GameState, error)
	RequestReset(userID, spaceID string) (domain.GameState, error)
}

// GameService applies game actions through read-validate-CAS cycles on
// the owning space record. On a version conflict it re-reads and
// re-validates: a move that was legal against the stale snapshot may
// have become illegal (the opponent landed first), and then the engine
// rejects it with a specific condition instead of replaying it blindly.
type GameService struct {
	spaces  repositories.ISpaceRepository
	log     *slog.Logger
	retries int
}

func NewGameService(spaces repositories.ISpaceRepository, log *slog.Logger, retries int) *GameService {
	return &GameService{spaces: spaces, log: log, retries: retries}
}

func (s *GameService) MakeMove(cmd domain.MakeMoveCommand) (domain.GameState, error) {
	if err := auth.ValidateCommand(cmd); err != nil {
		return domain.GameState{}, err
	}

	var result domain.GameState
	err := withRetry(s.retries, func() error {
		space, err := s.spaces.Get(cmd.SpaceID)
		if err != nil {
			return err
		}
		if !space.HasMember(cmd.UserID) {
			return errors.ErrNotAMember
		}

		// The first move on an empty-space board starts the game; the
		// mover plays "X" by parity and the turn passes to the partner.
		if space.ActiveGame == nil {
			space.ActiveGame = domain.NewGame(cmd.UserID)
		}

		if err := space.ActiveGame.Move(cmd.UserID, cmd.Cell, space.Partner(cmd.UserID)); err != nil {
			return err
		}

		updated, err := s.spaces.Update(space, space.Version)
		if err != nil {
			return err
		}
		result = *updated.ActiveGame
		return nil
	})
	if err != nil {
		return domain.GameState{}, err
	}
	return result, nil
}

func (s *GameService) RequestReset(userID, spaceID string) (domain.GameState, error) {
	var result domain.GameState
	err := withRetry(s.retries, func() error {
		space, err := s.spaces.Get(spaceID)
		if err != nil {
			return err
		}
		if !space.HasMember(userID) {
			return errors.ErrNotAMember
		}
		if space.ActiveGame == nil {
			return errors.ErrNoActiveGame
		}

		space.ActiveGame.RequestReset(userID, len(space.Members))

		updated, err := s.spaces.Update(space, space.Version)
		if err != nil {
			return err
		}
		result = *updated.ActiveGame
		return nil
	})
	if err != nil {
		return domain.GameState{}, err
	}
	return result, nil
}
