package services

import (
	goerrors "errors"
	"log/slog"
	"strings"
	"time"

	"duospace/auth"
	"duospace/domain"
	"duospace/errors"
	"duospace/repositories"
)

type IAuthService interface {
	Login(username string) (domain.Session, error)
	UpdateSettings(userID string, settings domain.Settings) (domain.User, error)
	CheckUsernameAvailability(username string) (bool, error)
}

// AuthService implements first-login-creates-the-user semantics.
// Usernames are bare claims (an explicit non-goal rules out identity
// verification); logging in as a known name simply resumes that user.
type AuthService struct {
	users         repositories.IUserRepository
	log           *slog.Logger
	tokenLifetime time.Duration
}

func NewAuthService(users repositories.IUserRepository, log *slog.Logger, tokenLifetime time.Duration) *AuthService {
	return &AuthService{users: users, log: log, tokenLifetime: tokenLifetime}
}

func (s *AuthService) Login(username string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if err := auth.ValidateLogin(auth.LoginRequest{Username: username}); err != nil {
		return domain.Session{}, err
	}

	user, err := s.users.GetByUsername(username)
	switch {
	case goerrors.Is(err, errors.ErrUserNotFound):
		user, err = s.users.Create(username)
		if err != nil {
			return domain.Session{}, err
		}
		s.log.Info("created user on first login", "username", username)
	case err != nil:
		return domain.Session{}, err
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.tokenLifetime)
	if err != nil {
		return domain.Session{}, errors.ErrTokenGeneration
	}
	return domain.Session{Token: token, User: user}, nil
}

func (s *AuthService) UpdateSettings(userID string, settings domain.Settings) (domain.User, error) {
	return s.users.UpdateSettings(userID, settings)
}

// CheckUsernameAvailability reports whether a name is still unclaimed.
// Purely advisory: the authoritative check happens on create.
func (s *AuthService) CheckUsernameAvailability(username string) (bool, error) {
	_, err := s.users.GetByUsername(strings.TrimSpace(username))
	if goerrors.Is(err, errors.ErrUserNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
