//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"duospace/domain"
	"duospace/errors"
)

type IUserRepository interface {
	Create(username string) (domain.User, error)
	GetByUsername(username string) (domain.User, error)
	GetByID(userID string) (domain.User, error)
	UpdateSettings(userID string, settings domain.Settings) (domain.User, error)
}

// UserRepository persists users in BadgerDB under two keys:
//   - "user:id:{uuid}"        -> the JSON record
//   - "user:name:{lowercase}" -> the uuid, for case-insensitive lookup
//
// Users are created on first login and never deleted.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

var avatarColors = []string{"rose", "violet", "cyan", "amber", "fuchsia"}

func (r *UserRepository) Create(username string) (domain.User, error) {
	user := domain.User{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: username,
		AvatarColor: avatarColors[len(username)%len(avatarColors)],
		Settings:    domain.DefaultSettings(),
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte("user:name:" + strings.ToLower(username))
		if _, err := txn.Get(nameKey); err == nil {
			// Another client claimed the name between our read and this write.
			return errors.ErrInvalidUsername
		}
		if err := txn.Set(nameKey, []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(idKey(user.ID), data)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(username string) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:name:" + strings.ToLower(username)))
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		return readJSON(txn, idKey(id), &user)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(userID string) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		return readJSON(txn, idKey(userID), &user)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdateSettings replaces the settings record of an existing user.
func (r *UserRepository) UpdateSettings(userID string, settings domain.Settings) (domain.User, error) {
	var user domain.User
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := readJSON(txn, idKey(userID), &user); err != nil {
			return err
		}
		user.Settings = settings
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return txn.Set(idKey(userID), data)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func idKey(userID string) []byte {
	return []byte("user:id:" + userID)
}

// readJSON loads and unmarshals one record inside a transaction.
func readJSON(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}
