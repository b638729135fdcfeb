//go:generate go run go.uber.org/mock/mockgen -source=space.go -destination=../mocks/mock_space_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"duospace/domain"
	"duospace/errors"
)

type ISpaceRepository interface {
	Create(space domain.Space) error
	Get(spaceID string) (domain.Space, error)
	GetByCode(code string) (domain.Space, error)
	FindByMember(userID string) ([]domain.Space, error)
	Update(space domain.Space, expectedVersion int64) (domain.Space, error)
	Delete(spaceID string) error
	CodeInUse(code string) (bool, error)
}

// SpaceRepository persists spaces in BadgerDB:
//   - "space:id:{id}"     -> the JSON record, including the embedded game
//   - "space:code:{CODE}" -> the space id, for invite-code lookup
//
// Every write through Update is a compare-and-swap on the record's
// monotonic version. Two clients polling the same space race their
// read-modify-write cycles; without the version check the second blind
// write would discard the first (a lost update). With it, the loser gets
// ErrVersionConflict and re-reads.
type SpaceRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSpaceRepository(db *badger.DB, log *slog.Logger) *SpaceRepository {
	return &SpaceRepository{db: db, log: log}
}

func (r *SpaceRepository) Create(space domain.Space) error {
	space.Version = 1
	data, err := json.Marshal(space)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		codeKey := []byte("space:code:" + space.Code)
		if _, err := txn.Get(codeKey); err == nil {
			// Invite codes are short; collisions are rare but real.
			return errors.ErrCodeExhausted
		}
		if err := txn.Set(codeKey, []byte(space.ID)); err != nil {
			return err
		}
		return txn.Set(spaceKey(space.ID), data)
	})
}

func (r *SpaceRepository) Get(spaceID string) (domain.Space, error) {
	var space domain.Space
	err := r.db.View(func(txn *badger.Txn) error {
		return readJSON(txn, spaceKey(spaceID), &space)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Space{}, errors.ErrSpaceNotFound
	}
	if err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

func (r *SpaceRepository) GetByCode(code string) (domain.Space, error) {
	var space domain.Space
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("space:code:" + code))
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
		return readJSON(txn, spaceKey(id), &space)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Space{}, errors.ErrInvalidInviteCode
	}
	if err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

// FindByMember scans all spaces for ones containing userID. The single-
// space invariant makes the expected result zero or one, but the scan
// reports whatever is stored so a violation would be observable.
func (r *SpaceRepository) FindByMember(userID string) ([]domain.Space, error) {
	var spaces []domain.Space
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("space:id:")
		options := badger.DefaultIteratorOptions
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var space domain.Space
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &space)
			})
			if err != nil {
				return err
			}
			if space.HasMember(userID) {
				spaces = append(spaces, space)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

// Update writes the space back if and only if the stored version still
// equals expectedVersion, then bumps the version. Callers retry on
// ErrVersionConflict with a fresh read.
func (r *SpaceRepository) Update(space domain.Space, expectedVersion int64) (domain.Space, error) {
	space.Version = expectedVersion + 1
	data, err := json.Marshal(space)
	if err != nil {
		return domain.Space{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		var stored domain.Space
		if err := readJSON(txn, spaceKey(space.ID), &stored); err != nil {
			return err
		}
		if stored.Version != expectedVersion {
			r.log.Debug("space version conflict",
				"space", space.ID, "expected", expectedVersion, "stored", stored.Version)
			return errors.ErrVersionConflict
		}
		return txn.Set(spaceKey(space.ID), data)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Space{}, errors.ErrSpaceNotFound
	}
	if err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

// Delete removes the space record and its invite-code index entry.
func (r *SpaceRepository) Delete(spaceID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var space domain.Space
		err := readJSON(txn, spaceKey(spaceID), &space)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete([]byte("space:code:" + space.Code)); err != nil {
			return err
		}
		return txn.Delete(spaceKey(spaceID))
	})
}

func (r *SpaceRepository) CodeInUse(code string) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("space:code:" + code))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	return true, nil
}

func spaceKey(spaceID string) []byte {
	return []byte("space:id:" + spaceID)
}
