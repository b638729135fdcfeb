package repositories

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"duospace/domain"
)

type IReactionRepository interface {
	React(spaceID, songID, userID string, reaction domain.Reaction) error
	ForSpace(spaceID string) (map[string]map[string]domain.Reaction, error)
	PurgeSpace(spaceID string) error
}

// ReactionRepository stores song reactions outside the message log so
// that messages stay immutable. One key per (song, user):
// "react:{space_id}:{song_id}:{user_id}" -> the reaction word.
// Re-reacting overwrites the previous value; the write is last-wins and
// does not need a version because each user owns their own key.
type ReactionRepository struct {
	db *badger.DB
}

func NewReactionRepository(db *badger.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

func (r *ReactionRepository) React(spaceID, songID, userID string, reaction domain.Reaction) error {
	key := []byte(fmt.Sprintf("react:%s:%s:%s", spaceID, songID, userID))
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(reaction))
	})
}

// ForSpace returns reactions grouped by song id, then user id.
func (r *ReactionRepository) ForSpace(spaceID string) (map[string]map[string]domain.Reaction, error) {
	reactions := make(map[string]map[string]domain.Reaction)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("react:" + spaceID + ":")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			rest := strings.TrimPrefix(string(item.Key()), string(prefix))
			songID, userID, ok := strings.Cut(rest, ":")
			if !ok {
				continue
			}
			err := item.Value(func(val []byte) error {
				if reactions[songID] == nil {
					reactions[songID] = make(map[string]domain.Reaction)
				}
				reactions[songID][userID] = domain.Reaction(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *ReactionRepository) PurgeSpace(spaceID string) error {
	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("react:" + spaceID + ":")
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
