//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"duospace/domain"
)

type IMessageRepository interface {
	Append(message domain.Message) error
	List(spaceID string) ([]domain.Message, error)
	MarkRead(spaceID, messageID, userID string) error
	PurgeSpace(spaceID string) error
}

// MessageRepository persists the append-only per-space log in BadgerDB.
// The key is formatted as "msg:{space_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological iteration using 19-digit zero padding
//     (lexicographical order equals time order).
//  2. Keep two messages landing on the same nanosecond from colliding,
//     with the message uuid as disambiguator.
//
// Appends create fresh keys, so concurrent senders never overwrite each
// other; only the read-by set is ever rewritten in place.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

func (r *MessageRepository) Append(message domain.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := messageKey(message)
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// List returns all messages of a space in storage order (send order as
// observed by the store, oldest first).
func (r *MessageRepository) List(spaceID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(spaceID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var message domain.Message
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead adds userID to the read-by set of one message. This is the
// only mutation a stored message ever sees.
func (r *MessageRepository) MarkRead(spaceID, messageID, userID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		prefix := messagePrefix(spaceID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var message domain.Message
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			}); err != nil {
				return err
			}
			if message.ID != messageID {
				continue
			}
			message.MarkReadBy(userID)
			data, err := json.Marshal(message)
			if err != nil {
				return err
			}
			return txn.Set(item.KeyCopy(nil), data)
		}
		// Unknown message id: nothing to record. The sender's poll may
		// simply not have landed yet on this client.
		return nil
	})
}

// PurgeSpace deletes every message of a space. Used by the cascading
// delete when a space's member set empties.
func (r *MessageRepository) PurgeSpace(spaceID string) error {
	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(spaceID)
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

	r.log.Debug("purging messages", "space", spaceID, "count", len(keys))
	return r.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		message.SpaceID,
		message.SentAt.UnixNano(),
		message.ID,
	))
}

func messagePrefix(spaceID string) []byte {
	return []byte(fmt.Sprintf("msg:%s:", spaceID))
}
