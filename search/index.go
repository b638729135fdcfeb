// Package search maintains a full-text index over message content so a
// space's history can be searched without scanning the whole log.
package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"

	"duospace/domain"
)

// Hit is one search result: enough to locate and render the message.
type Hit struct {
	MessageID string
	SpaceID   string
	SenderID  string
	Content   string
}

// MessageIndex wraps a Bluge writer. Index entries are keyed by message
// id and scoped to a space through a keyword field, mirroring how the
// log itself is keyed per space.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Open creates or opens an index at path.
func Open(path string, log *slog.Logger) (*MessageIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return NewMessageIndex(writer, log), nil
}

func (x *MessageIndex) Close() error {
	return x.writer.Close()
}

// Index adds or replaces one message. Only text-bearing fields go in;
// the log remains the source of truth for full records.
func (x *MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID).
		AddField(bluge.NewKeywordField("space", message.SpaceID).StoreValue()).
		AddField(bluge.NewKeywordField("sender", message.SenderID).StoreValue()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue())
	return x.writer.Update(doc.ID(), doc)
}

// Search matches terms against message content within one space.
func (x *MessageIndex) Search(ctx context.Context, spaceID, terms string, limit int) ([]Hit, error) {
	reader, err := x.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content")).
		AddMust(bluge.NewTermQuery(spaceID).SetField("space"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		hit := Hit{SpaceID: spaceID}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "sender":
				hit.SenderID = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// PurgeSpace drops every indexed message of a space, used by the
// cascading delete when the space empties.
func (x *MessageIndex) PurgeSpace(ctx context.Context, spaceID string) error {
	reader, err := x.writer.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewTermQuery(spaceID).SetField("space")
	iterator, err := reader.Search(ctx, bluge.NewAllMatches(query))
	if err != nil {
		return err
	}

	var ids []string
	for {
		match, err := iterator.Next()
		if err != nil {
			return err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			return err
		}
	}

	x.log.Debug("purging search index", "space", spaceID, "count", len(ids))
	for _, id := range ids {
		if err := x.writer.Delete(bluge.Identifier(id)); err != nil {
			return err
		}
	}
	return nil
}
