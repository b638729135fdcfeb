package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"duospace/domain"
)

func openTestIndex(t *testing.T) *MessageIndex {
	t.Helper()
	index, err := Open(t.TempDir(), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func indexMessage(t *testing.T, index *MessageIndex, spaceID, sender, content string) domain.Message {
	t.Helper()
	msg := domain.Message{
		ID:       uuid.New().String(),
		SpaceID:  spaceID,
		SenderID: sender,
		Content:  content,
		Type:     domain.MessageText,
	}
	require.NoError(t, index.Index(msg))
	return msg
}

func Test_Search_FindsMatchingMessages(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	ctx := context.Background()

	wanted := indexMessage(t, index, "space-a", "mira", "pizza night on friday?")
	indexMessage(t, index, "space-a", "theo", "let's play another round")

	hits, err := index.Search(ctx, "space-a", "pizza", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(wanted.ID, hits[0].MessageID)
	req.Equal("mira", hits[0].SenderID)
	req.Equal("pizza night on friday?", hits[0].Content)
}

func Test_Search_IsScopedToOneSpace(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	ctx := context.Background()

	indexMessage(t, index, "space-a", "mira", "pizza night")
	indexMessage(t, index, "space-b", "ana", "pizza forever")

	hits, err := index.Search(ctx, "space-a", "pizza", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("space-a", hits[0].SpaceID)
}

func Test_PurgeSpace_RemovesAllEntries(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	ctx := context.Background()

	indexMessage(t, index, "space-a", "mira", "pizza night")
	indexMessage(t, index, "space-a", "theo", "pizza again")
	kept := indexMessage(t, index, "space-b", "ana", "pizza forever")

	req.NoError(index.PurgeSpace(ctx, "space-a"))

	gone, err := index.Search(ctx, "space-a", "pizza", 10)
	req.NoError(err)
	req.Empty(gone)

	still, err := index.Search(ctx, "space-b", "pizza", 10)
	req.NoError(err)
	req.Len(still, 1)
	req.Equal(kept.ID, still[0].MessageID)
}
