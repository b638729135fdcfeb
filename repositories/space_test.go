package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"duospace/domain"
	"duospace/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testSpace(members ...string) domain.Space {
	return domain.Space{
		ID:        uuid.New().String(),
		Name:      "Nest",
		Code:      "K3F9QZ",
		Members:   members,
		CreatedBy: members[0],
		CreatedAt: time.Now().UTC(),
	}
}

func Test_Create_And_Get_Space(t *testing.T) {
	req := require.New(t)
	repo := NewSpaceRepository(openTestDB(t), slog.Default())

	space := testSpace("alice")
	req.NoError(repo.Create(space))

	fetched, err := repo.Get(space.ID)
	req.NoError(err)
	req.Equal(space.ID, fetched.ID)
	req.Equal([]string{"alice"}, fetched.Members)
	req.EqualValues(1, fetched.Version)

	byCode, err := repo.GetByCode("K3F9QZ")
	req.NoError(err)
	req.Equal(space.ID, byCode.ID)
}

func Test_GetByCode_UnknownCode(t *testing.T) {
	req := require.New(t)
	repo := NewSpaceRepository(openTestDB(t), slog.Default())

	_, err := repo.GetByCode("ZZZZZZ")
	req.ErrorIs(err, errors.ErrInvalidInviteCode)
}

func Test_Create_RejectsDuplicateCode(t *testing.T) {
	req := require.New(t)
	repo := NewSpaceRepository(openTestDB(t), slog.Default())

	req.NoError(repo.Create(testSpace("alice")))

	err := repo.Create(testSpace("bob"))
	req.ErrorIs(err, errors.ErrCodeExhausted)
}

func Test_Update_CAS_DetectsLostUpdate(t *testing.T) {
	req := require.New(t)
	repo := NewSpaceRepository(openTestDB(t), slog.Default())

	space := testSpace("alice")
	req.NoError(repo.Create(space))

	// Two clients read version 1.
	readA, err := repo.Get(space.ID)
	req.NoError(err)
	readB, err := repo.Get(space.ID)
	req.NoError(err)

	// Client A lands first.
	readA.AddMember("bob")
	updated, err := repo.Update(readA, readA.Version)
	req.NoError(err)
	req.EqualValues(2, updated.Version)

	// Client B's blind write is rejected instead of clobbering A's.
	readB.Name = "Renamed"
	_, err = repo.Update(readB, readB.Version)
	req.ErrorIs(err, errors.ErrVersionConflict)

	stored, err := repo.Get(space.ID)
	req.NoError(err)
	req.Equal([]string{"alice", "bob"}, stored.Members)
	req.Equal("Nest", stored.Name)
}

func Test_FindByMember(t *testing.T) {
	req := require.New(t)
	repo := NewSpaceRepository(openTestDB(t), slog.Default())

	space := testSpace("alice", "bob")
	req.NoError(repo.Create(space))

	found, err := repo.FindByMember("bob")
	req.NoError(err)
	req.Len(found, 1)
	req.Equal(space.ID, found[0].ID)

	none, err := repo.FindByMember("clara")
	req.NoError(err)
	req.Empty(none)
}

func Test_Delete_RemovesRecordAndCodeIndex(t *testing.T) {
	req := require.New(t)
	repo := NewSpaceRepository(openTestDB(t), slog.Default())

	space := testSpace("alice")
	req.NoError(repo.Create(space))
	req.NoError(repo.Delete(space.ID))

	_, err := repo.Get(space.ID)
	req.ErrorIs(err, errors.ErrSpaceNotFound)

	inUse, err := repo.CodeInUse("K3F9QZ")
	req.NoError(err)
	req.False(inUse)

	// Deleting again is a no-op.
	req.NoError(repo.Delete(space.ID))
}
