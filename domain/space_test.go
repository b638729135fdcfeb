package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Space_Membership(t *testing.T) {
	req := require.New(t)
	space := Space{ID: "s1", Members: []string{alice}}

	space.AddMember(bob)
	space.AddMember(bob) // idempotent

	req.Equal([]string{alice, bob}, space.Members)
	req.True(space.IsFull())
	req.Equal(bob, space.Partner(alice))
	req.Equal(alice, space.Partner(bob))

	space.RemoveMember(alice)
	req.Equal([]string{bob}, space.Members)
	req.Empty(space.Partner(bob))

	// Removing a non-member is a no-op.
	space.RemoveMember(alice)
	req.Equal([]string{bob}, space.Members)
}

func Test_ReplySnapshot_TruncatesLongContent(t *testing.T) {
	req := require.New(t)
	long := make([]rune, ReplySnippetLength+50)
	for i := range long {
		long[i] = 'a'
	}
	msg := Message{ID: "m1", SenderID: alice, Content: string(long)}

	ref := msg.SnapshotReply()

	req.Equal("m1", ref.ID)
	req.Equal(alice, ref.SenderID)
	req.Len([]rune(ref.Content), ReplySnippetLength)
}
