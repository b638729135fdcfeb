package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"duospace/errors"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

func Test_FirstMove_PlacesX_AndPassesTurn(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)

	req.NoError(game.Move(alice, 0, bob))

	req.Equal(MarkX, game.Board[0])
	req.Equal(bob, game.CurrentPlayer)
	req.Equal(StatusActive, game.Status)
	req.Equal(1, game.FilledCells())
}

func Test_Marks_AlternateByParity(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)

	moves := []struct {
		player string
		cell   int
		mark   string
	}{
		{alice, 0, MarkX},
		{bob, 4, MarkO},
		{alice, 1, MarkX},
		{bob, 5, MarkO},
	}

	for i, m := range moves {
		req.NoError(game.Move(m.player, m.cell, other(m.player)))
		req.Equal(m.mark, game.Board[m.cell])
		req.Equal(i+1, game.FilledCells())
	}
}

func Test_Move_RejectsOccupiedCell(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)
	req.NoError(game.Move(alice, 0, bob))

	err := game.Move(bob, 0, alice)

	req.ErrorIs(err, errors.ErrCellOccupied)
	req.Equal(MarkX, game.Board[0])
	req.Equal(bob, game.CurrentPlayer)
	req.Equal(1, game.FilledCells())
}

func Test_Move_RejectsWrongTurn(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)

	err := game.Move(bob, 4, alice)

	req.ErrorIs(err, errors.ErrNotYourTurn)
	req.Equal(0, game.FilledCells())
}

func Test_Move_RejectsOutOfRangeCell(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)

	req.ErrorIs(game.Move(alice, -1, bob), errors.ErrCellOutOfRange)
	req.ErrorIs(game.Move(alice, 9, bob), errors.ErrCellOutOfRange)
}

func Test_Move_RejectsWithoutPartner(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)

	err := game.Move(alice, 0, "")

	req.ErrorIs(err, errors.ErrAwaitingPartner)
	req.Equal(0, game.FilledCells())
}

func Test_Winner_IsDetected_AndBlocksFurtherMoves(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)

	// X: 0, 1, 2 (top row) / O: 3, 4
	req.NoError(game.Move(alice, 0, bob))
	req.NoError(game.Move(bob, 3, alice))
	req.NoError(game.Move(alice, 1, bob))
	req.NoError(game.Move(bob, 4, alice))
	req.NoError(game.Move(alice, 2, bob))

	req.Equal(StatusWinner, game.Status)
	req.Equal(alice, game.Winner)

	err := game.Move(bob, 5, alice)
	req.ErrorIs(err, errors.ErrGameFinished)
}

func Test_FullBoard_WithoutLine_IsADraw(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)

	// X X O / O O X / X X O with no three-in-a-row.
	sequence := []int{0, 2, 1, 3, 5, 4, 6, 8, 7}
	player := alice
	for _, cell := range sequence {
		req.NoError(game.Move(player, cell, other(player)))
		if game.Status == StatusActive {
			player = game.CurrentPlayer
		}
	}

	req.Equal(StatusDraw, game.Status)
	req.Empty(game.Winner)
}

func Test_RequestReset_IsIdempotent_BeforeQuorum(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)
	req.NoError(game.Move(alice, 0, bob))

	game.RequestReset(alice, MaxMembers)
	game.RequestReset(alice, MaxMembers)

	req.Len(game.ResetRequests, 1)
	req.Equal(MarkX, game.Board[0])
}

func Test_RequestReset_AtQuorum_ClearsBoard_KeepsTurn(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)
	req.NoError(game.Move(alice, 0, bob))
	gameID := game.ID

	game.RequestReset(alice, MaxMembers)
	game.RequestReset(bob, MaxMembers)

	req.Empty(game.ResetRequests)
	req.Equal(0, game.FilledCells())
	req.Equal(StatusActive, game.Status)
	// Turn stays with whoever was up when the reset landed.
	req.Equal(bob, game.CurrentPlayer)
	req.Equal(gameID, game.ID)
}

func Test_RequestReset_RestartsAFinishedGame(t *testing.T) {
	req := require.New(t)
	game := NewGame(alice)
	req.NoError(game.Move(alice, 0, bob))
	req.NoError(game.Move(bob, 3, alice))
	req.NoError(game.Move(alice, 1, bob))
	req.NoError(game.Move(bob, 4, alice))
	req.NoError(game.Move(alice, 2, bob))
	req.Equal(StatusWinner, game.Status)

	game.RequestReset(bob, MaxMembers)
	game.RequestReset(alice, MaxMembers)

	req.Equal(StatusActive, game.Status)
	req.Empty(game.Winner)
	req.Equal(0, game.FilledCells())
}

func other(player string) string {
	if player == alice {
		return bob
	}
	return alice
}
