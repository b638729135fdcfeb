package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"duospace/errors"
)

type GameKind string

const KindTicTacToe GameKind = "tictactoe"

type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusDraw   GameStatus = "draw"
	StatusWinner GameStatus = "winner"
)

const (
	MarkX = "X"
	MarkO = "O"
)

// BoardSize is the number of cells on a tic-tac-toe board.
const BoardSize = 9

// winningLines are the 8 three-in-a-row combinations: rows, columns, diagonals.
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// GameState is the tic-tac-toe state machine owned by exactly one Space.
// Cells hold "X", "O", or "" when empty. CurrentPlayer is the user id
// whose turn it is. ResetRequests records members who asked for a reset;
// the board is only cleared once every member has asked.
type GameState struct {
	ID            string     `json:"id"`
	Kind          GameKind   `json:"type"`
	Board         []string   `json:"board"`
	CurrentPlayer string     `json:"currentPlayer"`
	Status        GameStatus `json:"status"`
	Winner        string     `json:"winner,omitempty"`
	ResetRequests []string   `json:"resetRequests"`
	LastUpdated   time.Time  `json:"lastUpdated"`
}

// NewGame returns a fresh board. The first mover is recorded as the
// current player; their first move will place "X" by parity.
func NewGame(firstPlayer string) *GameState {
	return &GameState{
		ID:            uuid.New().String(),
		Kind:          KindTicTacToe,
		Board:         make([]string, BoardSize),
		CurrentPlayer: firstPlayer,
		Status:        StatusActive,
		ResetRequests: nil,
		LastUpdated:   time.Now().UTC(),
	}
}

// FilledCells counts occupied cells. It strictly increases by one per
// legal move, which is what makes mark parity a sound alternation rule.
func (g *GameState) FilledCells() int {
	return lo.CountBy(g.Board, func(c string) bool { return c != "" })
}

// NextMark derives the mark to place from board parity: even filled
// count plays "X", odd plays "O". Alternation therefore holds no matter
// who moved first.
func (g *GameState) NextMark() string {
	if g.FilledCells()%2 == 0 {
		return MarkX
	}
	return MarkO
}

// Move applies userID's move at cell and passes the turn to partner.
// The engine re-validates everything even though callers pre-validate
// against their own rendered snapshot, which may be stale by a poll
// interval. Rejections are specific conditions, never silent.
func (g *GameState) Move(userID string, cell int, partner string) error {
	if cell < 0 || cell >= BoardSize {
		return errors.ErrCellOutOfRange
	}
	if g.Status != StatusActive {
		return errors.ErrGameFinished
	}
	if partner == "" {
		return errors.ErrAwaitingPartner
	}
	if g.CurrentPlayer != userID {
		return errors.ErrNotYourTurn
	}
	if g.Board[cell] != "" {
		return errors.ErrCellOccupied
	}

	g.Board[cell] = g.NextMark()
	g.LastUpdated = time.Now().UTC()

	if g.hasWinningLine() {
		// The mover placed the winning mark, so the mover is the winner.
		g.Status = StatusWinner
		g.Winner = userID
		return nil
	}
	if g.FilledCells() == BoardSize {
		g.Status = StatusDraw
		return nil
	}

	g.CurrentPlayer = partner
	return nil
}

// hasWinningLine scans the 8 lines for three identical non-empty marks.
func (g *GameState) hasWinningLine() bool {
	for _, line := range winningLines {
		a, b, c := g.Board[line[0]], g.Board[line[1]], g.Board[line[2]]
		if a != "" && a == b && b == c {
			return true
		}
	}
	return false
}

// RequestReset records userID's consent to restart. Idempotent: asking
// twice before quorum leaves the request set unchanged. Once the set
// covers all memberCount members, the board is replaced wholesale with
// an empty one, the request set is cleared, and the turn is preserved
// from before the reset.
func (g *GameState) RequestReset(userID string, memberCount int) {
	if !lo.Contains(g.ResetRequests, userID) {
		g.ResetRequests = append(g.ResetRequests, userID)
	}
	g.LastUpdated = time.Now().UTC()

	if len(g.ResetRequests) < memberCount {
		return
	}

	fresh := NewGame(g.CurrentPlayer)
	fresh.ID = g.ID
	*g = *fresh
}
