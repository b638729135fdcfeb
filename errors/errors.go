package errors

import "fmt"

// Precondition violations. Expected, recoverable, surfaced to the actor as-is.
var (
	ErrAlreadyInSpace    = fmt.Errorf("already a member of a space")
	ErrInvalidInviteCode = fmt.Errorf("invalid invite code")
	ErrSpaceFull         = fmt.Errorf("space already has two members")
	ErrSpaceNotFound     = fmt.Errorf("space not found")
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrInvalidUsername   = fmt.Errorf("invalid username")
	ErrInvalidSpaceName  = fmt.Errorf("invalid space name")
	ErrInvalidReaction   = fmt.Errorf("unknown reaction")
)

// Game state machine rejections. The engine is the last line of defense:
// callers pre-validated against their own snapshot, which may be stale.
var (
	ErrNotYourTurn     = fmt.Errorf("not your turn")
	ErrCellOccupied    = fmt.Errorf("cell already occupied")
	ErrCellOutOfRange  = fmt.Errorf("cell index out of range")
	ErrGameFinished    = fmt.Errorf("game is finished, request a reset")
	ErrNoActiveGame    = fmt.Errorf("no active game in this space")
	ErrAwaitingPartner = fmt.Errorf("waiting for a second member to join")
	ErrNotAMember      = fmt.Errorf("user is not a member of this space")
)

// Concurrency conflicts. Distinct from precondition violations: the action
// was valid when issued, some other writer landed first.
var (
	ErrVersionConflict = fmt.Errorf("record version conflict")
	ErrStateChanged    = fmt.Errorf("state changed underneath you, please retry")
)

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrTokenGeneration = fmt.Errorf("token generation failed")
	ErrCodeExhausted   = fmt.Errorf("could not generate an unused invite code")
)
