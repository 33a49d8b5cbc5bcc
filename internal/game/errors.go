package game

import "errors"

// Request errors reported back to the offending connection only. None of
// them leave the room partially mutated.
var (
	ErrNameRequired   = errors.New("name required")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full (max 6)")
	ErrGameInProgress = errors.New("game already in progress")
	ErrNotHost        = errors.New("only the host can do that")
	ErrNeedTwoPlayers = errors.New("need at least 2 players")
	ErrWrongPhase     = errors.New("not allowed in this phase")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrAlreadyDrawn   = errors.New("already drew this turn")
	ErrMustDrawFirst  = errors.New("draw a card first")
	ErrDiscardEmpty   = errors.New("discard pile is empty")
	ErrDeckExhausted  = errors.New("no cards left")
	ErrInvalidCard    = errors.New("invalid card")
	ErrInvalidSlot    = errors.New("invalid slot")
	ErrSlotLocked     = errors.New("slot already locked")
	ErrWrongCardCount = errors.New("a set needs exactly 3 cards")
	ErrNotASet        = errors.New("cards do not form a set")
	ErrNoBots         = errors.New("no bots to remove")
	ErrPlayerNotFound = errors.New("player not in room")
)
