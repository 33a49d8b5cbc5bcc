package handlers

// ClientMessage is the closed set of inbound request variants. Type selects
// the operation; only the fields that operation needs are read.
type ClientMessage struct {
	Type string `json:"type"`

	// host_game / join_game
	Name     string `json:"name,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`

	// discard_card
	HandIndex *int `json:"handIndex,omitempty"`

	// lock_set
	SlotIndex   *int  `json:"slotIndex,omitempty"`
	HandIndexes []int `json:"handIndexes,omitempty"`
}

// Inbound request types.
const (
	MsgHostGame    = "host_game"
	MsgJoinGame    = "join_game"
	MsgLeaveGame   = "leave_game"
	MsgAddBot      = "add_bot"
	MsgRemoveBot   = "remove_bot"
	MsgStartGame   = "start_game"
	MsgDrawDeck    = "draw_deck"
	MsgDrawDiscard = "draw_discard"
	MsgDiscardCard = "discard_card"
	MsgLockSet     = "lock_set"
	MsgPing        = "ping"
)
