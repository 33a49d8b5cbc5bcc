package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// NumSetSlots is the number of locked-set slots each player owns.
const NumSetSlots = 3

// Player is one participant in a room. The ID is connection-scoped: it lives
// exactly as long as the player's connection stays bound to the room.
type Player struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	IsBot  bool      `json:"isBot"`

	Hand []Card `json:"hand"`

	// Sets holds the three locked-set slots. A slot holding three cards is
	// permanently locked for the remainder of the game.
	Sets [NumSetSlots][]Card `json:"sets"`

	// DiscardPile records every card this player has personally discarded.
	// It is visible history for other players; the room's shared pile stays
	// authoritative for what is actually drawable.
	DiscardPile []Card `json:"discardPile"`

	Gold     int  `json:"gold"`
	Lucky    int  `json:"lucky"`
	HasDrawn bool `json:"hasDrawn"`

	Conn *websocket.Conn `json:"-"`
}

// LockedSetCount returns how many of the player's slots are filled.
func (p *Player) LockedSetCount() int {
	n := 0
	for _, s := range p.Sets {
		if len(s) == NumSetSlots {
			n++
		}
	}
	return n
}

// SlotLocked reports whether slot i already holds a set.
func (p *Player) SlotLocked(i int) bool {
	return i >= 0 && i < NumSetSlots && len(p.Sets[i]) > 0
}
