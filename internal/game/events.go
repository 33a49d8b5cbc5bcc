package game

import (
	"github.com/google/uuid"

	"github.com/consolecatch/server/internal/models"
)

// EventType tags every outbound notification a room can emit.
type EventType string

const (
	EventRoomCreated    EventType = "room_created"
	EventRoomJoined     EventType = "room_joined"
	EventLobbyUpdate    EventType = "lobby_update"
	EventPlayerJoined   EventType = "player_joined"
	EventPlayerLeft     EventType = "player_left"
	EventYouAreHost     EventType = "you_are_host"
	EventGameStarted    EventType = "game_started"
	EventGameState      EventType = "game_state"
	EventYourHand       EventType = "your_hand"
	EventCardDrawn      EventType = "card_drawn"
	EventTimerStart     EventType = "timer_start"
	EventForceMove      EventType = "force_move"
	EventDeckReshuffled EventType = "deck_reshuffled"
	EventSetLocked      EventType = "set_locked"
	EventGameOver       EventType = "game_over"
	EventError          EventType = "error"
	EventPong           EventType = "pong"
)

// PlayerInfo identifies a player in join/leave/host notifications.
type PlayerInfo struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	IsBot  bool      `json:"isBot"`
}

// PlayerPublic is the per-player slice of state every participant may see.
type PlayerPublic struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Avatar       string        `json:"avatar"`
	IsBot        bool          `json:"isBot"`
	CardCount    int           `json:"cardCount"`
	SetsComplete int           `json:"setsComplete"`
	Gold         int           `json:"gold"`
	Lucky        int           `json:"lucky"`
	DiscardPile  []models.Card `json:"discardPile"`
}

// PublicState is the shared snapshot broadcast as game_state.
type PublicState struct {
	RoomCode    string         `json:"roomCode"`
	Phase       Phase          `json:"phase"`
	HostID      uuid.UUID      `json:"hostId"`
	CurrentTurn int            `json:"currentTurn"`
	Round       int            `json:"round"`
	DeckCount   int            `json:"deckCount"`
	TopDiscard  *models.Card   `json:"topDiscard"`
	Players     []PlayerPublic `json:"players"`
}

// HandState is the private your_hand snapshot unicast to each human.
type HandState struct {
	Hand     []models.Card                     `json:"hand"`
	Sets     [models.NumSetSlots][]models.Card `json:"sets"`
	HasDrawn bool                              `json:"hasDrawn"`
}

// TimerInfo announces the turn countdown for the acting player.
type TimerInfo struct {
	Seconds  int       `json:"seconds"`
	PlayerID uuid.UUID `json:"playerId"`
}

// LockInfo describes a successfully locked set.
type LockInfo struct {
	PlayerID  uuid.UUID     `json:"playerId"`
	SlotIndex int           `json:"slotIndex"`
	Cards     []models.Card `json:"cards"`
}

// RankingEntry is one row of the final standings.
type RankingEntry struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	SetsComplete int       `json:"setsComplete"`
	Gold         int       `json:"gold"`
	Lucky        int       `json:"lucky"`
}

// GameResult is the game_over payload.
type GameResult struct {
	Winner      PlayerInfo     `json:"winner"`
	GoldEarned  int            `json:"goldEarned"`
	LuckyEarned int            `json:"luckyEarned"`
	Ranking     []RankingEntry `json:"ranking"`
}

// Event is the closed outbound message envelope. Exactly the fields relevant
// to Type are set; everything else is omitted on the wire.
type Event struct {
	Type     EventType    `json:"type"`
	RoomCode string       `json:"roomCode,omitempty"`
	Message  string       `json:"message,omitempty"`
	Room     *PublicState `json:"room,omitempty"`
	Hand     *HandState   `json:"hand,omitempty"`
	Player   *PlayerInfo  `json:"player,omitempty"`
	Card     *models.Card `json:"card,omitempty"`
	Source   string       `json:"source,omitempty"`
	Timer    *TimerInfo   `json:"timer,omitempty"`
	Lock     *LockInfo    `json:"lock,omitempty"`
	Result   *GameResult  `json:"result,omitempty"`
}

// BroadcastFunc delivers ev to every listed connection. It is invoked with
// the room lock held, so implementations must not call back into the room;
// actual writes should happen asynchronously.
type BroadcastFunc func(targets []*models.Player, ev Event)

func playerInfo(p *models.Player) *PlayerInfo {
	return &PlayerInfo{ID: p.ID, Name: p.Name, Avatar: p.Avatar, IsBot: p.IsBot}
}
