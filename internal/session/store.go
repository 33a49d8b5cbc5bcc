package session

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/consolecatch/server/internal/game"
)

// codeWords is the thematic pool room codes are drawn from; a code is one
// word plus a 2-digit suffix, e.g. "RETRO42".
var codeWords = []string{
	"SNES", "PS1", "SEGA", "XBOX", "STEAM", "N64",
	"PIXEL", "SONIC", "MARIO", "ZELDA", "RETRO", "ATARI",
}

// Store is the session directory. It owns the room-by-code and
// connection-to-room maps behind a single mutex; rooms themselves
// synchronize their own state.
type Store struct {
	mu     sync.Mutex
	rooms  map[string]*game.Room // key: normalized room code
	byConn map[uuid.UUID]string  // connection ID -> room code
	rng    *rand.Rand
}

// NewStore returns an empty directory.
func NewStore() *Store {
	return &Store{
		rooms:  make(map[string]*game.Room),
		byConn: make(map[uuid.UUID]string),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Normalize maps human-entered codes onto the stored form.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom generates a fresh unique code, builds the room via the factory
// and registers it, all under one lock so a live code is never reused.
func (s *Store) CreateRoom(build func(code string) *game.Room) *game.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for {
		code = fmt.Sprintf("%s%02d", codeWords[s.rng.Intn(len(codeWords))], s.rng.Intn(100))
		if _, taken := s.rooms[code]; !taken {
			break
		}
	}
	r := build(code)
	s.rooms[code] = r
	return r
}

// Get looks a room up by code, case-insensitively.
func (s *Store) Get(code string) (*game.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[Normalize(code)]
	return r, ok
}

// Delete drops a room from the directory.
func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, Normalize(code))
}

// Bind associates a connection with the room it joined.
func (s *Store) Bind(connID uuid.UUID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byConn[connID] = Normalize(code)
}

// Unbind forgets a connection's room association.
func (s *Store) Unbind(connID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byConn, connID)
}

// RoomFor resolves the room a connection is currently in, if any.
func (s *Store) RoomFor(connID uuid.UUID) (*game.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.byConn[connID]
	if !ok {
		return nil, false
	}
	r, ok := s.rooms[code]
	return r, ok
}

// Count returns the number of live rooms.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
