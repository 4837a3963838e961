package domain

import (
	"errors"
	"math/rand"
	"sort"
	"time"
)

// ErrRoomFull is returned when adding a player to a full room.
var ErrRoomFull = errors.New("room is full")

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const roomCodeLength = 6

// NewRoomCode produces a short human-facing room identifier.
func NewRoomCode(rng *rand.Rand) string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeAlphabet[rng.Intn(len(roomCodeAlphabet))]
	}
	return string(code)
}

// Room groups up to RoomSize players and owns at most one active game.
// The ready set tracks the inter-game continue handshake.
type Room struct {
	RoomID    string
	Players   []*Player // join order
	Game      *Game
	CreatedAt time.Time

	readyPlayers map[string]bool
}

// NewRoom creates an empty room with a generated code.
func NewRoom(rng *rand.Rand) *Room {
	return &Room{
		RoomID:       NewRoomCode(rng),
		CreatedAt:    time.Now(),
		readyPlayers: make(map[string]bool),
	}
}

// AddPlayer appends a player to the roster, clearing any stale ready-mark.
func (r *Room) AddPlayer(p *Player) error {
	if r.IsPlayerFull() {
		return ErrRoomFull
	}
	r.Players = append(r.Players, p)
	delete(r.readyPlayers, p.PlayerID)
	return nil
}

// RemovePlayer drops a player from the roster and the ready set.
func (r *Room) RemovePlayer(playerID string) {
	kept := r.Players[:0]
	for _, p := range r.Players {
		if p.PlayerID != playerID {
			kept = append(kept, p)
		}
	}
	r.Players = kept
	delete(r.readyPlayers, playerID)
}

// GetPlayer returns the roster entry with the given id, or nil.
func (r *Room) GetPlayer(playerID string) *Player {
	for _, p := range r.Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}

// PlayerCount returns the roster size.
func (r *Room) PlayerCount() int {
	return len(r.Players)
}

// IsPlayerFull reports whether the roster holds RoomSize players.
func (r *Room) IsPlayerFull() bool {
	return len(r.Players) >= RoomSize
}

// MarkReady records a roster member's willingness to continue.
func (r *Room) MarkReady(playerID string) {
	if r.GetPlayer(playerID) == nil {
		return
	}
	if r.readyPlayers == nil {
		r.readyPlayers = make(map[string]bool)
	}
	r.readyPlayers[playerID] = true
}

// ClearReady resets the continue handshake.
func (r *Room) ClearReady() {
	r.readyPlayers = make(map[string]bool)
}

// IsEveryoneReady reports whether every roster member has marked ready.
// An empty room is never ready.
func (r *Room) IsEveryoneReady() bool {
	if len(r.Players) == 0 {
		return false
	}
	return len(r.readyPlayers) == len(r.Players)
}

// ReadyPlayerIDs returns the ready set in stable order.
func (r *Room) ReadyPlayerIDs() []string {
	ids := make([]string, 0, len(r.readyPlayers))
	for id := range r.readyPlayers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
