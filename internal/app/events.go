package app

import "goldroad/internal/domain"

// EventKind identifies emitted session events for transport dispatch.
type EventKind string

const (
	EventRoomAssigned    EventKind = "room_assigned"
	EventRoomUpdated     EventKind = "room_updated"
	EventGameStarted     EventKind = "game_started"
	EventGameUpdated     EventKind = "game_updated"
	EventGameOver        EventKind = "game_over"
	EventReturnedToRoom  EventKind = "returned_to_room"
	EventReturnedToLobby EventKind = "returned_to_lobby"
)

// Event is a session event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means all room members
}

// RoomPayload accompanies room_assigned, room_updated and returned_to_room.
type RoomPayload struct {
	Room *domain.Room
}

// GamePayload accompanies game_started and game_updated.
type GamePayload struct {
	Game *domain.Game
}

// GameOverPayload carries the final standings.
type GameOverPayload struct {
	GameID   string
	Rankings []domain.Ranking
}

// roomRecipients lists the roster's player IDs for targeted broadcast.
func roomRecipients(r *domain.Room) []string {
	ids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.PlayerID)
	}
	return ids
}
