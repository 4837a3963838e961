package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"goldroad/internal/domain"
)

// Directory is the session store: matchmaking queue plus the room, game and
// player registries. It lives from process start to process stop and is the
// only component that creates rooms and games. A single mutex serializes all
// operations so the resolution step always runs to completion.
type Directory struct {
	mu  sync.Mutex
	svc *Service
	rng *rand.Rand

	rooms   map[string]*domain.Room
	roomIDs []string // creation order, drives first-fit matchmaking
	games   map[string]*domain.Game
	players map[string]*domain.Player
}

// NewDirectory constructs an empty session store around the given service.
func NewDirectory(svc *Service, rng *rand.Rand) *Directory {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Directory{
		svc:     svc,
		rng:     rng,
		rooms:   make(map[string]*domain.Room),
		games:   make(map[string]*domain.Game),
		players: make(map[string]*domain.Player),
	}
}

// ContinueAck reports the state of the inter-game continue handshake.
type ContinueAck struct {
	Waiting       bool
	RoomFull      bool
	EveryoneReady bool
	ReadyPlayers  []string
}

// CreatePlayer registers (or refreshes) a player in the global registry.
func (d *Directory) CreatePlayer(playerID, playerName, address string) *domain.Player {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.players[playerID]; ok {
		if playerName != "" {
			p.PlayerName = playerName
		}
		if address != "" {
			p.Address = address
		}
		return p
	}
	p := &domain.Player{PlayerID: playerID, PlayerName: playerName, Address: address}
	d.players[playerID] = p
	return p
}

// GetPlayer returns a registered player or nil.
func (d *Directory) GetPlayer(playerID string) *domain.Player {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.players[playerID]
}

// RemovePlayer drops a player from the registry. Removal is idempotent.
func (d *Directory) RemovePlayer(playerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.players, playerID)
}

// GetRoom returns a room by id or nil.
func (d *Directory) GetRoom(roomID string) *domain.Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rooms[roomID]
}

// GetGame returns a game by id or nil. Finished games stay retrievable until
// their room is deleted.
func (d *Directory) GetGame(gameID string) *domain.Game {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.games[gameID]
}

// RoomForPlayer returns the room whose roster contains the player, or nil.
func (d *Directory) RoomForPlayer(playerID string) *domain.Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.roomIDs {
		if r := d.rooms[id]; r != nil && r.GetPlayer(playerID) != nil {
			return r
		}
	}
	return nil
}

// AddPlayerToQueue places the player into the first under-full room, creating
// one if needed. Filling a room to capacity starts a game; if any external
// join notification fails the game is rolled back and the room stays
// game-less so the join can be retried.
func (d *Directory) AddPlayerToQueue(ctx context.Context, p *domain.Player) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Re-submitting a join is idempotent for players already seated.
	for _, id := range d.roomIDs {
		if r := d.rooms[id]; r.GetPlayer(p.PlayerID) != nil {
			return d.roomJoinEvents(r), nil
		}
	}

	var room *domain.Room
	for _, id := range d.roomIDs {
		if r := d.rooms[id]; !r.IsPlayerFull() {
			room = r
			break
		}
	}
	if room == nil {
		room = domain.NewRoom(d.rng)
		d.rooms[room.RoomID] = room
		d.roomIDs = append(d.roomIDs, room.RoomID)
	}

	if err := room.AddPlayer(p); err != nil {
		return nil, err
	}
	return d.startGameIfFull(ctx, room)
}

// AddPlayerToRoom seats a player in a specific room, starting the game if the
// seat fills it. Used for targeted placement such as bot auto-fill.
func (d *Directory) AddPlayerToRoom(ctx context.Context, roomID string, p *domain.Player) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := room.AddPlayer(p); err != nil {
		return nil, err
	}
	return d.startGameIfFull(ctx, room)
}

// startGameIfFull starts a game once the roster is complete. Callers hold the
// directory lock.
func (d *Directory) startGameIfFull(ctx context.Context, room *domain.Room) ([]Event, error) {
	events := d.roomJoinEvents(room)
	if !room.IsPlayerFull() || room.Game != nil {
		return events, nil
	}

	game, err := d.startGame(ctx, room)
	if err != nil {
		return events, err
	}
	events = append(events, Event{
		Kind:       EventGameStarted,
		Payload:    GamePayload{Game: game},
		Recipients: roomRecipients(room),
	})
	return events, nil
}

// startGame creates and registers a game for the room after all join
// notifications succeed. Callers hold the directory lock.
func (d *Directory) startGame(ctx context.Context, room *domain.Room) (*domain.Game, error) {
	game := d.svc.NewGame(room.RoomID, room.Players)
	if err := d.svc.NotifyGameJoins(ctx, game); err != nil {
		// Room reverts to its game-less, re-startable state; queue
		// membership is preserved so players can retry.
		return nil, err
	}
	room.Game = game
	d.games[game.GameID] = game
	return game, nil
}

func (d *Directory) roomJoinEvents(room *domain.Room) []Event {
	return []Event{{
		Kind:       EventRoomAssigned,
		Payload:    RoomPayload{Room: room},
		Recipients: roomRecipients(room),
	}}
}

// MakeChoice forwards a player's decision to the room's game and, once every
// eligible player has chosen, runs one resolution step. Invalid choices are
// ignored without error per the engine's propagation policy.
func (d *Directory) MakeChoice(roomID, playerID string, c domain.Choice) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	game := room.Game
	if game == nil {
		return nil, ErrNoActiveGame
	}

	if err := d.svc.SubmitChoice(game, playerID, c); err != nil {
		if errors.Is(err, ErrInvalidChoice) {
			return nil, nil
		}
		return nil, err
	}

	if !game.AllPlayersSelected() {
		return nil, nil
	}

	d.svc.Resolve(game)
	events := []Event{{
		Kind:       EventGameUpdated,
		Payload:    GamePayload{Game: game},
		Recipients: roomRecipients(room),
	}}
	if game.IsGameFinished {
		room.ClearReady()
		events = append(events, Event{
			Kind:       EventGameOver,
			Payload:    GameOverPayload{GameID: game.GameID, Rankings: game.FinalRankings},
			Recipients: roomRecipients(room),
		})
	}
	return events, nil
}

// RequestContinue marks a player ready for the next game. When the room is
// full and everyone is ready, the finished game is detached and a fresh one
// starts with its own entrance-fee claims.
func (d *Directory) RequestContinue(ctx context.Context, roomID, playerID string) (ContinueAck, []Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return ContinueAck{}, nil, ErrRoomNotFound
	}
	if room.GetPlayer(playerID) == nil {
		return ContinueAck{}, nil, ErrPlayerNotFound
	}

	room.MarkReady(playerID)
	ack := ContinueAck{
		RoomFull:      room.IsPlayerFull(),
		EveryoneReady: room.IsEveryoneReady(),
		ReadyPlayers:  room.ReadyPlayerIDs(),
	}

	events := []Event{{
		Kind:       EventReturnedToRoom,
		Payload:    RoomPayload{Room: room},
		Recipients: []string{playerID},
	}}

	if !(ack.RoomFull && ack.EveryoneReady) {
		ack.Waiting = true
		events = append(events, Event{
			Kind:       EventRoomUpdated,
			Payload:    RoomPayload{Room: room},
			Recipients: roomRecipients(room),
		})
		return ack, events, nil
	}

	// Detach the finished game; it stays retrievable by id until the room
	// goes away.
	room.Game = nil
	room.ClearReady()
	events = append(events, Event{
		Kind:       EventRoomUpdated,
		Payload:    RoomPayload{Room: room},
		Recipients: roomRecipients(room),
	})

	game, err := d.startGame(ctx, room)
	if err != nil {
		return ack, events, err
	}
	events = append(events, Event{
		Kind:       EventGameStarted,
		Payload:    GamePayload{Game: game},
		Recipients: roomRecipients(room),
	})
	return ack, events, nil
}

// LeaveRoom removes the player from the room's roster. An emptied room is
// deleted outright together with any game it still owns.
func (d *Directory) LeaveRoom(roomID, playerID string) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.GetPlayer(playerID) == nil {
		return nil, ErrPlayerNotFound
	}

	room.RemovePlayer(playerID)
	events := []Event{{
		Kind:       EventReturnedToLobby,
		Payload:    RoomPayload{Room: room},
		Recipients: []string{playerID},
	}}

	if room.PlayerCount() == 0 {
		d.deleteRoom(room)
		return events, nil
	}

	events = append(events, Event{
		Kind:       EventRoomUpdated,
		Payload:    RoomPayload{Room: room},
		Recipients: roomRecipients(room),
	})
	return events, nil
}

// deleteRoom discards a room and every game registered against it. Callers
// hold the directory lock.
func (d *Directory) deleteRoom(room *domain.Room) {
	for id, g := range d.games {
		if g.RoomID == room.RoomID {
			delete(d.games, id)
		}
	}
	delete(d.rooms, room.RoomID)
	for i, id := range d.roomIDs {
		if id == room.RoomID {
			d.roomIDs = append(d.roomIDs[:i], d.roomIDs[i+1:]...)
			break
		}
	}
}

// SettleGame pushes a finished game's payouts to the settlement collaborator.
// Failures are reported to the caller but never alter in-memory rankings.
func (d *Directory) SettleGame(ctx context.Context, gameID string) (string, error) {
	d.mu.Lock()
	game, ok := d.games[gameID]
	d.mu.Unlock()
	if !ok {
		return "", ErrGameNotFound
	}
	return d.svc.SettleFinished(ctx, game)
}

// WaitingRooms returns ids of rooms that are under-full with no active game.
func (d *Directory) WaitingRooms() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ids []string
	for _, id := range d.roomIDs {
		if r := d.rooms[id]; !r.IsPlayerFull() && r.Game == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
