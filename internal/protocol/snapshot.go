package protocol

import "goldroad/internal/domain"

// PlayerSnapshot is the client-facing view of a player. It never carries
// transport handles or payout addresses.
type PlayerSnapshot struct {
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	GoldInCamp    int    `json:"goldInCamp"`
	GoldCarried   int    `json:"goldCarried"`
	IsOnRoad      bool   `json:"isOnRoad"`
	Position      int    `json:"position"`
	HasMadeChoice bool   `json:"hasMadeChoice"`
	Choice        string `json:"choice,omitempty"`
}

// EventDetail is the per-player outcome record attached to one tick.
type EventDetail struct {
	Type   string `json:"type"`
	Tick   int64  `json:"tick"`
	Gained int    `json:"gained,omitempty"`
	Lost   int    `json:"lost,omitempty"`
	Round  int    `json:"round,omitempty"`
}

// RankingEntry is one row of the final standings.
type RankingEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	FinalGold  int    `json:"finalGold"`
	Payout     int64  `json:"payoutShare"`
}

// GameSnapshot is the full client-facing game state for one tick.
type GameSnapshot struct {
	GameID            string                 `json:"gameId"`
	RoomID            string                 `json:"roomId"`
	CurrentRound      int                    `json:"currentRound"`
	CurrentStep       int                    `json:"currentStep"`
	TrapEncountered   bool                   `json:"trapEncountered"`
	RoadGolds         []int                  `json:"roadGolds"`
	IsGameFinished    bool                   `json:"isGameFinished"`
	FinalRankings     []RankingEntry         `json:"finalRankings"`
	Players           []PlayerSnapshot       `json:"players"`
	LastEvent         string                 `json:"lastEvent,omitempty"`
	LastEventTick     int64                  `json:"lastEventTick"`
	LastEventByPlayer map[string]EventDetail `json:"lastEventByPlayer"`
}

// RoomSnapshot is the client-facing room state.
type RoomSnapshot struct {
	RoomID       string           `json:"roomId"`
	CreatedAt    int64            `json:"createdAt"`
	Players      []PlayerSnapshot `json:"players"`
	ReadyPlayers []string         `json:"readyPlayers"`
	Game         *GameSnapshot    `json:"game,omitempty"`
}

// GameOverEvent carries the final standings of a finished game.
type GameOverEvent struct {
	GameID       string         `json:"gameId"`
	FinalResults []RankingEntry `json:"finalResults"`
}

// SnapshotPlayer converts a domain player to its wire form.
func SnapshotPlayer(p *domain.Player) PlayerSnapshot {
	return PlayerSnapshot{
		PlayerID:      p.PlayerID,
		PlayerName:    p.PlayerName,
		GoldInCamp:    p.GoldInCamp,
		GoldCarried:   p.GoldCarried,
		IsOnRoad:      p.IsOnRoad,
		Position:      p.Position,
		HasMadeChoice: p.HasMadeChoice,
		Choice:        string(p.Choice),
	}
}

// SnapshotGame converts a domain game to its wire form. Returns nil for nil.
func SnapshotGame(g *domain.Game) *GameSnapshot {
	if g == nil {
		return nil
	}

	players := make([]PlayerSnapshot, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, SnapshotPlayer(p))
	}

	rankings := make([]RankingEntry, 0, len(g.FinalRankings))
	for _, r := range g.FinalRankings {
		rankings = append(rankings, RankingEntry{
			Rank:       r.Rank,
			PlayerID:   r.PlayerID,
			PlayerName: r.PlayerName,
			FinalGold:  r.FinalGold,
			Payout:     r.Payout,
		})
	}

	details := make(map[string]EventDetail, len(g.LastEventByPlayer))
	for id, d := range g.LastEventByPlayer {
		details[id] = EventDetail{
			Type:   string(d.Type),
			Tick:   d.Tick,
			Gained: d.Gained,
			Lost:   d.Lost,
			Round:  d.Round,
		}
	}

	road := make([]int, len(g.RoadGolds))
	copy(road, g.RoadGolds)

	return &GameSnapshot{
		GameID:            g.GameID,
		RoomID:            g.RoomID,
		CurrentRound:      g.CurrentRound,
		CurrentStep:       g.CurrentStep,
		TrapEncountered:   g.TrapEncountered,
		RoadGolds:         road,
		IsGameFinished:    g.IsGameFinished,
		FinalRankings:     rankings,
		Players:           players,
		LastEvent:         string(g.LastEvent),
		LastEventTick:     g.EventSeq,
		LastEventByPlayer: details,
	}
}

// SnapshotRoom converts a domain room to its wire form.
func SnapshotRoom(r *domain.Room) RoomSnapshot {
	players := make([]PlayerSnapshot, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, SnapshotPlayer(p))
	}
	return RoomSnapshot{
		RoomID:       r.RoomID,
		CreatedAt:    r.CreatedAt.Unix(),
		Players:      players,
		ReadyPlayers: r.ReadyPlayerIDs(),
		Game:         SnapshotGame(r.Game),
	}
}
