package domain

import (
	"sort"
	"time"
)

// RoomSize is the fixed number of players per room and game.
const RoomSize = 3

// Settings carries the per-game configuration.
type Settings struct {
	EntranceFee    int64
	TotalRounds    int
	TotalSteps     int
	TotalTraps     int
	MaxGoldPerStep int
}

// DefaultSettings returns the standard game configuration.
func DefaultSettings() Settings {
	return Settings{
		EntranceFee:    50,
		TotalRounds:    3,
		TotalSteps:     20,
		TotalTraps:     2,
		MaxGoldPerStep: 9,
	}
}

// Normalize clamps settings to values the resolution step can operate on.
// At least two traps must exist, otherwise an advancing cohort could walk
// past the end of the road without ever being forced back to camp.
func (s Settings) Normalize() Settings {
	if s.TotalRounds < 1 {
		s.TotalRounds = 1
	}
	if s.TotalSteps < 2 {
		s.TotalSteps = 2
	}
	if s.TotalTraps < 2 {
		s.TotalTraps = 2
	}
	if s.TotalTraps > s.TotalSteps {
		s.TotalTraps = s.TotalSteps
	}
	if s.MaxGoldPerStep < 1 {
		s.MaxGoldPerStep = 1
	}
	if s.EntranceFee < 0 {
		s.EntranceFee = 0
	}
	return s
}

// Ranking is one entry of the end-of-game standings.
type Ranking struct {
	Rank       int
	PlayerID   string
	PlayerName string
	FinalGold  int
	// Payout is this player's share of the pot (entrance fee times player
	// count), proportional to final gold.
	Payout int64
}

// Game is the round/step state machine for one expedition.
type Game struct {
	GameID string
	RoomID string

	// Players is the ordered roster, shared with the owning Room.
	Players []*Player

	Settings Settings

	CurrentRound    int
	CurrentStep     int
	TrapEncountered bool
	RoadGolds       []int

	IsGameFinished bool
	FinalRankings  []Ranking

	// EventSeq is the monotonic tick counter scoped to this game instance.
	EventSeq          int64
	LastEvent         EventKind
	LastEventByPlayer map[string]EventDetail

	StartedAt time.Time
	EndedAt   time.Time
}

// GetPlayer returns the roster entry with the given id, or nil.
func (g *Game) GetPlayer(playerID string) *Player {
	for _, p := range g.Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}

// AllPlayersSelected reports whether every player is either off the road or
// has submitted a choice this step. This is the gating predicate for running
// one resolution step; off-road players sit out the rest of the round.
func (g *Game) AllPlayersSelected() bool {
	for _, p := range g.Players {
		if p.IsOnRoad && !p.HasMadeChoice {
			return false
		}
	}
	return true
}

// AllPlayersReturned reports whether every player is off the road, which ends
// the current round.
func (g *Game) AllPlayersReturned() bool {
	for _, p := range g.Players {
		if p.IsOnRoad {
			return false
		}
	}
	return true
}

// ComputeRankings sorts players by descending camp gold and assigns integer
// payout shares of the pot. The truncation leftover goes to rank 1 so shares
// always sum to the full pot; an all-zero outcome pays nobody.
func ComputeRankings(players []*Player, entranceFee int64) []Ranking {
	sorted := make([]*Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GoldInCamp > sorted[j].GoldInCamp
	})

	total := 0
	for _, p := range players {
		total += p.GoldInCamp
	}
	pot := entranceFee * int64(len(players))

	rankings := make([]Ranking, 0, len(sorted))
	var distributed int64
	for i, p := range sorted {
		var payout int64
		if total > 0 {
			payout = pot * int64(p.GoldInCamp) / int64(total)
		}
		distributed += payout
		rankings = append(rankings, Ranking{
			Rank:       i + 1,
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			FinalGold:  p.GoldInCamp,
			Payout:     payout,
		})
	}

	if total > 0 && len(rankings) > 0 {
		rankings[0].Payout += pot - distributed
	}
	return rankings
}
