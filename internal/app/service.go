package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"goldroad/internal/domain"
	"goldroad/internal/ports"

	"github.com/google/uuid"
)

// Service contains Gold Road use-cases operating on domain state.
type Service struct {
	rng        *rand.Rand
	settlement ports.SettlementPort
	settings   domain.Settings
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. settlement may be nil, in which case on-chain calls are skipped.
func NewService(rng *rand.Rand, settlement ports.SettlementPort, settings domain.Settings) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		rng:        rng,
		settlement: settlement,
		settings:   settings.Normalize(),
	}
}

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoActiveGame   = errors.New("room has no active game")
	ErrGameFinished   = errors.New("game already finished")
	ErrGameNotOver    = errors.New("game not finished")
	// ErrInvalidChoice marks a choice from an off-road or already-chosen
	// player. Callers ignore it rather than failing the action.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrExternalJoin aborts game creation when any join notification fails.
	ErrExternalJoin = errors.New("external join notification failed")
)

// Settings returns the normalized per-game configuration the service applies.
func (s *Service) Settings() domain.Settings {
	return s.settings
}

// NewGame builds a fresh game over the given roster: players reset, round 1,
// new track, fresh tick sequence.
func (s *Service) NewGame(roomID string, players []*domain.Player) *domain.Game {
	for _, p := range players {
		p.ResetForNewGame()
	}
	return &domain.Game{
		GameID:            uuid.NewString(),
		RoomID:            roomID,
		Players:           players,
		Settings:          s.settings,
		CurrentRound:      1,
		CurrentStep:       0,
		RoadGolds:         domain.GenerateTrack(s.rng, s.settings),
		LastEventByPlayer: make(map[string]domain.EventDetail),
		StartedAt:         time.Now(),
	}
}

// NotifyGameJoins fans out the per-player join notification to the settlement
// collaborator and waits for all of them. Any single failure aborts the whole
// start. Players without an address (bots) are not notified.
func (s *Service) NotifyGameJoins(ctx context.Context, g *domain.Game) error {
	if s.settlement == nil {
		return nil
	}

	type joinResult struct {
		playerID string
		err      error
	}

	results := make(chan joinResult, len(g.Players))
	pending := 0
	for _, p := range g.Players {
		if p.Address == "" {
			continue
		}
		pending++
		go func(p *domain.Player) {
			err := s.settlement.JoinOnChain(ctx, g.GameID, p.Address)
			results <- joinResult{playerID: p.PlayerID, err: err}
		}(p)
	}

	var firstErr error
	for i := 0; i < pending; i++ {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: player %s: %v", ErrExternalJoin, res.playerID, res.err)
		}
	}
	return firstErr
}

// SubmitChoice records a player's decision. Choices from off-road players, or
// players who already chose this step, are rejected with ErrInvalidChoice.
func (s *Service) SubmitChoice(g *domain.Game, playerID string, c domain.Choice) error {
	if g.IsGameFinished {
		return ErrGameFinished
	}
	if !domain.ValidChoice(c) {
		return ErrInvalidChoice
	}
	p := g.GetPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if !p.IsOnRoad || p.HasMadeChoice {
		return ErrInvalidChoice
	}
	p.MakeChoice(c)
	return nil
}

// Resolve performs one resolution step over the accumulated choices. It must
// only be called once AllPlayersSelected holds. Every call advances the tick
// and leaves exactly one event detail per player on the game.
func (s *Service) Resolve(g *domain.Game) {
	if g.IsGameFinished {
		return
	}

	g.EventSeq++
	tick := g.EventSeq
	details := make(map[string]domain.EventDetail, len(g.Players))

	var returning, advancing []*domain.Player
	for _, p := range g.Players {
		switch {
		case p.Choice == domain.ChoiceReturn && p.IsOnRoad:
			returning = append(returning, p)
		case p.Choice == domain.ChoiceAdvance && p.IsOnRoad:
			advancing = append(advancing, p)
		}
	}

	dominant := domain.EventAdvance

	// Return settlement: retreating players split leftover gold on every
	// tile behind them; the remainder stays on the tile.
	if n := len(returning); n > 0 {
		gained := 0
		for i := 1; i <= g.CurrentStep; i++ {
			if g.RoadGolds[i] > 0 {
				gained += g.RoadGolds[i] / n
				g.RoadGolds[i] %= n
			}
		}
		for _, p := range returning {
			p.GoldCarried += gained
			banked := p.GoldCarried
			p.ReturnToCamp()
			details[p.PlayerID] = domain.EventDetail{
				Type:   domain.EventReturn,
				Tick:   tick,
				Gained: banked,
			}
		}
		dominant = domain.EventReturn
	}

	// Advance resolution: the cohort moves one step together.
	if n := len(advancing); n > 0 {
		g.CurrentStep++
		tile := g.RoadGolds[g.CurrentStep]
		switch {
		case tile == domain.TrapTile && !g.TrapEncountered:
			// First trap of the round is a warning, not a penalty.
			g.TrapEncountered = true
			for _, p := range advancing {
				p.AdvanceTo(g.CurrentStep)
				details[p.PlayerID] = domain.EventDetail{Type: domain.EventTrapFirst, Tick: tick}
			}
			dominant = domain.EventTrapFirst
		case tile == domain.TrapTile:
			for _, p := range advancing {
				lost := p.GoldCarried
				p.HitTrap()
				details[p.PlayerID] = domain.EventDetail{
					Type: domain.EventTrapSecond,
					Tick: tick,
					Lost: lost,
				}
			}
			dominant = domain.EventTrapSecond
		default:
			share := tile / n
			g.RoadGolds[g.CurrentStep] = tile % n
			for _, p := range advancing {
				p.AdvanceTo(g.CurrentStep)
				p.GoldCarried += share
				details[p.PlayerID] = domain.EventDetail{
					Type:   domain.EventReward,
					Tick:   tick,
					Gained: share,
				}
			}
			dominant = domain.EventReward
		}
	}

	if g.AllPlayersReturned() {
		s.startNewRound(g)
		dominant = domain.EventRoundEnd
	}

	for _, p := range g.Players {
		if _, ok := details[p.PlayerID]; !ok {
			details[p.PlayerID] = domain.EventDetail{
				Type:  dominant,
				Tick:  tick,
				Round: g.CurrentRound,
			}
		}
	}
	g.LastEvent = dominant
	g.LastEventByPlayer = details

	// Choices are consumed; players still on the road decide again next step.
	if !g.IsGameFinished {
		for _, p := range g.Players {
			if p.IsOnRoad {
				p.ClearChoice()
			}
		}
	}
}

// startNewRound regenerates the track and resets per-round player state, or
// finishes the game once the final round has completed.
func (s *Service) startNewRound(g *domain.Game) {
	g.CurrentRound++
	if g.CurrentRound > g.Settings.TotalRounds {
		g.IsGameFinished = true
		g.EndedAt = time.Now()
		g.FinalRankings = domain.ComputeRankings(g.Players, g.Settings.EntranceFee)
		return
	}
	for _, p := range g.Players {
		p.ResetForNewRound()
	}
	g.CurrentStep = 0
	g.TrapEncountered = false
	g.RoadGolds = domain.GenerateTrack(s.rng, g.Settings)
}

// SettleFinished extracts winners and payout shares from the final rankings
// and delegates to the settlement collaborator. The in-memory result stays
// authoritative whether or not the call succeeds.
func (s *Service) SettleFinished(ctx context.Context, g *domain.Game) (string, error) {
	if !g.IsGameFinished {
		return "", ErrGameNotOver
	}
	if s.settlement == nil {
		return "", nil
	}

	winners := make([]string, 0, len(g.FinalRankings))
	payouts := make([]int64, 0, len(g.FinalRankings))
	for _, r := range g.FinalRankings {
		if r.Payout <= 0 {
			continue
		}
		address := r.PlayerID
		if p := g.GetPlayer(r.PlayerID); p != nil && p.Address != "" {
			address = p.Address
		}
		winners = append(winners, address)
		payouts = append(payouts, r.Payout)
	}
	if len(winners) == 0 {
		return "", nil
	}

	receipt, err := s.settlement.SettleOnChain(ctx, g.GameID, winners, payouts)
	if err != nil {
		return "", fmt.Errorf("settle game %s: %w", g.GameID, err)
	}
	return receipt, nil
}
