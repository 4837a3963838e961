package bot

import (
	"goldroad/internal/domain"
)

const (
	TemperamentCautious = "cautious"
	TemperamentBold     = "bold"
)

// Strategy decides a road choice for a bot given the current game state.
type Strategy interface {
	Decide(game *domain.Game, playerID string) domain.Choice
}

// CautiousStrategy banks early: it heads back to camp as soon as a trap
// has been sighted or the carried pile is worth protecting.
type CautiousStrategy struct {
	// BankThreshold is the carried gold at which the bot turns around.
	BankThreshold int
}

func (s *CautiousStrategy) Decide(game *domain.Game, playerID string) domain.Choice {
	player := game.GetPlayer(playerID)
	if player == nil || !player.IsOnRoad {
		return domain.ChoiceNone
	}

	threshold := s.BankThreshold
	if threshold <= 0 {
		threshold = 10
	}

	if game.TrapEncountered {
		return domain.ChoiceReturn
	}
	if player.GoldCarried >= threshold {
		return domain.ChoiceReturn
	}
	return domain.ChoiceAdvance
}

// BoldStrategy pushes deep into the road and only turns back when a trap
// warning coincides with a pile too big to gamble, or the road is nearly
// exhausted.
type BoldStrategy struct {
	// RiskThreshold is the carried gold a warned bot refuses to gamble.
	RiskThreshold int
}

func (s *BoldStrategy) Decide(game *domain.Game, playerID string) domain.Choice {
	player := game.GetPlayer(playerID)
	if player == nil || !player.IsOnRoad {
		return domain.ChoiceNone
	}

	threshold := s.RiskThreshold
	if threshold <= 0 {
		threshold = 20
	}

	// Nothing left to walk onto.
	if game.CurrentStep >= game.Settings.TotalSteps-1 {
		return domain.ChoiceReturn
	}
	if game.TrapEncountered && player.GoldCarried >= threshold {
		return domain.ChoiceReturn
	}
	return domain.ChoiceAdvance
}

// StrategyFor returns the strategy matching a bot temperament.
func StrategyFor(temperament string) Strategy {
	switch temperament {
	case TemperamentBold:
		return &BoldStrategy{}
	default:
		return &CautiousStrategy{}
	}
}
