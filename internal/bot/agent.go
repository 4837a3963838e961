package bot

import (
	"goldroad/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Strategy
}

// NewAgent builds an agent from a bot identity.
func NewAgent(identity BotIdentity) *Agent {
	return &Agent{
		ID:       identity.UserID,
		Name:     identity.DisplayName,
		Strategy: StrategyFor(identity.Temperament),
	}
}

// Play asks the agent to pick its road choice based on the current game state.
func (a *Agent) Play(game *domain.Game) domain.Choice {
	if game == nil || a.Strategy == nil {
		return domain.ChoiceNone
	}
	player := game.GetPlayer(a.ID)
	if player == nil || !player.IsOnRoad || player.HasMadeChoice {
		return domain.ChoiceNone
	}
	return a.Strategy.Decide(game, a.ID)
}
