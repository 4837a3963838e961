package bot

import (
	"testing"

	"goldroad/internal/domain"
)

func testGame(t *testing.T) *domain.Game {
	t.Helper()
	settings := domain.DefaultSettings()
	game := &domain.Game{
		GameID:   "game-1",
		Settings: settings,
		Players: []*domain.Player{
			{PlayerID: "bot_1", PlayerName: "Bot One", IsOnRoad: true},
		},
		CurrentStep: 3,
	}
	return game
}

func TestCautiousStrategy_ReturnsOnTrapWarning(t *testing.T) {
	game := testGame(t)
	game.TrapEncountered = true

	strategy := &CautiousStrategy{}
	if got := strategy.Decide(game, "bot_1"); got != domain.ChoiceReturn {
		t.Fatalf("Expected return after trap warning, got %q", got)
	}
}

func TestCautiousStrategy_AdvancesWithSmallPile(t *testing.T) {
	game := testGame(t)
	game.GetPlayer("bot_1").GoldCarried = 3

	strategy := &CautiousStrategy{BankThreshold: 10}
	if got := strategy.Decide(game, "bot_1"); got != domain.ChoiceAdvance {
		t.Fatalf("Expected advance with small pile, got %q", got)
	}
}

func TestCautiousStrategy_BanksAtThreshold(t *testing.T) {
	game := testGame(t)
	game.GetPlayer("bot_1").GoldCarried = 10

	strategy := &CautiousStrategy{BankThreshold: 10}
	if got := strategy.Decide(game, "bot_1"); got != domain.ChoiceReturn {
		t.Fatalf("Expected return at bank threshold, got %q", got)
	}
}

func TestBoldStrategy_PushesThroughWarningWithSmallPile(t *testing.T) {
	game := testGame(t)
	game.TrapEncountered = true
	game.GetPlayer("bot_1").GoldCarried = 5

	strategy := &BoldStrategy{RiskThreshold: 20}
	if got := strategy.Decide(game, "bot_1"); got != domain.ChoiceAdvance {
		t.Fatalf("Expected bold bot to keep advancing, got %q", got)
	}
}

func TestBoldStrategy_RefusesToGambleBigPile(t *testing.T) {
	game := testGame(t)
	game.TrapEncountered = true
	game.GetPlayer("bot_1").GoldCarried = 25

	strategy := &BoldStrategy{RiskThreshold: 20}
	if got := strategy.Decide(game, "bot_1"); got != domain.ChoiceReturn {
		t.Fatalf("Expected bold bot to bank a big pile after a warning, got %q", got)
	}
}

func TestBoldStrategy_ReturnsNearTrackEnd(t *testing.T) {
	game := testGame(t)
	game.CurrentStep = game.Settings.TotalSteps - 1

	strategy := &BoldStrategy{}
	if got := strategy.Decide(game, "bot_1"); got != domain.ChoiceReturn {
		t.Fatalf("Expected return at track end, got %q", got)
	}
}

func TestStrategies_IgnoreOffRoadPlayer(t *testing.T) {
	game := testGame(t)
	game.GetPlayer("bot_1").IsOnRoad = false

	for _, strategy := range []Strategy{&CautiousStrategy{}, &BoldStrategy{}} {
		if got := strategy.Decide(game, "bot_1"); got != domain.ChoiceNone {
			t.Fatalf("Expected no choice for off-road player, got %q", got)
		}
	}
}

func TestAgent_SkipsWhenAlreadyChosen(t *testing.T) {
	game := testGame(t)
	player := game.GetPlayer("bot_1")
	player.MakeChoice(domain.ChoiceAdvance)

	agent := NewAgent(BotIdentity{UserID: "bot_1", Temperament: TemperamentBold})
	if got := agent.Play(game); got != domain.ChoiceNone {
		t.Fatalf("Expected no choice when already committed, got %q", got)
	}
}

func TestStrategyFor_DefaultsToCautious(t *testing.T) {
	if _, ok := StrategyFor("unknown").(*CautiousStrategy); !ok {
		t.Fatal("Expected unknown temperament to fall back to cautious")
	}
	if _, ok := StrategyFor(TemperamentBold).(*BoldStrategy); !ok {
		t.Fatal("Expected bold temperament to return bold strategy")
	}
}
