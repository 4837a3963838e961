package domain

// Choice is a player's decision for the current resolution step.
type Choice string

const (
	// ChoiceNone means no decision has been submitted this step.
	ChoiceNone Choice = ""
	// ChoiceAdvance pushes deeper into the road.
	ChoiceAdvance Choice = "advance"
	// ChoiceReturn retreats to camp, banking carried gold.
	ChoiceReturn Choice = "return"
)

// ValidChoice reports whether c is a choice a client may submit.
func ValidChoice(c Choice) bool {
	return c == ChoiceAdvance || c == ChoiceReturn
}

// Player holds per-participant state for a session.
// Gold in camp is settled for the round; carried gold is at risk on the road.
type Player struct {
	PlayerID   string
	PlayerName string
	// Address is the client-reported payout address used for on-chain
	// settlement. Empty for players without a wallet (e.g. bots).
	Address string

	GoldInCamp  int
	GoldCarried int
	IsOnRoad    bool
	Position    int // 0 = camp

	HasMadeChoice bool
	Choice        Choice
}

// MakeChoice records the player's decision for the current step.
func (p *Player) MakeChoice(c Choice) {
	p.Choice = c
	p.HasMadeChoice = true
}

// ClearChoice resets the per-step decision state.
func (p *Player) ClearChoice() {
	p.Choice = ChoiceNone
	p.HasMadeChoice = false
}

// AdvanceTo moves the player to the given step on the road.
func (p *Player) AdvanceTo(step int) {
	p.Position = step
	p.IsOnRoad = true
}

// ReturnToCamp banks carried gold and leaves the road.
func (p *Player) ReturnToCamp() {
	p.GoldInCamp += p.GoldCarried
	p.GoldCarried = 0
	p.Position = 0
	p.IsOnRoad = false
}

// HitTrap drops all carried gold and forces the player back to camp.
func (p *Player) HitTrap() {
	p.GoldCarried = 0
	p.Position = 0
	p.IsOnRoad = false
}

// ResetForNewRound clears road state for the next round while preserving camp
// gold. Players start each round at the mouth of the road (position 0, on
// road) so the choice gate applies to everyone.
func (p *Player) ResetForNewRound() {
	p.GoldCarried = 0
	p.Position = 0
	p.IsOnRoad = true
	p.ClearChoice()
}

// ResetForNewGame zeroes all economic and road state for a fresh game.
func (p *Player) ResetForNewGame() {
	p.GoldInCamp = 0
	p.ResetForNewRound()
}
