package domain

// EventKind classifies the outcome a player saw in one resolution step.
type EventKind string

const (
	// EventAdvance means the player moved deeper with nothing to report.
	EventAdvance EventKind = "advance"
	// EventReward means the player collected gold from the new tile.
	EventReward EventKind = "reward"
	// EventTrapFirst is the round's first trap: a warning, no loss.
	EventTrapFirst EventKind = "trap-first"
	// EventTrapSecond is a repeat trap: carried gold is lost, forced to camp.
	EventTrapSecond EventKind = "trap-second"
	// EventReturn means the player retreated and banked carried gold.
	EventReturn EventKind = "return"
	// EventRoundEnd means everyone is off the road and the round closed.
	EventRoundEnd EventKind = "round-end"
)

// EventDetail is the per-player record attached to one tick. Every player
// receives exactly one detail per resolution step; players without a specific
// outcome carry the step's dominant event.
type EventDetail struct {
	Type EventKind
	Tick int64
	// Gained is gold collected this step (reward) or banked (return).
	Gained int
	// Lost is carried gold dropped on a second trap.
	Lost int
	// Round is the round the detail refers to, for round-end records.
	Round int
}
