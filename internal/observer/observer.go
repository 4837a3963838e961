// Package observer reconciles server game snapshots on the client side.
// Snapshots may arrive duplicated or out of order; the tick rule below makes
// applying them idempotent regardless.
package observer

import (
	"fmt"

	"goldroad/internal/protocol"
)

// Observer tracks snapshot application for a single player. An incoming
// snapshot is processed exactly once when its tick is strictly greater than
// the last handled tick, and dropped otherwise. A snapshot for a different
// game id starts a fresh tick sequence.
type Observer struct {
	playerID        string
	gameID          string
	lastHandledTick int64
	latest          *protocol.GameSnapshot
}

// New creates an observer for the given player.
func New(playerID string) *Observer {
	return &Observer{playerID: playerID}
}

// LastHandledTick returns the highest tick processed so far.
func (o *Observer) LastHandledTick() int64 {
	return o.lastHandledTick
}

// Game returns the most recent applied snapshot, or nil.
func (o *Observer) Game() *protocol.GameSnapshot {
	return o.latest
}

// Apply processes one incoming snapshot. It returns the narration message for
// the observer's player (possibly empty) and whether the snapshot was applied
// rather than dropped as stale.
func (o *Observer) Apply(snap *protocol.GameSnapshot) (string, bool) {
	if snap == nil {
		return "", false
	}

	if snap.GameID != o.gameID {
		o.gameID = snap.GameID
		o.lastHandledTick = 0
		o.latest = nil
	}

	tick := snap.LastEventTick
	if detail, ok := snap.LastEventByPlayer[o.playerID]; ok && detail.Tick > 0 {
		tick = detail.Tick
	}

	// Pre-resolution snapshots (game start) carry tick 0: take the state but
	// produce no message.
	if snap.LastEvent == "" {
		o.latest = snap
		if tick > o.lastHandledTick {
			o.lastHandledTick = tick
		}
		return "", true
	}

	if tick <= o.lastHandledTick {
		return "", false
	}

	o.latest = snap
	o.lastHandledTick = tick

	detail, ok := snap.LastEventByPlayer[o.playerID]
	if !ok {
		return "", true
	}
	return buildMessage(detail), true
}

// buildMessage derives the user-facing narration for one event detail.
func buildMessage(d protocol.EventDetail) string {
	switch d.Type {
	case "reward":
		if d.Gained > 0 {
			return fmt.Sprintf("You found %d gold deeper in the ruins!", d.Gained)
		}
		return "You press on, but find nothing."
	case "advance":
		return "You venture deeper into the ruins..."
	case "return":
		if d.Gained > 0 {
			return fmt.Sprintf("You return to camp with %d gold.", d.Gained)
		}
		return "You return to camp empty-handed."
	case "trap-first":
		return "A trap ahead! You slip past unharmed."
	case "trap-second":
		if d.Lost > 0 {
			return fmt.Sprintf("A second trap! You lose %d gold and flee to camp.", d.Lost)
		}
		return "A second trap! You flee back to camp."
	case "round-end":
		if d.Round > 0 {
			return fmt.Sprintf("The round is over. Round %d begins!", d.Round)
		}
		return "The round is over."
	default:
		return ""
	}
}
