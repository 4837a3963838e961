package ports

import "context"

// SettlementPort defines the on-chain settlement collaborator contract.
// The engine treats settlement as a side effect: a failed settle call never
// invalidates the in-memory game result.
type SettlementPort interface {
	// JoinOnChain claims the entrance fee for one player joining a game.
	// Called once per player before a game is considered started.
	JoinOnChain(ctx context.Context, gameID, playerAddress string) error

	// SettleOnChain distributes the pot to winners. winners and payouts are
	// parallel slices. Returns an opaque receipt reference.
	SettleOnChain(ctx context.Context, gameID string, winners []string, payouts []int64) (string, error)

	// EntryFee reports the fee the contract currently charges per join.
	EntryFee(ctx context.Context) (int64, error)
}
