package ports

import "context"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// WalletPort defines the interface for the in-server gold wallets. Final
// payouts are mirrored into wallets after a game over so clients see their
// balance without waiting for the chain.
type WalletPort interface {
	// GetBalance retrieves the current gold balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
