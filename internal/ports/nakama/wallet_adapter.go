package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"goldroad/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaWalletAdapter implements ports.WalletPort using Nakama's wallet system.
// It keeps an off-chain mirror of settlement payouts in the "gold" currency.
type NakamaWalletAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaWalletAdapter creates a new wallet adapter.
func NewNakamaWalletAdapter(nk runtime.NakamaModule) *NakamaWalletAdapter {
	return &NakamaWalletAdapter{
		nk: nk,
	}
}

// GetBalance retrieves the current gold balance for a user.
func (a *NakamaWalletAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return wallet["gold"], nil
}

// UpdateBalances applies multiple wallet changes.
func (a *NakamaWalletAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}

		changes := map[string]int64{
			"gold": update.Amount,
		}

		_, _, err := a.nk.WalletUpdate(ctx, update.UserID, changes, update.Metadata, true)
		if err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", update.UserID, err)
		}
	}
	return nil
}

var _ ports.WalletPort = (*NakamaWalletAdapter)(nil)
