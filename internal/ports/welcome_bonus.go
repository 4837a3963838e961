package ports

import "context"

// WelcomeBonusPort seeds a new expedition account with starting gold.
// The grant must apply at most once per user across the account's lifetime,
// however many times onboarding runs.
type WelcomeBonusPort interface {
	// GrantWelcomeBonusOnce credits amount gold to the user's wallet if no
	// prior grant exists. Returns granted=false (and no error) when the
	// bonus was already granted.
	GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
