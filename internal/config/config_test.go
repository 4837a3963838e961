package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldroad/internal/domain"
)

// The loader is process-global (sync.Once), so the whole lifecycle is
// exercised in one sequential test.
func TestGameConfigLifecycle(t *testing.T) {
	assert.Nil(t, GetGameConfig())
	assert.Equal(t, domain.DefaultSettings().Normalize(), Settings(), "defaults before any load")

	path := filepath.Join(t.TempDir(), "game_config.json")
	body := `{
		"entrance_fee": 75,
		"total_rounds": 4,
		"total_steps": 25,
		"total_traps": 1,
		"max_gold_per_step": 11,
		"bot_auto_fill_delay_seconds": 8,
		"chain_token_issuer": "goldroad"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	require.NoError(t, LoadGameConfig(path))

	cfg := GetGameConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, int64(75), cfg.EntranceFee)
	assert.Equal(t, 8, cfg.BotAutoFillDelaySeconds)
	assert.Equal(t, "goldroad", cfg.ChainTokenIssuer)

	s := Settings()
	assert.Equal(t, int64(75), s.EntranceFee)
	assert.Equal(t, 4, s.TotalRounds)
	assert.Equal(t, 25, s.TotalSteps)
	assert.Equal(t, 11, s.MaxGoldPerStep)
	assert.Equal(t, 2, s.TotalTraps, "trap count is normalized up to the minimum")

	// Subsequent loads are no-ops: the first result sticks.
	require.NoError(t, LoadGameConfig(filepath.Join(t.TempDir(), "missing.json")))
	assert.Equal(t, int64(75), GetGameConfig().EntranceFee)
}
