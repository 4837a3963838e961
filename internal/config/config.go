package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"goldroad/internal/domain"
)

// GameConfig carries server-side tunables loaded from the data folder.
type GameConfig struct {
	EntranceFee    int64 `json:"entrance_fee"`
	TotalRounds    int   `json:"total_rounds"`
	TotalSteps     int   `json:"total_steps"`
	TotalTraps     int   `json:"total_traps"`
	MaxGoldPerStep int   `json:"max_gold_per_step"`

	// BotAutoFillDelaySeconds configures how many seconds a lone human waits
	// before bots fill the remaining seats.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	BotMinDelaySeconds      int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds      int `json:"bot_max_delay_seconds"`

	ChainGatewayURL  string `json:"chain_gateway_url"`
	ChainTokenIssuer string `json:"chain_token_issuer"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil if not loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// Settings derives normalized game settings from the configuration, falling
// back to defaults for anything unset.
func Settings() domain.Settings {
	s := domain.DefaultSettings()
	if cfg == nil {
		return s
	}
	if cfg.EntranceFee > 0 {
		s.EntranceFee = cfg.EntranceFee
	}
	if cfg.TotalRounds > 0 {
		s.TotalRounds = cfg.TotalRounds
	}
	if cfg.TotalSteps > 0 {
		s.TotalSteps = cfg.TotalSteps
	}
	if cfg.TotalTraps > 0 {
		s.TotalTraps = cfg.TotalTraps
	}
	if cfg.MaxGoldPerStep > 0 {
		s.MaxGoldPerStep = cfg.MaxGoldPerStep
	}
	return s.Normalize()
}
