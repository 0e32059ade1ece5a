package config

import (
	_ "embed"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the default gameplay configuration,
// matching the live game's balance.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Catch: CatchConfig{
			BaseChance:      0.7,
			CoinReward:      10,
			CooldownSeconds: 10,
		},
		Combat: CombatConfig{
			MinDamage:         5,
			DefendFactor:      0.5,
			PassiveFactor:     0.3,
			VarianceMin:       0.9,
			VarianceMax:       1.1,
			DuelDefenseFactor: 0.2,
			WinXPBase:         10,
			WinXPPerLevel:     5,
		},
		Session: SessionConfig{
			TimeoutSeconds: 120,
		},
		Leaderboard: LeaderboardConfig{
			Size:      10,
			Datastore: "TacoLeaderboard",
		},
	}
}
