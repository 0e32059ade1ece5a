// Package config provides YAML-based gameplay configuration and
// environment-based credential loading for the bot.
package config

import (
	"fmt"

	"github.com/itsrainingtacos/arcabloom/internal/combat"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

// GameConfig contains the tunable gameplay parameters.
type GameConfig struct {
	Catch       CatchConfig       `yaml:"catch"`
	Combat      CombatConfig      `yaml:"combat"`
	Session     SessionConfig     `yaml:"session"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// CatchConfig tunes the catch minigame.
type CatchConfig struct {
	BaseChance float64 `yaml:"base_chance"`
	CoinReward int     `yaml:"coin_reward"`
	// CooldownSeconds throttles repeat catch attempts. Zero disables
	// the cooldown.
	CooldownSeconds int `yaml:"cooldown_seconds"`
}

// Rules converts the config values into catch rules.
func (c CatchConfig) Rules() taco.CatchRules {
	return taco.CatchRules{
		BaseChance: c.BaseChance,
		CoinReward: c.CoinReward,
	}
}

// CombatConfig tunes battle and duel damage.
type CombatConfig struct {
	MinDamage         int     `yaml:"min_damage"`
	DefendFactor      float64 `yaml:"defend_factor"`
	PassiveFactor     float64 `yaml:"passive_factor"`
	VarianceMin       float64 `yaml:"variance_min"`
	VarianceMax       float64 `yaml:"variance_max"`
	DuelDefenseFactor float64 `yaml:"duel_defense_factor"`
	WinXPBase         int     `yaml:"win_xp_base"`
	WinXPPerLevel     int     `yaml:"win_xp_per_level"`
}

// Tuning converts the config values into combat tuning.
func (c CombatConfig) Tuning() combat.Tuning {
	return combat.Tuning{
		MinDamage:         c.MinDamage,
		DefendFactor:      c.DefendFactor,
		PassiveFactor:     c.PassiveFactor,
		VarianceMin:       c.VarianceMin,
		VarianceMax:       c.VarianceMax,
		DuelDefenseFactor: c.DuelDefenseFactor,
		WinXPBase:         c.WinXPBase,
		WinXPPerLevel:     c.WinXPPerLevel,
	}
}

// SessionConfig tunes interactive session lifecycle.
type SessionConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LeaderboardConfig tunes the leaderboard display.
type LeaderboardConfig struct {
	Size int `yaml:"size"`
	// Datastore is the ordered datastore holding the coin leaderstat.
	Datastore string `yaml:"datastore"`
}

// Validate rejects configurations that would break gameplay.
func (c GameConfig) Validate() error {
	if c.Catch.BaseChance <= 0 || c.Catch.BaseChance > 1 {
		return fmt.Errorf("config: catch base_chance %v out of (0,1]", c.Catch.BaseChance)
	}
	if c.Combat.VarianceMin > c.Combat.VarianceMax {
		return fmt.Errorf("config: variance_min %v exceeds variance_max %v",
			c.Combat.VarianceMin, c.Combat.VarianceMax)
	}
	if c.Session.TimeoutSeconds < 0 {
		return fmt.Errorf("config: negative session timeout")
	}
	if c.Leaderboard.Size <= 0 {
		return fmt.Errorf("config: leaderboard size must be positive")
	}
	return nil
}
