// Package combat implements damage computation and turn resolution for the
// two fight modes: single-player battles against a wild encounter and
// two-player duels. The two modes intentionally use different formulas.
package combat

import (
	"math"
	"math/rand"

	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

// Combatant is a live copy of a creature instance inside a fight.
// CurrentHP is only meaningful while the fight is active; the owned
// instance in the user record is never mutated by combat.
type Combatant struct {
	taco.Instance
	CurrentHP int
}

// NewCombatant copies an instance into a fight at full health.
func NewCombatant(inst taco.Instance) Combatant {
	return Combatant{Instance: inst, CurrentHP: inst.HP}
}

// Defeated reports whether the combatant's HP has reached zero.
func (c *Combatant) Defeated() bool {
	return c.CurrentHP <= 0
}

// Tuning holds the combat balance knobs. Defaults reproduce the live
// game's numbers; operators can override them through the game config.
type Tuning struct {
	// MinDamage is the floor every hit is clamped to.
	MinDamage int
	// DefendFactor scales the defender's stat when the acting player
	// chose to defend this exchange (battle mode).
	DefendFactor float64
	// PassiveFactor scales the defender's stat on a plain attack
	// (battle mode).
	PassiveFactor float64
	// VarianceMin and VarianceMax bound the uniform damage multiplier
	// (battle mode only).
	VarianceMin float64
	VarianceMax float64
	// DuelDefenseFactor scales the defender's stat in duel strikes.
	// Duel damage has no variance.
	DuelDefenseFactor float64
	// WinXPBase and WinXPPerLevel set the battle victory reward:
	// base + enemyLevel*perLevel.
	WinXPBase     int
	WinXPPerLevel int
}

// DefaultTuning returns the live balance values.
func DefaultTuning() Tuning {
	return Tuning{
		MinDamage:         5,
		DefendFactor:      0.5,
		PassiveFactor:     0.3,
		VarianceMin:       0.9,
		VarianceMax:       1.1,
		DuelDefenseFactor: 0.2,
		WinXPBase:         10,
		WinXPPerLevel:     5,
	}
}

// ExchangeLog records both hits of a battle exchange. EnemyDamage is zero
// when the enemy was defeated before it could retaliate.
type ExchangeLog struct {
	PlayerDamage int
	EnemyDamage  int
}

// Exchange resolves one full battle exchange: the player strikes first,
// then the enemy retaliates if it is still standing. When defending, the
// enemy's defense counts at DefendFactor against the player's strike;
// the retaliation always uses PassiveFactor and the enemy never defends.
func (t Tuning) Exchange(player, enemy *Combatant, defending bool, rng *rand.Rand) ExchangeLog {
	factor := t.PassiveFactor
	if defending {
		factor = t.DefendFactor
	}

	log := ExchangeLog{}
	log.PlayerDamage = t.damage(player, enemy, factor, rng)
	enemy.CurrentHP -= log.PlayerDamage

	if !enemy.Defeated() {
		log.EnemyDamage = t.damage(enemy, player, t.PassiveFactor, rng)
		player.CurrentHP -= log.EnemyDamage
	}

	return log
}

// Strike resolves a single duel action: attacker hits defender once with
// the flat duel formula, no variance, no retaliation.
func (t Tuning) Strike(attacker, defender *Combatant) int {
	dmg := float64(attacker.Attack) - float64(defender.Defense)*t.DuelDefenseFactor
	return t.clamp(int(math.Floor(dmg)))
}

// WinXP returns the experience reward for defeating an enemy of the
// given level in battle mode.
func (t Tuning) WinXP(enemyLevel int) int {
	return t.WinXPBase + enemyLevel*t.WinXPPerLevel
}

func (t Tuning) damage(attacker, defender *Combatant, defenseFactor float64, rng *rand.Rand) int {
	base := float64(attacker.Attack) - float64(defender.Defense)*defenseFactor
	variance := t.VarianceMin + rng.Float64()*(t.VarianceMax-t.VarianceMin)
	return t.clamp(int(math.Floor(base * variance)))
}

func (t Tuning) clamp(dmg int) int {
	if dmg < t.MinDamage {
		return t.MinDamage
	}
	return dmg
}
