package combat

import (
	"math/rand"
	"testing"

	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

func testCombatant(hp, attack, defense int) Combatant {
	return NewCombatant(taco.Instance{
		ID: "CLASSIC", Name: "Classic Beef Taco", Level: 1,
		HP: hp, Attack: attack, Defense: defense,
	})
}

func TestDamageFloor(t *testing.T) {
	tuning := DefaultTuning()
	rng := rand.New(rand.NewSource(1))

	// A hopeless attacker against a fortress still lands the minimum.
	weak := testCombatant(50, 1, 1)
	tank := testCombatant(500, 1, 1000)

	for i := 0; i < 100; i++ {
		log := tuning.Exchange(&weak, &tank, false, rng)
		if log.PlayerDamage < 5 {
			t.Fatalf("Player damage %d below floor", log.PlayerDamage)
		}
		if !weak.Defeated() && log.EnemyDamage < 5 {
			t.Fatalf("Enemy damage %d below floor", log.EnemyDamage)
		}
	}
}

func TestStrikeFloor(t *testing.T) {
	tuning := DefaultTuning()
	weak := testCombatant(50, 1, 1)
	tank := testCombatant(500, 1, 1000)

	if dmg := tuning.Strike(&weak, &tank); dmg != 5 {
		t.Errorf("Expected clamped duel strike of 5, got %d", dmg)
	}
}

func TestStrikeFlatFormula(t *testing.T) {
	tuning := DefaultTuning()
	attacker := testCombatant(50, 60, 10)
	defender := testCombatant(50, 10, 40)

	// 60 - 40*0.2 = 52, no variance.
	if dmg := tuning.Strike(&attacker, &defender); dmg != 52 {
		t.Errorf("Strike = %d, want 52", dmg)
	}
}

func TestExchangeEnemyRetaliates(t *testing.T) {
	tuning := DefaultTuning()
	rng := rand.New(rand.NewSource(42))

	player := testCombatant(200, 30, 30)
	enemy := testCombatant(200, 30, 30)

	log := tuning.Exchange(&player, &enemy, false, rng)
	if log.PlayerDamage <= 0 {
		t.Error("Player should deal damage")
	}
	if log.EnemyDamage <= 0 {
		t.Error("Surviving enemy should retaliate")
	}
	if enemy.CurrentHP != 200-log.PlayerDamage {
		t.Errorf("Enemy HP %d, want %d", enemy.CurrentHP, 200-log.PlayerDamage)
	}
	if player.CurrentHP != 200-log.EnemyDamage {
		t.Errorf("Player HP %d, want %d", player.CurrentHP, 200-log.EnemyDamage)
	}
}

func TestExchangeNoRetaliationPastZero(t *testing.T) {
	tuning := DefaultTuning()
	rng := rand.New(rand.NewSource(1))

	player := testCombatant(100, 50, 40)
	enemy := testCombatant(100, 50, 40)
	enemy.CurrentHP = 1

	log := tuning.Exchange(&player, &enemy, false, rng)
	if !enemy.Defeated() {
		t.Fatal("Enemy at 1 HP must fall to any hit")
	}
	if log.EnemyDamage != 0 {
		t.Errorf("Defeated enemy retaliated for %d", log.EnemyDamage)
	}
	if player.CurrentHP != 100 {
		t.Errorf("Player HP changed to %d after defeating enemy", player.CurrentHP)
	}
}

func TestExchangeDefendReducesOwnOutput(t *testing.T) {
	tuning := Tuning{
		MinDamage:     5,
		DefendFactor:  0.5,
		PassiveFactor: 0.3,
		// Pin variance at 1.0 so the factor difference is observable.
		VarianceMin:   1.0,
		VarianceMax:   1.0,
		WinXPBase:     10,
		WinXPPerLevel: 5,
	}
	rng := rand.New(rand.NewSource(1))

	attackP := testCombatant(500, 60, 40)
	attackE := testCombatant(500, 60, 40)
	attackLog := tuning.Exchange(&attackP, &attackE, false, rng)

	defendP := testCombatant(500, 60, 40)
	defendE := testCombatant(500, 60, 40)
	defendLog := tuning.Exchange(&defendP, &defendE, true, rng)

	// 60-40*0.3=48 vs 60-40*0.5=40
	if attackLog.PlayerDamage != 48 {
		t.Errorf("Attack damage = %d, want 48", attackLog.PlayerDamage)
	}
	if defendLog.PlayerDamage != 40 {
		t.Errorf("Defend damage = %d, want 40", defendLog.PlayerDamage)
	}
}

func TestWinXP(t *testing.T) {
	tuning := DefaultTuning()
	if xp := tuning.WinXP(3); xp != 25 {
		t.Errorf("WinXP(3) = %d, want 25", xp)
	}
	if xp := tuning.WinXP(1); xp != 15 {
		t.Errorf("WinXP(1) = %d, want 15", xp)
	}
}
