package taco

import "testing"

func TestCatchChancePerTier(t *testing.T) {
	cases := []struct {
		rarity Rarity
		want   float64
	}{
		{Common, 0.7},
		{Uncommon, 0.6},
		{Rare, 0.5},
		{Epic, 0.4},
		{Legendary, 0.3},
		{Mythic, 0.2},
	}

	for _, c := range cases {
		got := CatchChance(c.rarity)
		if got < c.want-1e-9 || got > c.want+1e-9 {
			t.Errorf("CatchChance(%v) = %v, want %v", c.rarity, got, c.want)
		}
	}
}

func TestResolveCatchForcedSuccess(t *testing.T) {
	tpl, _ := TemplateByID("CLASSIC")

	out := ResolveCatch(tpl, 0.0)
	if !out.Caught {
		t.Fatal("Roll 0.0 against a common creature must succeed")
	}
	if out.Coins != 10 {
		t.Errorf("Expected 10 coins, got %d", out.Coins)
	}
	if out.XP != 5 {
		t.Errorf("Expected 5 XP for common, got %d", out.XP)
	}
	if out.Creature.Level != 1 {
		t.Errorf("Wild catch should be level 1, got %d", out.Creature.Level)
	}
}

func TestResolveCatchFailure(t *testing.T) {
	tpl, _ := TemplateByID("GOLD")

	// Mythic catch chance is 0.2; a roll of 0.21 escapes.
	out := ResolveCatch(tpl, 0.21)
	if out.Caught {
		t.Fatal("Roll above chance must fail")
	}
	if out.Coins != 0 || out.XP != 0 {
		t.Errorf("Failed catch must grant nothing, got coins=%d xp=%d", out.Coins, out.XP)
	}
}

func TestResolveCatchXPByTier(t *testing.T) {
	want := map[Rarity]int{
		Common: 5, Uncommon: 10, Rare: 20, Epic: 35, Legendary: 50, Mythic: 75,
	}
	for r, xp := range want {
		if got := r.CatchXP(); got != xp {
			t.Errorf("CatchXP(%v) = %d, want %d", r, got, xp)
		}
	}
}
