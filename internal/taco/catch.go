package taco

// CatchBaseChance is the success chance against a common creature before
// the tier penalty applies.
const CatchBaseChance = 0.7

// CatchCoinReward is the flat coin grant for a successful catch.
const CatchCoinReward = 10

// CatchRules are the tunable parameters of the catch minigame.
type CatchRules struct {
	BaseChance float64
	CoinReward int
}

// DefaultCatchRules returns the live game's catch balance.
func DefaultCatchRules() CatchRules {
	return CatchRules{BaseChance: CatchBaseChance, CoinReward: CatchCoinReward}
}

// Chance returns the success probability for a creature of the given
// tier. With the shipped penalty table this never drops below 0.2 (mythic).
func (c CatchRules) Chance(r Rarity) float64 {
	return c.BaseChance - r.CatchPenalty()
}

// CatchOutcome describes the resolution of a single catch attempt.
type CatchOutcome struct {
	Caught   bool
	Creature Instance
	Coins    int
	XP       int
}

// Resolve decides whether a drawn creature is caught. Success requires
// roll <= chance for the creature's tier. On success the outcome carries the
// level-1 instance plus the coin and tier-scaled XP rewards; on failure the
// rewards are zero and the caller resets the catch streak.
func (c CatchRules) Resolve(tpl Template, roll float64) CatchOutcome {
	creature := Instantiate(tpl, 1)
	if roll > c.Chance(tpl.Rarity) {
		return CatchOutcome{Creature: creature}
	}
	return CatchOutcome{
		Caught:   true,
		Creature: creature,
		Coins:    c.CoinReward,
		XP:       tpl.Rarity.CatchXP(),
	}
}

// CatchChance is Chance under the default rules.
func CatchChance(r Rarity) float64 {
	return DefaultCatchRules().Chance(r)
}

// ResolveCatch is Resolve under the default rules.
func ResolveCatch(tpl Template, roll float64) CatchOutcome {
	return DefaultCatchRules().Resolve(tpl, roll)
}
