package taco

import (
	"math"
	"math/rand"
	"time"
)

// RarityWeight pairs a tier with its slice of the draw table.
// Weights are walked in slice order, not sorted order.
type RarityWeight struct {
	Rarity Rarity
	Weight float64
}

// DefaultWeights returns the standard 100-point draw table.
func DefaultWeights() []RarityWeight {
	weights := make([]RarityWeight, 0, len(Rarities))
	for _, r := range Rarities {
		weights = append(weights, RarityWeight{Rarity: r, Weight: r.Weight()})
	}
	return weights
}

// Generator produces wild encounters from the catalog using
// rarity-weighted random selection. A Generator is not safe for
// concurrent use; callers serialize access.
type Generator struct {
	rng     *rand.Rand
	weights []RarityWeight
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a generator with a fixed seed for
// reproducible draws.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{
		rng:     rand.New(rand.NewSource(seed)),
		weights: DefaultWeights(),
	}
}

// SetWeights replaces the draw table. The weights should sum to 100;
// a draw past the final cumulative slice falls back to Common.
func (g *Generator) SetWeights(weights []RarityWeight) {
	g.weights = weights
}

// Draw selects a random template. A uniform roll in [0,100) walks the
// weight table in declared order accumulating weight; the first tier whose
// cumulative weight reaches the roll wins. Within the tier the template is
// chosen uniformly.
func (g *Generator) Draw() Template {
	return g.drawWithRoll(g.rng.Float64() * 100)
}

func (g *Generator) drawWithRoll(roll float64) Template {
	selected := Common
	cumulative := 0.0
	for _, w := range g.weights {
		cumulative += w.Weight
		if roll <= cumulative {
			selected = w.Rarity
			break
		}
	}

	pool := TemplatesByRarity(selected)
	if len(pool) == 0 {
		pool = TemplatesByRarity(Common)
	}
	return pool[g.rng.Intn(len(pool))]
}

// Instantiate binds a template to a level, deriving stats with the
// standard scaling curve: floor(base * (1 + 0.1*(level-1))).
func Instantiate(tpl Template, level int) Instance {
	if level < 1 {
		level = 1
	}
	mult := 1 + 0.1*float64(level-1)
	return Instance{
		ID:      tpl.ID,
		Name:    tpl.Name,
		Emoji:   tpl.Emoji,
		Rarity:  tpl.Rarity,
		Type:    tpl.Type,
		Level:   level,
		HP:      int(math.Floor(float64(tpl.Base.HP) * mult)),
		Attack:  int(math.Floor(float64(tpl.Base.Attack) * mult)),
		Defense: int(math.Floor(float64(tpl.Base.Defense) * mult)),
	}
}

// EnemyLevel picks a level for an opposing encounter: the player's level
// shifted by a uniform offset in {-1, 0, +1}, floored at 1.
func (g *Generator) EnemyLevel(playerLevel int) int {
	level := playerLevel + g.rng.Intn(3) - 1
	if level < 1 {
		level = 1
	}
	return level
}

// CatchRoll returns a fresh uniform draw in [0,1) for catch resolution.
func (g *Generator) CatchRoll() float64 {
	return g.rng.Float64()
}
