package taco

// Stats holds the base attributes of a creature template.
type Stats struct {
	HP      int `json:"hp" yaml:"hp"`
	Attack  int `json:"attack" yaml:"attack"`
	Defense int `json:"defense" yaml:"defense"`
}

// Template is the immutable static definition of a taco species.
// Templates are loaded once at process start and never mutated.
type Template struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Emoji  string `json:"emoji" yaml:"emoji"`
	Rarity Rarity `json:"rarity" yaml:"rarity"`
	Type   string `json:"type" yaml:"type"`
	Base   Stats  `json:"baseStats" yaml:"base_stats"`
}

// Instance is a leveled, statted realization of a template, either wild
// (ephemeral) or owned (persisted in a user record). Stats are derived
// from the template at creation time and stay fixed afterwards.
type Instance struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Emoji   string `json:"emoji"`
	Rarity  Rarity `json:"rarity"`
	Type    string `json:"type"`
	Level   int    `json:"level"`
	HP      int    `json:"hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
}

// Catalog returns the full template list in declared order.
// The slice is shared; callers must not mutate it.
func Catalog() []Template {
	return catalog
}

// TemplatesByRarity returns all templates of the given tier,
// preserving declared order.
func TemplatesByRarity(r Rarity) []Template {
	var out []Template
	for _, t := range catalog {
		if t.Rarity == r {
			out = append(out, t)
		}
	}
	return out
}

// TemplateByID looks up a template by its catalog ID.
func TemplateByID(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

var catalog = []Template{
	{
		ID:     "CLASSIC",
		Name:   "Classic Beef Taco",
		Emoji:  "\U0001F32E",
		Rarity: Common,
		Type:   "Meaty",
		Base:   Stats{HP: 50, Attack: 45, Defense: 40},
	},
	{
		ID:     "CHICKEN",
		Name:   "Grilled Chicken Taco",
		Emoji:  "\U0001F32E",
		Rarity: Common,
		Type:   "Meaty",
		Base:   Stats{HP: 55, Attack: 42, Defense: 45},
	},
	{
		ID:     "FISH",
		Name:   "Baja Fish Taco",
		Emoji:  "\U0001F41F",
		Rarity: Uncommon,
		Type:   "Seafood",
		Base:   Stats{HP: 60, Attack: 50, Defense: 35},
	},
	{
		ID:     "SHRIMP",
		Name:   "Spicy Shrimp Taco",
		Emoji:  "\U0001F990",
		Rarity: Uncommon,
		Type:   "Seafood",
		Base:   Stats{HP: 58, Attack: 55, Defense: 38},
	},
	{
		ID:     "VEGGIE",
		Name:   "Garden Veggie Taco",
		Emoji:  "\U0001F96C",
		Rarity: Common,
		Type:   "Veggie",
		Base:   Stats{HP: 65, Attack: 35, Defense: 50},
	},
	{
		ID:     "CARNITAS",
		Name:   "Slow-Cooked Carnitas Taco",
		Emoji:  "\U0001F969",
		Rarity: Rare,
		Type:   "Meaty",
		Base:   Stats{HP: 70, Attack: 60, Defense: 45},
	},
	{
		ID:     "BIRRIA",
		Name:   "Legendary Birria Taco",
		Emoji:  "\U0001F525",
		Rarity: Rare,
		Type:   "Meaty",
		Base:   Stats{HP: 75, Attack: 65, Defense: 50},
	},
	{
		ID:     "LOBSTER",
		Name:   "Premium Lobster Taco",
		Emoji:  "\U0001F99E",
		Rarity: Epic,
		Type:   "Seafood",
		Base:   Stats{HP: 80, Attack: 70, Defense: 60},
	},
	{
		ID:     "WAGYU",
		Name:   "Wagyu Beef Taco Supreme",
		Emoji:  "\U0001F451",
		Rarity: Legendary,
		Type:   "Meaty",
		Base:   Stats{HP: 100, Attack: 85, Defense: 75},
	},
	{
		ID:     "GOLD",
		Name:   "Golden Dragon Taco",
		Emoji:  "✨",
		Rarity: Mythic,
		Type:   "Mythical",
		Base:   Stats{HP: 120, Attack: 100, Defense: 90},
	},
}
