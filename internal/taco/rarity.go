// Package taco defines the creature catalog and the rarity-weighted
// encounter generator for the Arcabloom minigame.
package taco

// Rarity is one of six ordered tiers controlling draw probability,
// catch difficulty and stat scale.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
	Mythic
)

// String returns the lowercase tier name used in persisted records.
func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	case Mythic:
		return "mythic"
	default:
		return "unknown"
	}
}

// ParseRarity maps a persisted tier name back to its Rarity.
// Unknown names fall back to Common.
func ParseRarity(name string) Rarity {
	switch name {
	case "uncommon":
		return Uncommon
	case "rare":
		return Rare
	case "epic":
		return Epic
	case "legendary":
		return Legendary
	case "mythic":
		return Mythic
	default:
		return Common
	}
}

// MarshalText implements encoding.TextMarshaler so rarities serialize as
// their tier name in JSON records.
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(text []byte) error {
	*r = ParseRarity(string(text))
	return nil
}

// Weight returns the tier's slice of the 100-point draw table.
func (r Rarity) Weight() float64 {
	switch r {
	case Common:
		return 50
	case Uncommon:
		return 30
	case Rare:
		return 15
	case Epic:
		return 4
	case Legendary:
		return 0.9
	case Mythic:
		return 0.1
	default:
		return 0
	}
}

// CatchPenalty returns the amount subtracted from the base catch chance
// for this tier. Mythic bottoms the chance out at 0.2.
func (r Rarity) CatchPenalty() float64 {
	switch r {
	case Uncommon:
		return 0.1
	case Rare:
		return 0.2
	case Epic:
		return 0.3
	case Legendary:
		return 0.4
	case Mythic:
		return 0.5
	default:
		return 0
	}
}

// CatchXP returns the experience granted for catching a creature of this tier.
func (r Rarity) CatchXP() int {
	switch r {
	case Uncommon:
		return 10
	case Rare:
		return 20
	case Epic:
		return 35
	case Legendary:
		return 50
	case Mythic:
		return 75
	default:
		return 5
	}
}

// Color returns the embed accent color associated with the tier.
func (r Rarity) Color() int {
	switch r {
	case Uncommon:
		return 0x00FF00
	case Rare:
		return 0x0099FF
	case Epic:
		return 0x9B59B6
	case Legendary:
		return 0xFFD700
	case Mythic:
		return 0xFF00FF
	default:
		return 0x808080
	}
}

// Rarities lists all tiers in declared draw order, lowest first.
// The draw walk accumulates weights in exactly this order.
var Rarities = []Rarity{Common, Uncommon, Rare, Epic, Legendary, Mythic}
