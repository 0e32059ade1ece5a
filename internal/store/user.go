package store

import "github.com/itsrainingtacos/arcabloom/internal/taco"

// LevelXPThreshold is the experience needed for one trainer level.
const LevelXPThreshold = 100

// UserRecord is one player's persisted state. Records are created lazily
// with defaults on first access and never deleted. Field names match the
// legacy game_data.json layout for compatibility.
type UserRecord struct {
	Tacos        []taco.Instance `json:"tacos"`
	Coins        int             `json:"coins"`
	CatchStreak  int             `json:"catchStreak"`
	LastCatch    int64           `json:"lastCatch"` // unix milliseconds; zero means never
	BattleWins   int             `json:"battleWins"`
	BattleLosses int             `json:"battleLosses"`
	XP           int             `json:"xp"`
	Level        int             `json:"level"`
}

// NewUserRecord returns the default record for a fresh player.
func NewUserRecord() UserRecord {
	return UserRecord{
		Tacos: []taco.Instance{},
		Coins: 100,
		Level: 1,
	}
}

// ApplyXP adds experience and applies at most one level-up step: if the
// total reaches the threshold, subtract it and bump the level once. It
// never loops, so XP above two thresholds carries over to the next action.
// Returns true if the player leveled up.
func (u *UserRecord) ApplyXP(gain int) bool {
	u.XP += gain
	if u.Level < 1 {
		u.Level = 1
	}
	if u.XP >= LevelXPThreshold {
		u.XP -= LevelXPThreshold
		u.Level++
		return true
	}
	return false
}

// AddTaco appends a caught creature to the collection.
func (u *UserRecord) AddTaco(inst taco.Instance) {
	u.Tacos = append(u.Tacos, inst)
}

// Taco returns the owned creature at idx, or false if out of range.
func (u *UserRecord) Taco(idx int) (taco.Instance, bool) {
	if idx < 0 || idx >= len(u.Tacos) {
		return taco.Instance{}, false
	}
	return u.Tacos[idx], true
}
