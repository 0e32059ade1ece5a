package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/itsrainingtacos/arcabloom/internal/combat"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

const (
	colorNeutral = 0x95a5a6
	colorInfo    = 0x3498db
	colorSuccess = 0x2ecc71
	colorFailure = 0xe74c3c
	colorGold    = 0xf1c40f
)

const hpBarWidth = 10

// hpBar renders current/max HP as a fixed-width block bar.
func hpBar(current, max int) string {
	if max <= 0 {
		return strings.Repeat("░", hpBarWidth)
	}
	if current < 0 {
		current = 0
	}
	filled := current * hpBarWidth / max
	if filled > hpBarWidth {
		filled = hpBarWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", hpBarWidth-filled)
}

// tacoLabel is the short display form used in menus and embed fields.
func tacoLabel(inst taco.Instance) string {
	return fmt.Sprintf("%s %s (Lv.%d %s)", inst.Emoji, inst.Name, inst.Level, inst.Rarity)
}

// tacoStatsLine formats an instance's combat stats.
func tacoStatsLine(inst taco.Instance) string {
	return fmt.Sprintf("HP %d · ATK %d · DEF %d", inst.HP, inst.Attack, inst.Defense)
}

// combatantField renders one side of a fight as an embed field.
func combatantField(name string, c combat.Combatant) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name: fmt.Sprintf("%s — %s %s (Lv.%d)", name, c.Emoji, c.Name, c.Level),
		Value: fmt.Sprintf("%s %d/%d HP\nATK %d · DEF %d",
			hpBar(c.CurrentHP, c.HP), maxInt(c.CurrentHP, 0), c.HP, c.Attack, c.Defense),
		Inline: true,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// tacoSelectOptions builds select menu options for an inventory, capped
// at Discord's 25-option limit. Values carry the inventory index.
func tacoSelectOptions(tacos []taco.Instance) []discordgo.SelectMenuOption {
	limit := len(tacos)
	if limit > 25 {
		limit = 25
	}
	opts := make([]discordgo.SelectMenuOption, 0, limit)
	for idx := 0; idx < limit; idx++ {
		inst := tacos[idx]
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       fmt.Sprintf("%s %s (Lv.%d)", inst.Emoji, inst.Name, inst.Level),
			Value:       fmt.Sprintf("%d", idx),
			Description: fmt.Sprintf("%s · %s", inst.Rarity, tacoStatsLine(inst)),
		})
	}
	return opts
}
