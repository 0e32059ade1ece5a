package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

// errStaleEncounter rejects a catch button that is not the player's
// latest encounter.
var errStaleEncounter = errors.New("bot: stale encounter")

// handleCatch spawns a wild encounter. The drawn template and the spawn
// timestamp travel in the button custom IDs so no per-encounter state is
// held; the timestamp doubles as the pending-encounter token.
func (b *Bot) handleCatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	if wait := b.catchCooldownLeft(user.ID); wait > 0 {
		b.replyEphemeral(s, i, fmt.Sprintf("The tacos are hiding. Try again in %s.", wait.Round(time.Second)))
		return
	}

	tpl := b.drawTemplate()
	chance := b.cfg.Catch.Rules().Chance(tpl.Rarity)

	// Recording the spawn starts the cooldown immediately: one draw per
	// window, resolved or not, and it invalidates any earlier encounter
	// still showing live buttons.
	spawned := time.Now().UnixMilli()
	_, err := b.users.Update(user.ID, func(r *store.UserRecord) error {
		r.LastCatch = spawned
		return nil
	})
	if err != nil {
		b.logger.Error("persist encounter", "user", user.ID, "err", err)
		b.replyEphemeral(s, i, "Something went wrong spawning a taco. Try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("A wild %s %s appeared!", tpl.Emoji, tpl.Name),
		Description: fmt.Sprintf("**%s** · %s type\nCatch chance: **%.0f%%**", tpl.Rarity, tpl.Type, chance*100),
		Color:       tpl.Rarity.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stats", Value: fmt.Sprintf("HP %d · ATK %d · DEF %d", tpl.Base.HP, tpl.Base.Attack, tpl.Base.Defense)},
		},
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "🌮 Catch!",
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("catch:try:%s:%s:%d", user.ID, tpl.ID, spawned),
				},
				discordgo.Button{
					Label:    "🏃 Run away",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("catch:run:%s", user.ID),
				},
			},
		},
	}
	b.replyEmbed(s, i, embed, components)
}

func (b *Bot) catchCooldownLeft(userID string) time.Duration {
	if b.cfg.Catch.CooldownSeconds <= 0 {
		return 0
	}
	rec, err := b.users.User(userID)
	if err != nil {
		b.logger.Error("load user for cooldown", "user", userID, "err", err)
		return 0
	}
	if rec.LastCatch == 0 {
		return 0
	}
	cooldown := time.Duration(b.cfg.Catch.CooldownSeconds) * time.Second
	elapsed := time.Since(time.UnixMilli(rec.LastCatch))
	if elapsed < cooldown {
		return cooldown - elapsed
	}
	return 0
}

func (b *Bot) handleCatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	parts := strings.Split(customID, ":")
	if len(parts) < 3 {
		b.replyEphemeral(s, i, "That button no longer works.")
		return
	}
	action, ownerID := parts[1], parts[2]

	user := interactionUser(i)
	if user.ID != ownerID {
		b.replyEphemeral(s, i, "This isn't your encounter!")
		return
	}

	switch action {
	case "run":
		b.updateMessage(s, i, &discordgo.MessageEmbed{
			Title:       "You ran away",
			Description: "The taco scurries back into the wild.",
			Color:       colorNeutral,
		}, nil)
	case "try":
		if len(parts) != 5 {
			b.replyEphemeral(s, i, "That button no longer works.")
			return
		}
		spawned, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil {
			b.replyEphemeral(s, i, "That button no longer works.")
			return
		}
		b.resolveCatch(s, i, user.ID, parts[3], spawned)
	}
}

func (b *Bot) resolveCatch(s *discordgo.Session, i *discordgo.InteractionCreate, userID, templateID string, spawned int64) {
	tpl, ok := taco.TemplateByID(templateID)
	if !ok {
		b.replyEphemeral(s, i, "That taco is no longer on the menu.")
		return
	}

	outcome := b.cfg.Catch.Rules().Resolve(tpl, b.catchRoll())

	rec, leveledUp, err := b.applyCatch(userID, spawned, outcome)
	if errors.Is(err, errStaleEncounter) {
		b.updateMessage(s, i, &discordgo.MessageEmbed{
			Title:       "The taco wandered off",
			Description: "This encounter already ended. Use /catch for a fresh one.",
			Color:       colorNeutral,
		}, nil)
		return
	}
	if err != nil {
		b.logger.Error("persist catch", "user", userID, "err", err)
		b.replyEphemeral(s, i, "Something went wrong saving your catch. Try again.")
		return
	}

	if !outcome.Caught {
		b.updateMessage(s, i, &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s The %s got away!", tpl.Emoji, tpl.Name),
			Description: "Your catch streak resets. Better luck next time.",
			Color:       colorFailure,
		}, nil)
		return
	}

	desc := fmt.Sprintf("**%s** joined your collection!\n+%d 🪙 · +%d XP · streak **%d**",
		tacoLabel(outcome.Creature), outcome.Coins, outcome.XP, rec.CatchStreak)
	if leveledUp {
		desc += fmt.Sprintf("\n🎉 You reached **level %d**!", rec.Level)
	}
	b.updateMessage(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Caught it!", tpl.Emoji),
		Description: desc,
		Color:       colorSuccess,
	}, nil)
}

// applyCatch persists a resolved encounter. Only the player's latest
// encounter resolves: the spawn token must match the record, and a
// successful resolution bumps LastCatch so the same button cannot fire
// twice. Piled-up catch buttons therefore cannot sidestep the cooldown.
func (b *Bot) applyCatch(userID string, spawned int64, outcome taco.CatchOutcome) (store.UserRecord, bool, error) {
	var leveledUp bool
	rec, err := b.users.Update(userID, func(r *store.UserRecord) error {
		if r.LastCatch != spawned {
			return errStaleEncounter
		}
		r.LastCatch = time.Now().UnixMilli()
		if outcome.Caught {
			r.AddTaco(outcome.Creature)
			r.Coins += outcome.Coins
			r.CatchStreak++
			leveledUp = r.ApplyXP(outcome.XP)
		} else {
			r.CatchStreak = 0
		}
		return nil
	})
	return rec, leveledUp, err
}
