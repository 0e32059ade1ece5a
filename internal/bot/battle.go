package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/itsrainingtacos/arcabloom/internal/session"
)

// handleBattle opens a battle session and asks the player to pick a
// fighter from their collection.
func (b *Bot) handleBattle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	rec, err := b.users.User(user.ID)
	if err != nil {
		b.logger.Error("load user", "user", user.ID, "err", err)
		b.replyEphemeral(s, i, "Couldn't load your collection. Try again.")
		return
	}
	if len(rec.Tacos) == 0 {
		b.replyEphemeral(s, i, "You don't own any tacos yet. Use /catch first!")
		return
	}

	if _, err := b.registry.BeginBattle(user.ID); err != nil {
		if errors.Is(err, session.ErrAlreadyInBattle) {
			b.replyEphemeral(s, i, "You're already in a battle! Finish it first.")
			return
		}
		b.logger.Error("begin battle", "user", user.ID, "err", err)
		b.replyEphemeral(s, i, "Couldn't start a battle. Try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "⚔️ Battle time!",
		Description: fmt.Sprintf("%s, choose your taco. A wild opponent will be matched to it.", user.Mention()),
		Color:       colorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Pick within %s or the battle is called off", b.sessionTimeout()),
		},
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    "battle:select:" + user.ID,
					Placeholder: "Choose your fighter",
					Options:     tacoSelectOptions(rec.Tacos),
				},
			},
		},
	}
	b.replyEmbed(s, i, embed, components)
	b.bindResponseMessage(s, i, func(channelID, messageID string) {
		b.registry.BindBattleMessage(user.ID, channelID, messageID)
	})
}

// bindResponseMessage fetches the interaction response message so the
// session can be tied to it for timeout edits.
func (b *Bot) bindResponseMessage(s *discordgo.Session, i *discordgo.InteractionCreate, bind func(channelID, messageID string)) {
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		b.logger.Warn("fetch interaction response", "err", err)
		return
	}
	bind(msg.ChannelID, msg.ID)
}

func (b *Bot) handleBattleComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	parts := strings.Split(customID, ":")
	if len(parts) < 3 {
		b.replyEphemeral(s, i, "That button no longer works.")
		return
	}

	user := interactionUser(i)
	ownerID := parts[len(parts)-1]
	if user.ID != ownerID {
		b.replyEphemeral(s, i, "This isn't your battle!")
		return
	}

	switch parts[1] {
	case "select":
		b.handleBattleSelect(s, i, user.ID)
	case "act":
		if len(parts) != 4 {
			b.replyEphemeral(s, i, "That button no longer works.")
			return
		}
		b.handleBattleAction(s, i, user.ID, parts[2])
	}
}

func (b *Bot) handleBattleSelect(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	values := i.MessageComponentData().Values
	if len(values) != 1 {
		b.replyEphemeral(s, i, "Pick exactly one taco.")
		return
	}
	idx, err := strconv.Atoi(values[0])
	if err != nil {
		b.replyEphemeral(s, i, "That selection no longer works.")
		return
	}

	rec, err := b.users.User(userID)
	if err != nil {
		b.logger.Error("load user", "user", userID, "err", err)
		b.replyEphemeral(s, i, "Couldn't load your collection. Try again.")
		return
	}
	inst, ok := rec.Taco(idx)
	if !ok {
		b.replyEphemeral(s, i, "That taco isn't in your collection anymore.")
		return
	}

	sess, err := b.registry.SelectBattleTaco(userID, inst)
	if err != nil {
		b.replySessionError(s, i, err)
		return
	}

	b.updateMessage(s, i, b.battleEmbed(sess, "A wild opponent appears! What will you do?"), battleButtons(userID))
}

func (b *Bot) handleBattleAction(s *discordgo.Session, i *discordgo.InteractionCreate, userID, action string) {
	var act session.Action
	switch action {
	case "attack":
		act = session.ActionAttack
	case "defend":
		act = session.ActionDefend
	case "flee":
		act = session.ActionFlee
	default:
		b.replyEphemeral(s, i, "That button no longer works.")
		return
	}

	out, err := b.registry.BattleAction(userID, act)
	if err != nil {
		b.replySessionError(s, i, err)
		return
	}
	sess := out.Session

	switch sess.State {
	case session.BattleWon:
		desc := fmt.Sprintf("You dealt **%d** damage and defeated the %s %s!\n+%d XP",
			out.Log.PlayerDamage, sess.Enemy.Emoji, sess.Enemy.Name, out.XPGained)
		if out.LeveledUp {
			desc += "\n🎉 Level up!"
		}
		b.updateMessage(s, i, &discordgo.MessageEmbed{
			Title:       "🏆 Victory!",
			Description: desc,
			Color:       colorSuccess,
		}, nil)
	case session.BattleLost:
		b.updateMessage(s, i, &discordgo.MessageEmbed{
			Title: "💀 Defeat",
			Description: fmt.Sprintf("The %s %s hit back for **%d** and your taco fainted.",
				sess.Enemy.Emoji, sess.Enemy.Name, out.Log.EnemyDamage),
			Color: colorFailure,
		}, nil)
	case session.BattleFled:
		b.updateMessage(s, i, &discordgo.MessageEmbed{
			Title:       "🏃 You fled",
			Description: "You escaped with your taco intact. No rewards, no penalty.",
			Color:       colorNeutral,
		}, nil)
	default:
		status := fmt.Sprintf("You dealt **%d** damage", out.Log.PlayerDamage)
		if act == session.ActionDefend {
			status += " while defending"
		}
		status += fmt.Sprintf("; the enemy hit back for **%d**.", out.Log.EnemyDamage)
		b.updateMessage(s, i, b.battleEmbed(sess, status), battleButtons(userID))
	}
}

func (b *Bot) battleEmbed(sess *session.BattleSession, status string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚔️ Battle — turn %d", sess.Turn+1),
		Description: status,
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			combatantField("You", sess.Player),
			combatantField("Wild", sess.Enemy),
		},
	}
}

func battleButtons(userID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "⚔️ Attack",
					Style:    discordgo.DangerButton,
					CustomID: "battle:act:attack:" + userID,
				},
				discordgo.Button{
					Label:    "🛡️ Defend",
					Style:    discordgo.PrimaryButton,
					CustomID: "battle:act:defend:" + userID,
				},
				discordgo.Button{
					Label:    "🏃 Flee",
					Style:    discordgo.SecondaryButton,
					CustomID: "battle:act:flee:" + userID,
				},
			},
		},
	}
}

// replySessionError maps registry errors to user-facing replies.
func (b *Bot) replySessionError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		b.replyEphemeral(s, i, "That session is over. Start a new one!")
	case errors.Is(err, session.ErrNotYourTurn):
		b.replyEphemeral(s, i, "It's not your turn!")
	case errors.Is(err, session.ErrNotParticipant):
		b.replyEphemeral(s, i, "You're not part of this fight.")
	case errors.Is(err, session.ErrNotReady):
		b.replyEphemeral(s, i, "Both fighters need to pick a taco first.")
	default:
		b.logger.Error("session action", "err", err)
		b.replyEphemeral(s, i, "Something went wrong. Try again.")
	}
}
