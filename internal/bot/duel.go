package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/itsrainingtacos/arcabloom/internal/session"
)

// handleDuel opens a challenge between the invoker and the chosen
// opponent. Both sides then pick a fighter through an ephemeral menu so
// neither sees the other's choice early.
func (b *Bot) handleDuel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		b.replyEphemeral(s, i, "Pick someone to challenge.")
		return
	}
	target := opts[0].UserValue(s)
	if target == nil {
		b.replyEphemeral(s, i, "Couldn't resolve that member.")
		return
	}
	if target.ID == user.ID {
		b.replyEphemeral(s, i, "You can't duel yourself!")
		return
	}
	if target.Bot {
		b.replyEphemeral(s, i, "Bots don't eat tacos.")
		return
	}

	if _, err := b.registry.ChallengeDuel(user.ID, target.ID); err != nil {
		if errors.Is(err, session.ErrAlreadyInDuel) {
			b.replyEphemeral(s, i, "Either you or your target is already in a duel!")
			return
		}
		b.logger.Error("challenge duel", "challenger", user.ID, "err", err)
		b.replyEphemeral(s, i, "Couldn't start the duel. Try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🤺 Taco duel!",
		Description: fmt.Sprintf("%s challenges %s!\nBoth fighters: press the button to pick your taco.",
			user.Mention(), target.Mention()),
		Color: colorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Pick within %s or the duel is called off", b.sessionTimeout()),
		},
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "🌮 Pick your fighter",
					Style:    discordgo.PrimaryButton,
					CustomID: "duel:pick",
				},
			},
		},
	}
	b.replyEmbed(s, i, embed, components)
	b.bindResponseMessage(s, i, func(channelID, messageID string) {
		b.registry.BindDuelMessage(user.ID, channelID, messageID)
	})
}

func (b *Bot) handleDuelComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		b.replyEphemeral(s, i, "That button no longer works.")
		return
	}

	switch parts[1] {
	case "pick":
		b.handleDuelPick(s, i)
	case "choose":
		b.handleDuelChoose(s, i)
	case "act":
		if len(parts) != 3 {
			b.replyEphemeral(s, i, "That button no longer works.")
			return
		}
		b.handleDuelAction(s, i, parts[2])
	}
}

// handleDuelPick answers a participant's pick button with an ephemeral
// select over their own inventory.
func (b *Bot) handleDuelPick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	sess, ok := b.registry.Duel(user.ID)
	if !ok {
		b.replyEphemeral(s, i, "You're not part of this duel.")
		return
	}
	if sess.State != session.DuelAwaitingSelections {
		b.replyEphemeral(s, i, "Selections are already locked in.")
		return
	}

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

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Choose your fighter:",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							MenuType:    discordgo.StringSelectMenu,
							CustomID:    "duel:choose",
							Placeholder: "Choose your fighter",
							Options:     tacoSelectOptions(rec.Tacos),
						},
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Warn("duel pick reply failed", "err", err)
	}
}

func (b *Bot) handleDuelChoose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

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

	rec, err := b.users.User(user.ID)
	if err != nil {
		b.logger.Error("load user", "user", user.ID, "err", err)
		b.replyEphemeral(s, i, "Couldn't load your collection. Try again.")
		return
	}
	inst, ok := rec.Taco(idx)
	if !ok {
		b.replyEphemeral(s, i, "That taco isn't in your collection anymore.")
		return
	}

	sess, ready, err := b.registry.SelectDuelTaco(user.ID, inst)
	if err != nil {
		b.replySessionError(s, i, err)
		return
	}

	// Confirm privately by replacing the ephemeral select.
	confirm := fmt.Sprintf("Locked in %s!", tacoLabel(inst))
	if !ready {
		confirm += " Waiting for your opponent..."
	}
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    confirm,
			Components: []discordgo.MessageComponent{},
		},
	}
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		b.logger.Warn("duel choose reply failed", "err", err)
	}

	if ready {
		b.renderDuel(sess, fmt.Sprintf("Both fighters are in! <@%s> goes first.", sess.CurrentPlayer()))
	}
}

func (b *Bot) handleDuelAction(s *discordgo.Session, i *discordgo.InteractionCreate, action string) {
	user := interactionUser(i)

	var act session.Action
	switch action {
	case "attack":
		act = session.ActionAttack
	case "defend":
		act = session.ActionDefend
	default:
		b.replyEphemeral(s, i, "That button no longer works.")
		return
	}

	out, err := b.registry.DuelAction(user.ID, act)
	if err != nil {
		b.replySessionError(s, i, err)
		return
	}
	sess := out.Session

	if out.WinnerID != "" {
		b.updateMessage(s, i, &discordgo.MessageEmbed{
			Title: "🏆 Duel over!",
			Description: fmt.Sprintf("<@%s> lands the final blow for **%d** damage and wins the duel against <@%s>!",
				out.WinnerID, out.Damage, out.OpponentID),
			Color: colorGold,
		}, nil)
		return
	}

	var status string
	if out.Defended {
		status = fmt.Sprintf("<@%s> braces behind their taco.", out.ActorID)
	} else {
		status = fmt.Sprintf("<@%s> strikes for **%d** damage!", out.ActorID, out.Damage)
	}
	status += fmt.Sprintf("\nIt's <@%s>'s turn.", sess.CurrentPlayer())
	b.updateMessage(s, i, b.duelEmbed(sess, status), duelButtons())
}

// renderDuel edits the public challenge message into the live turn view.
func (b *Bot) renderDuel(sess *session.DuelSession, status string) {
	if sess.ChannelID == "" || sess.MessageID == "" {
		return
	}
	edit := &discordgo.MessageEdit{
		Channel:    sess.ChannelID,
		ID:         sess.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{b.duelEmbed(sess, status)},
		Components: &[]discordgo.MessageComponent{duelButtons()[0]},
	}
	if _, err := b.dg.ChannelMessageEditComplex(edit); err != nil {
		b.logger.Warn("edit duel message", "err", err)
	}
}

func (b *Bot) duelEmbed(sess *session.DuelSession, status string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🤺 Duel — turn %d", sess.Turns+1),
		Description: status,
		Color:       colorGold,
	}
	if sess.Ready() {
		embed.Fields = []*discordgo.MessageEmbedField{
			combatantField("Challenger", *sess.Combatants[0]),
			combatantField("Challenged", *sess.Combatants[1]),
		}
	}
	return embed
}

func duelButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "⚔️ Attack",
					Style:    discordgo.DangerButton,
					CustomID: "duel:act:attack",
				},
				discordgo.Button{
					Label:    "🛡️ Defend",
					Style:    discordgo.PrimaryButton,
					CustomID: "duel:act:defend",
				},
			},
		},
	}
}
