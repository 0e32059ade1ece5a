package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/itsrainingtacos/arcabloom/internal/roblox"
)

// banDatastore is the standard datastore the game server checks on
// player join.
const banDatastore = "Banland"

// banDurations are the choices offered in the ban duration menu. The
// values ride in component custom IDs.
var banDurations = []struct {
	Value   string
	Label   string
	Seconds int64
}{
	{"1h", "1 hour", 3600},
	{"1d", "1 day", 86400},
	{"3d", "3 days", 259200},
	{"1w", "1 week", 604800},
	{"forever", "Forever", 0},
}

func banTimeFor(value string) (roblox.BanTime, bool) {
	if value == "forever" {
		return roblox.BanTime{Forever: true}, true
	}
	for _, d := range banDurations {
		if d.Value == value {
			return roblox.BanTime{Until: time.Now().Unix() + d.Seconds}, true
		}
	}
	return roblox.BanTime{}, false
}

func banTimeLabel(t roblox.BanTime) string {
	if t.Forever {
		return "Forever"
	}
	return fmt.Sprintf("<t:%d:R>", t.Until)
}

func (b *Bot) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasAnyRole(i.Member, b.creds.ModRoleID, b.creds.DeveloperRoleID) {
		b.replyEphemeral(s, i, "You need a moderator role to do that.")
		return
	}
	if b.roblox == nil {
		b.replyEphemeral(s, i, "The Roblox integration isn't configured.")
		return
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		b.replyEphemeral(s, i, "Give me a Roblox username.")
		return
	}
	username := opts[0].StringValue()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	userID, err := b.roblox.ResolveID(ctx, username)
	if err != nil {
		b.logger.Warn("resolve ban target", "username", username, "err", err)
		b.replyEphemeral(s, i, fmt.Sprintf("Couldn't find a Roblox user named **%s**.", username))
		return
	}

	embed := b.banEmbed(ctx, "🚨 Ban Player",
		fmt.Sprintf("Select a ban duration for **%s** (%d)", username, userID),
		colorInfo, userID)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Flags:      discordgo.MessageFlagsEphemeral,
			Components: banDurationRow(userID, username),
		},
	})
	if err != nil {
		b.logger.Warn("ban menu reply failed", "err", err)
	}
}

func banDurationRow(userID int64, username string) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(banDurations))
	for _, d := range banDurations {
		style := discordgo.SecondaryButton
		if d.Value == "forever" {
			style = discordgo.DangerButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    d.Label,
			Style:    style,
			CustomID: fmt.Sprintf("ban:dur:%s:%d:%s", d.Value, userID, username),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// handleBanComponent routes the duration, confirm, back, and cancel
// steps of the ban flow plus the unban confirmation. All of it lives in
// the moderator's ephemeral message.
func (b *Bot) handleBanComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if !hasAnyRole(i.Member, b.creds.ModRoleID, b.creds.DeveloperRoleID) {
		b.replyEphemeral(s, i, "You need a moderator role to do that.")
		return
	}

	parts := strings.SplitN(customID, ":", 5)
	if len(parts) < 2 {
		b.replyEphemeral(s, i, "That menu no longer works.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	switch parts[1] {
	case "cancel":
		b.updateBanMessage(s, i, &discordgo.MessageEmbed{
			Title: "❌ Cancelled",
			Color: colorNeutral,
		})

	case "dur": // ban:dur:<value>:<id>:<username>
		if len(parts) != 5 {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		banTime, ok := banTimeFor(parts[2])
		userID, err := strconv.ParseInt(parts[3], 10, 64)
		if !ok || err != nil {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		username := parts[4]
		embed := b.banEmbed(ctx, "⚠️ Confirm Ban",
			fmt.Sprintf("You are about to ban **%s** (%d)\n**Duration:** %s", username, userID, banTimeLabel(banTime)),
			colorGold, userID)
		b.updateBan(s, i, embed, []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "✅ Confirm", Style: discordgo.SuccessButton,
					CustomID: fmt.Sprintf("ban:confirm:%s:%d:%s", parts[2], userID, username)},
				discordgo.Button{Label: "↩️ Back", Style: discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("ban:back:%d:%s", userID, username)},
				discordgo.Button{Label: "❌ Cancel", Style: discordgo.DangerButton,
					CustomID: "ban:cancel"},
			},
		}})

	case "back": // ban:back:<id>:<username>
		if len(parts) < 4 {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		userID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		username := strings.Join(parts[3:], ":")
		embed := b.banEmbed(ctx, "🚨 Ban Player",
			fmt.Sprintf("Select a ban duration for **%s** (%d)", username, userID),
			colorInfo, userID)
		b.updateBan(s, i, embed, banDurationRow(userID, username))

	case "confirm": // ban:confirm:<value>:<id>:<username>
		if len(parts) != 5 {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		banTime, ok := banTimeFor(parts[2])
		userID, err := strconv.ParseInt(parts[3], 10, 64)
		if !ok || err != nil {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		username := parts[4]

		entry := roblox.BanEntry{Banned: true, Time: banTime}
		if err := b.roblox.SetEntry(ctx, banDatastore, strconv.FormatInt(userID, 10), entry, userID); err != nil {
			b.logger.Error("write ban entry", "user_id", userID, "err", err)
			b.updateBanMessage(s, i, &discordgo.MessageEmbed{
				Title:       "❌ Datastore Error",
				Description: "Could not write to the Roblox datastore. Nothing was changed.",
				Color:       colorFailure,
			})
			return
		}
		b.logger.Info("player banned",
			"username", username,
			"user_id", userID,
			"duration", parts[2],
			"moderator", interactionUser(i).ID)
		b.updateBanMessage(s, i, b.banEmbed(ctx, "✅ Player Banned",
			fmt.Sprintf("**%s** (%d) has been banned.\n**Duration:** %s", username, userID, banTimeLabel(banTime)),
			colorSuccess, userID))

	case "unconfirm": // ban:unconfirm:<id>:<username>
		if len(parts) < 4 {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		userID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			b.replyEphemeral(s, i, "That menu no longer works.")
			return
		}
		username := strings.Join(parts[3:], ":")

		entry := roblox.BanEntry{Banned: false}
		if err := b.roblox.SetEntry(ctx, banDatastore, strconv.FormatInt(userID, 10), entry, userID); err != nil {
			b.logger.Error("clear ban entry", "user_id", userID, "err", err)
			b.updateBanMessage(s, i, &discordgo.MessageEmbed{
				Title:       "❌ Datastore Error",
				Description: "Clearing the ban on Roblox failed. Nothing was changed.",
				Color:       colorFailure,
			})
			return
		}
		b.logger.Info("player unbanned",
			"username", username,
			"user_id", userID,
			"moderator", interactionUser(i).ID)
		b.updateBanMessage(s, i, b.banEmbed(ctx, "✅ Successfully Unbanned",
			fmt.Sprintf("**%s** (%d) has been unbanned.", username, userID),
			colorSuccess, userID))

	default:
		b.replyEphemeral(s, i, "That menu no longer works.")
	}
}

// updateBan replaces the moderator's ephemeral message in place.
func (b *Bot) updateBan(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		b.logger.Warn("ban flow update failed", "err", err)
	}
}

func (b *Bot) updateBanMessage(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	b.updateBan(s, i, embed, []discordgo.MessageComponent{})
}

// banEmbed builds a moderation embed with the target's headshot when
// the thumbnail lookup succeeds.
func (b *Bot) banEmbed(ctx context.Context, title, description string, color int, userID int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
	if b.roblox != nil {
		if url, err := b.roblox.HeadshotURL(ctx, userID); err == nil && url != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
		}
	}
	return embed
}

func (b *Bot) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasAnyRole(i.Member, b.creds.ModRoleID, b.creds.DeveloperRoleID) {
		b.replyEphemeral(s, i, "You need a moderator role to do that.")
		return
	}
	if b.roblox == nil {
		b.replyEphemeral(s, i, "The Roblox integration isn't configured.")
		return
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		b.replyEphemeral(s, i, "Give me a Roblox username.")
		return
	}
	username := opts[0].StringValue()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	userID, err := b.roblox.ResolveID(ctx, username)
	if err != nil {
		b.logger.Warn("resolve unban target", "username", username, "err", err)
		b.replyEphemeral(s, i, fmt.Sprintf("Couldn't find a Roblox user named **%s**.", username))
		return
	}

	embed := b.banEmbed(ctx, "🚨 Unban Player",
		fmt.Sprintf("Are you sure you want to unban **%s** (%d)?", username, userID),
		colorInfo, userID)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "✅ Confirm", Style: discordgo.SuccessButton,
						CustomID: fmt.Sprintf("ban:unconfirm:%d:%s", userID, username)},
					discordgo.Button{Label: "❌ Cancel", Style: discordgo.DangerButton,
						CustomID: "ban:cancel"},
				},
			}},
		},
	})
	if err != nil {
		b.logger.Warn("unban menu reply failed", "err", err)
	}
}
