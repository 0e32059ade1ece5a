package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	// verifyDatastore marks verified Discord accounts for the in-game
	// verification script.
	verifyDatastore = "VerificationDB"
	// verifyTopic notifies live servers that a player just verified.
	verifyTopic = "DiscVerification"
)

// handleVerify links a Discord member to their Roblox account: the
// Bloxlink binding is looked up, the verification datastore is marked,
// and live servers are notified over the messaging service.
func (b *Bot) handleVerify(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasAnyRole(i.Member, b.creds.ModRoleID, b.creds.DeveloperRoleID) {
		b.replyEphemeral(s, i, "You do not have permission to use this command.")
		return
	}
	if b.bloxlink == nil || b.roblox == nil {
		b.replyEphemeral(s, i, "The Roblox integration isn't configured.")
		return
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		b.replyEphemeral(s, i, "Give me a Discord user to verify.")
		return
	}
	target := opts[0].UserValue(s)
	if target == nil {
		b.replyEphemeral(s, i, "Give me a Discord user to verify.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("defer verify", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	edit := func(msg string) {
		_, _ = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &msg})
	}

	robloxID, err := b.bloxlink.RobloxID(ctx, b.creds.GuildID, target.ID)
	if err != nil {
		b.logger.Warn("bloxlink lookup", "user", target.ID, "err", err)
		edit(fmt.Sprintf("❌ %s has not linked their Discord to Roblox.", target.Username))
		return
	}

	if err := b.roblox.SetEntry(ctx, verifyDatastore, target.ID, "Verified", 0); err != nil {
		b.logger.Error("write verification entry", "user", target.ID, "err", err)
		edit("Writing the verification to Roblox failed. Nothing was changed.")
		return
	}

	// Tell live servers so the player's status flips without a rejoin.
	// Best effort: the datastore entry is the durable record.
	payload, _ := json.Marshal(map[string]any{"UserID": robloxID, "Status": "Verified"})
	if err := b.roblox.Publish(ctx, verifyTopic, string(payload)); err != nil {
		b.logger.Warn("publish verification", "roblox_id", robloxID, "err", err)
	}

	name := b.roblox.Username(ctx, robloxID)
	if name == "" {
		name = strconv.FormatInt(robloxID, 10)
	}
	headshot := ""
	if url, err := b.roblox.HeadshotURL(ctx, robloxID); err == nil {
		headshot = url
	}

	embed := &discordgo.MessageEmbed{
		Title: "✅ User Verified",
		Description: fmt.Sprintf("%s has been verified as Roblox account **%s** (`%d`).",
			target.Mention(), name, robloxID),
		Color: colorSuccess,
		URL:   fmt.Sprintf("https://www.roblox.com/users/%d/profile", robloxID),
	}
	if headshot != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: headshot}
	}

	b.logger.Info("user verified",
		"discord_id", target.ID,
		"roblox_id", robloxID,
		"moderator", interactionUser(i).ID)

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		b.logger.Warn("edit verify response", "err", err)
	}
}
