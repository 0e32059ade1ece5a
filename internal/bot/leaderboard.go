package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// leaderboardEmbed fetches the top coin holders from the ordered
// datastore and renders them. Entry IDs are Roblox user IDs; usernames
// come from the cached lookup.
func (b *Bot) leaderboardEmbed(ctx context.Context) (*discordgo.MessageEmbed, error) {
	if b.roblox == nil {
		return nil, fmt.Errorf("bot: roblox credentials not configured")
	}

	entries, err := b.roblox.TopOrdered(ctx, b.cfg.Leaderboard.Datastore, b.cfg.Leaderboard.Size)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	medals := []string{"🥇", "🥈", "🥉"}
	for rank, entry := range entries {
		userID, _ := strconv.ParseInt(entry.ID, 10, 64)
		name := b.roblox.Username(ctx, userID)
		prefix := fmt.Sprintf("`%2d.`", rank+1)
		if rank < len(medals) {
			prefix = medals[rank]
		}
		fmt.Fprintf(&sb, "%s **%s** — %d Coins\n", prefix, name, entry.Value)
	}
	if sb.Len() == 0 {
		sb.WriteString("Nobody is on the board yet!")
	}

	return &discordgo.MessageEmbed{
		Title:       "🪙 Coins Leaderboard",
		Description: sb.String(),
		Color:       colorGold,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Updated"},
		Timestamp:   time.Now().Format(time.RFC3339),
	}, nil
}

// handleLeaderboard answers with a freshly fetched leaderboard. The
// datastore round trip can be slow, so the response is deferred.
func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.Warn("defer leaderboard", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	embed, err := b.leaderboardEmbed(ctx)
	if err != nil {
		b.logger.Error("fetch leaderboard", "err", err)
		msg := "Couldn't fetch the leaderboard from Roblox."
		if b.roblox == nil {
			msg = "The Roblox integration isn't configured."
		}
		_, _ = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &msg})
		return
	}

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		b.logger.Warn("edit leaderboard response", "err", err)
	}
}

// handleConfigLD adds or removes leaderboard coins for a Roblox player.
// The delta goes straight to the ordered datastore, so the in-game
// leaderstat picks it up on the next read.
func (b *Bot) handleConfigLD(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasAnyRole(i.Member, b.creds.DeveloperRoleID) {
		b.replyEphemeral(s, i, "You do not have permission to use this command.")
		return
	}
	if b.roblox == nil {
		b.replyEphemeral(s, i, "The Roblox integration isn't configured.")
		return
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) < 2 {
		b.replyEphemeral(s, i, "Give me a Roblox username and an amount.")
		return
	}
	username := opts[0].StringValue()
	amount := opts[1].IntValue()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	userID, err := b.roblox.ResolveID(ctx, username)
	if err != nil {
		b.logger.Warn("resolve configld target", "username", username, "err", err)
		b.replyEphemeral(s, i, fmt.Sprintf("Couldn't find a Roblox user named **%s**.", username))
		return
	}

	total, err := b.roblox.IncrementOrdered(ctx, b.cfg.Leaderboard.Datastore, strconv.FormatInt(userID, 10), amount)
	if err != nil {
		b.logger.Error("increment coins", "user_id", userID, "amount", amount, "err", err)
		b.replyEphemeral(s, i, "Updating the coins on Roblox failed. Nothing was changed.")
		return
	}

	b.logger.Info("coins adjusted",
		"username", username,
		"user_id", userID,
		"amount", amount,
		"moderator", interactionUser(i).ID)
	b.replyEphemeral(s, i, fmt.Sprintf("✅ Updated **%s** coins by **%d**. New total: **%d**", username, amount, total))
}

// RefreshLeaderboard re-renders the posted leaderboard message. It is
// the sidecar web server's refresh hook.
func (b *Bot) RefreshLeaderboard(ctx context.Context) error {
	channelID, messageID := b.lbChannelID, b.lbMessageID
	if channelID == "" || messageID == "" {
		return fmt.Errorf("bot: no leaderboard message configured")
	}

	embed, err := b.leaderboardEmbed(ctx)
	if err != nil {
		return err
	}

	_, err = b.dg.ChannelMessageEditEmbed(channelID, messageID, embed)
	if err != nil {
		return fmt.Errorf("bot: edit leaderboard message: %w", err)
	}
	b.logger.Debug("leaderboard refreshed", "channel", channelID)
	return nil
}
