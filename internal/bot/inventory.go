package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/itsrainingtacos/arcabloom/internal/store"
)

func (b *Bot) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	rec, err := b.users.User(user.ID)
	if err != nil {
		b.logger.Error("load user", "user", user.ID, "err", err)
		b.replyEphemeral(s, i, "Couldn't load your collection. Try again.")
		return
	}

	if len(rec.Tacos) == 0 {
		b.replyEphemeral(s, i, "Your collection is empty. Use /catch to find your first taco!")
		return
	}

	var sb strings.Builder
	for idx, inst := range rec.Tacos {
		fmt.Fprintf(&sb, "`%2d` %s — %s\n", idx+1, tacoLabel(inst), tacoStatsLine(inst))
		// Discord caps embed descriptions at 4096 characters.
		if sb.Len() > 3800 {
			fmt.Fprintf(&sb, "...and %d more", len(rec.Tacos)-idx-1)
			break
		}
	}

	b.replyEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🌮 %s's collection (%d)", user.Username, len(rec.Tacos)),
		Description: sb.String(),
		Color:       colorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d 🪙 · level %d · %d/%d XP", rec.Coins, rec.Level, rec.XP, store.LevelXPThreshold),
		},
	}, nil)
}

func (b *Bot) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := interactionUser(i)
	if opts := i.ApplicationCommandData().Options; len(opts) > 0 {
		if u := opts[0].UserValue(s); u != nil {
			target = u
		}
	}

	rec, err := b.users.User(target.ID)
	if err != nil {
		b.logger.Error("load user", "user", target.ID, "err", err)
		b.replyEphemeral(s, i, "Couldn't load that profile. Try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Trainer profile — %s", target.Username),
		Color: colorInfo,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: target.AvatarURL("128"),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: fmt.Sprintf("%d (%d/%d XP)", rec.Level, rec.XP, store.LevelXPThreshold), Inline: true},
			{Name: "Coins", Value: fmt.Sprintf("%d 🪙", rec.Coins), Inline: true},
			{Name: "Tacos", Value: fmt.Sprintf("%d", len(rec.Tacos)), Inline: true},
			{Name: "Battles", Value: fmt.Sprintf("%d won · %d lost", rec.BattleWins, rec.BattleLosses), Inline: true},
			{Name: "Catch streak", Value: fmt.Sprintf("%d", rec.CatchStreak), Inline: true},
		},
	}
	b.replyEmbed(s, i, embed, nil)
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "🌮 arcabloom",
		Description: "Catch tacos, level them up, and fight with them — " +
			"plus live hooks into the Roblox game.",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/catch", Value: "A wild taco appears. Rarer tacos are harder to catch."},
			{Name: "/battle", Value: "Fight a wild taco with one of yours. Win for XP."},
			{Name: "/duel", Value: "Challenge another member to a turn-based duel."},
			{Name: "/inventory · /profile", Value: "Your collection and trainer stats."},
			{Name: "/leaderboard", Value: "Top coin holders in the Roblox game."},
			{Name: "/rverify", Value: "Verify a member's linked Roblox account (mods)."},
			{Name: "/ban · /unban · /configld", Value: "Moderator tools for the Roblox game."},
		},
	}
	b.replyEmbed(s, i, embed, nil)
}
