package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// commands is the full slash command set, registered with a bulk
// overwrite on startup so removed commands disappear from the guild.
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "catch",
		Description: "A wild taco appears. Try to catch it!",
	},
	{
		Name:        "battle",
		Description: "Send one of your tacos into battle against a wild taco",
	},
	{
		Name:        "duel",
		Description: "Challenge another member to a taco duel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "opponent",
				Description: "Who to challenge",
				Required:    true,
			},
		},
	},
	{
		Name:        "inventory",
		Description: "Show your taco collection",
	},
	{
		Name:        "profile",
		Description: "Show a trainer profile",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Whose profile to show (defaults to you)",
			},
		},
	},
	{
		Name:        "leaderboard",
		Description: "Show the in-game taco leaderboard",
	},
	{
		Name:        "configld",
		Description: "Add or remove coins from a player",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "username",
				Description: "Roblox username of the player",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Number of coins to add or remove (use negative to remove)",
				Required:    true,
			},
		},
	},
	{
		Name:        "ban",
		Description: "Ban a Roblox player from the game",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "username",
				Description: "Roblox username to ban",
				Required:    true,
			},
		},
	},
	{
		Name:        "unban",
		Description: "Lift a Roblox player's game ban",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "username",
				Description: "Roblox username to unban",
				Required:    true,
			},
		},
	},
	{
		Name:        "rverify",
		Description: "Verify a Discord user with Roblox",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Discord user to verify",
				Required:    true,
			},
		},
	},
	{
		Name:        "help",
		Description: "List everything the bot can do",
	},
}

func (b *Bot) registerCommands() error {
	registered, err := b.dg.ApplicationCommandBulkOverwrite(
		b.creds.DiscordAppID, b.creds.GuildID, commands)
	if err != nil {
		return fmt.Errorf("bot: register commands: %w", err)
	}
	b.logger.Info("slash commands registered", "count", len(registered))
	return nil
}

// onInteraction routes slash commands by name and message components by
// custom ID prefix.
func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(s, i)
	}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	b.logger.Debug("command", "name", name, "user", interactionUser(i).ID)

	switch name {
	case "catch":
		b.handleCatch(s, i)
	case "battle":
		b.handleBattle(s, i)
	case "duel":
		b.handleDuel(s, i)
	case "inventory":
		b.handleInventory(s, i)
	case "profile":
		b.handleProfile(s, i)
	case "leaderboard":
		b.handleLeaderboard(s, i)
	case "configld":
		b.handleConfigLD(s, i)
	case "ban":
		b.handleBan(s, i)
	case "unban":
		b.handleUnban(s, i)
	case "rverify":
		b.handleVerify(s, i)
	case "help":
		b.handleHelp(s, i)
	default:
		b.replyEphemeral(s, i, "Unknown command.")
	}
}

func (b *Bot) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	b.logger.Debug("component", "custom_id", customID, "user", interactionUser(i).ID)

	switch {
	case strings.HasPrefix(customID, "catch:"):
		b.handleCatchComponent(s, i, customID)
	case strings.HasPrefix(customID, "battle:"):
		b.handleBattleComponent(s, i, customID)
	case strings.HasPrefix(customID, "duel:"):
		b.handleDuelComponent(s, i, customID)
	case strings.HasPrefix(customID, "ban:"):
		b.handleBanComponent(s, i, customID)
	default:
		b.replyEphemeral(s, i, "That button no longer works.")
	}
}

// replyEphemeral sends a short reply only the invoker can see.
func (b *Bot) replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("ephemeral reply failed", "err", err)
	}
}

// replyEmbed sends a public embed response.
func (b *Bot) replyEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		b.logger.Warn("embed reply failed", "err", err)
	}
}

// updateMessage edits the component interaction's own message in place.
func (b *Bot) updateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		b.logger.Warn("message update failed", "err", err)
	}
}
