// Package bot is the Discord-facing layer: slash command registration,
// interaction dispatch, and the embed/component rendering for the taco
// minigame and Roblox integrations.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/itsrainingtacos/arcabloom/internal/config"
	"github.com/itsrainingtacos/arcabloom/internal/roblox"
	"github.com/itsrainingtacos/arcabloom/internal/session"
	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

// Bot wires the Discord session to the game services.
type Bot struct {
	dg     *discordgo.Session
	logger *log.Logger

	cfg   config.GameConfig
	creds config.Credentials

	users    *store.Store
	registry *session.Registry

	// genMu serializes gen: discordgo runs every event handler in its
	// own goroutine, and the generator is not concurrency-safe.
	genMu sync.Mutex
	gen   *taco.Generator

	// Optional integrations; nil when not configured.
	roblox   *roblox.Client
	bloxlink *roblox.BloxlinkClient

	// Target of leaderboard refreshes, seeded from credentials.
	lbChannelID string
	lbMessageID string
}

// Options bundles the bot's dependencies.
type Options struct {
	Game        config.GameConfig
	Credentials config.Credentials
	Users       *store.Store
	Registry    *session.Registry
	Generator   *taco.Generator
	Roblox      *roblox.Client
	Bloxlink    *roblox.BloxlinkClient
	Logger      *log.Logger
}

// New creates the bot and its Discord session. The session is not opened
// until Run.
func New(opts Options) (*Bot, error) {
	dg, err := discordgo.New("Bot " + opts.Credentials.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("bot: create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	b := &Bot{
		dg:       dg,
		logger:   logger,
		cfg:      opts.Game,
		creds:    opts.Credentials,
		users:    opts.Users,
		registry: opts.Registry,
		gen:      opts.Generator,
		roblox:   opts.Roblox,
		bloxlink: opts.Bloxlink,

		lbChannelID: opts.Credentials.LeaderboardChannelID,
		lbMessageID: opts.Credentials.LeaderboardMessageID,
	}

	b.registry.SetExpiryFunc(b.onSessionExpired)
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteraction)
	return b, nil
}

// Run opens the gateway connection, overwrites the guild's slash
// commands, and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("bot: open gateway: %w", err)
	}
	defer b.dg.Close()

	if err := b.registerCommands(); err != nil {
		return err
	}

	<-ctx.Done()
	b.logger.Info("shutting down bot")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("gateway ready",
		"user", r.User.Username,
		"guilds", len(r.Guilds))
}

// onSessionExpired edits the bound message so stale battle or duel
// prompts do not keep live buttons around.
func (b *Bot) onSessionExpired(e session.ExpiredSession) {
	if e.ChannelID == "" || e.MessageID == "" {
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Session expired",
		Description: "No action was taken in time, so the " + e.Kind + " was called off.",
		Color:       colorNeutral,
	}
	edit := &discordgo.MessageEdit{
		Channel:    e.ChannelID,
		ID:         e.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &[]discordgo.MessageComponent{},
	}
	if _, err := b.dg.ChannelMessageEditComplex(edit); err != nil {
		b.logger.Warn("edit expired session message", "kind", e.Kind, "err", err)
	}
}

// interactionUser returns the invoking user in both guild and DM
// contexts.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// hasAnyRole reports whether the member carries at least one of the role
// IDs. Empty role IDs are skipped.
func hasAnyRole(member *discordgo.Member, roleIDs ...string) bool {
	if member == nil {
		return false
	}
	for _, want := range roleIDs {
		if want == "" {
			continue
		}
		for _, have := range member.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// sessionTimeout converts the configured timeout for display.
func (b *Bot) sessionTimeout() time.Duration {
	return time.Duration(b.cfg.Session.TimeoutSeconds) * time.Second
}

// drawTemplate draws an encounter under genMu.
func (b *Bot) drawTemplate() taco.Template {
	b.genMu.Lock()
	defer b.genMu.Unlock()
	return b.gen.Draw()
}

// catchRoll rolls a catch attempt under genMu.
func (b *Bot) catchRoll() float64 {
	b.genMu.Lock()
	defer b.genMu.Unlock()
	return b.gen.CatchRoll()
}
