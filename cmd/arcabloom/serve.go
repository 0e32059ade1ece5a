package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/itsrainingtacos/arcabloom/internal/bot"
	"github.com/itsrainingtacos/arcabloom/internal/config"
	"github.com/itsrainingtacos/arcabloom/internal/roblox"
	"github.com/itsrainingtacos/arcabloom/internal/session"
	"github.com/itsrainingtacos/arcabloom/internal/storage"
	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
	"github.com/itsrainingtacos/arcabloom/internal/web"
)

var flagVerbose bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Discord bot",
	Long: `Start the bot: connect to the Discord gateway, register the guild's
slash commands, and serve the health/refresh sidecar over HTTP.

Credentials come from the environment (a .env file is honored):
  DISCORD_TOKEN, DISCORD_APP_ID, GUILD_ID          required
  ROBLOX_API_KEY, ROBLOX_UNIVERSE_ID               enables game hooks
  BLOXLINK_KEY                                     enables /rverify
  MOD_ROLE_ID, DEVELOPER_ROLE_ID                   gate moderation commands

Examples:
  arcabloom serve
  arcabloom serve --config ./configs/game.yaml --verbose`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcabloom",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		logger.Fatal("load credentials", "err", err)
	}

	game, err := config.LoadGame(flagConfig)
	if err != nil {
		logger.Fatal("load game config", "err", err)
	}

	users, err := store.Open(flagUsersPath)
	if err != nil {
		logger.Fatal("open user store", "err", err)
	}

	history, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Fatal("open history database", "err", err)
	}
	defer history.Close()

	registry := session.NewRegistry(session.Config{
		Timeout: time.Duration(game.Session.TimeoutSeconds) * time.Second,
		Tuning:  game.Combat.Tuning(),
	}, users, taco.NewGenerator(), logger.WithPrefix("session"))
	registry.SetResultSaver(history)

	var robloxClient *roblox.Client
	if creds.RobloxConfigured() {
		robloxClient = roblox.NewClient(creds.RobloxAPIKey, creds.RobloxUniverseID,
			roblox.WithLogger(logger.WithPrefix("roblox")))
	} else {
		logger.Warn("roblox credentials missing; game hooks disabled")
	}

	var bloxlinkClient *roblox.BloxlinkClient
	if creds.BloxlinkConfigured() {
		bloxlinkClient = roblox.NewBloxlinkClient(creds.BloxlinkKey)
	} else {
		logger.Warn("bloxlink key missing; /rverify disabled")
	}

	b, err := bot.New(bot.Options{
		Game:        game,
		Credentials: creds,
		Users:       users,
		Registry:    registry,
		Generator:   taco.NewGenerator(),
		Roblox:      robloxClient,
		Bloxlink:    bloxlinkClient,
		Logger:      logger.WithPrefix("bot"),
	})
	if err != nil {
		logger.Fatal("create bot", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(logger.WithPrefix("web"), b.RefreshLeaderboard)
	webErr := make(chan error, 1)
	go func() {
		webErr <- srv.Run(ctx, creds.WebAddr)
	}()

	fmt.Printf("arcabloom running (web on %s), press Ctrl+C to stop\n", creds.WebAddr)

	if err := b.Run(ctx); err != nil {
		logger.Fatal("bot stopped", "err", err)
	}
	if err := <-webErr; err != nil {
		logger.Error("web server stopped", "err", err)
	}
}
