package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsrainingtacos/arcabloom/internal/config"
	"github.com/itsrainingtacos/arcabloom/internal/roblox"
)

var flagLeaderboardSize int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the in-game coins leaderboard",
	Long: `Fetch the top entries of the coin leaderstat from the Roblox ordered
datastore and print them.

Requires ROBLOX_API_KEY and ROBLOX_UNIVERSE_ID in the environment (a
.env file is honored).

Examples:
  arcabloom leaderboard
  arcabloom leaderboard --top 25`,
	Run: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&flagLeaderboardSize, "top", 0, "Number of entries to show (default from game config)")
}

func runLeaderboard(_ *cobra.Command, _ []string) {
	creds, err := config.LoadCredentials()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		os.Exit(1)
	}
	if !creds.RobloxConfigured() {
		fmt.Fprintln(os.Stderr, "ROBLOX_API_KEY and ROBLOX_UNIVERSE_ID must be set.")
		os.Exit(1)
	}

	game, err := config.LoadGame(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game config: %v\n", err)
		os.Exit(1)
	}

	size := flagLeaderboardSize
	if size <= 0 {
		size = game.Leaderboard.Size
	}

	client := roblox.NewClient(creds.RobloxAPIKey, creds.RobloxUniverseID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := client.TopOrdered(ctx, game.Leaderboard.Datastore, size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching leaderboard: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Coins leaderboard (%s)\n\n", game.Leaderboard.Datastore)
	if len(entries) == 0 {
		fmt.Println("No entries yet.")
		return
	}

	fmt.Printf("  %-4s  %-20s  %s\n", "Rank", "Player", "Coins")
	fmt.Printf("  %-4s  %-20s  %s\n", "----", "------", "-----")
	for rank, entry := range entries {
		name := entry.ID
		if id, err := strconv.ParseInt(entry.ID, 10, 64); err == nil {
			name = client.Username(ctx, id)
		}
		fmt.Printf("  %-4d  %-20s  %d\n", rank+1, name, entry.Value)
	}
}
