// arcabloom is a Discord bot that bridges a Roblox game with a taco
// collecting minigame.
//
// Usage:
//
//	arcabloom serve              - Run the bot and its web sidecar
//	arcabloom catalog            - Print the taco catalog
//	arcabloom leaderboard        - Print the in-game coins leaderboard
//	arcabloom history            - Show recent battle and duel results
//
// Global flags:
//
//	--config <path>  - Gameplay config YAML (default: built-in search order)
//	--users <path>   - User records JSON (default: ~/.arcabloom/users.json)
//	--db <path>      - Match history database (default: ~/.arcabloom/history.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig    string
	flagUsersPath string
	flagDBPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcabloom",
	Short: "arcabloom - Discord taco minigame with Roblox hooks",
	Long: `arcabloom runs a Discord bot where members catch, collect, and fight
tacos, wired into a Roblox game through Open Cloud: leaderboards,
moderation bans, and account verification.

Available commands:
  serve        - Run the bot and its web sidecar
  catalog      - Print the taco catalog
  leaderboard  - Print the in-game coins leaderboard
  history      - Show recent battle and duel results

Examples:
  arcabloom serve
  arcabloom serve --config ./configs/game.yaml
  arcabloom catalog
  arcabloom history --limit 50`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to gameplay config YAML")
	rootCmd.PersistentFlags().StringVar(&flagUsersPath, "users", "~/.arcabloom/users.json", "Path to user records file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcabloom/history.db", "Path to match history database")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(historyCmd)
}
