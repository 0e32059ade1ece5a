package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsrainingtacos/arcabloom/internal/storage"
)

var (
	flagHistoryLimit  int
	flagHistoryPlayer string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent battle and duel results",
	Long: `Display the most recent recorded battles and duels from the match
history database.

Examples:
  arcabloom history
  arcabloom history --limit 50
  arcabloom history --player 123456789012345678`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of records to show")
	historyCmd.Flags().StringVar(&flagHistoryPlayer, "player", "", "Only show battles for this Discord user ID")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var battles []storage.BattleRecord
	if flagHistoryPlayer != "" {
		battles, err = store.PlayerBattles(flagHistoryPlayer, flagHistoryLimit)
	} else {
		battles, err = store.RecentBattles(flagHistoryLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving battles: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent battles")
	fmt.Println()
	if len(battles) == 0 {
		fmt.Println("No battles recorded yet.")
	} else {
		fmt.Printf("  %-20s  %-10s  %-10s  %-9s  %-5s  %s\n", "Player", "Taco", "Enemy", "Outcome", "Turns", "Date")
		fmt.Printf("  %-20s  %-10s  %-10s  %-9s  %-5s  %s\n", "------", "----", "-----", "-------", "-----", "----")
		for _, rec := range battles {
			fmt.Printf("  %-20s  %-10s  %-10s  %-9s  %-5d  %s\n",
				rec.PlayerID,
				fmt.Sprintf("%s L%d", rec.TacoID, rec.TacoLevel),
				fmt.Sprintf("%s L%d", rec.EnemyID, rec.EnemyLevel),
				rec.Outcome,
				rec.Turns,
				rec.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	if flagHistoryPlayer != "" {
		stats, err := store.GetPlayerStats(flagHistoryPlayer)
		if err == nil && stats.Battles > 0 {
			fmt.Println()
			fmt.Printf("Totals: %d battles, %d won, %d lost, %d XP earned\n",
				stats.Battles, stats.Wins, stats.Losses, stats.TotalXP)
		}
		return
	}

	duels, err := store.RecentDuels(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving duels: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Recent duels")
	fmt.Println()
	if len(duels) == 0 {
		fmt.Println("No duels recorded yet.")
		return
	}
	fmt.Printf("  %-20s  %-20s  %-20s  %-5s  %s\n", "Challenger", "Target", "Winner", "Turns", "Date")
	fmt.Printf("  %-20s  %-20s  %-20s  %-5s  %s\n", "----------", "------", "------", "-----", "----")
	for _, rec := range duels {
		winner := rec.WinnerID
		if winner == "" {
			winner = "(timed out)"
		}
		fmt.Printf("  %-20s  %-20s  %-20s  %-5d  %s\n",
			rec.ChallengerID, rec.TargetID, winner, rec.Turns,
			rec.CreatedAt.Format("2006-01-02 15:04"))
	}
}
