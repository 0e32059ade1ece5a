package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the taco catalog",
	Long: `List every catchable taco with its rarity, catch chance, and base
stats.

Examples:
  arcabloom catalog`,
	Run: runCatalog,
}

func runCatalog(_ *cobra.Command, _ []string) {
	fmt.Println("Taco catalog")
	fmt.Println()
	fmt.Printf("  %-10s  %-16s  %-10s  %-6s  %-5s  %s\n", "ID", "Name", "Rarity", "Catch", "Type", "HP/ATK/DEF")
	fmt.Printf("  %-10s  %-16s  %-10s  %-6s  %-5s  %s\n", "--", "----", "------", "-----", "----", "----------")

	for _, tpl := range taco.Catalog() {
		fmt.Printf("  %-10s  %s %-14s  %-10s  %4.0f%%  %-5s  %d/%d/%d\n",
			tpl.ID,
			tpl.Emoji, tpl.Name,
			tpl.Rarity,
			taco.CatchChance(tpl.Rarity)*100,
			tpl.Type,
			tpl.Base.HP, tpl.Base.Attack, tpl.Base.Defense)
	}

	fmt.Println()
	fmt.Println("Draw weights:")
	for _, w := range taco.DefaultWeights() {
		fmt.Printf("  %-10s %5.1f%%\n", w.Rarity, w.Weight)
	}
}
