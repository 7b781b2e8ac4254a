package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the difficulty table",
	Long: `Print the obstacle and enemy counts of every level, as listed in
the level data and as adjusted by each platform profile.

Examples:
  tanks levels
  tanks levels --data ./my-levels
  tanks levels --config ./my-tanks.yaml`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg, err := tanks.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	pack, err := tanks.LoadPack()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading level data: %v\n", err)
		os.Exit(1)
	}

	desktop := cfg.Profile(config.ProfileDesktop)
	constrained := cfg.Profile(config.ProfileConstrained)

	fmt.Printf("Campaign: %d levels\n", cfg.Campaign.FinalLevel)
	fmt.Println()
	fmt.Printf("  %-5s  %-15s  %-15s  %s\n", "Level", "Table", "Desktop", "Constrained")
	fmt.Printf("  %-5s  %-15s  %-15s  %s\n", "-----", "-----", "-------", "-----------")

	for _, d := range pack.Difficulty {
		do, de := tanks.ProfileCounts(desktop, d)
		co, ce := tanks.ProfileCounts(constrained, d)
		fmt.Printf("  %-5d  %-15s  %-15s  %s\n",
			d.Level,
			counts(d.ObstacleCount, d.EnemyTanksCount),
			counts(do, de),
			counts(co, ce),
		)
	}

	fmt.Println()
	fmt.Println("Counts are obstacles/enemies.")
}

func counts(obstacles, enemies int) string {
	return fmt.Sprintf("%d/%d", obstacles, enemies)
}
