package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	flagAllPlayers   bool
	flagResetHistory bool
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show saved campaign progress",
	Long: `Display the level the campaign resumes at and the death count.

Examples:
  tanks progress
  tanks progress --all
  tanks progress reset
  tanks progress reset --history`,
	Run: runProgress,
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start the campaign over from level 1",
	Long: `Clear the saved level and death count of the player.
With --history the recorded attempts are deleted as well.`,
	Run: runProgressReset,
}

func init() {
	progressCmd.Flags().BoolVar(&flagAllPlayers, "all", false, "Show every player with saved progress")
	progressResetCmd.Flags().BoolVar(&flagResetHistory, "history", false, "Also delete recorded attempts")
	progressCmd.AddCommand(progressResetCmd)
}

func runProgress(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	final := finalLevel()

	if !flagAllPlayers {
		level, deaths, err := readProgress(store, flagPlayer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading progress: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Player:  %s\n", flagPlayer)
		if final > 0 {
			fmt.Printf("Level:   %d of %d\n", level, final)
		} else {
			fmt.Printf("Level:   %d\n", level)
		}
		fmt.Printf("Deaths:  %d\n", deaths)
		return
	}

	profiles, err := store.Profiles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading progress: %v\n", err)
		os.Exit(1)
	}
	if len(profiles) == 0 {
		fmt.Println("No saved progress.")
		return
	}

	fmt.Printf("  %-16s  %-5s  %-6s  %s\n", "Player", "Level", "Deaths", "Updated")
	fmt.Printf("  %-16s  %-5s  %-6s  %s\n", "------", "-----", "------", "-------")
	for _, p := range profiles {
		level, ok := p.Values[tanks.KeyLevel]
		if !ok {
			level = 1
		}
		fmt.Printf("  %-16s  %-5d  %-6d  %s\n",
			p.Profile, level, p.Values[tanks.KeyDeaths], humanize.Time(p.UpdatedAt))
	}
}

func runProgressReset(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Progress(flagPlayer).Clear(tanks.KeyLevel, tanks.KeyDeaths); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing progress: %v\n", err)
		os.Exit(1)
	}
	if flagResetHistory {
		if err := store.ClearAttempts(flagPlayer); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Progress of %s cleared, the campaign starts at level 1.\n", flagPlayer)
}
