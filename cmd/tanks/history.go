package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded attempts",
	Long: `Display the attempts recorded for the player, newest first.

Every level played is recorded when it ends in a victory, a defeat,
or when it is abandoned. Tab switches to per-level statistics.

Examples:
  tanks history
  tanks history --plain --limit 20
  tanks history --player alice`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print as text instead of the interactive table")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of attempts printed with --plain")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if !flagPlain {
		cfg := runtimeConfig()
		if _, err := tui.RunHistory(store, flagPlayer, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	attempts, err := store.RecentAttempts(flagPlayer, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("History - %s\n", flagPlayer)
	fmt.Println()

	if len(attempts) == 0 {
		fmt.Println("No attempts recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tanks play' to start the campaign!")
		return
	}

	fmt.Printf("  %-14s  %-17s  %-5s  %-17s  %-7s  %-6s  %s\n", "When", "Mode", "Level", "Outcome", "Kills", "Deaths", "Time")
	fmt.Printf("  %-14s  %-17s  %-5s  %-17s  %-7s  %-6s  %s\n", "----", "----", "-----", "-------", "-----", "------", "----")

	for _, a := range attempts {
		fmt.Printf("  %-14s  %-17s  %-5d  %-17s  %-7s  %-6d  %s\n",
			humanize.Time(a.CreatedAt),
			a.Mode,
			a.Level,
			a.Outcome,
			fmt.Sprintf("%d/%d", a.Kills, a.Target),
			a.Deaths,
			a.Duration.Round(100*time.Millisecond),
		)
	}

	stats, err := store.Stats(flagPlayer)
	if err != nil || len(stats) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("  %-5s  %-8s  %-4s  %-4s  %s\n", "Level", "Attempts", "Won", "Lost", "Fastest")
	for _, st := range stats {
		fastest := "-"
		if st.Fastest > 0 {
			fastest = st.Fastest.Round(100 * time.Millisecond).String()
		}
		fmt.Printf("  %-5d  %-8s  %-4d  %-4d  %s\n",
			st.Level, humanize.Comma(int64(st.Attempts)), st.Victories, st.Defeats, fastest)
	}
}
