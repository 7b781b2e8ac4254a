package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Continue the campaign",
	Long: `Continue the campaign from the saved level.

The mode defaults to the one matching --profile. The constrained
mode keeps obstacle and enemy counts low for small machines.

Controls:
  Arrows/WASD  - Move
  Space        - Fire
  Enter        - Continue after a defeat or victory
  R            - Retry after a defeat
  P            - Pause
  Esc/B        - Abandon the level and leave
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower enemy fire
  normal - Configured values
  hard   - Faster enemy fire, enemies aim at you
  fixed  - Configured values, no adjustments

Examples:
  tanks play
  tanks play tanks_constrained
  tanks play --difficulty hard
  tanks play --seed 42 --player alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	mode := modeForProfile(flagProfile)
	if len(args) == 1 {
		mode = args[0]
	}

	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'tanks list' to see available modes.")
		os.Exit(1)
	}

	logFile := setupFileLogging()
	defer logFile.Close()

	game, err := registry.Create(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()

	cfg := runtimeConfig()
	cfg.Seed = newSeed()

	_, runErr := tui.Run(game, store, flagPlayer, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
