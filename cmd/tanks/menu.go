package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the main menu",
	Long: `Start tanks in interactive menu mode.

The menu continues the saved campaign, starts a new one from
level 1, or shows the attempt history. Leaving a game returns
to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab/H        - History
  Q            - Quit

Examples:
  tanks menu
  tanks menu --fps 30
  tanks menu --player alice`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logFile := setupFileLogging()
	defer logFile.Close()

	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()
	defaultMode := modeForProfile(flagProfile)
	status := statusFunc(store)

	for {
		menuResult, err := tui.RunMenu(flagPlayer, defaultMode, status, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		item := menuResult.Item
		switch item.Kind {
		case tui.MenuHistory:
			goBack, err := tui.RunHistory(store, flagPlayer, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if !goBack {
				return
			}
			continue

		case tui.MenuNewCampaign:
			if store != nil {
				if err := store.Progress(flagPlayer).Clear(); err != nil {
					log.Warn("cannot clear progress", "player", flagPlayer, "err", err)
				}
			}
		}

		game, err := registry.Create(item.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		cfg.Seed = newSeed()

		backToMenu, err := tui.Run(game, store, flagPlayer, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		if !backToMenu {
			return
		}
	}
}
