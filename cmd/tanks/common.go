package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// setupFileLogging routes logs to the log file while the terminal is in
// alt-screen mode. The returned closer must be called on exit.
func setupFileLogging() io.Closer {
	path := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return io.NopCloser(nil)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "tanks",
		Level:           log.DebugLevel,
	})
	log.SetDefault(logger)
	tanks.SetLogger(logger)
	return f
}

// setupStderrLogging logs to stderr for non-interactive commands.
func setupStderrLogging(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	log.SetDefault(logger)
	tanks.SetLogger(logger)
	return logger
}

// openStore opens the progress database. Play continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open progress database: %v\n", err)
		return nil
	}
	return store
}

// modeForProfile maps a platform profile to its registered mode.
func modeForProfile(profile string) string {
	if profile == config.ProfileConstrained {
		return tanks.ModeConstrained
	}
	return tanks.ModeDesktop
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// statusFunc describes the saved campaign position of a profile.
func statusFunc(store *storage.Store) tui.StatusFunc {
	return func(profile string) string {
		if store == nil {
			return "progress is not saved"
		}
		level, deaths, err := readProgress(store, profile)
		if err != nil {
			return "progress unavailable"
		}
		final := finalLevel()
		if final > 0 {
			return fmt.Sprintf("Level %d/%d  Deaths: %d", level, final, deaths)
		}
		return fmt.Sprintf("Level %d  Deaths: %d", level, deaths)
	}
}

// readProgress returns the saved level and death count of a profile.
func readProgress(store *storage.Store, profile string) (level, deaths int, err error) {
	p := store.Progress(profile)
	if level, err = p.Int(tanks.KeyLevel, 1); err != nil {
		return 0, 0, err
	}
	if deaths, err = p.Int(tanks.KeyDeaths, 0); err != nil {
		return 0, 0, err
	}
	return level, deaths, nil
}

// finalLevel returns the configured last level, or 0 if the config
// cannot be loaded.
func finalLevel() int {
	cfg, err := tanks.LoadConfig()
	if err != nil {
		return 0
	}
	return cfg.Campaign.FinalLevel
}

// newSeed picks the seed of a run: the flag value or the current time.
func newSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
