// tanks is a top-down arena tank shooter played in the terminal.
//
// Usage:
//
//	tanks play [mode]        - Continue the campaign
//	tanks menu               - Start the main menu
//	tanks serve              - Start SSH server for remote play
//	tanks history            - Show recorded attempts
//	tanks progress [reset]   - Show or clear saved progress
//	tanks levels             - Print the difficulty table
//	tanks list               - List available modes
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible layouts
//	--db <path>            - Set database path (default: ~/.tanks/tanks.db)
//	--config <path>        - Custom tanks config YAML
//	--data <dir>           - Directory overriding the embedded level data
//	--profile <name>       - Platform profile: desktop or constrained
//	--player <name>        - Name progress and history are stored under
//	--difficulty <preset>  - Difficulty preset: easy, normal, hard, fixed
//	--log-file <path>      - Log file for interactive commands
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDataDir    string
	flagProfile    string
	flagPlayer     string
	flagDifficulty string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tanks",
	Short: "Tanks - a top-down arena tank shooter for your terminal",
	Long: `Tanks is a terminal arena shooter. Clear each level by destroying
every enemy tank while dodging their fire and the obstacles.
Your level and death count are saved between runs.

Available commands:
  play      - Continue the campaign directly
  menu      - Main menu: continue, new campaign, history
  serve     - Start SSH server for remote play
  history   - View recorded attempts
  progress  - View or reset saved progress
  levels    - Print the difficulty table
  list      - Show available modes

Examples:
  tanks play
  tanks play --profile constrained
  tanks menu --difficulty hard
  tanks serve --ssh :2222
  tanks history --plain`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		tanks.SetConfigPath(flagConfig)
		tanks.SetDataDir(flagDataDir)
		tanks.SetDifficultyPreset(flagDifficulty)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tanks/tanks.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tanks config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data", "", "Directory overriding the embedded level data")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", config.ProfileDesktop, "Platform profile: desktop, constrained")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", defaultPlayer(), "Name progress and history are stored under")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.tanks/tanks.log", "Log file for interactive commands")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(levelsCmd)
}

// defaultPlayer names the local player after the OS user.
func defaultPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
