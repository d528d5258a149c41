// snake is a deterministic Snake game for the terminal.
//
// Usage:
//
//	snake play [variant]     - Play a game (snake, snake_wrap, snake_feast, snake_powerups)
//	snake menu               - Pick a variant interactively
//	snake sim                - Run a headless, scripted session
//	snake replay <file>      - Verify and inspect a recorded session
//	snake serve              - Start SSH server for remote play
//	snake scores [WxH]       - Show high scores for a board
//	snake list               - List variants
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.snake/scores.db)
//	--config <path>       - Load settings from a YAML file
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagReplayDir  string
	flagLogLevel   string

	logLevel = log.InfoLevel
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - a deterministic snake game for your terminal",
	Long: `Snake runs the classic game on a fixed grid. Every session is
reproducible from its seed and the moves played, so finished games can be
replayed and verified.

Available commands:
  play     - Play a variant directly
  menu     - Interactive variant picker
  sim      - Run a scripted session without a terminal UI
  replay   - Verify a recorded session
  serve    - Start SSH server for remote play
  scores   - View high scores
  list     - Show the variants

Examples:
  snake play
  snake play snake_wrap --difficulty hard
  snake play snake_feast
  snake sim --seed 123 --script up,up,left --verify
  snake serve --ssh :2222
  snake scores 20x15`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, else random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snake/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagReplayDir, "replays", "~/.snake/replays", "Directory for replay files (empty disables)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadSettings resolves the config file, the preset and the log level
// before any command runs.
func loadSettings(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logLevel = level

	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return err
		}
		config.ApplySnakePreset(&cfg, preset)
	}

	return snake.SetConfig(cfg)
}

// currentSettings returns the loaded config, with the preset applied.
func currentSettings() config.SnakeConfig {
	return snake.SharedStore().Get()
}

// newLogger returns a logger at the configured level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(logLevel)
	return logger
}

// fileLogger logs to ~/.snake/snake.log, since stderr belongs to the
// terminal UI while a game runs. It falls back to discarding output.
func fileLogger() (*log.Logger, func()) {
	path := expandHome(filepath.Join("~", ".snake", "snake.log"))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(f, "snake"), func() { f.Close() }
}

// sessionSeed picks the seed for a new session: the flag, then the config,
// then zero, which lets the UI fall back to the clock.
func sessionSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return int64(currentSettings().Seed)
}

// resolveSeed turns an unset seed into one drawn from the clock.
func resolveSeed(seed int64, now func() time.Time) int64 {
	if seed != 0 {
		return seed
	}
	return now().UnixNano()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
