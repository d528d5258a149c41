package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a game",
	Long: `Start playing Snake. The variant is "snake" (solid walls, the
default) or "snake_wrap" (walls wrap around).

Controls:
  Arrows/WASD/HJKL - Steer
  P/Space          - Pause
  R                - Restart (after game over)
  Esc/B            - Leave (when paused or over)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start slow, speed up as you score
  normal - Start at 30% difficulty, speed up as you score
  hard   - Start at 70% difficulty, speed up as you score
  fixed  - No progression, the configured speed throughout

Without --difficulty a picker is shown first.

Examples:
  snake play
  snake play snake_wrap
  snake play --difficulty fixed --seed 42
  snake play --config ./my-snake.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "snake"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'snake list' to see available variants.")
		os.Exit(1)
	}

	cfg := terminalConfig()

	if flagDifficulty == "" {
		preset, err := tui.RunPresetSelector(cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if preset == nil {
			return
		}
		chosen := currentSettings()
		config.ApplySnakePreset(&chosen, *preset)
		if err := snake.SetConfig(chosen); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	opts, cleanup := playOptions()
	runErr := tui.Run(game, cfg, opts)
	cleanup()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// terminalConfig sizes the runtime config to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     sessionSeed(),
	}
}

// playOptions opens the score store, the replay archive and the log file
// for a local session. Missing pieces are reported and skipped.
func playOptions() (tui.Options, func()) {
	logger, closeLog := fileLogger()
	opts := tui.Options{Logger: logger}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
	} else {
		opts.Store = store
	}

	if flagReplayDir != "" {
		opts.Archive = replay.NewArchive(expandHome(flagReplayDir), logger)
	}

	return opts, func() {
		if opts.Store != nil {
			opts.Store.Close()
		}
		closeLog()
	}
}
