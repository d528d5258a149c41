package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/replay"
)

var (
	flagSimUpdates int
	flagSimScript  string
	flagSimVerify  bool
	flagSimOut     string
	flagSimFrames  bool
	flagSimWrap    bool
	flagSimFeast   bool
	flagSimPowers  bool
	flagSimWidth   int
	flagSimHeight  int
	flagSimLength  int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a scripted session without a terminal UI",
	Long: `Run the engine headless. The snake follows --script (directions
separated by commas or spaces), then keeps its heading. The session ends
on game over or after --updates moves. Without a seed from the flag or
the config the clock picks one, and it is printed so the run can be repeated.

With --verify every invariant is checked after each move. With --out the
session is written as a parquet replay that 'snake replay' can verify.

Examples:
  snake sim --seed 123
  snake sim --seed 7 --script "up,up,left,left,down" --frames
  snake sim --width 8 --height 8 --wrap --updates 200 --verify
  snake sim --feast --powerups --verify
  snake sim --seed 42 --out ./run.parquet`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimUpdates, "updates", 1000, "Maximum number of moves")
	simCmd.Flags().StringVar(&flagSimScript, "script", "", "Directions to play, e.g. up,up,left")
	simCmd.Flags().BoolVar(&flagSimVerify, "verify", false, "Check invariants after every move")
	simCmd.Flags().StringVar(&flagSimOut, "out", "", "Write the session to a parquet replay file")
	simCmd.Flags().BoolVar(&flagSimFrames, "frames", false, "Print the board after every move")
	simCmd.Flags().BoolVar(&flagSimWrap, "wrap", false, "Wrap around the walls")
	simCmd.Flags().BoolVar(&flagSimFeast, "feast", false, "Keep 3 to 5 foods of mixed value on the board")
	simCmd.Flags().BoolVar(&flagSimPowers, "powerups", false, "Drop fast and slow pick-ups")
	simCmd.Flags().IntVar(&flagSimWidth, "width", 0, "Grid width (default from config)")
	simCmd.Flags().IntVar(&flagSimHeight, "height", 0, "Grid height (default from config)")
	simCmd.Flags().IntVar(&flagSimLength, "length", 0, "Initial snake length (default from config)")
}

func runSim(cmd *cobra.Command, _ []string) error {
	cfg := currentSettings()
	var err error
	if flagSimWidth > 0 || flagSimHeight > 0 {
		w, h := cfg.Grid.Width, cfg.Grid.Height
		if flagSimWidth > 0 {
			w = flagSimWidth
		}
		if flagSimHeight > 0 {
			h = flagSimHeight
		}
		if cfg, err = cfg.WithGrid(w, h); err != nil {
			return err
		}
	}
	if flagSimLength > 0 {
		if cfg, err = cfg.WithInitialLength(flagSimLength); err != nil {
			return err
		}
	}
	if flagSimWrap {
		cfg.WrapWalls = true
	}
	if flagSimFeast {
		cfg.Feast = true
	}
	if flagSimPowers {
		cfg.PowerUps = true
	}

	script, err := parseScript(flagSimScript)
	if err != nil {
		return err
	}

	seed := uint64(resolveSeed(sessionSeed(), time.Now))
	logger := newLogger(os.Stderr, "sim")
	logger.Debug("simulating", "grid", cfg.Grid.Size().Key(), "seed", seed, "script", len(script))

	rec, frames, err := replay.Record(
		snake.SettingsFromConfig(cfg),
		seed,
		&snake.ScriptedInput{Script: script},
		replay.Options{MaxUpdates: flagSimUpdates, Verify: flagSimVerify},
	)
	if err != nil && frames == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagSimFrames {
		for _, f := range frames {
			printSummary(out, f.Snapshot, f.Outcome)
			fmt.Fprintln(out, drawBoard(f.Snapshot))
			fmt.Fprintln(out)
		}
	}

	last := frames[len(frames)-1]
	fmt.Fprintf(out, "seed %d  moves %d\n", seed, len(rec.Moves))
	printSummary(out, last.Snapshot, last.Outcome)
	if !flagSimFrames {
		fmt.Fprintln(out, drawBoard(last.Snapshot))
	}

	if err != nil {
		return err
	}

	if flagSimOut != "" {
		if err := replay.WriteFile(flagSimOut, rec); err != nil {
			return err
		}
		logger.Info("replay written", "path", flagSimOut, "session", rec.SessionID)
	}
	return nil
}

// parseScript reads directions separated by commas or whitespace.
func parseScript(s string) ([]core.Direction, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	script := make([]core.Direction, 0, len(fields))
	var errs []error
	for i, f := range fields {
		d, err := core.ParseDirection(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("script entry %d: %w", i+1, err))
			continue
		}
		script = append(script, d)
	}
	return script, errors.Join(errs...)
}
