package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagReplayFrames bool
	flagReplayList   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Verify a recorded session",
	Long: `Re-simulate a parquet replay from its seed and moves and compare
every stored frame with the recomputed one. A file that does not match
exits with an error.

Examples:
  snake replay ./run.parquet
  snake replay ./run.parquet --frames
  snake replay --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayFrames, "frames", false, "Print the board for every stored frame")
	replayCmd.Flags().BoolVar(&flagReplayList, "list", false, "List the replays in the replay directory")
}

func runReplay(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if flagReplayList {
		archive := replay.NewArchive(expandHome(flagReplayDir), nil)
		paths, err := archive.List()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(out, "No replays recorded yet.")
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	if len(args) != 1 {
		return errors.New("replay: a file is required")
	}
	path := args[0]

	rec, rows, err := replay.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "session %s  variant %s  seed %d  moves %d\n", rec.SessionID, rec.GameID, rec.Seed, len(rec.Moves))
	if flagReplayFrames {
		for _, row := range rows {
			sn := replay.SnapshotFromRow(row, rec.Settings)
			fmt.Fprintf(out, "tick %d  move %d  outcome %s  score %d\n", row.Tick, row.Move, row.Outcome, row.Score)
			fmt.Fprintln(out, drawBoard(sn))
		}
	}

	final, err := replay.Verify(path)
	if err != nil {
		return err
	}
	printSummary(out, final.Snapshot, final.Outcome)
	fmt.Fprintln(out, "replay verified")

	if store, err := storage.Open(flagDBPath); err == nil {
		printStoredScore(out, store, rec.SessionID, final.Snapshot.Grid.Key())
		store.Close()
	}
	return nil
}

// scoreLookup is the part of the score store a replay report reads.
type scoreLookup interface {
	ScoreBySession(sessionID string) (*storage.ScoreEntry, error)
	HighScore(gridKey string) (int, error)
}

// printStoredScore reports the score saved for the session, if any, next to
// the board's best.
func printStoredScore(out io.Writer, store scoreLookup, sessionID, gridKey string) {
	entry, err := store.ScoreBySession(sessionID)
	if err != nil || entry == nil {
		return
	}
	best, err := store.HighScore(gridKey)
	if err != nil {
		return
	}
	fmt.Fprintf(out, "stored score %d  board best %d\n", entry.Score, best)
}
