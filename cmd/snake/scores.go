package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores [WxH]",
	Short: "Show high scores for a board",
	Long: `Display the top 10 high scores for a board. Boards are keyed by
grid size; without an argument the configured grid is used.

Examples:
  snake scores
  snake scores 30x20
  snake scores 20x15 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete every score of the board")
}

func runScores(_ *cobra.Command, args []string) {
	gridKey := currentSettings().Grid.Size().Key()
	if len(args) == 1 {
		gridKey = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearScores(gridKey); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared scores for %s\n", gridKey)
		return
	}

	scores, err := store.TopScores(gridKey, storage.DefaultLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", gridKey)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-6s  %-6s  %-11s  %-14s  %s\n", "Rank", "Score", "Length", "Moves", "Outcome", "Variant", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-6s  %-11s  %-14s  %s\n", "----", "-----", "------", "-----", "-------", "-------", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-6d  %-6d  %-6d  %-11s  %-14s  %s\n",
			i+1, e.Score, e.Length, e.Moves, e.Outcome, e.GameID, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetBoardStats(gridKey); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
}
