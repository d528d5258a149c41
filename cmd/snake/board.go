package main

import (
	"fmt"
	"io"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// drawBoard renders a snapshot as plain text inside a box.
func drawBoard(sn snake.Snapshot) string {
	w, h := sn.Grid.Width, sn.Grid.Height
	screen := core.NewScreen(w+2, h+2)
	screen.DrawBox(core.NewRect(0, 0, w+2, h+2), core.ColorDefault)

	for _, f := range sn.Foods {
		screen.Set(f.Pos.X+1, f.Pos.Y+1, f.Kind.Glyph())
	}
	if sn.HasFood && len(sn.Foods) == 0 {
		screen.Set(sn.Food.X+1, sn.Food.Y+1, snake.FoodNormal.Glyph())
	}
	if sn.HasPickup {
		screen.Set(sn.Pickup.Pos.X+1, sn.Pickup.Pos.Y+1, sn.Pickup.Kind.Glyph())
	}
	for i, p := range sn.Body {
		ch := 'o'
		if i == 0 {
			ch = '@'
		}
		screen.Set(p.X+1, p.Y+1, ch)
	}
	return screen.String()
}

func printSummary(out io.Writer, sn snake.Snapshot, outcome snake.Outcome) {
	walls := "solid"
	if sn.WrapWalls {
		walls = "wrap"
	}
	fmt.Fprintf(out, "tick %d  grid %s  walls %s\n", sn.Tick, sn.Grid.Key(), walls)
	fmt.Fprintf(out, "status %s  outcome %s  score %d  length %d  heading %s\n",
		sn.Status, outcome, sn.Score, len(sn.Body), sn.Dir)
	if sn.Feast {
		fmt.Fprintf(out, "foods %d\n", len(sn.Foods))
	}
	if sn.Active != snake.PowerUpNone {
		fmt.Fprintf(out, "effect %s  %d updates left\n", sn.Active, sn.ActiveLeft)
	}
}
