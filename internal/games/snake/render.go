package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

const hudHeight = 2

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	if g.err != nil {
		g.renderOverlay(dst, "Cannot start", g.err.Error())
		return
	}
	if g.tooSmall {
		grid := g.cfg.Grid.Size()
		g.renderOverlay(dst, "Window too small",
			fmt.Sprintf("Need %dx%d", grid.Width+2, hudHeight+grid.Height+2))
		return
	}

	board := g.boardRect()
	dst.DrawBox(board, core.ColorGray)

	for _, f := range g.state.Foods() {
		dst.SetColored(board.X+1+f.Pos.X, board.Y+1+f.Pos.Y, f.Kind.Glyph(), foodColor(f.Kind))
	}
	if p, ok := g.state.Pickup(); ok {
		dst.SetColored(board.X+1+p.Pos.X, board.Y+1+p.Pos.Y, p.Kind.Glyph(), core.ColorCyan)
	}

	for i, p := range g.state.Body() {
		if i == 0 {
			dst.SetColored(board.X+1+p.X, board.Y+1+p.Y, '@', core.ColorBrightGreen)
		} else {
			dst.SetColored(board.X+1+p.X, board.Y+1+p.Y, 'o', core.ColorGreen)
		}
	}

	switch g.state.Status() {
	case StatusOver:
		g.renderOverlay(dst, gameOverTitle(g.last), "Press R to restart")
	case StatusPaused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// boardRect is the bordered playfield, centered below the HUD.
func (g *Game) boardRect() core.Rect {
	grid := g.cfg.Grid.Size()
	w, h := grid.Width+2, grid.Height+2
	area := core.NewRect(0, hudHeight, g.screenW, g.screenH-hudHeight)
	return area.Centered(w, h)
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	score, length := 0, 0
	if g.state != nil {
		score, length = g.state.Score(), g.state.Len()
	}

	hud := fmt.Sprintf(" %s | Score: %d  Length: %d  Grid: %s", g.variant.Title, score, length, g.cfg.Grid.Size().Key())
	if g.state != nil {
		if kind, left := g.state.ActivePowerUp(); kind != PowerUpNone {
			hud += fmt.Sprintf("  %s: %d", kind, left)
		}
	}
	dst.DrawTextColored(0, 0, hud, core.ColorYellow)
	if g.state != nil && g.state.GameOver() {
		dst.DrawTextColored(len(hud)+2, 0, "GAME OVER", core.ColorBrightRed)
	}

	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := dst.Bounds().Centered(boxW, 5)

	inner := core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2)
	dst.DrawRect(inner, ' ')
	dst.DrawBox(box, core.ColorCyan)
	dst.DrawTextCentered(box.Y+1, line1, core.ColorBrightYellow)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorDefault)
}

func gameOverTitle(o Outcome) string {
	switch o {
	case OutcomeHitWall:
		return "Game Over: hit the wall"
	case OutcomeHitSelf:
		return "Game Over: bit yourself"
	case OutcomeBoardFull:
		return "Board full. You win!"
	default:
		return "Game Over"
	}
}

// Glyph is the character a food of this kind is drawn with.
func (k FoodKind) Glyph() rune {
	switch k {
	case FoodGolden:
		return '$'
	case FoodSpecial:
		return '%'
	default:
		return '*'
	}
}

// Glyph is the character a pick-up of this kind is drawn with.
func (k PowerUpKind) Glyph() rune {
	if k == PowerUpSlow {
		return '-'
	}
	return '+'
}

func foodColor(k FoodKind) core.Color {
	switch k {
	case FoodGolden:
		return core.ColorBrightYellow
	case FoodSpecial:
		return core.ColorCyan
	default:
		return core.ColorBrightRed
	}
}
