package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// fastGame returns a snake on a small board that moves on every tick.
func fastGame(t *testing.T) *snake.Game {
	t.Helper()
	cfg, err := config.DefaultSnakeConfig().WithGrid(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Speed = config.MaxSpeed
	cfg.Difficulty.Enabled = false

	g := snake.New()
	g.UseConfig(cfg)
	return g
}

func runtimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 99}
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(TickMsg{})
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

func TestModelRecordsFinishedSession(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	archive := replay.NewArchive(filepath.Join(dir, "replays"), log.New(io.Discard))

	m := NewModel(fastGame(t), runtimeConfig(), Options{Store: store, Archive: archive})
	m.Init()

	for i := 0; i < 20 && !m.gameState.GameOver; i++ {
		m = tick(t, m)
	}
	if !m.gameState.GameOver {
		t.Fatal("snake running straight should hit the wall within 20 ticks")
	}

	paths, err := archive.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("archive = %v, expected one replay", paths)
	}
	if _, err := replay.Verify(paths[0]); err != nil {
		t.Errorf("stored replay does not verify: %v", err)
	}

	// Further ticks on the same game over must not store it again.
	m = tick(t, m)
	m = tick(t, m)
	if paths, _ := archive.List(); len(paths) != 1 {
		t.Errorf("game over recorded %d times", len(paths))
	}
}

func TestModelPauseAndBack(t *testing.T) {
	m := NewModel(fastGame(t), runtimeConfig(), Options{})
	m.Init()

	next, _ := m.Update(runeKey("p"))
	m = next.(Model)
	m = tick(t, m)
	if !m.gameState.Paused {
		t.Fatal("p should pause the game")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if !m.BackToMenu() {
		t.Error("esc while paused should leave the game")
	}
	if cmd != nil {
		t.Error("an embedded game must not quit the program on back")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(fastGame(t), runtimeConfig(), Options{})
	m.Init()

	next, cmd := m.Update(runeKey("q"))
	m = next.(Model)
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("a quitting model renders nothing")
	}
}

func TestModelResizeKeepsSession(t *testing.T) {
	g := fastGame(t)
	m := NewModel(g, runtimeConfig(), Options{})
	m.Init()
	m = tick(t, m)
	head := g.Engine().Head()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	if g.Engine().Head() != head {
		t.Error("resizing must not restart the session")
	}
	if !strings.Contains(m.View(), "Score") {
		t.Error("view should show the HUD")
	}
}

// seedWithFoodAhead finds a seed whose first food lies straight ahead of the
// snake, so running right scores at least once.
func seedWithFoodAhead(t *testing.T) int64 {
	t.Helper()
	for seed := int64(1); seed < 1000; seed++ {
		g := fastGame(t)
		rt := runtimeConfig()
		rt.Seed = seed
		g.Reset(rt)
		head, food := g.Engine().Head(), g.Engine().Food()
		if food.Y == head.Y && food.X > head.X {
			return seed
		}
	}
	t.Fatal("no seed puts food ahead of the snake")
	return 0
}

func TestModelFlagsNewHighScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	rt := runtimeConfig()
	rt.Seed = seedWithFoodAhead(t)

	play := func() Model {
		m := NewModel(fastGame(t), rt, Options{Store: store})
		m.Init()
		for i := 0; i < 20 && !m.gameState.GameOver; i++ {
			m = tick(t, m)
		}
		if !m.gameState.GameOver || m.gameState.Score == 0 {
			t.Fatalf("expected a scoring game over, got %+v", m.gameState)
		}
		return m
	}

	first := play()
	if !first.newBest {
		t.Error("the first score of a board is a high score")
	}
	first.View()
	if !strings.Contains(first.screen.String(), "New high score!") {
		t.Error("game over view should announce the high score")
	}
	best, err := store.HighScore("8x8")
	if err != nil || best != first.gameState.Score {
		t.Errorf("HighScore = %d, %v; expected %d", best, err, first.gameState.Score)
	}

	// Same seed, same score: a tie is not a new best.
	second := play()
	if second.newBest {
		t.Error("tying the best score is not a new high score")
	}
	second.View()
	if strings.Contains(second.screen.String(), "New high score!") {
		t.Error("no announcement expected for a tie")
	}
}
