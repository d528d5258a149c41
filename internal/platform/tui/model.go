package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Options carries the collaborators of a running game. Every field is
// optional.
type Options struct {
	Store   *storage.Store
	Archive *replay.Archive
	Logger  *log.Logger
	// Player is attached to log lines, e.g. the SSH user.
	Player string
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	exitOnBack bool
	quitting   bool
	backToMenu bool
	recorded   bool // Whether the current game over has been stored
	newBest    bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleResize keeps the session running and only re-lays out the board.
// Games that cannot resize in place are restarted.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick runs one platform tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if !m.gameState.GameOver {
		m.recorded = false
		m.newBest = false
	} else if !m.recorded {
		m.recordSession()
		m.recorded = true
	}

	return m, tickCmd(m.config.TickRate)
}

// recordSession stores the score and the replay of a finished session.
// Both are best-effort: failures are logged and play goes on.
func (m *Model) recordSession() {
	g, ok := m.game.(*snake.Game)
	if !ok || g.Err() != nil {
		return
	}
	logger := m.opts.logger()

	rec := replay.FromGame(g)
	engine := g.Engine()
	logger.Info("game over",
		"player", m.opts.Player,
		"game", rec.GameID,
		"grid", rec.Settings.Grid.Key(),
		"score", engine.Score(),
		"outcome", g.LastOutcome(),
		"moves", len(rec.Moves),
	)

	if m.opts.Store != nil && engine.Score() > 0 {
		gridKey := rec.Settings.Grid.Key()
		best, err := m.opts.Store.IsHighScore(gridKey, engine.Score())
		if err != nil {
			logger.Warn("high score check failed", "error", err)
		}
		_, err = m.opts.Store.SaveScore(storage.ScoreRecord{
			SessionID: rec.SessionID,
			GameID:    rec.GameID,
			GridKey:   gridKey,
			Score:     engine.Score(),
			Length:    engine.Len(),
			Moves:     len(rec.Moves),
			Seed:      rec.Seed,
			Outcome:   g.LastOutcome().String(),
		})
		switch {
		case err != nil:
			logger.Warn("score not saved", "error", err)
		case best:
			m.newBest = true
			logger.Info("new high score", "player", m.opts.Player, "grid", gridKey, "score", engine.Score())
		}
	}

	if m.opts.Archive != nil && len(rec.Moves) > 0 {
		//nolint:errcheck // Archive.Save logs its own failures
		m.opts.Archive.Save(rec)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".snake", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.newBest && m.gameState.GameOver {
		m.screen.DrawTextCentered(m.screen.Height()-1, " New high score! ", core.ColorBrightYellow)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to leave the game.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game until the user quits or leaves it.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
