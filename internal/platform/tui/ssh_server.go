package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.snake/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// ReplayDir receives one replay file per finished session. Empty
	// disables replays.
	ReplayDir string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Snake is the config every session starts from.
	Snake config.SnakeConfig

	// Logger receives server and session events. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.snake/scores.db",
		IdleTimeout: 30 * time.Minute,
		Snake:       config.DefaultSnakeConfig(),
	}
}

// SSHServer serves snake sessions over SSH with Wish.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	configs *config.Store
	store   *storage.Store
	archive *replay.Archive
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake-ssh",
		})
	}

	configs, err := config.NewStore(cfg.Snake)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config:  cfg,
		configs: configs,
		store:   store,
		logger:  logger,
	}
	if cfg.ReplayDir != "" {
		srv.archive = replay.NewArchive(cfg.ReplayDir, logger)
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".snake", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}
	opts := Options{
		Store:   s.store,
		Archive: s.archive,
		Logger:  s.logger,
		Player:  sshSession.User(),
	}

	return NewSessionModel(cfg, s.configs, opts), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Configs returns the settings store sessions start from. Updating it
// affects games started afterwards.
func (s *SSHServer) Configs() *config.Store {
	return s.configs
}

type sessionPhase int

const (
	phaseMenu sessionPhase = iota
	phasePreset
	phaseGame
	phaseScores
)

// SessionModel runs the full flow of one SSH session:
// menu -> difficulty -> game -> menu, with the scoreboard off the menu.
type SessionModel struct {
	config   core.RuntimeConfig
	configs  *config.Store
	opts     Options
	phase    sessionPhase
	gameID   string
	menu     MenuModel
	preset   PresetModel
	game     Model
	scores   ScoreboardModel
	quitting bool
}

// NewSessionModel creates a session that starts at the menu.
func NewSessionModel(cfg core.RuntimeConfig, configs *config.Store, opts Options) SessionModel {
	return SessionModel{
		config:  cfg,
		configs: configs,
		opts:    opts,
		menu:    NewMenuModel(cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.phase {
	case phasePreset:
		return m.updatePreset(msg)
	case phaseGame:
		return m.updateGame(msg)
	case phaseScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.menu.WantsScoreboard():
		m.phase = phaseScores
		m.scores = NewScoreboardModel(m.opts.Store, m.configs.Get().Grid.Size().Key(), m.config.ScreenW, m.config.ScreenH)
		m.scores.embedded = true
		return m, m.scores.Init()
	case m.menu.Selected() != nil:
		m.gameID = m.menu.Selected().GameID
		m.phase = phasePreset
		m.preset = NewPresetModel(m.config.ScreenW, m.config.ScreenH)
		return m, m.preset.Init()
	}
	return m, cmd
}

func (m SessionModel) updatePreset(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.preset.Update(msg)
	if preset, ok := next.(PresetModel); ok {
		m.preset = preset
	}

	switch {
	case m.preset.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.preset.WantsBack():
		return m.backToMenu()
	case m.preset.Selected() != nil:
		return m.startGame(*m.preset.Selected())
	}
	return m, cmd
}

func (m SessionModel) startGame(preset config.DifficultyPreset) (tea.Model, tea.Cmd) {
	game, err := registry.Create(m.gameID)
	if err != nil {
		m.opts.logger().Error("cannot create game", "game", m.gameID, "error", err)
		return m.backToMenu()
	}

	cfg := m.configs.Get()
	config.ApplySnakePreset(&cfg, preset)
	if sg, ok := game.(*snake.Game); ok {
		sg.UseConfig(cfg)
	}

	m.config.Seed = time.Now().UnixNano()
	m.game = NewModel(game, m.config, m.opts)
	m.phase = phaseGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.phase = phaseMenu
	m.gameID = ""
	m.menu = NewMenuModel(m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phasePreset:
		return m.preset.View()
	case phaseGame:
		return m.game.View()
	case phaseScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}
