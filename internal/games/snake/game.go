package snake

import (
	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

// shared is the config games start from unless given their own.
var shared = func() *config.Store {
	st, err := config.NewStore(config.DefaultSnakeConfig())
	if err != nil {
		panic(err)
	}
	return st
}()

// SetConfig validates cfg and makes it the config of every later Reset
// that has no config of its own. Invalid settings keep the previous ones.
func SetConfig(cfg config.SnakeConfig) error {
	return shared.Update(cfg)
}

// SharedStore returns the store SetConfig writes to.
func SharedStore() *config.Store {
	return shared
}

// SettingsFromConfig extracts the engine settings from a loaded config.
func SettingsFromConfig(cfg config.SnakeConfig) Settings {
	return Settings{
		Grid:          cfg.Grid.Size(),
		InitialLength: cfg.InitialLength,
		WrapWalls:     cfg.WrapWalls,
		Feast:         cfg.Feast,
		PowerUps:      cfg.PowerUps,
	}
}

// Variant is a registered rule set layered over the configured settings.
type Variant struct {
	ID       string
	Title    string
	Wrap     bool
	Feast    bool
	PowerUps bool
}

// Variants lists every registered flavour of the game. The first one plays
// the configured settings unchanged.
var Variants = []Variant{
	{ID: "snake", Title: "Snake"},
	{ID: "snake_wrap", Title: "Snake (Wrap Walls)", Wrap: true},
	{ID: "snake_feast", Title: "Snake (Feast)", Feast: true},
	{ID: "snake_powerups", Title: "Snake (Power-Ups)", PowerUps: true},
}

func (v Variant) apply(cfg *config.SnakeConfig) {
	cfg.WrapWalls = cfg.WrapWalls || v.Wrap
	cfg.Feast = cfg.Feast || v.Feast
	cfg.PowerUps = cfg.PowerUps || v.PowerUps
}

// VariantID names the variant a set of engine settings belongs to.
func VariantID(s Settings) string {
	switch {
	case s.PowerUps:
		return "snake_powerups"
	case s.Feast:
		return "snake_feast"
	case s.WrapWalls:
		return "snake_wrap"
	default:
		return "snake"
	}
}

const defaultTickRate = 60

// Game adapts the engine to the platform: it paces moves against the
// platform tick, maps key frames to directions and draws the board.
type Game struct {
	variant Variant

	cfg        config.SnakeConfig
	store      *config.Store
	override   *config.SnakeConfig
	difficulty *config.DifficultyManager
	seed       uint64
	rng        *rng.Seeded
	state      *GameState
	input      *KeyInput
	clock      *CounterTime
	loop       *Loop
	moves      []core.Direction
	last       Outcome
	err        error

	tickRate   int
	tick       uint64
	moveTicker int

	screenW  int
	screenH  int
	tooSmall bool
}

// NewVariant creates a game playing the given variant.
func NewVariant(v Variant) *Game {
	return &Game{variant: v}
}

// New creates a classic Snake game with solid walls.
func New() *Game {
	return NewVariant(Variants[0])
}

// NewWrap creates a Snake game whose walls wrap around.
func NewWrap() *Game {
	return NewVariant(Variants[1])
}

func init() {
	for _, v := range Variants {
		registry.Register(v.ID, func() registry.Game {
			return NewVariant(v)
		})
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.variant.Title
}

// UseStore makes every later Reset read its config from st.
func (g *Game) UseStore(st *config.Store) {
	g.store = st
}

// UseConfig pins the config of this game, ahead of any store.
// It takes effect on the next Reset.
func (g *Game) UseConfig(cfg config.SnakeConfig) {
	g.override = &cfg
}

// Reset starts a new session from the current config and the given seed.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	switch {
	case g.override != nil:
		g.cfg = *g.override
	case g.store != nil:
		g.cfg = g.store.Get()
	default:
		g.cfg = shared.Get()
	}
	g.variant.apply(&g.cfg)
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)

	g.seed = uint64(cfg.Seed)
	g.rng = rng.New(g.seed)
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = defaultTickRate
	}
	g.tick = 0
	g.moveTicker = 0
	g.moves = g.moves[:0]
	g.last = OutcomeNone

	g.state, g.err = NewGameState(SettingsFromConfig(g.cfg), g.rng)
	g.input = NewKeyInput(core.DirRight)
	g.clock = &CounterTime{}
	g.loop = NewLoop(recordedInput{g}, g.clock)

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize re-lays out the board for a new terminal size without touching
// the session.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	grid := g.cfg.Grid.Size()
	g.tooSmall = width < grid.Width+2 || height < hudHeight+grid.Height+2
}

// Step advances the game by one platform tick. The snake moves once every
// few ticks, depending on speed and difficulty.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	if g.err != nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) && g.state.GameOver() {
		g.Reset(core.RuntimeConfig{
			Seed:     int64(g.nextSeed()),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.state.TogglePause()
	}
	g.input.Apply(in)

	if g.tooSmall || g.state.Status() != StatusRunning {
		return core.StepResult{State: g.State()}
	}

	g.moveTicker++
	if g.moveTicker < g.MoveInterval() {
		return core.StepResult{State: g.State()}
	}
	g.moveTicker = 0
	g.last = g.loop.Update(g.state, g.rng)
	g.input.Settle(g.state.Direction())

	return core.StepResult{State: g.State(), Moved: true}
}

// MoveInterval returns the platform ticks between two moves right now.
func (g *Game) MoveInterval() int {
	score := 0
	if g.state != nil {
		score = g.state.Score()
	}
	return g.difficulty.MoveInterval(float64(g.cfg.Speed), g.tickRate, score, int(g.clock.Now()))
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.err != nil || g.state == nil {
		return core.GameState{GameOver: true}
	}
	return core.GameState{
		Score:    g.state.Score(),
		GameOver: g.state.GameOver(),
		Paused:   g.state.Paused(),
	}
}

// Engine exposes the running session read-only for tests and recorders.
func (g *Game) Engine() *GameState {
	return g.state
}

// Err returns the error from the last Reset, if the board could not be set up.
func (g *Game) Err() error {
	return g.err
}

// Seed returns the seed of the current session.
func (g *Game) Seed() uint64 {
	return g.seed
}

// Settings returns the engine settings of the current session.
func (g *Game) Settings() Settings {
	return SettingsFromConfig(g.cfg)
}

// Moves returns the direction fed to the engine on every move so far.
func (g *Game) Moves() []core.Direction {
	out := make([]core.Direction, len(g.moves))
	copy(out, g.moves)
	return out
}

// LastOutcome returns the result of the most recent move.
func (g *Game) LastOutcome() Outcome {
	return g.last
}

// nextSeed derives the seed of the next session from the current stream.
func (g *Game) nextSeed() uint64 {
	return uint64(g.rng.Next())<<32 | uint64(g.rng.Next())
}

// recordedInput logs every direction the loop reads.
type recordedInput struct {
	g *Game
}

func (r recordedInput) CurrentDirection() core.Direction {
	d := r.g.input.CurrentDirection()
	r.g.moves = append(r.g.moves, d)
	return d
}
