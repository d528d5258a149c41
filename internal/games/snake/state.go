// Package snake implements the deterministic snake engine: the game state,
// the transition rules and the ports through which a session is driven.
// Nothing here reads the clock, the OS random source or the terminal.
package snake

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

var (
	// ErrInvalidArgument reports a non-positive grid dimension or length.
	ErrInvalidArgument = rng.ErrInvalidArgument
	// ErrGridTooSmall reports that the snake or its food does not fit.
	ErrGridTooSmall = errors.New("grid too small")
)

// NoFood is the food position once the board is full.
var NoFood = core.Position{X: -1, Y: -1}

// DefaultInitialLength is the length of a freshly spawned snake.
const DefaultInitialLength = 3

// Status is the lifecycle of a session.
type Status int

const (
	StatusRunning Status = iota
	StatusPaused
	StatusOver
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusOver:
		return "over"
	default:
		return "unknown"
	}
}

// Settings fixes the shape of a session.
type Settings struct {
	Grid          core.GridSize
	InitialLength int
	WrapWalls     bool
	// Feast keeps several foods of mixed worth on the board.
	Feast bool
	// PowerUps lets Fast and Slow pick-ups appear.
	PowerUps bool
}

// DefaultSettings returns a 10x10 board with a snake of length 3.
func DefaultSettings() Settings {
	return Settings{
		Grid:          core.GridSize{Width: 10, Height: 10},
		InitialLength: DefaultInitialLength,
	}
}

// GameState is one snake session. It is mutated in place by Step.
type GameState struct {
	settings Settings
	body     *Body
	dir      core.Direction
	foods    []Food
	score    int
	eaten    int
	status   Status

	pickup    Pickup
	hasPickup bool
	active    PowerUpKind
	left      int
	slowSkip  bool
}

// NewGameState spawns the snake at the grid center facing right, with the
// body trailing to the left, and places the first food. Feast boards get
// several.
func NewGameState(settings Settings, r rng.Source) (*GameState, error) {
	g := settings.Grid
	if !g.Valid() {
		return nil, fmt.Errorf("snake: grid %dx%d: %w", g.Width, g.Height, ErrInvalidArgument)
	}
	if settings.InitialLength < 1 {
		return nil, fmt.Errorf("snake: initial length %d: %w", settings.InitialLength, ErrInvalidArgument)
	}

	head := g.Center()
	tail := core.Position{X: head.X - (settings.InitialLength - 1), Y: head.Y}
	if !g.Contains(tail) {
		return nil, fmt.Errorf("snake: length %d on %s: %w", settings.InitialLength, g.Key(), ErrGridTooSmall)
	}

	s := &GameState{
		settings: settings,
		body:     NewBody(g),
		dir:      core.DirRight,
		status:   StatusRunning,
	}
	for x := tail.X; x <= head.X; x++ {
		s.body.PushFront(core.Position{X: x, Y: head.Y})
	}

	if !s.spawnInitialFoods(r) {
		return nil, fmt.Errorf("snake: no free cell for food on %s: %w", g.Key(), ErrGridTooSmall)
	}
	return s, nil
}

// Reset replaces the session with a fresh one on the same settings.
// It is the only way out of StatusOver.
func (s *GameState) Reset(r rng.Source) error {
	fresh, err := NewGameState(s.settings, r)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// Pause suspends a running session.
func (s *GameState) Pause() {
	if s.status == StatusRunning {
		s.status = StatusPaused
	}
}

// Resume continues a paused session.
func (s *GameState) Resume() {
	if s.status == StatusPaused {
		s.status = StatusRunning
	}
}

// TogglePause flips between running and paused. It does nothing once over.
func (s *GameState) TogglePause() {
	switch s.status {
	case StatusRunning:
		s.status = StatusPaused
	case StatusPaused:
		s.status = StatusRunning
	}
}

// Settings returns the settings the session was built with.
func (s *GameState) Settings() Settings {
	return s.settings
}

// Grid returns the fixed playfield size.
func (s *GameState) Grid() core.GridSize {
	return s.settings.Grid
}

// WrapWalls reports whether the head re-enters at the opposite edge.
func (s *GameState) WrapWalls() bool {
	return s.settings.WrapWalls
}

// Direction returns the current direction of travel.
func (s *GameState) Direction() core.Direction {
	return s.dir
}

// Score sums the worth of the food eaten since construction. On a classic
// board every food is worth one point.
func (s *GameState) Score() int {
	return s.score
}

// Eaten counts the food eaten since construction.
func (s *GameState) Eaten() int {
	return s.eaten
}

// Status returns the lifecycle state.
func (s *GameState) Status() Status {
	return s.status
}

// GameOver reports whether the session has ended.
func (s *GameState) GameOver() bool {
	return s.status == StatusOver
}

// Paused reports whether the session is suspended.
func (s *GameState) Paused() bool {
	return s.status == StatusPaused
}

// Len returns the snake length.
func (s *GameState) Len() int {
	return s.body.Len()
}

// Head returns the first segment.
func (s *GameState) Head() core.Position {
	return s.body.Front()
}

// HasFood is false only after the board filled up.
func (s *GameState) HasFood() bool {
	return len(s.foods) > 0
}

// Food returns the first food cell, or NoFood after the board filled up.
func (s *GameState) Food() core.Position {
	if len(s.foods) == 0 {
		return NoFood
	}
	return s.foods[0].Pos
}

// Foods returns a copy of every food on the board.
func (s *GameState) Foods() []Food {
	return slices.Clone(s.foods)
}

// Pickup returns the power-up waiting on the board, if any.
func (s *GameState) Pickup() (Pickup, bool) {
	return s.pickup, s.hasPickup
}

// ActivePowerUp returns the effect in force and the updates it has left.
func (s *GameState) ActivePowerUp() (PowerUpKind, int) {
	return s.active, s.left
}

// Body returns a copy of the segments, head first.
func (s *GameState) Body() []core.Position {
	return s.body.Positions()
}

// Occupied reports whether a snake segment covers p.
func (s *GameState) Occupied(p core.Position) bool {
	return s.body.Contains(p)
}

// Clone returns an independent copy of the session.
func (s *GameState) Clone() *GameState {
	c := *s
	c.body = s.body.Clone()
	c.foods = slices.Clone(s.foods)
	return &c
}

// CheckInvariants returns the first broken invariant, or nil.
func (s *GameState) CheckInvariants() error {
	g := s.settings.Grid
	n := s.body.Len()
	if n == 0 {
		return errors.New("snake: empty body")
	}

	seen := make(map[core.Position]int, n)
	for i := 0; i < n; i++ {
		p := s.body.At(i)
		if !g.Contains(p) {
			return fmt.Errorf("snake: segment %d at %s is outside %s", i, p, g.Key())
		}
		if j, dup := seen[p]; dup {
			return fmt.Errorf("snake: segments %d and %d overlap at %s", j, i, p)
		}
		seen[p] = i
		if !s.body.Contains(p) {
			return fmt.Errorf("snake: occupancy map misses segment %d at %s", i, p)
		}
		if i > 0 && !s.adjacent(s.body.At(i-1), p) {
			return fmt.Errorf("snake: segments %d and %d are not adjacent", i-1, i)
		}
	}

	for i, f := range s.foods {
		if !g.Contains(f.Pos) {
			return fmt.Errorf("snake: food %s is outside %s", f.Pos, g.Key())
		}
		if s.body.Contains(f.Pos) {
			return fmt.Errorf("snake: food %s is on the snake", f.Pos)
		}
		for _, other := range s.foods[:i] {
			if other.Pos == f.Pos {
				return fmt.Errorf("snake: two foods at %s", f.Pos)
			}
		}
		if s.hasPickup && s.pickup.Pos == f.Pos {
			return fmt.Errorf("snake: food and pick-up share %s", f.Pos)
		}
	}
	if len(s.foods) == 0 && s.status != StatusOver {
		return fmt.Errorf("snake: food missing while %s", s.status)
	}
	if !s.settings.Feast {
		if len(s.foods) > 1 {
			return fmt.Errorf("snake: %d foods on a single-food board", len(s.foods))
		}
		if s.score != s.eaten {
			return fmt.Errorf("snake: score %d after eating %d plain foods", s.score, s.eaten)
		}
	}

	if s.hasPickup {
		if !s.settings.PowerUps {
			return errors.New("snake: pick-up on a board without power-ups")
		}
		if !g.Contains(s.pickup.Pos) || s.body.Contains(s.pickup.Pos) {
			return fmt.Errorf("snake: pick-up misplaced at %s", s.pickup.Pos)
		}
	}
	if (s.active == PowerUpNone) != (s.left == 0) || s.left < 0 || s.left > PowerUpDuration {
		return fmt.Errorf("snake: power-up %s with %d updates left", s.active, s.left)
	}

	if want := s.settings.InitialLength + s.eaten; n != want {
		return fmt.Errorf("snake: length %d after eating %d, expected %d", n, s.eaten, want)
	}
	return nil
}

func (s *GameState) adjacent(a, b core.Position) bool {
	dx, dy := core.Abs(a.X-b.X), core.Abs(a.Y-b.Y)
	if s.settings.WrapWalls {
		g := s.settings.Grid
		dx = min(dx, g.Width-dx)
		dy = min(dy, g.Height-dy)
	}
	return dx+dy == 1
}
