// Package replay records snake sessions and re-simulates them. A session is
// fully described by its seed, its settings and the direction fed to the
// engine on every update, so the per-tick state never has to be trusted:
// it can always be recomputed and compared.
package replay

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

// ErrMismatch is returned when stored frames disagree with a re-simulation.
var ErrMismatch = errors.New("replay mismatch")

// Recording is everything needed to reproduce a session.
type Recording struct {
	SessionID string
	GameID    string
	Seed      uint64
	Settings  snake.Settings
	Moves     []core.Direction
}

// Frame is the state after one update. Frame 0 is the freshly built state
// and carries no move.
type Frame struct {
	Snapshot snake.Snapshot
	Move     core.Direction
	HasMove  bool
	Outcome  snake.Outcome
}

// FromGame captures the session currently running in g.
func FromGame(g *snake.Game) Recording {
	return Recording{
		SessionID: uuid.New().String(),
		GameID:    g.ID(),
		Seed:      g.Seed(),
		Settings:  g.Settings(),
		Moves:     g.Moves(),
	}
}

// Simulate replays the recording from scratch and returns one frame per
// update, plus the initial frame.
func (r Recording) Simulate() ([]Frame, error) {
	src := rng.New(r.Seed)
	s, err := snake.NewGameState(r.Settings, src)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	frames := make([]Frame, 0, len(r.Moves)+1)
	frames = append(frames, Frame{Snapshot: s.Snapshot(0)})

	loop := snake.NewLoop(&snake.ScriptedInput{Script: r.Moves}, &snake.CounterTime{})
	for _, move := range r.Moves {
		out := loop.Update(s, src)
		frames = append(frames, Frame{
			Snapshot: s.Snapshot(loop.LastTick()),
			Move:     move,
			HasMove:  true,
			Outcome:  out,
		})
	}
	return frames, nil
}

// DefaultMaxUpdates bounds a Record run when Options leaves it unset, since a
// snake on wrapping walls can circle forever.
const DefaultMaxUpdates = 100_000

// Options controls Record.
type Options struct {
	// MaxUpdates bounds the run. Zero means DefaultMaxUpdates.
	MaxUpdates int
	// Verify checks every invariant after each update.
	Verify bool
}

// Record drives a fresh session with in until it ends or the update budget
// runs out, logging every direction read. An empty ScriptedInput without
// Follow keeps the snake's heading.
func Record(settings snake.Settings, seed uint64, in snake.Input, opts Options) (Recording, []Frame, error) {
	rec := Recording{
		SessionID: uuid.New().String(),
		GameID:    snake.VariantID(settings),
		Seed:      seed,
		Settings:  settings,
	}

	src := rng.New(seed)
	s, err := snake.NewGameState(settings, src)
	if err != nil {
		return rec, nil, fmt.Errorf("replay: %w", err)
	}

	frames := []Frame{{Snapshot: s.Snapshot(0)}}
	capture := &capturingInput{in: in}
	if straight, ok := in.(*snake.ScriptedInput); ok && straight.Follow == nil && len(straight.Script) == 0 {
		straight.Follow = s.Direction
	}
	loop := snake.NewLoop(capture, &snake.CounterTime{})

	limit := opts.MaxUpdates
	if limit <= 0 {
		limit = DefaultMaxUpdates
	}
	for i := 0; i < limit && !s.GameOver(); i++ {
		out := loop.Update(s, src)
		frames = append(frames, Frame{
			Snapshot: s.Snapshot(loop.LastTick()),
			Move:     capture.last,
			HasMove:  true,
			Outcome:  out,
		})
		if opts.Verify {
			if err := s.CheckInvariants(); err != nil {
				rec.Moves = capture.moves
				return rec, frames, fmt.Errorf("replay: tick %d: %w", loop.LastTick(), err)
			}
		}
	}

	rec.Moves = capture.moves
	return rec, frames, nil
}

type capturingInput struct {
	in    snake.Input
	moves []core.Direction
	last  core.Direction
}

func (c *capturingInput) CurrentDirection() core.Direction {
	c.last = c.in.CurrentDirection()
	c.moves = append(c.moves, c.last)
	return c.last
}
