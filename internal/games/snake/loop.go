package snake

import (
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

// Input supplies the direction the player wants for the next move.
type Input interface {
	CurrentDirection() core.Direction
}

// Time advances the session clock once per update.
type Time interface {
	Tick() core.Tick
}

// Loop wires an Input and a Time to Step. It does no frame pacing; the
// caller decides how often Update runs.
type Loop struct {
	Input Input
	Time  Time

	last core.Tick
}

// NewLoop returns a loop over the given ports.
func NewLoop(in Input, t Time) *Loop {
	return &Loop{Input: in, Time: t}
}

// Update reads the input, advances the state and ticks the clock exactly
// once, whether or not the state moved.
func (l *Loop) Update(s *GameState, r rng.Source) Outcome {
	out := Advance(s, l.Input.CurrentDirection(), r)
	l.last = l.Time.Tick()
	return out
}

// LastTick returns the value of the most recent Tick.
func (l *Loop) LastTick() core.Tick {
	return l.last
}

// CounterTime counts updates. The first Tick returns 1.
type CounterTime struct {
	now core.Tick
}

func (c *CounterTime) Tick() core.Tick {
	c.now++
	return c.now
}

// Now returns the current count without advancing it.
func (c *CounterTime) Now() core.Tick {
	return c.now
}

// KeyInput turns key presses into directions. The last steering key of a
// frame wins, and a key that would reverse the settled direction is dropped
// here so it cannot overwrite an earlier valid press in the same frame.
type KeyInput struct {
	settled core.Direction
	pending core.Direction
}

// NewKeyInput starts facing the given direction.
func NewKeyInput(initial core.Direction) *KeyInput {
	return &KeyInput{settled: initial, pending: initial}
}

// Apply feeds one frame of actions.
func (k *KeyInput) Apply(frame core.InputFrame) {
	dir, ok := frame.Steer()
	if !ok || dir.IsOpposite(k.settled) {
		return
	}
	k.pending = dir
}

// Settle records the direction the snake actually took.
func (k *KeyInput) Settle(d core.Direction) {
	k.settled = d
	k.pending = d
}

func (k *KeyInput) CurrentDirection() core.Direction {
	return k.pending
}

// ScriptedInput replays a fixed list of directions, one per update. When the
// script runs out it repeats the last entry, or follows the snake when
// Follow is set.
type ScriptedInput struct {
	Script []core.Direction
	// Follow returns the snake's direction once the script is exhausted.
	Follow func() core.Direction

	pos int
}

// Straight returns an input that always keeps the snake's current heading.
func Straight(s *GameState) *ScriptedInput {
	return &ScriptedInput{Follow: s.Direction}
}

func (in *ScriptedInput) CurrentDirection() core.Direction {
	if in.pos < len(in.Script) {
		d := in.Script[in.pos]
		in.pos++
		return d
	}
	if in.Follow != nil {
		return in.Follow()
	}
	if len(in.Script) > 0 {
		return in.Script[len(in.Script)-1]
	}
	return core.DirRight
}
