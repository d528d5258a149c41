package snake

import (
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

type fixedInput core.Direction

func (f fixedInput) CurrentDirection() core.Direction {
	return core.Direction(f)
}

// recordingTime counts Tick calls.
type recordingTime struct {
	calls int
}

func (r *recordingTime) Tick() core.Tick {
	r.calls++
	return core.Tick(r.calls * 10)
}

func TestCounterTimeStartsAtOne(t *testing.T) {
	var c CounterTime
	if c.Now() != 0 {
		t.Fatalf("Now() = %d before any tick", c.Now())
	}
	for want := core.Tick(1); want <= 3; want++ {
		if got := c.Tick(); got != want {
			t.Errorf("Tick() = %d, expected %d", got, want)
		}
	}
}

func TestLoopTicksOncePerUpdate(t *testing.T) {
	r := foodAt(0, 0)
	s := newState(t, DefaultSettings(), r)
	clock := &recordingTime{}
	loop := NewLoop(fixedInput(core.DirUp), clock)

	if out := loop.Update(s, r); out != OutcomeMoved {
		t.Fatalf("Update = %v, expected moved", out)
	}
	if s.Direction() != core.DirUp {
		t.Errorf("Update should steer from Input, direction %v", s.Direction())
	}
	if clock.calls != 1 || loop.LastTick() != 10 {
		t.Errorf("calls %d last %d", clock.calls, loop.LastTick())
	}

	for !s.GameOver() {
		loop.Update(s, r)
	}
	calls := clock.calls

	// Time keeps advancing after the game ends.
	if out := loop.Update(s, r); out != OutcomeNone {
		t.Errorf("Update after game over = %v", out)
	}
	if clock.calls != calls+1 {
		t.Errorf("Tick should run on every update, calls %d", clock.calls)
	}
}

func TestScriptedInput(t *testing.T) {
	in := &ScriptedInput{Script: []core.Direction{core.DirUp, core.DirLeft}}

	want := []core.Direction{core.DirUp, core.DirLeft, core.DirLeft, core.DirLeft}
	for i, w := range want {
		if got := in.CurrentDirection(); got != w {
			t.Errorf("call %d = %v, expected %v", i, got, w)
		}
	}

	empty := &ScriptedInput{}
	if empty.CurrentDirection() != core.DirRight {
		t.Error("empty script should default to right")
	}
}

func TestScriptedInputFollows(t *testing.T) {
	r := foodAt(0, 0)
	s := newState(t, DefaultSettings(), r)
	in := &ScriptedInput{Script: []core.Direction{core.DirDown}, Follow: s.Direction}
	loop := NewLoop(in, &CounterTime{})

	loop.Update(s, r)
	loop.Update(s, r)
	if s.Head() != pos(5, 7) {
		t.Errorf("Head() = %v, expected to keep going down to (5,7)", s.Head())
	}
}

func TestKeyInput(t *testing.T) {
	k := NewKeyInput(core.DirRight)

	frame := core.NewInputFrame()
	frame.Set(core.ActionLeft)
	k.Apply(frame)
	if k.CurrentDirection() != core.DirRight {
		t.Errorf("reversal should be dropped, got %v", k.CurrentDirection())
	}

	frame.Clear()
	frame.Set(core.ActionUp)
	k.Apply(frame)
	frame.Clear()
	frame.Set(core.ActionLeft)
	k.Apply(frame)
	if k.CurrentDirection() != core.DirUp {
		t.Errorf("left still reverses the settled right, expected up, got %v", k.CurrentDirection())
	}

	k.Settle(core.DirUp)
	frame.Clear()
	frame.Set(core.ActionDown)
	k.Apply(frame)
	if k.CurrentDirection() != core.DirUp {
		t.Errorf("down should be dropped after settling up, got %v", k.CurrentDirection())
	}

	frame.Clear()
	frame.Set(core.ActionPause)
	k.Apply(frame)
	if k.CurrentDirection() != core.DirUp {
		t.Error("non-steering frames should not change direction")
	}
}
