package snake

import (
	"errors"
	"slices"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

func TestNewGameStateLayout(t *testing.T) {
	s := newState(t, DefaultSettings(), rng.New(1))

	want := []core.Position{pos(5, 5), pos(4, 5), pos(3, 5)}
	if got := s.Body(); !slices.Equal(got, want) {
		t.Errorf("Body() = %v, expected %v", got, want)
	}
	if s.Head() != pos(5, 5) {
		t.Errorf("Head() = %v, expected (5,5)", s.Head())
	}
	if s.Direction() != core.DirRight {
		t.Errorf("Direction() = %v, expected right", s.Direction())
	}
	if s.Score() != 0 || s.Status() != StatusRunning || s.GameOver() {
		t.Errorf("fresh state: score %d, status %v", s.Score(), s.Status())
	}
	if !s.HasFood() || s.Occupied(s.Food()) || !s.Grid().Contains(s.Food()) {
		t.Errorf("food %v misplaced", s.Food())
	}
}

func TestNewGameStateOddAndEvenCenter(t *testing.T) {
	s := newState(t, settingsOf(7, 4, 1), rng.New(3))
	if s.Head() != pos(3, 2) {
		t.Errorf("Head() = %v on 7x4, expected (3,2)", s.Head())
	}
}

func TestNewGameStateInvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{"zero width", settingsOf(0, 10, 3)},
		{"negative height", settingsOf(10, -1, 3)},
		{"zero length", settingsOf(10, 10, 0)},
		{"negative length", settingsOf(10, 10, -4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGameState(tc.settings, rng.New(1))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, expected ErrInvalidArgument", err)
			}
		})
	}
}

func TestNewGameStateGridTooSmall(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		// Head at (1,1) puts the tail at x=-1, so 3x3 is too small even
		// though 6 cells would be free.
		{"body leaves 3x3", settingsOf(3, 3, 3)},
		{"no cell for food", settingsOf(2, 1, 2)},
		{"single cell", settingsOf(1, 1, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGameState(tc.settings, rng.New(1))
			if !errors.Is(err, ErrGridTooSmall) {
				t.Errorf("error = %v, expected ErrGridTooSmall", err)
			}
		})
	}
}

func TestNewGameStateSingleFreeCell(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		s := newState(t, settingsOf(3, 1, 2), rng.New(seed))
		if s.Food() != pos(2, 0) {
			t.Fatalf("seed %d: food at %v, expected the only free cell (2,0)", seed, s.Food())
		}
	}
}

func TestFoodFallbackAfterRejections(t *testing.T) {
	// Every sample hits (0,0), which the tail covers, so placement must fall
	// back to enumerating the free cells.
	s := newState(t, settingsOf(3, 1, 2), &seqSource{vals: []int{0}})
	if s.Food() != pos(2, 0) {
		t.Errorf("Food() = %v, expected (2,0)", s.Food())
	}
}

func TestFoodNeverOnSnakeAcrossSeeds(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		s := newState(t, settingsOf(5, 5, 3), rng.New(seed))
		if s.Occupied(s.Food()) {
			t.Fatalf("seed %d: food %v on the snake", seed, s.Food())
		}
	}
}

func TestBrokenSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("a source that rejects a positive bound should panic")
		}
	}()
	NewGameState(DefaultSettings(), brokenSource{})
}

type brokenSource struct{}

func (brokenSource) Next() uint32 { return 0 }

func (brokenSource) IntN(int) (int, error) { return 0, rng.ErrInvalidArgument }

func TestPauseResume(t *testing.T) {
	s := newState(t, DefaultSettings(), foodAt(0, 0))

	s.Pause()
	if !s.Paused() {
		t.Fatal("Pause should pause a running game")
	}
	before := s.Snapshot(0)
	if out := Step(s, core.DirUp, foodAt(0, 0)); out != OutcomeNone {
		t.Errorf("Step while paused = %v, expected none", out)
	}
	if !s.Snapshot(0).Equal(before) {
		t.Error("paused Step should not mutate the state")
	}

	s.Resume()
	if s.Status() != StatusRunning {
		t.Fatalf("Resume: status %v", s.Status())
	}

	s.TogglePause()
	s.TogglePause()
	if s.Status() != StatusRunning {
		t.Errorf("double toggle: status %v", s.Status())
	}
}

func TestOverIsALatch(t *testing.T) {
	s := newState(t, settingsOf(3, 1, 1), foodAt(0, 0))
	for !s.GameOver() {
		Step(s, core.DirRight, foodAt(0, 0))
	}

	s.Pause()
	s.Resume()
	s.TogglePause()
	if s.Status() != StatusOver {
		t.Errorf("status %v, expected over to stick", s.Status())
	}
}

func TestReset(t *testing.T) {
	s := newState(t, DefaultSettings(), rng.New(9))
	for !s.GameOver() {
		Step(s, core.DirUp, rng.New(9))
	}

	if err := s.Reset(rng.New(9)); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	fresh := newState(t, DefaultSettings(), rng.New(9))
	if !s.Snapshot(0).Equal(fresh.Snapshot(0)) {
		t.Error("Reset should equal a fresh construction with the same seed")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newState(t, DefaultSettings(), foodAt(0, 0))
	c := s.Clone()

	Step(c, core.DirDown, foodAt(0, 0))
	if s.Head() != pos(5, 5) {
		t.Error("stepping the clone moved the original")
	}
	if c.Head() != pos(5, 6) {
		t.Errorf("clone head = %v, expected (5,6)", c.Head())
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusRunning: "running",
		StatusPaused:  "paused",
		StatusOver:    "over",
		Status(9):     "unknown",
	}
	for st, want := range tests {
		if st.String() != want {
			t.Errorf("%d.String() = %q, expected %q", st, st.String(), want)
		}
	}
}
