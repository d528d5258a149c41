package snake

import (
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

// seqSource replays a fixed cycle of values, so tests can choose where food lands.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Next() uint32 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return uint32(v)
}

func (s *seqSource) IntN(bound int) (int, error) {
	if bound <= 0 {
		return 0, rng.ErrInvalidArgument
	}
	return int(s.Next()) % bound, nil
}

// foodAt returns a source whose first placement lands on x, y and every
// later placement on (0, 0).
func foodAt(x, y int) *seqSource {
	return &seqSource{vals: []int{x, y, 0, 0}}
}

func newState(t *testing.T, settings Settings, r rng.Source) *GameState {
	t.Helper()
	s, err := NewGameState(settings, r)
	if err != nil {
		t.Fatalf("NewGameState(%+v): %v", settings, err)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("fresh state: %v", err)
	}
	return s
}

func settingsOf(w, h, length int) Settings {
	return Settings{Grid: core.GridSize{Width: w, Height: h}, InitialLength: length}
}

func pos(x, y int) core.Position {
	return core.Position{X: x, Y: y}
}

// stepDistance is the Manhattan distance between a and b, measured around
// the edges when walls wrap.
func stepDistance(settings Settings, a, b core.Position) int {
	dx, dy := core.Abs(a.X-b.X), core.Abs(a.Y-b.Y)
	if settings.WrapWalls {
		dx = min(dx, settings.Grid.Width-dx)
		dy = min(dy, settings.Grid.Height-dy)
	}
	return dx + dy
}
