package snake

import (
	"slices"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      core.Tick
	Grid      core.GridSize
	Status    Status
	Score     int
	Dir       core.Direction
	Body      []core.Position // head first
	Food      core.Position   // first food, NoFood when none
	HasFood   bool
	Foods     []Food
	Pickup    Pickup
	HasPickup bool
	Active    PowerUpKind
	// ActiveLeft is the updates the active effect still lasts.
	ActiveLeft int
	WrapWalls  bool
	Feast      bool
	PowerUps   bool
}

// Snapshot returns the current game snapshot at the given tick.
func (s *GameState) Snapshot(tick core.Tick) Snapshot {
	sn := Snapshot{
		Tick:       tick,
		Grid:       s.settings.Grid,
		Status:     s.status,
		Score:      s.score,
		Dir:        s.dir,
		Body:       s.body.Positions(),
		Food:       s.Food(),
		HasFood:    s.HasFood(),
		Foods:      slices.Clone(s.foods),
		Active:     s.active,
		ActiveLeft: s.left,
		WrapWalls:  s.settings.WrapWalls,
		Feast:      s.settings.Feast,
		PowerUps:   s.settings.PowerUps,
	}
	if s.hasPickup {
		sn.Pickup, sn.HasPickup = s.pickup, true
	}
	return sn
}

// Head returns the first body segment.
func (sn Snapshot) Head() core.Position {
	if len(sn.Body) == 0 {
		return core.Position{X: -1, Y: -1}
	}
	return sn.Body[0]
}

// Equal compares two snapshots field by field.
func (sn Snapshot) Equal(other Snapshot) bool {
	return sn.Tick == other.Tick &&
		sn.Grid == other.Grid &&
		sn.Status == other.Status &&
		sn.Score == other.Score &&
		sn.Dir == other.Dir &&
		sn.Food == other.Food &&
		sn.HasFood == other.HasFood &&
		sn.Pickup == other.Pickup &&
		sn.HasPickup == other.HasPickup &&
		sn.Active == other.Active &&
		sn.ActiveLeft == other.ActiveLeft &&
		sn.WrapWalls == other.WrapWalls &&
		sn.Feast == other.Feast &&
		sn.PowerUps == other.PowerUps &&
		slices.Equal(sn.Body, other.Body) &&
		slices.Equal(sn.Foods, other.Foods)
}
