package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

// FoodKind sets what a food is worth. Kinds are only rolled on feast
// boards; every food of a classic board is FoodNormal.
type FoodKind int

const (
	FoodNormal FoodKind = iota
	FoodGolden
	FoodSpecial
)

func (k FoodKind) String() string {
	switch k {
	case FoodNormal:
		return "normal"
	case FoodGolden:
		return "golden"
	case FoodSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Points is the score a food of this kind adds. Growth is one segment
// whatever the kind.
func (k FoodKind) Points() int {
	switch k {
	case FoodGolden:
		return 3
	case FoodSpecial:
		return 5
	default:
		return 1
	}
}

// Food is one food item on the board.
type Food struct {
	Pos  core.Position
	Kind FoodKind
}

// A feast board starts with FeastMinFoods plus IntN(FeastExtraFoods) foods,
// and every eaten food is replaced while a cell is free.
const (
	FeastMinFoods   = 3
	FeastExtraFoods = 3
)

// rollFoodKind draws 70% normal, 25% golden and 5% special.
func rollFoodKind(r rng.Source) FoodKind {
	switch roll := intN(r, 100); {
	case roll < 70:
		return FoodNormal
	case roll < 95:
		return FoodGolden
	default:
		return FoodSpecial
	}
}

// spawnInitialFoods reports false when not even one food fits.
func (s *GameState) spawnInitialFoods(r rng.Source) bool {
	n := 1
	if s.settings.Feast {
		n = FeastMinFoods + intN(r, FeastExtraFoods)
	}
	for i := range n {
		if !s.spawnFood(r) {
			return i > 0
		}
	}
	return true
}

// spawnFood adds one food on a free cell. A waiting pick-up gives up its
// cell when nothing else is free. It reports false when no cell is left.
func (s *GameState) spawnFood(r rng.Source) bool {
	kind := FoodNormal
	if s.settings.Feast {
		kind = rollFoodKind(r)
	}

	p, ok := s.freeCell(r)
	if !ok {
		if !s.hasPickup {
			return false
		}
		p = s.pickup.Pos
		s.hasPickup = false
	}
	s.foods = append(s.foods, Food{Pos: p, Kind: kind})
	return true
}

// freeCell picks a uniformly chosen cell holding no segment, food or
// pick-up. Random probing is tried once per grid cell; after that the free
// cells are enumerated in row-major order and one is drawn by index, so the
// search always ends.
func (s *GameState) freeCell(r rng.Source) (core.Position, bool) {
	g := s.settings.Grid
	free := g.Cells() - s.body.Len() - len(s.foods)
	if s.hasPickup {
		free--
	}
	if free <= 0 {
		return NoFood, false
	}

	for range g.Cells() {
		p := core.Position{X: intN(r, g.Width), Y: intN(r, g.Height)}
		if !s.blocked(p) {
			return p, true
		}
	}

	k := intN(r, free)
	for i := range g.Cells() {
		p := g.At(i)
		if s.blocked(p) {
			continue
		}
		if k == 0 {
			return p, true
		}
		k--
	}
	return NoFood, false
}

func (s *GameState) blocked(p core.Position) bool {
	if s.body.Contains(p) || s.foodIndex(p) >= 0 {
		return true
	}
	return s.hasPickup && s.pickup.Pos == p
}

// foodIndex returns the index of the food at p, or -1.
func (s *GameState) foodIndex(p core.Position) int {
	for i, f := range s.foods {
		if f.Pos == p {
			return i
		}
	}
	return -1
}

// intN draws from r with a bound known to be positive. Only a Source that
// breaks its contract can make it panic.
func intN(r rng.Source, bound int) int {
	v, err := r.IntN(bound)
	if err != nil {
		panic(fmt.Sprintf("snake: random source: %v", err))
	}
	if v < 0 || v >= bound {
		panic(fmt.Sprintf("snake: random source returned %d for bound %d", v, bound))
	}
	return v
}
