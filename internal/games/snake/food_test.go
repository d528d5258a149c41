package snake

import (
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

func TestFeastInitialFoods(t *testing.T) {
	kinds := map[FoodKind]int{}
	for seed := uint64(1); seed <= 50; seed++ {
		settings := settingsOf(10, 10, 3)
		settings.Feast = true
		s := newState(t, settings, rng.New(seed))

		foods := s.Foods()
		if len(foods) < FeastMinFoods || len(foods) >= FeastMinFoods+FeastExtraFoods {
			t.Fatalf("seed %d: %d foods", seed, len(foods))
		}
		if s.Food() != foods[0].Pos {
			t.Errorf("seed %d: Food() = %v, expected the first food %v", seed, s.Food(), foods[0].Pos)
		}
		for _, f := range foods {
			kinds[f.Kind]++
		}
	}
	if kinds[FoodNormal] == 0 || kinds[FoodGolden] == 0 {
		t.Errorf("kinds drawn = %v, expected normal and golden foods", kinds)
	}
}

func TestClassicBoardHasOnePlainFood(t *testing.T) {
	s := newState(t, DefaultSettings(), rng.New(9))
	foods := s.Foods()
	if len(foods) != 1 || foods[0].Kind != FoodNormal {
		t.Errorf("Foods() = %v, expected one normal food", foods)
	}
}

func TestFeastEatingScoresPoints(t *testing.T) {
	settings := settingsOf(10, 10, 3)
	settings.Feast = true
	// Three foods: a golden one right of the head, then two normal ones.
	r := &seqSource{vals: []int{0, 80, 6, 5, 0, 0, 0, 0, 1, 0}}
	s := newState(t, settings, r)

	foods := s.Foods()
	if len(foods) != 3 || foods[0] != (Food{Pos: pos(6, 5), Kind: FoodGolden}) {
		t.Fatalf("Foods() = %v", foods)
	}

	out := Step(s, core.DirRight, r)
	if out != OutcomeAte {
		t.Fatalf("Step = %v, expected ate", out)
	}
	if s.Score() != FoodGolden.Points() || s.Eaten() != 1 || s.Len() != 4 {
		t.Errorf("score %d eaten %d len %d after a golden food", s.Score(), s.Eaten(), s.Len())
	}
	if len(s.Foods()) != 3 {
		t.Errorf("eaten food should be replaced, have %d", len(s.Foods()))
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestFoodPoints(t *testing.T) {
	tests := []struct {
		kind   FoodKind
		points int
		glyph  rune
	}{
		{FoodNormal, 1, '*'},
		{FoodGolden, 3, '$'},
		{FoodSpecial, 5, '%'},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if tc.kind.Points() != tc.points {
				t.Errorf("Points() = %d, expected %d", tc.kind.Points(), tc.points)
			}
			if tc.kind.Glyph() != tc.glyph {
				t.Errorf("Glyph() = %q, expected %q", tc.kind.Glyph(), tc.glyph)
			}
		})
	}
}

func TestFoodTakesPickupCell(t *testing.T) {
	settings := settingsOf(4, 1, 2)
	settings.PowerUps = true
	r := foodAt(3, 0)
	s := newState(t, settings, r)

	s.pickup = Pickup{Pos: pos(0, 0), Kind: PowerUpFast}
	s.hasPickup = true

	if out := Step(s, core.DirRight, r); out != OutcomeAte {
		t.Fatalf("Step = %v, expected ate", out)
	}
	if _, ok := s.Pickup(); ok {
		t.Error("pick-up should give its cell to the food")
	}
	if s.Food() != pos(0, 0) {
		t.Errorf("Food() = %v, expected the pick-up cell (0,0)", s.Food())
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}
