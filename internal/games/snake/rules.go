package snake

import (
	"slices"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

// Outcome describes what a single Step did.
type Outcome int

const (
	// OutcomeNone means the session was paused or already over.
	OutcomeNone Outcome = iota
	OutcomeMoved
	OutcomeAte
	OutcomeHitWall
	OutcomeHitSelf
	// OutcomeBoardFull means the snake ate the last food and no free cell
	// is left. The session ends with the score kept.
	OutcomeBoardFull
	// OutcomePowerUp means the head moved onto a pick-up.
	OutcomePowerUp
	// OutcomeSkipped means a Slow effect held the snake for this update.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeMoved:
		return "moved"
	case OutcomeAte:
		return "ate"
	case OutcomeHitWall:
		return "hit_wall"
	case OutcomeHitSelf:
		return "hit_self"
	case OutcomeBoardFull:
		return "board_full"
	case OutcomePowerUp:
		return "power_up"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ended the session.
func (o Outcome) Terminal() bool {
	return o == OutcomeHitWall || o == OutcomeHitSelf || o == OutcomeBoardFull
}

// Step advances the session by one move.
//
// A requested direction that exactly reverses the current one is ignored.
// Leaving the grid ends the session unless walls wrap. Entering any segment
// other than the tail, which vacates this move, also ends it. Eating grows
// the snake by one, scores the food's points and respawns it from r.
// Moving onto a pick-up starts its effect.
func Step(s *GameState, requested core.Direction, r rng.Source) Outcome {
	if s.status != StatusRunning {
		return OutcomeNone
	}

	if requested.Valid() && !requested.IsOpposite(s.dir) {
		s.dir = requested
	}

	g := s.settings.Grid
	next := s.body.Front().Add(s.dir)
	if !g.Contains(next) {
		if !s.settings.WrapWalls {
			s.status = StatusOver
			return OutcomeHitWall
		}
		next = wrap(next, g)
	}

	if s.body.Contains(next) && next != s.body.Back() {
		s.status = StatusOver
		return OutcomeHitSelf
	}

	if i := s.foodIndex(next); i >= 0 {
		kind := s.foods[i].Kind
		s.foods = slices.Delete(s.foods, i, i+1)
		s.body.PushFront(next)
		s.eaten++
		s.score += kind.Points()
		if !s.spawnFood(r) && len(s.foods) == 0 {
			s.status = StatusOver
			return OutcomeBoardFull
		}
		return OutcomeAte
	}

	s.body.PopBack()
	s.body.PushFront(next)
	if s.hasPickup && next == s.pickup.Pos {
		s.collectPickup()
		return OutcomePowerUp
	}
	return OutcomeMoved
}

func wrap(p core.Position, g core.GridSize) core.Position {
	return core.Position{
		X: (p.X%g.Width + g.Width) % g.Width,
		Y: (p.Y%g.Height + g.Height) % g.Height,
	}
}
