package snake

import (
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

// PowerUpKind is the effect of a pick-up.
type PowerUpKind int

const (
	PowerUpNone PowerUpKind = iota
	// PowerUpFast moves the snake twice per update.
	PowerUpFast
	// PowerUpSlow moves the snake on every other update.
	PowerUpSlow
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpNone:
		return "none"
	case PowerUpFast:
		return "fast"
	case PowerUpSlow:
		return "slow"
	default:
		return "unknown"
	}
}

// Pickup is a power-up waiting on the board.
type Pickup struct {
	Pos  core.Position
	Kind PowerUpKind
}

const (
	// PowerUpDuration is how many updates an effect lasts after pick-up.
	PowerUpDuration = 20
	// PickupChance is the 1-in-N chance per update that a pick-up drops
	// while no pick-up is waiting and no effect is active.
	PickupChance = 25
)

// Advance runs one update. Without power-ups it is exactly Step. With them
// it first ages the active effect and may drop a pick-up, then moves the
// snake twice under Fast, or only on every other update under Slow.
func Advance(s *GameState, requested core.Direction, r rng.Source) Outcome {
	if !s.settings.PowerUps || s.status != StatusRunning {
		return Step(s, requested, r)
	}

	effect := s.active
	skip := false
	if effect == PowerUpSlow {
		s.slowSkip = !s.slowSkip
		skip = s.slowSkip
	}
	s.agePowerUp()
	s.maybeDropPickup(r)

	switch {
	case skip:
		return OutcomeSkipped
	case effect == PowerUpFast:
		first := Step(s, requested, r)
		if first.Terminal() {
			return first
		}
		second := Step(s, requested, r)
		if second == OutcomeMoved && first != OutcomeMoved {
			return first
		}
		return second
	}
	return Step(s, requested, r)
}

func (s *GameState) agePowerUp() {
	if s.active == PowerUpNone {
		return
	}
	s.left--
	if s.left == 0 {
		s.active = PowerUpNone
		s.slowSkip = false
	}
}

func (s *GameState) maybeDropPickup(r rng.Source) {
	if s.hasPickup || s.active != PowerUpNone {
		return
	}
	if intN(r, PickupChance) != 0 {
		return
	}

	kind := PowerUpFast
	if intN(r, 2) == 1 {
		kind = PowerUpSlow
	}
	if p, ok := s.freeCell(r); ok {
		s.pickup = Pickup{Pos: p, Kind: kind}
		s.hasPickup = true
	}
}

// collectPickup starts the effect of the pick-up under the head.
func (s *GameState) collectPickup() {
	s.active = s.pickup.Kind
	s.left = PowerUpDuration
	s.slowSkip = false
	s.hasPickup = false
}
