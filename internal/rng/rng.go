// Package rng provides the deterministic random source used by the engine.
// The same seed always yields the same sequence on every platform, so a
// session can be replayed from its seed and the player's directions alone.
package rng

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a bound is not positive.
var ErrInvalidArgument = errors.New("invalid argument")

// Source is a stream of pseudo-random values.
type Source interface {
	// Next returns the next raw 32-bit value.
	Next() uint32
	// IntN returns a value in [0, bound). bound must be positive.
	IntN(bound int) (int, error)
}

// ZeroSeed replaces a zero seed, which is a fixed point of xorshift.
const ZeroSeed uint64 = 0x9E3779B97F4A7C15

const multiplier uint64 = 0x2545F4914F6CDD1D

// Seeded is a xorshift64* generator over a single state word.
type Seeded struct {
	state uint64
}

// New returns a generator for the given seed.
func New(seed uint64) *Seeded {
	if seed == 0 {
		seed = ZeroSeed
	}
	return &Seeded{state: seed}
}

// Next advances the state and returns the high half of the scrambled word.
func (s *Seeded) Next() uint32 {
	x := s.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	s.state = x
	return uint32((x * multiplier) >> 32)
}

// IntN reduces Next modulo bound. The slight modulo bias is accepted.
func (s *Seeded) IntN(bound int) (int, error) {
	if bound <= 0 {
		return 0, fmt.Errorf("rng: bound %d: %w", bound, ErrInvalidArgument)
	}
	return int(uint64(s.Next()) % uint64(bound)), nil
}

// State returns the current state word. New(State()) continues the stream.
func (s *Seeded) State() uint64 {
	return s.state
}

// Clone returns an independent copy positioned at the same point.
func (s *Seeded) Clone() *Seeded {
	c := *s
	return &c
}
