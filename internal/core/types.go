package core

import (
	"fmt"
	"strings"
)

// Position is a cell on the grid. (0, 0) is the top-left corner and y grows
// downward, matching screen rows.
type Position struct {
	X, Y int
}

// Add returns the neighbouring cell one step in the given direction.
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Manhattan returns the grid distance between two positions.
func Manhattan(a, b Position) int {
	return Abs(a.X-b.X) + Abs(a.Y-b.Y)
}

// Direction is one of the four cardinal directions of travel.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Directions lists every direction in declaration order.
var Directions = [...]Direction{DirRight, DirDown, DirLeft, DirUp}

// Delta returns the unit offset for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// IsOpposite reports whether other is the exact reversal of d.
func (d Direction) IsOpposite(other Direction) bool {
	return d.Valid() && other.Valid() && d.Opposite() == other
}

// Valid reports whether d is one of the four declared directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection accepts full names and WASD keys.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "w":
		return DirUp, nil
	case "down", "s":
		return DirDown, nil
	case "left", "l", "a":
		return DirLeft, nil
	case "right", "r", "d":
		return DirRight, nil
	}
	return DirRight, fmt.Errorf("core: unknown direction %q", s)
}

// GridSize is the playfield size in cells. It never changes during a session.
type GridSize struct {
	Width, Height int
}

// Valid reports whether both dimensions are positive.
func (g GridSize) Valid() bool {
	return g.Width > 0 && g.Height > 0
}

// Contains reports whether p lies within [0,Width)x[0,Height).
func (g GridSize) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Cells returns the number of cells on the grid.
func (g GridSize) Cells() int {
	return g.Width * g.Height
}

// Center returns the middle cell, rounding down on even dimensions.
func (g GridSize) Center() Position {
	return Position{X: g.Width / 2, Y: g.Height / 2}
}

// Index returns the row-major index of p. p must be inside the grid.
func (g GridSize) Index(p Position) int {
	return p.Y*g.Width + p.X
}

// At is the inverse of Index.
func (g GridSize) At(i int) Position {
	return Position{X: i % g.Width, Y: i / g.Width}
}

// Key identifies the grid in score tables, e.g. "20x15".
func (g GridSize) Key() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// Tick counts elapsed discrete time steps, starting at zero.
type Tick uint64
