package snake

import "github.com/vovakirdan/tui-snake/internal/core"

const minBodyCap = 16

// Body is the ordered snake, head first. Segments live in a ring buffer so
// moving the snake is one PushFront and one PopBack with no copying, and an
// occupancy bitmap indexed by GridSize.Index answers membership in O(1).
type Body struct {
	grid  core.GridSize
	cells []core.Position
	head  int // ring index of the head
	n     int
	occ   []bool
}

// NewBody returns an empty body for the grid.
func NewBody(grid core.GridSize) *Body {
	return &Body{
		grid:  grid,
		cells: make([]core.Position, minBodyCap),
		occ:   make([]bool, grid.Cells()),
	}
}

// Len returns the number of segments.
func (b *Body) Len() int {
	return b.n
}

// Front returns the head. The body must not be empty.
func (b *Body) Front() core.Position {
	return b.cells[b.head]
}

// Back returns the tail. The body must not be empty.
func (b *Body) Back() core.Position {
	return b.cells[b.ring(b.n-1)]
}

// At returns the i-th segment counting from the head.
func (b *Body) At(i int) core.Position {
	return b.cells[b.ring(i)]
}

// Contains reports whether any segment occupies p.
func (b *Body) Contains(p core.Position) bool {
	if !b.grid.Contains(p) {
		return false
	}
	return b.occ[b.grid.Index(p)]
}

// PushFront adds a new head. p must lie inside the grid.
func (b *Body) PushFront(p core.Position) {
	if b.n == len(b.cells) {
		b.grow()
	}
	b.head = (b.head - 1 + len(b.cells)) % len(b.cells)
	b.cells[b.head] = p
	b.n++
	b.occ[b.grid.Index(p)] = true
}

// PopBack removes and returns the tail.
func (b *Body) PopBack() core.Position {
	i := b.ring(b.n - 1)
	p := b.cells[i]
	b.n--
	b.occ[b.grid.Index(p)] = false
	return p
}

// Positions copies the segments into a new slice, head first.
func (b *Body) Positions() []core.Position {
	out := make([]core.Position, b.n)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Clone returns a deep copy.
func (b *Body) Clone() *Body {
	c := &Body{
		grid:  b.grid,
		cells: make([]core.Position, len(b.cells)),
		head:  b.head,
		n:     b.n,
		occ:   make([]bool, len(b.occ)),
	}
	copy(c.cells, b.cells)
	copy(c.occ, b.occ)
	return c
}

func (b *Body) ring(i int) int {
	return (b.head + i) % len(b.cells)
}

func (b *Body) grow() {
	next := make([]core.Position, len(b.cells)*2)
	for i := 0; i < b.n; i++ {
		next[i] = b.At(i)
	}
	b.cells = next
	b.head = 0
}
