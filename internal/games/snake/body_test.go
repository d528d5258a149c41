package snake

import (
	"slices"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

func TestBodyPushPop(t *testing.T) {
	b := NewBody(core.GridSize{Width: 5, Height: 5})

	b.PushFront(pos(0, 0))
	b.PushFront(pos(1, 0))
	b.PushFront(pos(2, 0))

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", b.Len())
	}
	if b.Front() != pos(2, 0) || b.Back() != pos(0, 0) {
		t.Errorf("Front/Back = %v/%v", b.Front(), b.Back())
	}
	if !b.Contains(pos(1, 0)) || b.Contains(pos(3, 0)) {
		t.Error("Contains disagrees with the pushed cells")
	}

	if got := b.PopBack(); got != pos(0, 0) {
		t.Errorf("PopBack() = %v, expected (0,0)", got)
	}
	if b.Contains(pos(0, 0)) {
		t.Error("popped cell should be free")
	}

	want := []core.Position{pos(2, 0), pos(1, 0)}
	if got := b.Positions(); !slices.Equal(got, want) {
		t.Errorf("Positions() = %v, expected %v", got, want)
	}
}

func TestBodyContainsOutsideGrid(t *testing.T) {
	b := NewBody(core.GridSize{Width: 3, Height: 3})
	b.PushFront(pos(1, 1))

	for _, p := range []core.Position{pos(-1, 0), pos(3, 1), pos(1, -1), pos(0, 3)} {
		if b.Contains(p) {
			t.Errorf("Contains(%v) should be false", p)
		}
	}
}

func TestBodyGrowsAcrossWrapAround(t *testing.T) {
	grid := core.GridSize{Width: 100, Height: 1}
	b := NewBody(grid)

	// Slide a short snake far enough that the ring index wraps, then grow
	// past the initial capacity.
	for x := 0; x < 4; x++ {
		b.PushFront(pos(x, 0))
	}
	for x := 4; x < 40; x++ {
		b.PushFront(pos(x, 0))
		b.PopBack()
	}
	for x := 40; x < 80; x++ {
		b.PushFront(pos(x, 0))
	}

	if b.Len() != 44 {
		t.Fatalf("Len() = %d, expected 44", b.Len())
	}
	for i := 0; i < b.Len(); i++ {
		want := pos(79-i, 0)
		if b.At(i) != want {
			t.Fatalf("At(%d) = %v, expected %v", i, b.At(i), want)
		}
	}
	if b.Contains(pos(35, 0)) || !b.Contains(pos(36, 0)) {
		t.Error("occupancy out of sync with segments")
	}
}

func TestBodyClone(t *testing.T) {
	b := NewBody(core.GridSize{Width: 4, Height: 4})
	b.PushFront(pos(0, 0))
	b.PushFront(pos(1, 0))

	c := b.Clone()
	c.PopBack()
	c.PushFront(pos(2, 0))

	if b.Len() != 2 || b.Front() != pos(1, 0) || !b.Contains(pos(0, 0)) {
		t.Error("mutating the clone changed the original")
	}
	if c.Contains(pos(0, 0)) {
		t.Error("clone should have released (0,0)")
	}
}
