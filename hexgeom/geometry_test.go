package hexgeom

import (
	"reflect"
	"testing"
)

func TestCycleCWFromLeft(t *testing.T) {
	got := CycleCW(Left, 4)
	want := []Direction{Left, UpLeft, Up, Right}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CycleCW(Left,4) = %v, want %v", got, want)
	}
}

func TestCycleCCWFromLeft(t *testing.T) {
	got := CycleCCW(Left, 10)
	want := []Direction{Left, Down, DownRight, Right, Up, UpLeft, Left, Down, DownRight, Right}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CycleCCW(Left,10) = %v, want %v", got, want)
	}
}

func TestStraightlineTileDistance(t *testing.T) {
	cases := []struct {
		dCol, dRow, want int
	}{
		{3, 2, 3},
		{-2, 3, 5},
		{-3, -4, 4},
	}
	for _, c := range cases {
		if got := StraightlineTileDistance(c.dCol, c.dRow); got != c.want {
			t.Errorf("StraightlineTileDistance(%d,%d) = %d, want %d", c.dCol, c.dRow, got, c.want)
		}
	}
}

func TestNewGeometryRejectsOutOfRangeSize(t *testing.T) {
	if _, err := NewGeometry(2); err == nil {
		t.Fatal("expected error for size below MinSize")
	}
	if _, err := NewGeometry(11); err == nil {
		t.Fatal("expected error for size above MaxSize")
	}
}

func TestMoveAndReverseRoundTrip(t *testing.T) {
	g, err := NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	start := g.PosAt(5, 5)
	for _, d := range AllDirections {
		moved := g.Move(start, d)
		back := g.Move(moved, d.Reverse())
		if back != start {
			t.Errorf("direction %v: Move then reverse Move did not return to start: got %d want %d", d, back, start)
		}
	}
}

func TestDirectionToFindsNeighbor(t *testing.T) {
	g, err := NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	start := g.PosAt(5, 5)
	for _, d := range AllDirections {
		neighbor := g.Move(start, d)
		opt := g.DirectionTo(start, neighbor)
		if !opt.Present || opt.Dir != d {
			t.Errorf("DirectionTo(start, neighbor via %v) = %+v, want present %v", d, opt, d)
		}
	}
	far := g.MoveN(start, Right, 4)
	if opt := g.DirectionTo(start, far); opt.Present {
		t.Errorf("DirectionTo(start, far) = %+v, want NoDirection", opt)
	}
}

func TestSpiralCountMatchesMaxRing(t *testing.T) {
	if got := SpiralCount(MaxSpiralRing); got != 1801 {
		t.Fatalf("SpiralCount(%d) = %d, want 1801", MaxSpiralRing, got)
	}
}

func TestSpiralPositionsCoverUniquely(t *testing.T) {
	g, err := NewGeometry(4)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	center := g.PosAt(10, 10)
	positions, err := g.SpiralPositions(center, 3)
	if err != nil {
		t.Fatalf("SpiralPositions: %v", err)
	}
	if len(positions) != SpiralCount(3) {
		t.Fatalf("len(positions) = %d, want %d", len(positions), SpiralCount(3))
	}
	seen := make(map[Pos]bool, len(positions))
	for _, p := range positions {
		if seen[p] {
			t.Fatalf("duplicate position %d in spiral", p)
		}
		seen[p] = true
	}
}

func TestSpiralPosRejectsOutOfRange(t *testing.T) {
	g, err := NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	if _, err := g.SpiralPos(0, SpiralCount(MaxSpiralRing)); err == nil {
		t.Fatal("expected error for spiral index beyond MaxSpiralRing")
	}
}
