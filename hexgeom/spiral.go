package hexgeom

import (
	"fmt"

	"github.com/freeserf/freeserf-sub004/freeserferr"
)

// MaxSpiralRing is the largest ring index the spiral pattern supports.
const MaxSpiralRing = 24

// ringWalkOrder is the direction sequence used to walk the perimeter of a
// ring once positioned at its left corner (reached by moving Left
// `radius` times from the ring's center).
var ringWalkOrder = [6]Direction{Up, Right, DownRight, Down, Left, UpLeft}

// RingToCount returns the number of positions in ring k (6k for k>=1, 1 for
// k==0).
func RingToCount(k int) int {
	if k == 0 {
		return 1
	}
	return 6 * k
}

// SpiralCount returns the total number of positions from ring 0 through ring
// k inclusive: 1 + 3k(k+1).
func SpiralCount(k int) int {
	return 1 + 3*k*(k+1)
}

// RingForIndex returns the ring containing the idx'th spiral position
// (0-based, center is index 0) and the ring the inverse of SpiralCount.
func RingForIndex(idx int) int {
	if idx == 0 {
		return 0
	}
	k := 0
	for SpiralCount(k) <= idx {
		k++
	}
	return k
}

// Ring returns all positions at exactly the given hex radius from center, in
// the same walk order the spiral pattern uses.
func (g *Geometry) Ring(center Pos, radius int) []Pos {
	if radius == 0 {
		return []Pos{center}
	}
	pos := g.MoveN(center, Left, radius)
	out := make([]Pos, 0, 6*radius)
	for _, d := range ringWalkOrder {
		for i := 0; i < radius; i++ {
			out = append(out, pos)
			pos = g.Move(pos, d)
		}
	}
	return out
}

// SpiralPos returns the position at spiral index idx around center (index 0
// is the center itself, then ring 1 positions, then ring 2, ...). Supports
// idx up to SpiralCount(MaxSpiralRing)-1.
func (g *Geometry) SpiralPos(center Pos, idx int) (Pos, error) {
	if idx < 0 || idx >= SpiralCount(MaxSpiralRing) {
		return 0, fmt.Errorf("%w: spiral index %d exceeds supported ring %d", freeserferr.ErrInvalidArgument, idx, MaxSpiralRing)
	}
	if idx == 0 {
		return center, nil
	}
	ring := RingForIndex(idx)
	offsetInRing := idx - SpiralCount(ring-1)
	positions := g.Ring(center, ring)
	return positions[offsetInRing], nil
}

// SpiralPositions returns every position within spiral distance maxRing of
// center, ring 0 first, in spiral order.
func (g *Geometry) SpiralPositions(center Pos, maxRing int) ([]Pos, error) {
	if maxRing < 0 || maxRing > MaxSpiralRing {
		return nil, fmt.Errorf("%w: spiral distance %d exceeds supported ring %d", freeserferr.ErrInvalidArgument, maxRing, MaxSpiralRing)
	}
	out := make([]Pos, 0, SpiralCount(maxRing))
	out = append(out, center)
	for k := 1; k <= maxRing; k++ {
		out = append(out, g.Ring(center, k)...)
	}
	return out, nil
}
