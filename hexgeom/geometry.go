// Package hexgeom implements the sheared hex-grid coordinate system: wrapping
// axial positions, the six cardinal directions, and the concentric spiral
// position pattern used for placement searches.
package hexgeom

import (
	"fmt"

	"github.com/freeserf/freeserf-sub004/freeserferr"
)

// Pos packs (col, row) on a torus into a single integer, matching freeserf's
// MapPos: row bits above col bits, both wrapping via bitmasks.
type Pos uint32

// Size selects the map dimensions; cols = 1<<(5+size/2), rows = 1<<(5+(size-1)/2).
type Size int

// MinSize and MaxSize bound the supported map sizes.
const (
	MinSize Size = 3
	MaxSize Size = 10
)

// Geometry derives the column/row masks and per-direction position deltas
// for a given Size, and provides all wrapping arithmetic over Pos.
type Geometry struct {
	size     Size
	colSize  uint
	rowSize  uint
	cols     uint32
	rows     uint32
	colMask  uint32
	rowMask  uint32
	rowShift uint
	dirs     [6]uint32
}

// NewGeometry builds a Geometry for the given size, in [MinSize, MaxSize].
func NewGeometry(size Size) (*Geometry, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: map size %d out of range [%d,%d]", freeserferr.ErrInvalidArgument, size, MinSize, MaxSize)
	}
	g := &Geometry{size: size}
	g.colSize = uint(5 + int(size)/2)
	g.rowSize = uint(5 + (int(size)-1)/2)
	g.cols = 1 << g.colSize
	g.rows = 1 << g.rowSize
	g.colMask = g.cols - 1
	g.rowMask = g.rows - 1
	g.rowShift = g.colSize

	g.dirs[Right] = 1 & g.colMask
	g.dirs[Left] = ^uint32(0) & g.colMask
	g.dirs[Down] = (1 & g.rowMask) << g.rowShift
	g.dirs[Up] = (^uint32(0) & g.rowMask) << g.rowShift
	g.dirs[DownRight] = g.dirs[Right] | g.dirs[Down]
	g.dirs[UpLeft] = g.dirs[Left] | g.dirs[Up]
	return g, nil
}

// Size returns the Geometry's map size.
func (g *Geometry) Size() Size { return g.size }

// Cols returns the column count.
func (g *Geometry) Cols() int { return int(g.cols) }

// Rows returns the row count.
func (g *Geometry) Rows() int { return int(g.rows) }

// TileCount returns the total number of vertices on the map.
func (g *Geometry) TileCount() int { return int(g.cols) * int(g.rows) }

// Col extracts the column component of pos.
func (g *Geometry) Col(pos Pos) int { return int(uint32(pos) & g.colMask) }

// Row extracts the row component of pos.
func (g *Geometry) Row(pos Pos) int { return int((uint32(pos) >> g.rowShift) & g.rowMask) }

// PosAt composes col, row into a Pos, wrapping both.
func (g *Geometry) PosAt(col, row int) Pos {
	c := uint32(col) & g.colMask
	r := uint32(row) & g.rowMask
	return Pos((r << g.rowShift) | c)
}

// posAddRaw performs the col/row wrapping addition used by every movement
// primitive, so all of them wrap identically.
func (g *Geometry) posAddRaw(pos Pos, off uint32) Pos {
	col := (uint32(g.Col(pos)) + (off & g.colMask)) & g.colMask
	row := (uint32(g.Row(pos)) + ((off >> g.rowShift) & g.rowMask)) & g.rowMask
	return Pos((row << g.rowShift) | col)
}

// Move returns the position reached by stepping pos one tile in direction d.
func (g *Geometry) Move(pos Pos, d Direction) Pos {
	return g.posAddRaw(pos, g.dirs[d])
}

// MoveN returns the position reached by stepping pos n tiles in direction d.
func (g *Geometry) MoveN(pos Pos, d Direction, n int) Pos {
	off := g.dirs[d]
	col := (uint32(g.Col(pos)) + uint32(n)*(off&g.colMask)) & g.colMask
	row := (uint32(g.Row(pos)) + uint32(n)*((off>>g.rowShift)&g.rowMask)) & g.rowMask
	return Pos((row << g.rowShift) | col)
}

// DistX returns the shortest signed column distance from pos1 to pos2.
func (g *Geometry) DistX(pos1, pos2 Pos) int {
	half := int32(g.cols / 2)
	d := (half + int32(g.Col(pos1)) - int32(g.Col(pos2))) & int32(g.colMask)
	return int(half - d)
}

// DistY returns the shortest signed row distance from pos1 to pos2.
func (g *Geometry) DistY(pos1, pos2 Pos) int {
	half := int32(g.rows / 2)
	d := (half + int32(g.Row(pos1)) - int32(g.Row(pos2))) & int32(g.rowMask)
	return int(half - d)
}

// StraightlineTileDistance returns the straight-line hex distance implied by
// signed column/row deltas: when the deltas share a sign, the hex shear lets
// the larger magnitude alone cover the distance; otherwise they add.
func StraightlineTileDistance(dCol, dRow int) int {
	if (dCol > 0 && dRow > 0) || (dCol < 0 && dRow < 0) {
		return max(abs(dCol), abs(dRow))
	}
	return abs(dCol) + abs(dRow)
}

// TileDistance returns the straight-line tile distance between two positions.
func (g *Geometry) TileDistance(a, b Pos) int {
	return StraightlineTileDistance(g.DistX(a, b), g.DistY(a, b))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
