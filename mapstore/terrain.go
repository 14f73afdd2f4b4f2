// Package mapstore holds the dense tile grid a generated map is stored in:
// heights, up/down terrain triangles, objects, paths, ownership, and mineral
// deposits, plus the mutators a world facade serializes under its lock.
package mapstore

// Terrain is the 16-value ordinal terrain scale, deep water through snow.
type Terrain int

const (
	Water0 Terrain = iota
	Water1
	Water2
	Water3
	Grass0
	Grass1
	Grass2
	Grass3
	Desert0
	Desert1
	Desert2
	Tundra0
	Tundra1
	Tundra2
	Snow0
	Snow1
)

// IsWater reports whether t is one of the four water grades.
func (t Terrain) IsWater() bool { return t <= Water3 }

// MineralKind identifies the resource a tile's mineral deposit carries.
type MineralKind int

const (
	MineralNone MineralKind = iota
	MineralGold
	MineralIron
	MineralCoal
	MineralStone
)

// MineralDeposit packs a kind and an amount. On water tiles Amount is
// repurposed to mean fish stock (0..15) rather than ore (0..31); callers must
// check the tile's up/down terrain before interpreting Amount as fish.
type MineralDeposit struct {
	Kind   MineralKind `json:"kind"`
	Amount uint8       `json:"amount"`
}
