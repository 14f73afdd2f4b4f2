package mapstore

import (
	"fmt"

	"github.com/freeserf/freeserf-sub004/freeserferr"
	"github.com/freeserf/freeserf-sub004/hexgeom"
)

// ChangeListener is notified after a mutation at pos. Implementations must
// tolerate rapid, repeated notifications for the same position.
type ChangeListener func(pos hexgeom.Pos)

// Store is the row-major dense tile grid for one map. It is built once by a
// terrain generator and thereafter mutated only through the methods below;
// callers that need atomicity across several tiles take an external lock
// (see package worldfacade) before calling in.
type Store struct {
	Geom      *hexgeom.Geometry
	tiles     []Tile
	goldTotal uint32
	listeners []ChangeListener
}

// NewStore allocates a Store of Geom.TileCount() zero-valued tiles.
func NewStore(geom *hexgeom.Geometry) *Store {
	return &Store{
		Geom:  geom,
		tiles: make([]Tile, geom.TileCount()),
	}
}

func (s *Store) index(pos hexgeom.Pos) int {
	return s.Geom.Row(pos)*s.Geom.Cols() + s.Geom.Col(pos)
}

func (s *Store) notify(pos hexgeom.Pos) {
	for _, l := range s.listeners {
		l(pos)
	}
}

// AddChangeListener registers l to be called after every mutation.
func (s *Store) AddChangeListener(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

// Tile returns a copy of the tile at pos.
func (s *Store) Tile(pos hexgeom.Pos) Tile {
	return s.tiles[s.index(pos)]
}

// Height returns the height at pos.
func (s *Store) Height(pos hexgeom.Pos) uint8 { return s.tiles[s.index(pos)].Height }

// TerrainUp returns the up-triangle terrain at pos.
func (s *Store) TerrainUp(pos hexgeom.Pos) Terrain { return s.tiles[s.index(pos)].Up }

// TerrainDown returns the down-triangle terrain at pos.
func (s *Store) TerrainDown(pos hexgeom.Pos) Terrain { return s.tiles[s.index(pos)].Down }

// ObjectAt returns the object at pos.
func (s *Store) ObjectAt(pos hexgeom.Pos) Object { return s.tiles[s.index(pos)].Obj }

// Owner returns pos's ownership.
func (s *Store) Owner(pos hexgeom.Pos) OptPlayerID { return s.tiles[s.index(pos)].Owner }

// Paths returns pos's path bitmask.
func (s *Store) Paths(pos hexgeom.Pos) PathSet { return s.tiles[s.index(pos)].Paths }

// HasPath reports whether pos has a path bit set in direction d.
func (s *Store) HasPath(pos hexgeom.Pos, d hexgeom.Direction) bool {
	return s.tiles[s.index(pos)].Paths.Has(int(d))
}

// MineralAt returns pos's mineral deposit (kind/amount).
func (s *Store) MineralAt(pos hexgeom.Pos) MineralDeposit { return s.tiles[s.index(pos)].Mineral }

// FishAt returns pos's fish stock (valid only on water tiles, where Amount is
// repurposed).
func (s *Store) FishAt(pos hexgeom.Pos) uint8 { return s.tiles[s.index(pos)].Mineral.Amount }

// GoldTotal returns the running sum of all Gold mineral amounts on the map.
func (s *Store) GoldTotal() uint32 { return s.goldTotal }

// SetHeight sets pos's height and notifies listeners.
func (s *Store) SetHeight(pos hexgeom.Pos, h uint8) {
	s.tiles[s.index(pos)].Height = h
	s.notify(pos)
}

// SetTerrain sets pos's up and down triangle terrain types.
func (s *Store) SetTerrain(pos hexgeom.Pos, up, down Terrain) {
	t := &s.tiles[s.index(pos)]
	t.Up, t.Down = up, down
	s.notify(pos)
}

// SetObject sets pos's object and owning index.
func (s *Store) SetObject(pos hexgeom.Pos, obj Object, ownerIndex uint32) {
	t := &s.tiles[s.index(pos)]
	t.Obj = obj
	t.ObjectOwner = ownerIndex
	s.notify(pos)
}

// SetOwner sets pos's player ownership.
func (s *Store) SetOwner(pos hexgeom.Pos, owner OptPlayerID) {
	s.tiles[s.index(pos)].Owner = owner
	s.notify(pos)
}

// SetMineral sets pos's mineral deposit, always overwriting the existing one,
// and keeps goldTotal consistent with whatever is actually stored. Callers
// that want "overwrite only if greater" (terrain generation's mineral
// clustering) check that themselves.
func (s *Store) SetMineral(pos hexgeom.Pos, m MineralDeposit) {
	t := &s.tiles[s.index(pos)]
	if t.Mineral.Kind == MineralGold {
		s.goldTotal -= uint32(t.Mineral.Amount)
	}
	t.Mineral = m
	if m.Kind == MineralGold {
		s.goldTotal += uint32(m.Amount)
	}
	s.notify(pos)
}

// SetPath sets the path bit at pos in direction d, and the reciprocal bit at
// the neighboring tile in the reverse direction, preserving the path
// symmetry invariant.
func (s *Store) SetPath(pos hexgeom.Pos, d hexgeom.Direction) {
	other := s.Geom.Move(pos, d)
	s.tiles[s.index(pos)].Paths = s.tiles[s.index(pos)].Paths.With(int(d))
	s.tiles[s.index(other)].Paths = s.tiles[s.index(other)].Paths.With(int(d.Reverse()))
	s.notify(pos)
	s.notify(other)
}

// ClearPath clears the path bit at pos in direction d and its reciprocal.
func (s *Store) ClearPath(pos hexgeom.Pos, d hexgeom.Direction) {
	other := s.Geom.Move(pos, d)
	s.tiles[s.index(pos)].Paths = s.tiles[s.index(pos)].Paths.Without(int(d))
	s.tiles[s.index(other)].Paths = s.tiles[s.index(other)].Paths.Without(int(d.Reverse()))
	s.notify(pos)
	s.notify(other)
}

// VertexTerrainKinds returns the four triangles touching the vertex at pos:
// pos's own up and down triangles, and the up-left neighbor's up and down
// triangles.
func (s *Store) VertexTerrainKinds(pos hexgeom.Pos) [4]Terrain {
	ul := s.Geom.Move(pos, hexgeom.UpLeft)
	return [4]Terrain{
		s.TerrainUp(pos), s.TerrainDown(pos),
		s.TerrainUp(ul), s.TerrainDown(ul),
	}
}

// HasTerrainKind reports whether any of the four triangles touching pos's
// vertex falls within [min,max].
func (s *Store) HasTerrainKind(pos hexgeom.Pos, min, max Terrain) bool {
	for _, t := range s.VertexTerrainKinds(pos) {
		if t >= min && t <= max {
			return true
		}
	}
	return false
}

// BuildFlag places a Flag object at pos. Returns ErrUnbuildable if pos is not
// Open.
func (s *Store) BuildFlag(pos hexgeom.Pos, owner uint32) error {
	if !IsBuildable(s.ObjectAt(pos)) {
		return fmt.Errorf("%w: flag at non-open tile", freeserferr.ErrUnbuildable)
	}
	s.SetObject(pos, ObjectFlag, owner)
	return nil
}

// DemolishFlag clears the Flag object at pos. Returns ErrInvariantViolation
// if pos still carries any path bits — a flag cannot be demolished while
// roads terminate on it.
func (s *Store) DemolishFlag(pos hexgeom.Pos) error {
	if s.Paths(pos).Any() {
		return fmt.Errorf("%w: demolishing flag with live paths at %v", freeserferr.ErrInvariantViolation, pos)
	}
	s.SetObject(pos, ObjectNone, 0)
	return nil
}

// BuildRoad writes every path bit implied by walking dirs from start,
// leaving intermediate tiles' object state untouched. Both endpoints must
// already be flags (BuildRoad does not create them).
func (s *Store) BuildRoad(start hexgeom.Pos, dirs []hexgeom.Direction) error {
	if s.ObjectAt(start) != ObjectFlag {
		return fmt.Errorf("%w: road start %v is not a flag", freeserferr.ErrInvariantViolation, start)
	}
	pos := start
	for _, d := range dirs {
		s.SetPath(pos, d)
		pos = s.Geom.Move(pos, d)
	}
	if s.ObjectAt(pos) != ObjectFlag {
		return fmt.Errorf("%w: road end %v is not a flag", freeserferr.ErrInvariantViolation, pos)
	}
	return nil
}

// DemolishRoad clears every path bit implied by walking dirs from start.
func (s *Store) DemolishRoad(start hexgeom.Pos, dirs []hexgeom.Direction) {
	pos := start
	for _, d := range dirs {
		s.ClearPath(pos, d)
		pos = s.Geom.Move(pos, d)
	}
}

// SplitRoad breaks an existing road into two at splitPos by building a flag
// there. The path bits are left untouched: the new flag itself divides the
// road into two flag-to-flag segments. splitPos must already carry a path
// bit in direction d.
func (s *Store) SplitRoad(splitPos hexgeom.Pos, d hexgeom.Direction, owner uint32) error {
	if !s.HasPath(splitPos, d) {
		return fmt.Errorf("%w: no path in direction %v at split point", freeserferr.ErrInvariantViolation, d)
	}
	if err := s.BuildFlag(splitPos, owner); err != nil {
		return err
	}
	return nil
}
