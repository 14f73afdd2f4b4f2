package pathfind

import "github.com/freeserf/freeserf-sub004/hexgeom"

// Road is an ordered sequence of directions plus a source position. Its
// length is the number of directions; its end position is computed by
// folding directions from the source.
type Road struct {
	Source hexgeom.Pos
	Dirs   []hexgeom.Direction
}

// Len returns the number of edges in the road.
func (r Road) Len() int { return len(r.Dirs) }

// End folds the direction list from Source and returns the resulting
// position.
func (r Road) End(geom *hexgeom.Geometry) hexgeom.Pos {
	pos := r.Source
	for _, d := range r.Dirs {
		pos = geom.Move(pos, d)
	}
	return pos
}

// Reverse returns a road that walks the same tiles in the opposite order:
// the new source is this road's end, and each direction is reversed and
// the list is inverted. Reverse(Reverse(r)) == r.
func (r Road) Reverse(geom *hexgeom.Geometry) Road {
	out := Road{Source: r.End(geom), Dirs: make([]hexgeom.Direction, len(r.Dirs))}
	for i, d := range r.Dirs {
		out.Dirs[len(r.Dirs)-1-i] = d.Reverse()
	}
	return out
}

// PlotResult is the outcome of a single TilePathfinder.PlotRoad call: the
// direct road found (if any) plus any split-road candidates discovered
// en route.
type PlotResult struct {
	Direct Road
	Found  bool
	Splits []SplitCandidate
}
