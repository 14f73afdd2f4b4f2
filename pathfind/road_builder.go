package pathfind

import "github.com/freeserf/freeserf-sub004/hexgeom"

// BadScore is the sentinel GetScore returns for a flag with no recorded
// score. It is large enough to always lose a comparison against a real
// score, but small enough that twice its value never overflows an int.
const BadScore = 123_123_123

// RoadEnds identifies a traced road by its two flag endpoints and the
// direction each endpoint departs in.
type RoadEnds struct {
	PosA hexgeom.Pos
	DirA hexgeom.Direction
	PosB hexgeom.Pos
	DirB hexgeom.Direction
}

// RBRoad is one entry in a RoadBuilder's road cache: the traced path and
// the index it was stored under.
type RBRoad struct {
	Index int
	Path  Road
}

// FlagScore caches one flag's distance to the target, as computed by a
// FlagPathfinder search.
type FlagScore struct {
	FlagDist       int
	TileDist       int
	ContainsCastle bool
}

// RoadBuilder is the per-attempt scratch state for a single
// build-best-road invocation: existing roads already discovered
// (eroads, keyed by endpoints — at most one per pair), potential roads
// not yet built (proads, keyed by a monotonic index since multiple
// distinct proads can share endpoints via split solutions), and a cache
// of per-flag scores.
type RoadBuilder struct {
	StartPos  hexgeom.Pos
	TargetPos hexgeom.Pos

	eroads map[RoadEnds]*RBRoad
	proads map[int]*RBRoad
	scores map[hexgeom.Pos]FlagScore

	nextIndex int
}

// NewRoadBuilder returns an empty builder for a single start/target
// attempt.
func NewRoadBuilder(start, target hexgeom.Pos) *RoadBuilder {
	return &RoadBuilder{
		StartPos:  start,
		TargetPos: target,
		eroads:    make(map[RoadEnds]*RBRoad),
		proads:    make(map[int]*RBRoad),
		scores:    make(map[hexgeom.Pos]FlagScore),
	}
}

// NewERoad records an already-existing traced road, keyed by its
// endpoints, and returns its index. A second call with the same ends
// overwrites the first and reuses its index.
func (b *RoadBuilder) NewERoad(ends RoadEnds, r Road) int {
	if existing, ok := b.eroads[ends]; ok {
		existing.Path = r
		return existing.Index
	}
	idx := b.nextIndex
	b.nextIndex++
	b.eroads[ends] = &RBRoad{Index: idx, Path: r}
	return idx
}

// NewPRoad records a potential (not yet built) road under a fresh
// monotonic index — never under its endpoints, since distinct split
// solutions may share an endpoint pair.
func (b *RoadBuilder) NewPRoad(r Road) int {
	idx := b.nextIndex
	b.nextIndex++
	b.proads[idx] = &RBRoad{Index: idx, Path: r}
	return idx
}

// ERoad looks up a previously recorded existing road by its endpoints.
func (b *RoadBuilder) ERoad(ends RoadEnds) (*RBRoad, bool) {
	r, ok := b.eroads[ends]
	return r, ok
}

// PRoad looks up a previously recorded potential road by its index.
func (b *RoadBuilder) PRoad(idx int) (*RBRoad, bool) {
	r, ok := b.proads[idx]
	return r, ok
}

// SetScore records or overwrites the flag score at pos.
func (b *RoadBuilder) SetScore(pos hexgeom.Pos, score FlagScore) {
	b.scores[pos] = score
}

// HasScore reports whether pos has a recorded score.
func (b *RoadBuilder) HasScore(pos hexgeom.Pos) bool {
	_, ok := b.scores[pos]
	return ok
}

// GetScore returns pos's recorded flag score, or a score carrying
// BadScore in all numeric fields if none is recorded.
func (b *RoadBuilder) GetScore(pos hexgeom.Pos) FlagScore {
	if score, ok := b.scores[pos]; ok {
		return score
	}
	return FlagScore{FlagDist: BadScore, TileDist: BadScore}
}
