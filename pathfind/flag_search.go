package pathfind

import (
	"container/heap"
	"fmt"

	"github.com/freeserf/freeserf-sub004/freeserferr"
	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
)

// FlagSearchResult is the outcome of a flag-graph search: the number of
// graph hops, the summed tile length of the traced edges, and whether the
// known castle flag is one of the route's intermediate flags (neither the
// start nor the target).
type FlagSearchResult struct {
	FlagDist         int
	TileDist         int
	ContainsCastle   bool
}

// FlagPathfinder runs weighted BFS/Dijkstra over the flag graph of a Store:
// each flag's neighbors are discovered by tracing the unique path out of
// each of the 6 directions until another flag is reached.
type FlagPathfinder struct {
	Store      *mapstore.Store
	Geom       *hexgeom.Geometry
	CastleFlag hexgeom.Pos
}

// TraceRoad walks from start in direction d, then at each subsequent tile
// follows the unique non-reverse direction carrying a path bit, until
// another flag is reached. Returns false if the path dead-ends (a path
// bit was set but walking it never reaches a flag within the tile count of
// the map — a sign of a corrupt path graph).
func (p *FlagPathfinder) TraceRoad(start hexgeom.Pos, d hexgeom.Direction) (Road, bool) {
	if !p.Store.HasPath(start, d) {
		return Road{}, false
	}
	road := Road{Source: start, Dirs: []hexgeom.Direction{d}}
	pos := p.Geom.Move(start, d)
	came := d.Reverse()

	limit := p.Geom.TileCount()
	for steps := 0; ; steps++ {
		if p.Store.ObjectAt(pos) == mapstore.ObjectFlag {
			return road, true
		}
		if steps > limit {
			return Road{}, false
		}
		next, ok := uniquePathDirection(p.Store, pos, came)
		if !ok {
			return Road{}, false
		}
		road.Dirs = append(road.Dirs, next)
		pos = p.Geom.Move(pos, next)
		came = next.Reverse()
	}
}

// uniquePathDirection returns the single direction at pos carrying a path
// bit other than the reverse of the direction just arrived from.
func uniquePathDirection(store *mapstore.Store, pos hexgeom.Pos, exclude hexgeom.Direction) (hexgeom.Direction, bool) {
	found := hexgeom.Direction(0)
	ok := false
	for _, d := range hexgeom.AllDirections {
		if d == exclude {
			continue
		}
		if store.Paths(pos).Has(int(d)) {
			if ok {
				return 0, false
			}
			found, ok = d, true
		}
	}
	return found, ok
}

// flagSearchNode is the BFS/Dijkstra scratch entry for one discovered flag.
type flagSearchNode struct {
	pos            hexgeom.Pos
	flagDist       int
	tileDist       int
	containsCastle bool
	parent         int32
	viaDir         hexgeom.Direction
	inClosed       bool
}

// flagArena owns the growable node slice; flagHeap holds a pointer to it so
// append-triggered reallocation never leaves the heap holding stale
// pointers — the heap stores indices into the arena, not node pointers.
type flagArena struct {
	nodes []flagSearchNode
}

type flagHeap struct {
	arena   *flagArena
	indices []int32
}

func (h flagHeap) Len() int { return len(h.indices) }
func (h flagHeap) Less(i, j int) bool {
	return h.arena.nodes[h.indices[i]].flagDist < h.arena.nodes[h.indices[j]].flagDist
}
func (h flagHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }
func (h *flagHeap) Push(x any)   { h.indices = append(h.indices, x.(int32)) }
func (h *flagHeap) Pop() any {
	n := len(h.indices)
	idx := h.indices[n-1]
	h.indices = h.indices[:n-1]
	return idx
}

// Search runs a weighted BFS from start to target over the flag graph,
// priority ordered by flag_dist (graph hops). passThroughCastle, if true,
// restricts the search to routes that visit the castle flag along the way.
func (p *FlagPathfinder) Search(start, target hexgeom.Pos, passThroughCastle bool) (FlagSearchResult, bool) {
	arena := &flagArena{nodes: []flagSearchNode{{pos: start, parent: -1}}}
	visited := map[hexgeom.Pos]int32{start: 0}

	h := &flagHeap{arena: arena, indices: []int32{0}}
	heap.Init(h)

	for h.Len() > 0 {
		curIdx := heap.Pop(h).(int32)
		cur := &arena.nodes[curIdx]
		if cur.inClosed {
			continue
		}
		cur.inClosed = true

		if cur.pos == target {
			if passThroughCastle && !cur.containsCastle {
				continue
			}
			return FlagSearchResult{
				FlagDist:       cur.flagDist,
				TileDist:       cur.tileDist,
				ContainsCastle: cur.containsCastle,
			}, true
		}

		for _, d := range hexgeom.AllDirections {
			road, ok := p.TraceRoad(cur.pos, d)
			if !ok {
				continue
			}
			neighborPos := road.End(p.Geom)
			if existingIdx, seen := visited[neighborPos]; seen {
				existing := &arena.nodes[existingIdx]
				if existing.inClosed {
					continue
				}
				if existing.flagDist > cur.flagDist+1 {
					existing.flagDist = cur.flagDist + 1
					existing.tileDist = cur.tileDist + road.Len()
					existing.containsCastle = cur.containsCastle || (curIdx != 0 && cur.pos == p.CastleFlag)
					existing.parent = curIdx
					existing.viaDir = d
					heap.Push(h, existingIdx)
				}
				continue
			}
			arena.nodes = append(arena.nodes, flagSearchNode{
				pos:            neighborPos,
				flagDist:       cur.flagDist + 1,
				tileDist:       cur.tileDist + road.Len(),
				containsCastle: cur.containsCastle || (curIdx != 0 && cur.pos == p.CastleFlag),
				parent:         curIdx,
				viaDir:         d,
			})
			idx := int32(len(arena.nodes) - 1)
			visited[neighborPos] = idx
			heap.Push(h, idx)
		}
	}
	return FlagSearchResult{}, false
}

// ScoreSplit scores a hypothetical split point that has no flag yet: it
// searches from each of the two real flags adjacent to the split (sideA,
// sideB), keeps the lower-scoring side, and adds the measured tile
// distance from the split point to that side.
func (p *FlagPathfinder) ScoreSplit(splitPos, sideA, sideB, target hexgeom.Pos, tileDistToA, tileDistToB int) (FlagSearchResult, error) {
	resA, okA := p.Search(sideA, target, false)
	resB, okB := p.Search(sideB, target, false)

	switch {
	case okA && okB:
		if resA.FlagDist < resB.FlagDist ||
			(resA.FlagDist == resB.FlagDist && resA.TileDist <= resB.TileDist) {
			resA.TileDist += tileDistToA
			return resA, nil
		}
		resB.TileDist += tileDistToB
		return resB, nil
	case okA:
		resA.TileDist += tileDistToA
		return resA, nil
	case okB:
		resB.TileDist += tileDistToB
		return resB, nil
	default:
		return FlagSearchResult{}, fmt.Errorf("score split at %v: %w", splitPos, freeserferr.ErrDisconnected)
	}
}
