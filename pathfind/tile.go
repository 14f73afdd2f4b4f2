// Package pathfind implements the two-level road pathfinding used by the AI:
// tile-level A* for plotting a single road, and flag-level search for
// scoring the rest of a route once a candidate end-flag is known.
package pathfind

import (
	"container/heap"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
)

// walkCost is indexed by the absolute height difference (0..4) of a tile
// edge; larger differences cost more to traverse, and differences above 4
// use the last entry.
var walkCost = [5]uint32{255, 319, 383, 447, 511}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func heightDiff(store *mapstore.Store, a, b hexgeom.Pos) int {
	return absInt(int(store.Height(a)) - int(store.Height(b)))
}

// heuristicCost estimates the remaining cost from start to end as
// straightline tile distance scaled by the walk cost at the average per-tile
// height difference between the endpoints.
func heuristicCost(geom *hexgeom.Geometry, store *mapstore.Store, start, end hexgeom.Pos) uint32 {
	dist := geom.TileDistance(start, end)
	if dist == 0 {
		return 0
	}
	avg := heightDiff(store, start, end) / dist
	if avg > len(walkCost)-1 {
		avg = len(walkCost) - 1
	}
	return uint32(dist) * walkCost[avg]
}

func actualCost(store *mapstore.Store, pos hexgeom.Pos, d hexgeom.Direction, geom *hexgeom.Geometry) uint32 {
	h := heightDiff(store, pos, geom.Move(pos, d))
	if h > len(walkCost)-1 {
		h = len(walkCost) - 1
	}
	return walkCost[h]
}

// searchNode lives in a flat arena; parent links are indices, not pointers,
// so path reconstruction walks integers rather than chasing pointers.
type searchNode struct {
	pos     hexgeom.Pos
	gScore  uint32
	fScore  uint32
	parent  int32 // -1 for the root
	viaDir  hexgeom.Direction
	inClosed bool
	inOpen  bool
	openIdx int
}

// SplitCandidate is a side-output of a tile search: a flag-buildable tile
// with an existing path bit that was reached en route to the target.
type SplitCandidate struct {
	Pos  hexgeom.Pos
	Path Road
}

// MaxSplitCandidates bounds the number of split candidates a single plot
// emits; further matches are discarded.
const MaxSplitCandidates = 10

// TilePathfinder runs A* over tile vertices for a single Store.
type TilePathfinder struct {
	Geom  *hexgeom.Geometry
	Store *mapstore.Store
	Rng   hexgeom.RandSource
}

// nodeArena owns the growable node slice; nodeHeap holds a pointer to it so
// Push/append-triggered reallocation never leaves the heap referencing a
// stale backing array.
type nodeArena struct {
	nodes []searchNode
}

// nodeHeap is a min-heap over searchNode f-scores, arena-indexed.
type nodeHeap struct {
	arena   *nodeArena
	indices []int32
}

func (h *nodeHeap) Len() int { return len(h.indices) }
func (h *nodeHeap) Less(i, j int) bool {
	return h.arena.nodes[h.indices[i]].fScore < h.arena.nodes[h.indices[j]].fScore
}
func (h *nodeHeap) Swap(i, j int) {
	h.indices[i], h.indices[j] = h.indices[j], h.indices[i]
	h.arena.nodes[h.indices[i]].openIdx = i
	h.arena.nodes[h.indices[j]].openIdx = j
}
func (h *nodeHeap) Push(x any) {
	idx := x.(int32)
	h.arena.nodes[idx].openIdx = len(h.indices)
	h.indices = append(h.indices, idx)
}
func (h *nodeHeap) Pop() any {
	n := len(h.indices)
	idx := h.indices[n-1]
	h.indices = h.indices[:n-1]
	return idx
}

// PlotRoad finds the direct road from start to end and up to
// MaxSplitCandidates split-road candidates discovered en route.
func (p *TilePathfinder) PlotRoad(start, end hexgeom.Pos) PlotResult {
	arena := &nodeArena{nodes: make([]searchNode, 0, 256)}
	posIndex := make(map[hexgeom.Pos]int32, 256)
	var splits []SplitCandidate

	newNode := func(pos hexgeom.Pos, parent int32, dir hexgeom.Direction, g uint32) int32 {
		idx := int32(len(arena.nodes))
		arena.nodes = append(arena.nodes, searchNode{
			pos: pos, gScore: g,
			fScore: g + heuristicCost(p.Geom, p.Store, pos, end),
			parent: parent, viaDir: dir,
		})
		posIndex[pos] = idx
		return idx
	}

	h := &nodeHeap{arena: arena}
	rootIdx := newNode(start, -1, 0, 0)
	heap.Push(h, rootIdx)

	for h.Len() > 0 {
		curIdx := heap.Pop(h).(int32)
		cur := &arena.nodes[curIdx]
		if cur.pos == end {
			return PlotResult{
				Direct: Road{Source: start, Dirs: reconstructPath(arena.nodes, curIdx)},
				Found:  true,
				Splits: splits,
			}
		}
		cur.inClosed = true
		cur.inOpen = false

		dirs := hexgeom.CycleRandCW(p.Rng)
		for _, d := range dirs {
			newPos := p.Geom.Move(cur.pos, d)
			if !p.edgeValid(cur.pos, d, newPos, end) {
				continue
			}

			if newPos != end && mapstore.IsBuildable(p.Store.ObjectAt(newPos)) &&
				p.Store.Paths(newPos).Any() && len(splits) < MaxSplitCandidates {
				splits = append(splits, SplitCandidate{
					Pos:  newPos,
					Path: Road{Source: start, Dirs: reconstructDirs(arena.nodes, curIdx, d)},
				})
			}

			cost := actualCost(p.Store, cur.pos, d, p.Geom)
			if existingIdx, ok := posIndex[newPos]; ok {
				existing := &arena.nodes[existingIdx]
				if existing.inClosed {
					continue
				}
				if existing.gScore > cur.gScore+cost {
					existing.gScore = cur.gScore + cost
					existing.fScore = existing.gScore + heuristicCost(p.Geom, p.Store, newPos, end)
					existing.parent = curIdx
					existing.viaDir = d
					if existing.inOpen {
						heap.Fix(h, existing.openIdx)
					}
				}
				continue
			}

			newIdx := newNode(newPos, curIdx, d, cur.gScore+cost)
			arena.nodes[newIdx].inOpen = true
			heap.Push(h, newIdx)
		}
	}
	return PlotResult{Splits: splits}
}

// edgeValid rejects moving onto a flag that isn't the target; all other
// terrain/height edges are valid (possibly costly).
func (p *TilePathfinder) edgeValid(from hexgeom.Pos, d hexgeom.Direction, to, target hexgeom.Pos) bool {
	if to != target && p.Store.ObjectAt(to) == mapstore.ObjectFlag {
		return false
	}
	return true
}

func reconstructDirs(arena []searchNode, fromIdx int32, lastDir hexgeom.Direction) []hexgeom.Direction {
	var rev []hexgeom.Direction
	for idx := fromIdx; idx != -1; idx = arena[idx].parent {
		n := &arena[idx]
		if n.parent == -1 {
			break
		}
		rev = append(rev, n.viaDir)
	}
	out := make([]hexgeom.Direction, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}
	return append(out, lastDir)
}

func reconstructPath(arena []searchNode, end int32) []hexgeom.Direction {
	var rev []hexgeom.Direction
	for idx := end; arena[idx].parent != -1; idx = arena[idx].parent {
		rev = append(rev, arena[idx].viaDir)
	}
	out := make([]hexgeom.Direction, len(rev))
	for i, d := range rev {
		out[len(rev)-1-i] = d
	}
	return out
}
