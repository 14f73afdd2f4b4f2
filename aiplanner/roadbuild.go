package aiplanner

import (
	"fmt"
	"sort"

	"github.com/freeserf/freeserf-sub004/freeserferr"
	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/pathfind"
)

// candidateRoad is one scored entry in a single BuildBestRoad attempt:
// either a proad (a freshly plotted road, NewLength > 0) or the single
// eroad baseline (the route start already has through the live network,
// NewLength == 0).
type candidateRoad struct {
	flagPos        hexgeom.Pos
	road           pathfind.Road // from start to flagPos; empty for the eroad baseline
	splitOf        *pathfind.SplitCandidate
	tileDist       int
	flagDist       int
	newLength      int
	containsCastle bool
	isExisting     bool
	score          float64
}

// spiralCandidateFlags gathers nearby flags by centering a spiral search on
// the midpoint between start and target, searching out to ring 6 and
// expanding to ring 15 if fewer than two flags are found. target is always
// included (spec §4.8 step 1).
func spiralCandidateFlags(store *mapstore.Store, geom *hexgeom.Geometry, start, target hexgeom.Pos) ([]hexgeom.Pos, error) {
	midCol := (geom.Col(start) + geom.Col(target)) / 2
	midRow := (geom.Row(start) + geom.Row(target)) / 2
	mid := geom.PosAt(midCol, midRow)

	collect := func(ring int) ([]hexgeom.Pos, error) {
		positions, err := geom.SpiralPositions(mid, ring)
		if err != nil {
			return nil, err
		}
		var flags []hexgeom.Pos
		for _, p := range positions {
			if store.ObjectAt(p) == mapstore.ObjectFlag {
				flags = append(flags, p)
			}
		}
		return flags, nil
	}

	flags, err := collect(6)
	if err != nil {
		return nil, err
	}
	if len(flags) < 2 {
		flags, err = collect(15)
		if err != nil {
			return nil, err
		}
	}

	found := false
	for _, f := range flags {
		if f == target {
			found = true
			break
		}
	}
	if !found {
		flags = append(flags, target)
	}
	return flags, nil
}

// traceSplitSides locates the two real flags on either side of splitPos
// along the existing road that passes through it, by following its (at
// most two) path directions to their respective flag endpoints.
func traceSplitSides(fp *pathfind.FlagPathfinder, splitPos hexgeom.Pos) (sideA, sideB hexgeom.Pos, tileDistA, tileDistB int, ok bool) {
	var dirs []hexgeom.Direction
	for _, d := range hexgeom.AllDirections {
		if fp.Store.HasPath(splitPos, d) {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) != 2 {
		return 0, 0, 0, 0, false
	}
	roadA, okA := fp.TraceRoad(splitPos, dirs[0])
	roadB, okB := fp.TraceRoad(splitPos, dirs[1])
	if !okA || !okB {
		return 0, 0, 0, 0, false
	}
	return roadA.End(fp.Geom), roadB.End(fp.Geom), roadA.Len(), roadB.Len(), true
}

// BuildBestRoad implements the build loop of spec §4.8: it gathers
// candidate connection flags around start and target, plots and scores a
// direct road to each (plus split-road "fake flag" candidates found along
// the way), compares the cheapest candidate to the route start already has
// through the network, and builds the first acceptable candidate —
// reverting and trying the next if the build itself fails.
//
// target is the destination the new flag at start is trying to reach
// (typically the nearest stock, or an affinity target per DefaultAffinity).
// Returns true if a road was built.
func (p *Planner) BuildBestRoad(start, target hexgeom.Pos, opts RoadOption) (bool, error) {
	store := p.World.Map()
	geom := store.Geom
	tpf := &pathfind.TilePathfinder{Geom: geom, Store: store, Rng: p.Rng}
	fpf := &pathfind.FlagPathfinder{Geom: geom, Store: store, CastleFlag: p.CastleFlag}
	rb := pathfind.NewRoadBuilder(start, target)

	var candidates []candidateRoad

	// The eroad baseline: the route start already has through the live
	// network, if any.
	if store.Paths(start).Any() {
		if res, ok := fpf.Search(start, target, false); ok {
			ends := pathfind.RoadEnds{PosA: start, PosB: target}
			rb.NewERoad(ends, pathfind.Road{Source: start})
			c := candidateRoad{
				flagPos: target, tileDist: res.TileDist, flagDist: res.FlagDist,
				containsCastle: res.ContainsCastle, isExisting: true,
			}
			c.score = scoreERoad(c.tileDist, c.flagDist, c.containsCastle, opts)
			candidates = append(candidates, c)
		}
		if !opts.Has(Improve) && !opts.Has(Direct) {
			// start already has paths and the caller did not ask to
			// compare against new solutions: nothing further to do.
			if len(candidates) > 0 {
				return false, nil
			}
		}
	}

	var targets []hexgeom.Pos
	if opts.Has(Direct) {
		targets = []hexgeom.Pos{target}
	} else {
		var err error
		targets, err = spiralCandidateFlags(store, geom, start, target)
		if err != nil {
			return false, err
		}
	}

	straightStartTarget := geom.TileDistance(start, target)

	for _, c := range targets {
		plot := tpf.PlotRoad(start, c)
		if plot.Found {
			newLength := plot.Direct.Len()
			straightDist := geom.TileDistance(start, c)
			if straightDist == 0 {
				straightDist = straightStartTarget
			}
			if convolution(newLength, straightDist) <= p.Thresholds.MaxConvolution {
				res, ok := fpf.Search(c, target, false)
				if !ok && c == target {
					res = pathfind.FlagSearchResult{}
					ok = true
				}
				if ok {
					rb.NewPRoad(plot.Direct)
					rb.SetScore(c, pathfind.FlagScore{FlagDist: res.FlagDist, TileDist: res.TileDist, ContainsCastle: res.ContainsCastle})
					cand := candidateRoad{
						flagPos: c, road: plot.Direct, tileDist: res.TileDist,
						flagDist: res.FlagDist, newLength: newLength, containsCastle: res.ContainsCastle,
					}
					cand.score = scoreProad(cand.tileDist, cand.flagDist, cand.newLength, cand.containsCastle, opts)
					candidates = append(candidates, cand)
				}
			}
		}

		if opts.Has(SplitRoads) && !opts.Has(Direct) {
			for i := range plot.Splits {
				sp := &plot.Splits[i]
				sideA, sideB, tdA, tdB, ok := traceSplitSides(fpf, sp.Pos)
				if !ok {
					continue
				}
				res, err := fpf.ScoreSplit(sp.Pos, sideA, sideB, target, tdA, tdB)
				if err != nil {
					continue
				}
				newLength := sp.Path.Len()
				if convolution(newLength, geom.TileDistance(start, sp.Pos)) > p.Thresholds.MaxConvolution {
					continue
				}
				rb.NewPRoad(sp.Path)
				cand := candidateRoad{
					flagPos: sp.Pos, road: sp.Path, splitOf: sp, tileDist: res.TileDist,
					flagDist: res.FlagDist, newLength: newLength, containsCastle: res.ContainsCastle,
				}
				cand.score = scoreProad(cand.tileDist, cand.flagDist, cand.newLength, cand.containsCastle, opts)
				candidates = append(candidates, cand)
			}
		}
	}

	if len(candidates) == 0 {
		return false, fmt.Errorf("build best road %v -> %v: %w", start, target, freeserferr.ErrDisconnected)
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score < candidates[j].score })

	var bestERoadScore float64 = pathfind.BadScore
	for _, c := range candidates {
		if c.isExisting {
			bestERoadScore = c.score
			break
		}
	}

	for _, c := range candidates {
		if c.isExisting {
			continue
		}
		if bestERoadScore < pathfind.BadScore && !opts.Has(Direct) && !significantlyBetter(c.score, bestERoadScore) {
			continue
		}
		built, err := p.tryBuildCandidate(start, c)
		if err != nil || !built {
			continue
		}
		return true, nil
	}
	return false, nil
}

// tryBuildCandidate attempts to lay the road for one candidate. Split
// candidates require building a new flag at the split point first; if the
// road build subsequently fails, the just-created flag is demolished
// (spec §4.8 step 5 "revert").
func (p *Planner) tryBuildCandidate(start hexgeom.Pos, c candidateRoad) (bool, error) {
	if c.splitOf != nil {
		ok, err := p.World.BuildFlag(c.splitOf.Pos, p.Player)
		if err != nil || !ok {
			return false, err
		}
		if ok2, err := p.World.BuildRoad(start, c.road.Dirs); err != nil || !ok2 {
			if _, derr := p.World.DemolishFlag(c.splitOf.Pos); derr != nil {
				Logger.Error("revert split flag failed", "pos", c.splitOf.Pos, "err", derr)
			}
			return false, err
		}
		return true, nil
	}
	ok, err := p.World.BuildRoad(start, c.road.Dirs)
	if err != nil || !ok {
		return false, err
	}
	return true, nil
}
