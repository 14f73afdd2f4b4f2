package aiplanner

import (
	"sort"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/worldfacade"
)

// ExpandGoal names one of the resource categories spec §4.8's border
// scoring weighs (foods=2, trees=2, stones=2, stone_signs=1, hills=2,
// iron=3, coal=2, gold=5).
type ExpandGoal int

const (
	ExpandFoods ExpandGoal = iota
	ExpandTrees
	ExpandStones
	ExpandStoneSigns
	ExpandHills
	ExpandIron
	ExpandCoal
	ExpandGold
)

// borderExpandRadius bounds how far outward from a military building the
// border-walk looks for the owner boundary (spec §4.8: "up to 10 tiles").
const borderExpandRadius = 10

// borderScoreRing is the hex ring scored around each discovered border
// position (spec §4.8: "Score the 6-ring hex around that border position").
const borderScoreRing = 6

// ExpandBorder implements spec §4.8's border-expansion scoring: for every
// occupied military building belonging to p.Player, it walks outward in
// each of the 6 directions until it finds a tile not owned by p.Player,
// scores the surrounding 6-ring hex against goals, and attempts to build a
// knight hut at the best-scoring corner found across all border walks.
// Returns true if a hut was built.
func (p *Planner) ExpandBorder() (bool, error) {
	store := p.World.Map()
	geom := store.Geom

	type scoredPos struct {
		pos   hexgeom.Pos
		score float64
	}
	var candidates []scoredPos

	for _, b := range p.World.PlayerBuildings(p.Player) {
		if !worldfacade.IsMilitary(b.Type) || !b.Occupied {
			continue
		}
		for _, d := range hexgeom.AllDirections {
			border, ok := walkToBorder(store, geom, b.Pos, d, p.Player, borderExpandRadius)
			if !ok {
				continue
			}
			s := p.scoreBorderHex(store, geom, border)
			candidates = append(candidates, scoredPos{pos: border, score: s})
		}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	for _, c := range candidates {
		if !mapstore.IsBuildable(store.ObjectAt(c.pos)) {
			continue
		}
		return p.tryBuildHutAt(c.pos)
	}
	return false, nil
}

func (p *Planner) tryBuildHutAt(pos hexgeom.Pos) (bool, error) {
	snap, err := p.World.Player(p.Player)
	if err != nil {
		return false, err
	}
	if err := p.placeAndConnect(pos, worldfacade.BuildingKnightHut, snap.CastleFlag); err != nil {
		return false, err
	}
	return true, nil
}

// walkToBorder steps from start in direction d, up to max tiles, and
// returns the first position whose owner is not self.
func walkToBorder(store *mapstore.Store, geom *hexgeom.Geometry, start hexgeom.Pos, d hexgeom.Direction, self worldfacade.PlayerID, max int) (hexgeom.Pos, bool) {
	pos := start
	for i := 0; i < max; i++ {
		pos = geom.Move(pos, d)
		owner := store.Owner(pos)
		if !owner.Present || owner.ID != uint32(self) {
			return pos, true
		}
	}
	return 0, false
}

// scoreBorderHex scores the 6-ring hex around pos using the scoring
// weights of spec §4.8, limited to the goals in p.ExpandTowards (all goals
// if empty).
func (p *Planner) scoreBorderHex(store *mapstore.Store, geom *hexgeom.Geometry, pos hexgeom.Pos) float64 {
	wanted := func(g ExpandGoal) bool {
		if len(p.ExpandTowards) == 0 {
			return true
		}
		for _, want := range p.ExpandTowards {
			if want == g {
				return true
			}
		}
		return false
	}

	positions := geom.Range(pos, borderScoreRing)
	var foods, trees, stones, stoneSigns, hills, iron, coal, gold int
	for _, t := range positions {
		obj := store.ObjectAt(t)
		switch {
		case obj >= mapstore.ObjectTreeStart && obj <= mapstore.ObjectPalmEnd:
			trees++
		case obj >= mapstore.ObjectStoneStart && obj <= mapstore.ObjectStoneEnd:
			stones++
		case obj == mapstore.ObjectSignLargeStone || obj == mapstore.ObjectSignSmallStone:
			stoneSigns++
		case obj >= mapstore.ObjectFieldStart && obj <= mapstore.ObjectFieldEnd:
			foods++
		}
		if store.Height(t) >= 20 {
			hills++
		}
		m := store.MineralAt(t)
		switch m.Kind {
		case mapstore.MineralIron:
			iron++
		case mapstore.MineralCoal:
			coal++
		case mapstore.MineralGold:
			gold++
		}
	}

	var s float64
	if wanted(ExpandFoods) {
		s += float64(foods * p.Thresholds.ScoreWeightFoods)
	}
	if wanted(ExpandTrees) {
		s += float64(trees * p.Thresholds.ScoreWeightTrees)
	}
	if wanted(ExpandStones) {
		s += float64(stones * p.Thresholds.ScoreWeightStones)
	}
	if wanted(ExpandStoneSigns) {
		s += float64(stoneSigns * p.Thresholds.ScoreWeightStoneSigns)
	}
	if wanted(ExpandHills) {
		s += float64(hills * p.Thresholds.ScoreWeightHills)
	}
	if wanted(ExpandIron) {
		s += float64(iron * p.Thresholds.ScoreWeightIron)
	}
	if wanted(ExpandCoal) {
		s += float64(coal * p.Thresholds.ScoreWeightCoal)
	}
	if wanted(ExpandGold) {
		s += float64(gold * p.Thresholds.ScoreWeightGold)
	}
	return s
}
