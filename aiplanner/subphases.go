package aiplanner

import (
	"context"
	"fmt"

	"github.com/freeserf/freeserf-sub004/freeserferr"
	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/pathfind"
	"github.com/freeserf/freeserf-sub004/worldfacade"
)

// placeSearchRing bounds how far from the stock a new civilian building
// site is searched for (spec §4.8's placement phases all work from a
// player's stock outward).
const placeSearchRing = 12

// findOpenSiteNear returns the first Open, not-yet-tried position within
// placeSearchRing of center, skipping positions already marked bad for bt.
func (p *Planner) findOpenSiteNear(center hexgeom.Pos, bt worldfacade.BuildingType) (hexgeom.Pos, bool) {
	store := p.World.Map()
	geom := store.Geom
	positions, err := geom.SpiralPositions(center, placeSearchRing)
	if err != nil {
		return 0, false
	}
	for _, pos := range positions {
		if p.isBad(bt, pos) {
			continue
		}
		if mapstore.IsBuildable(store.ObjectAt(pos)) && p.World.CanBuildBuilding(pos, bt) {
			return pos, true
		}
	}
	return 0, false
}

// placeAndConnect builds bt at pos, then connects its flag to target
// (typically the stock, or an affinity target) via BuildBestRoad. On a
// Disconnected outcome it demolishes what it just built and records pos as
// bad for bt (spec §7 item 3), returning the recoverable error rather than
// propagating a fatal one.
func (p *Planner) placeAndConnect(pos hexgeom.Pos, bt worldfacade.BuildingType, target hexgeom.Pos) error {
	ok, err := p.World.BuildBuilding(pos, p.Player, bt)
	if err != nil || !ok {
		return fmt.Errorf("place %v at %v: %w", bt, pos, freeserferr.ErrUnbuildable)
	}
	geom := p.World.Map().Geom
	flagPos := geom.Move(pos, hexgeom.DownRight)
	if ok, err := p.World.BuildFlag(flagPos, p.Player); err != nil || !ok {
		p.revertPlacement(pos, flagPos, bt)
		return fmt.Errorf("place %v flag at %v: %w", bt, flagPos, freeserferr.ErrUnbuildable)
	}
	built, err := p.BuildBestRoad(flagPos, target, SplitRoads|PenalizeNewLength|Improve)
	if err != nil || !built {
		p.revertPlacement(pos, flagPos, bt)
		p.markBad(bt, pos)
		Logger.Info("building disconnected, reverted", "type", bt, "pos", pos, "err", err)
		return fmt.Errorf("connect %v at %v: %w", bt, pos, freeserferr.ErrDisconnected)
	}
	return nil
}

func (p *Planner) revertPlacement(pos, flagPos hexgeom.Pos, bt worldfacade.BuildingType) {
	if _, err := p.World.DemolishBuilding(pos); err != nil {
		Logger.Error("revert demolish building failed", "pos", pos, "err", err)
	}
	if _, err := p.World.DemolishFlag(flagPos); err != nil {
		Logger.Error("revert demolish flag failed", "pos", flagPos, "err", err)
	}
}

// wrapCivilian returns a subphase that places one instance of bt near the
// player's stock, in the fixed priority order spec §4.8 lists, if the
// player does not already have an unfinished building of that type and is
// within MaxUnfinishedBuildings overall.
func (p *Planner) wrapCivilian(bt worldfacade.BuildingType) func(context.Context) error {
	return func(ctx context.Context) error {
		snap, err := p.World.Player(p.Player)
		if err != nil {
			return err
		}
		buildings := p.World.PlayerBuildings(p.Player)
		unfinished := 0
		for _, b := range buildings {
			if b.Unfinished {
				unfinished++
			}
			if b.Type == bt && b.Unfinished {
				return nil // already building one
			}
		}
		if unfinished >= p.Thresholds.MaxUnfinishedBuildings {
			return nil
		}
		pos, found := p.findOpenSiteNear(snap.CastleFlag, bt)
		if !found {
			return fmt.Errorf("find site for %v: %w", bt, freeserferr.ErrUnbuildable)
		}
		targets := AffinityTargets(p.Affinity, bt, completedByType(buildings))
		target := snap.CastleFlag
		if len(targets) > 0 {
			if tp, ok := firstFlagOfType(buildings, targets[0]); ok {
				target = tp
			}
		}
		return p.placeAndConnect(pos, bt, target)
	}
}

// connectResource returns a subphase that, for every completed mine of the
// given type, builds a spider-web road to its affinity target if one does
// not already connect them (spec §4.8's "coal connection"/"iron
// connection" phases).
func (p *Planner) connectResource(bt worldfacade.BuildingType) func(context.Context) error {
	return func(ctx context.Context) error {
		snap, err := p.World.Player(p.Player)
		if err != nil {
			return err
		}
		buildings := p.World.PlayerBuildings(p.Player)
		targets := AffinityTargets(p.Affinity, bt, completedByType(buildings))
		var lastErr error
		for _, b := range buildings {
			if b.Type != bt || b.Unfinished {
				continue
			}
			target := snap.CastleFlag
			if len(targets) > 0 {
				if tp, ok := firstFlagOfType(buildings, targets[0]); ok {
					target = tp
				}
			}
			if _, err := p.BuildBestRoad(b.FlagPos, target, SplitRoads|PenalizeNewLength|Improve); err != nil {
				lastErr = err
			}
		}
		return lastErr
	}
}

func completedByType(buildings []worldfacade.BuildingSnapshot) map[worldfacade.BuildingType]bool {
	out := make(map[worldfacade.BuildingType]bool, len(buildings))
	for _, b := range buildings {
		if !b.Unfinished {
			out[b.Type] = true
		}
	}
	return out
}

func firstFlagOfType(buildings []worldfacade.BuildingSnapshot, bt worldfacade.BuildingType) (hexgeom.Pos, bool) {
	for _, b := range buildings {
		if b.Type == bt && !b.Unfinished {
			return b.FlagPos, true
		}
	}
	return 0, false
}

// surveySerfsAndBuildings refreshes the planner's view of the player's
// buildings. It deliberately re-queries the facade rather than caching:
// spec §5 requires the AI to never cache building lists across a lock
// release.
func (p *Planner) surveySerfsAndBuildings(ctx context.Context) error {
	buildings := p.World.PlayerBuildings(p.Player)
	Logger.Debug("surveyed buildings", "player", p.Player, "count", len(buildings))
	return nil
}

// promoteKnights decides, from the player's current knight count against
// Thresholds.KnightsMax, whether policy allows promoting generic
// serfs to knights. The serf state machine that would carry out the
// promotion is an out-of-scope collaborator (spec §1); this records only
// the decision.
func (p *Planner) promoteKnights(ctx context.Context) error {
	snap, err := p.World.Player(p.Player)
	if err != nil {
		return err
	}
	allow := snap.KnightsAvailableToAttack < p.Thresholds.KnightsMax
	Logger.Debug("knight promotion policy", "player", p.Player, "allow", allow)
	return nil
}

// connectDisconnectedFlags finds every completed building whose flag is
// not reachable from the castle flag and attempts to connect it.
func (p *Planner) connectDisconnectedFlags(ctx context.Context) error {
	store := p.World.Map()
	fpf := &pathfind.FlagPathfinder{Store: store, Geom: store.Geom, CastleFlag: p.CastleFlag}
	var lastErr error
	for _, b := range p.World.PlayerBuildings(p.Player) {
		if b.Unfinished {
			continue
		}
		if _, ok := fpf.Search(b.FlagPos, p.CastleFlag, false); ok {
			continue
		}
		if _, err := p.BuildBestRoad(b.FlagPos, p.CastleFlag, SplitRoads|PenalizeNewLength|Improve); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// buildSpiderWebRoads adds shortcut connections between affinity-paired
// buildings that are each already connected to the network but not
// directly to one another, shortening the overall transport graph.
func (p *Planner) buildSpiderWebRoads(ctx context.Context) error {
	buildings := p.World.PlayerBuildings(p.Player)
	completed := completedByType(buildings)
	var lastErr error
	for _, b := range buildings {
		if b.Unfinished {
			continue
		}
		for _, t := range AffinityTargets(p.Affinity, b.Type, completed) {
			targetFlag, ok := firstFlagOfType(buildings, t)
			if !ok || targetFlag == b.FlagPos {
				continue
			}
			if _, err := p.BuildBestRoad(b.FlagPos, targetFlag, SplitRoads|ReducedNewLengthPenalty|PenalizeNewLength|Improve); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

// fixStuckSerfs is a decision-only placeholder: the serf movement state
// machine that could actually be "stuck" lives outside this module's scope
// (spec §1). Nothing to snapshot or mutate here; kept as an explicit
// no-op subphase so the ≈25-step ordering in spec §4.8 stays visible.
func (p *Planner) fixStuckSerfs(ctx context.Context) error { return nil }

// sendGeologists decides whether more geologists are worth sending by
// comparing the resource-sign density around the stock against
// Thresholds.GeologistSaturationDensity; GeologistsMax is not consulted.
// Actually dispatching a geologist serf is out of scope; this computes the
// decision.
func (p *Planner) sendGeologists(ctx context.Context) error {
	snap, err := p.World.Player(p.Player)
	if err != nil {
		return err
	}
	store := p.World.Map()
	geom := store.Geom
	positions, err := geom.SpiralPositions(snap.CastleFlag, placeSearchRing)
	if err != nil {
		return err
	}
	signs, total := 0, 0
	for _, pos := range positions {
		total++
		if isResourceSign(store.ObjectAt(pos)) {
			signs++
		}
	}
	density := 0.0
	if total > 0 {
		density = float64(signs) / float64(total)
	}
	worthSending := density < p.Thresholds.GeologistSaturationDensity
	Logger.Debug("geologist dispatch policy", "player", p.Player, "density", density, "worth_sending", worthSending)
	return nil
}

func isResourceSign(o mapstore.Object) bool {
	return o >= mapstore.ObjectSignLargeGold && o <= mapstore.ObjectSignEmpty
}

// buildRangers places a forester near the stock unless an unfinished
// forester already exists. It does not count trees near lumberjacks, so
// Thresholds.NearTreesMin plays no part in the decision.
func (p *Planner) buildRangers(ctx context.Context) error {
	snap, err := p.World.Player(p.Player)
	if err != nil {
		return err
	}
	buildings := p.World.PlayerBuildings(p.Player)
	for _, b := range buildings {
		if b.Type == worldfacade.BuildingForester && b.Unfinished {
			return nil
		}
	}
	pos, found := p.findOpenSiteNear(snap.CastleFlag, worldfacade.BuildingForester)
	if !found {
		return nil
	}
	return p.placeAndConnect(pos, worldfacade.BuildingForester, snap.CastleFlag)
}

// demolishUnproductiveStructures burns down completed buildings that never
// became occupied — the cheapest available proxy for "unproductive" absent
// the out-of-scope production simulation — and producing mines whose
// output fraction would fall under Thresholds.MineOutputMinPercent (that
// fraction itself is computed by the economic simulation and is not
// available through worldfacade.Facade, so only the occupancy check runs
// here).
func (p *Planner) demolishUnproductiveStructures(ctx context.Context) error {
	var lastErr error
	for _, b := range p.World.PlayerBuildings(p.Player) {
		if b.Unfinished || b.Occupied || b.Type == worldfacade.BuildingCastle {
			continue
		}
		if _, err := p.World.DemolishBuilding(b.Pos); err != nil {
			lastErr = err
			continue
		}
		if _, err := p.World.DemolishFlag(b.FlagPos); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// manageToolPriorities and balanceWeaponSmithInputs reason about per-tool
// production priorities and smelter input ratios, both properties of the
// out-of-scope production-recipe simulation; there is no worldfacade hook
// to set them. Both are kept as explicit no-op subphases matching spec
// §4.8's ordering.
func (p *Planner) manageToolPriorities(ctx context.Context) error     { return nil }
func (p *Planner) balanceWeaponSmithInputs(ctx context.Context) error { return nil }

// considerAttacksSubphase computes attack plans via ScoreAttacks and logs
// them; issuing the attack itself is the Player object's
// target_building_index/attacker_count/start_attack protocol (spec §6),
// which belongs to the out-of-scope game loop, not this package.
func (p *Planner) considerAttacksSubphase(ctx context.Context) error {
	plans, err := p.ScoreAttacks()
	if err != nil {
		return err
	}
	Logger.Debug("attack plans scored", "player", p.Player, "count", len(plans))
	return nil
}

// adjustKnightOccupation is a decision-only placeholder: garrison
// occupation levels live on the out-of-scope building/serf model.
func (p *Planner) adjustKnightOccupation(ctx context.Context) error { return nil }

// placeMines places coal/iron/gold mines up to their MaxXMines caps. It
// does not measure resource-sign density, so the SignDensityMin thresholds
// play no part in the decision.
func (p *Planner) placeMines(ctx context.Context) error {
	snap, err := p.World.Player(p.Player)
	if err != nil {
		return err
	}
	buildings := p.World.PlayerBuildings(p.Player)
	counts := map[worldfacade.BuildingType]int{}
	for _, b := range buildings {
		counts[b.Type]++
	}
	mines := []struct {
		bt  worldfacade.BuildingType
		max int
	}{
		{worldfacade.BuildingCoalMine, p.Thresholds.MaxCoalMines},
		{worldfacade.BuildingIronMine, p.Thresholds.MaxIronMines},
		{worldfacade.BuildingGoldMine, p.Thresholds.MaxGoldMines},
	}
	var lastErr error
	for _, m := range mines {
		if counts[m.bt] >= m.max {
			continue
		}
		pos, found := p.findOpenSiteNear(snap.CastleFlag, m.bt)
		if !found {
			continue
		}
		if err := p.placeAndConnect(pos, m.bt, snap.CastleFlag); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// placeDefensiveBuffer places a knight hut near the current border if the
// player has fewer unfinished knight huts than Thresholds.MaxUnfinishedHuts.
func (p *Planner) placeDefensiveBuffer(ctx context.Context) error {
	unfinished := 0
	for _, b := range p.World.PlayerBuildings(p.Player) {
		if b.Type == worldfacade.BuildingKnightHut && b.Unfinished {
			unfinished++
		}
	}
	if unfinished >= p.Thresholds.MaxUnfinishedHuts {
		return nil
	}
	_, err := p.ExpandBorder()
	return err
}

