package aiplanner

import "github.com/freeserf/freeserf-sub004/worldfacade"

// Affinity names the up-to-two preferred connection targets for a building
// type (spec §4.8 affinity table). A zero Target2 (BuildingNone) means the
// building only has one preferred target.
type Affinity struct {
	Target1 worldfacade.BuildingType
	Target2 worldfacade.BuildingType
}

// DefaultAffinity returns the affinity table of spec §4.8 verbatim.
// Building types with no entry fall back to the nearest stock (the
// economy's warehouse or castle); a listed affinity target that has no
// completed instance yet also falls back to nearest stock.
func DefaultAffinity() map[worldfacade.BuildingType]Affinity {
	return map[worldfacade.BuildingType]Affinity{
		worldfacade.BuildingLumberjack:   {Target1: worldfacade.BuildingSawmill},
		worldfacade.BuildingStoneMine:    {Target1: worldfacade.BuildingBaker},
		worldfacade.BuildingCoalMine:     {Target1: worldfacade.BuildingWeaponSmith, Target2: worldfacade.BuildingSteelSmelter},
		worldfacade.BuildingIronMine:     {Target1: worldfacade.BuildingBaker, Target2: worldfacade.BuildingSteelSmelter},
		worldfacade.BuildingGoldMine:     {Target1: worldfacade.BuildingBaker, Target2: worldfacade.BuildingGoldSmelter},
		worldfacade.BuildingFarm:         {Target1: worldfacade.BuildingMill},
		worldfacade.BuildingButcher:      {Target1: worldfacade.BuildingGoldMine, Target2: worldfacade.BuildingIronMine},
		worldfacade.BuildingPigFarm:      {Target1: worldfacade.BuildingButcher, Target2: worldfacade.BuildingCoalMine},
		worldfacade.BuildingMill:         {Target1: worldfacade.BuildingFarm},
		worldfacade.BuildingBaker:        {Target1: worldfacade.BuildingMill, Target2: worldfacade.BuildingCoalMine},
		worldfacade.BuildingSteelSmelter: {Target1: worldfacade.BuildingIronMine, Target2: worldfacade.BuildingCoalMine},
		worldfacade.BuildingWeaponSmith:  {Target1: worldfacade.BuildingSteelSmelter, Target2: worldfacade.BuildingCoalMine},
		worldfacade.BuildingGoldSmelter:  {Target1: worldfacade.BuildingGoldMine, Target2: worldfacade.BuildingCoalMine},
	}
}

// AffinityTargets resolves bt's preferred connection targets against the
// player's actually-completed buildings. Target slots that are empty or not
// yet built are left out, and an unlisted bt yields nil; no stock fallback
// is added here.
func AffinityTargets(table map[worldfacade.BuildingType]Affinity, bt worldfacade.BuildingType, completedByType map[worldfacade.BuildingType]bool) []worldfacade.BuildingType {
	aff, ok := table[bt]
	if !ok {
		return nil
	}
	var out []worldfacade.BuildingType
	if aff.Target1 != worldfacade.BuildingNone && completedByType[aff.Target1] {
		out = append(out, aff.Target1)
	}
	if aff.Target2 != worldfacade.BuildingNone && completedByType[aff.Target2] {
		out = append(out, aff.Target2)
	}
	return out
}
