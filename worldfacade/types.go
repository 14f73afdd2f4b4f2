// Package worldfacade defines the narrow contract the AI planner requires
// from the surrounding simulation (spec §4.9, §6): reading map state,
// mutating it under a single global lock, and building or demolishing
// flags/roads/buildings. Rendering, savegames, the human-player game loop,
// and the per-building economic simulation rules are explicitly collaborators
// referenced only through this interface, never implemented here.
package worldfacade

import (
	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
)

// PlayerID identifies a player (human or AI) owning buildings and stock.
type PlayerID uint32

// BuildingType enumerates the building kinds the affinity table and the
// civilian-building placement phases (spec §4.8) reason about. The
// per-building production recipes and serf state machines those buildings
// would run in a full simulation are out of scope (spec §1 Non-goals); only
// the type tag itself is a planner concern.
type BuildingType int

const (
	BuildingNone BuildingType = iota
	BuildingCastle
	BuildingWarehouse
	BuildingLumberjack
	BuildingSawmill
	BuildingStonecutter
	BuildingStoneMine
	BuildingCoalMine
	BuildingIronMine
	BuildingGoldMine
	BuildingFarm
	BuildingMill
	BuildingBaker
	BuildingButcher
	BuildingPigFarm
	BuildingSteelSmelter
	BuildingWeaponSmith
	BuildingGoldSmelter
	BuildingToolmaker
	BuildingForester
	BuildingKnightHut
	BuildingKnightTower
	BuildingKnightFortress
)

// militaryCaps is the per-building-type attack cap (spec §4.8): the most
// knights a single attack commits against a building of that type.
var militaryCaps = map[BuildingType]int{
	BuildingKnightHut:      3,
	BuildingKnightTower:    6,
	BuildingKnightFortress: 12,
	BuildingCastle:         20,
}

// IsMilitary reports whether bt is a knight-garrisoning building.
func IsMilitary(bt BuildingType) bool {
	_, ok := militaryCaps[bt]
	return ok
}

// AttackCap returns the maximum number of knights a single attack commits
// against a building of type bt, or 0 if bt is not a military building.
func AttackCap(bt BuildingType) int {
	return militaryCaps[bt]
}

// ResourceType enumerates the inventory slots the planner's thresholds
// reason about (spec §4.8). The flow that fills and drains these slots is
// the out-of-scope per-building economic simulation; the planner only ever
// reads totals and compares them against Thresholds.
type ResourceType int

const (
	ResourcePlanks ResourceType = iota
	ResourceStone
	ResourceGoldBars
	ResourceSteel
	ResourceCoal
	ResourceIronOre
	ResourceGoldOre
	ResourceFood
	ResourceHammers
)

// PlayerSnapshot is an immutable view of one player's totals at the moment
// it was taken (spec §4.9 "immutable snapshot of inventory totals").
type PlayerSnapshot struct {
	ID                       PlayerID
	Inventory                map[ResourceType]int
	Morale                   int
	Score                    int
	MilitaryScore            int
	KnightsAvailableToAttack int
	CastleFlag               hexgeom.Pos
	HasCastle                bool
}

// BuildingSnapshot is an immutable view of one building. Every building has
// exactly one flag, immediately down-right of the building position (spec
// §3 invariant); FlagPos is always valid.
type BuildingSnapshot struct {
	Pos        hexgeom.Pos
	FlagPos    hexgeom.Pos
	Type       BuildingType
	Owner      PlayerID
	Unfinished bool
	Occupied   bool
	Serfs      int
	StockPos   hexgeom.Pos // the stock (warehouse/castle) this building's economy belongs to
}

// FlagSnapshot is an immutable view of one flag.
type FlagSnapshot struct {
	Pos             hexgeom.Pos
	HasBuilding     bool
	BuildingPos     hexgeom.Pos
	Owner           PlayerID
	PathDirections  []hexgeom.Direction
}

// Facade is the full contract an AIPlanner needs from the live simulation.
// Every mutating method is internally locked (spec §4.9); callers never
// take a lock themselves except through Mutate.
type Facade interface {
	// Map returns the live Store. Reads through it outside Mutate may
	// observe a torn state (spec §4.2); callers that cannot tolerate
	// tearing use Mutate instead.
	Map() *mapstore.Store

	// Mutate runs fn with the global mutation lock held, then notifies
	// change listeners and releases. fn must not call back into any
	// other Facade method that itself takes the lock (spec §5 "never
	// nested across helper calls").
	Mutate(fn func(*mapstore.Store)) error

	Player(id PlayerID) (PlayerSnapshot, error)

	BuildFlag(pos hexgeom.Pos, owner PlayerID) (bool, error)
	BuildRoad(start hexgeom.Pos, dirs []hexgeom.Direction) (bool, error)
	BuildBuilding(pos hexgeom.Pos, owner PlayerID, bt BuildingType) (bool, error)
	DemolishFlag(pos hexgeom.Pos) (bool, error)
	DemolishBuilding(pos hexgeom.Pos) (bool, error)
	DemolishRoad(start hexgeom.Pos, dirs []hexgeom.Direction) (bool, error)

	CanBuildFlag(pos hexgeom.Pos) bool
	CanBuildBuilding(pos hexgeom.Pos, bt BuildingType) bool
	CanBuildRoad(start hexgeom.Pos, dirs []hexgeom.Direction) bool

	// PlayerBuildings returns a snapshot slice, never a live iterator
	// (spec §5 iterator-invalidation hazard: callers must snapshot or
	// lock, never hold a reference across a lock release).
	PlayerBuildings(id PlayerID) []BuildingSnapshot

	FlagAt(pos hexgeom.Pos) (FlagSnapshot, bool)
	BuildingAt(pos hexgeom.Pos) (BuildingSnapshot, bool)
}
