package worldfacade

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/freeserf/freeserf-sub004/freeserferr"
	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
)

const name = "github.com/freeserf/freeserf-sub004/worldfacade"

// Logger is this package's structured logger, wired the way the teacher's
// service packages wire theirs (services/gormbe/db.go, services/gaebe/client.go).
var Logger = otelslog.NewLogger(name)

// building is the mutable internal record behind a BuildingSnapshot.
type building struct {
	pos        hexgeom.Pos
	flagPos    hexgeom.Pos
	btype      BuildingType
	owner      PlayerID
	unfinished bool
	occupied   bool
	serfs      int
	stockPos   hexgeom.Pos
}

// player is the mutable internal record behind a PlayerSnapshot.
type player struct {
	id         PlayerID
	inventory  map[ResourceType]int
	morale     int
	score      int
	milScore   int
	knightsAvl int
	castleFlag hexgeom.Pos
	hasCastle  bool
}

// InProcessFacade is the reference Facade implementation: a single mutex
// guarding the Store plus the flag/building/player collections, matching
// spec §5's single-global-lock discipline expressed as an ownership-passing
// Mutate call rather than an exported mutex (spec §9 design note).
type InProcessFacade struct {
	mu        sync.Mutex
	store     *mapstore.Store
	geom      *hexgeom.Geometry
	buildings map[hexgeom.Pos]*building
	players   map[PlayerID]*player
}

// NewInProcessFacade wraps store behind the locking discipline the planner
// requires. Players must be registered with RegisterPlayer before Player
// is called for their ID.
func NewInProcessFacade(store *mapstore.Store, geom *hexgeom.Geometry) *InProcessFacade {
	return &InProcessFacade{
		store:     store,
		geom:      geom,
		buildings: make(map[hexgeom.Pos]*building),
		players:   make(map[PlayerID]*player),
	}
}

// RegisterPlayer seeds id's inventory/morale/castle state. Tests use this
// to set up a facade before driving a Planner against it; a full
// simulation would populate this from its own player objects.
func (f *InProcessFacade) RegisterPlayer(id PlayerID, castleFlag hexgeom.Pos) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[id] = &player{
		id:         id,
		inventory:  make(map[ResourceType]int),
		morale:     1024,
		castleFlag: castleFlag,
		hasCastle:  true,
	}
}

// SetInventory overwrites one resource slot for id, used by tests to drive
// threshold-triggered planner decisions without a full economic simulation.
func (f *InProcessFacade) SetInventory(id PlayerID, rt ResourceType, amount int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.players[id]; ok {
		p.inventory[rt] = amount
	}
}

// SetMorale overwrites id's morale.
func (f *InProcessFacade) SetMorale(id PlayerID, morale int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.players[id]; ok {
		p.morale = morale
	}
}

// SetKnightsAvailable overwrites id's attack-eligible knight count.
func (f *InProcessFacade) SetKnightsAvailable(id PlayerID, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.players[id]; ok {
		p.knightsAvl = n
	}
}

// SetBuildingOccupancy overwrites a building's garrison state, used by
// tests to drive occupancy-dependent planner decisions (attack scoring,
// unproductive-structure demolition) without a full serf simulation.
func (f *InProcessFacade) SetBuildingOccupancy(pos hexgeom.Pos, occupied bool, serfs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.buildings[pos]; ok {
		b.occupied = occupied
		b.serfs = serfs
	}
}

// SetBuildingUnfinished overwrites a building's unfinished flag, used by
// tests to simulate completed construction.
func (f *InProcessFacade) SetBuildingUnfinished(pos hexgeom.Pos, unfinished bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.buildings[pos]; ok {
		b.unfinished = unfinished
	}
}

func (f *InProcessFacade) Map() *mapstore.Store { return f.store }

func (f *InProcessFacade) Mutate(fn func(*mapstore.Store)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.store)
	return nil
}

func (f *InProcessFacade) Player(id PlayerID) (PlayerSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[id]
	if !ok {
		return PlayerSnapshot{}, fmt.Errorf("%w: unknown player %d", freeserferr.ErrInvalidArgument, id)
	}
	inv := make(map[ResourceType]int, len(p.inventory))
	for k, v := range p.inventory {
		inv[k] = v
	}
	return PlayerSnapshot{
		ID:                       p.id,
		Inventory:                inv,
		Morale:                   p.morale,
		Score:                    p.score,
		MilitaryScore:            p.milScore,
		KnightsAvailableToAttack: p.knightsAvl,
		CastleFlag:               p.castleFlag,
		HasCastle:                p.hasCastle,
	}, nil
}

func (f *InProcessFacade) BuildFlag(pos hexgeom.Pos, owner PlayerID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.store.BuildFlag(pos, uint32(owner)); err != nil {
		Logger.Info("build flag rejected", "pos", pos, "owner", owner, "err", err)
		return false, err
	}
	f.store.SetOwner(pos, mapstore.OptPlayerID{ID: uint32(owner), Present: true})
	return true, nil
}

func (f *InProcessFacade) BuildRoad(start hexgeom.Pos, dirs []hexgeom.Direction) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.store.BuildRoad(start, dirs); err != nil {
		Logger.Info("build road rejected", "start", start, "err", err)
		return false, err
	}
	return true, nil
}

func (f *InProcessFacade) BuildBuilding(pos hexgeom.Pos, owner PlayerID, bt BuildingType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !mapstore.IsBuildable(f.store.ObjectAt(pos)) {
		return false, fmt.Errorf("%w: building at non-open tile %v", freeserferr.ErrUnbuildable, pos)
	}
	flagPos := f.geom.Move(pos, hexgeom.DownRight)
	obj := mapstore.ObjectSmallBuildingStart
	if bt == BuildingCastle {
		obj = mapstore.ObjectCastle
	}
	f.store.SetObject(pos, obj, uint32(owner))
	f.store.SetOwner(pos, mapstore.OptPlayerID{ID: uint32(owner), Present: true})
	stockPos := pos
	if p, ok := f.players[owner]; ok && p.hasCastle {
		stockPos = p.castleFlag
	}
	f.buildings[pos] = &building{
		pos: pos, flagPos: flagPos, btype: bt, owner: owner,
		unfinished: true, stockPos: stockPos,
	}
	return true, nil
}

func (f *InProcessFacade) DemolishFlag(pos hexgeom.Pos) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.store.DemolishFlag(pos); err != nil {
		return false, err
	}
	return true, nil
}

func (f *InProcessFacade) DemolishBuilding(pos hexgeom.Pos) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.buildings[pos]
	if !ok {
		return false, fmt.Errorf("%w: no building at %v", freeserferr.ErrInvariantViolation, pos)
	}
	f.store.SetObject(pos, mapstore.ObjectNone, 0)
	delete(f.buildings, pos)
	_ = b
	return true, nil
}

func (f *InProcessFacade) DemolishRoad(start hexgeom.Pos, dirs []hexgeom.Direction) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store.DemolishRoad(start, dirs)
	return true, nil
}

func (f *InProcessFacade) CanBuildFlag(pos hexgeom.Pos) bool {
	return mapstore.IsBuildable(f.store.ObjectAt(pos))
}

func (f *InProcessFacade) CanBuildBuilding(pos hexgeom.Pos, bt BuildingType) bool {
	return mapstore.IsBuildable(f.store.ObjectAt(pos))
}

func (f *InProcessFacade) CanBuildRoad(start hexgeom.Pos, dirs []hexgeom.Direction) bool {
	pos := start
	for _, d := range dirs {
		next := f.geom.Move(pos, d)
		if next != start && f.store.ObjectAt(next) == mapstore.ObjectFlag {
			return false
		}
		pos = next
	}
	return true
}

func (f *InProcessFacade) PlayerBuildings(id PlayerID) []BuildingSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]BuildingSnapshot, 0, len(f.buildings))
	for _, b := range f.buildings {
		if b.owner != id {
			continue
		}
		out = append(out, BuildingSnapshot{
			Pos: b.pos, FlagPos: b.flagPos, Type: b.btype, Owner: b.owner,
			Unfinished: b.unfinished, Occupied: b.occupied, Serfs: b.serfs,
			StockPos: b.stockPos,
		})
	}
	return out
}

func (f *InProcessFacade) FlagAt(pos hexgeom.Pos) (FlagSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store.ObjectAt(pos) != mapstore.ObjectFlag {
		return FlagSnapshot{}, false
	}
	var dirs []hexgeom.Direction
	for _, d := range hexgeom.AllDirections {
		if f.store.HasPath(pos, d) {
			dirs = append(dirs, d)
		}
	}
	snap := FlagSnapshot{Pos: pos, PathDirections: dirs}
	if owner := f.store.Owner(pos); owner.Present {
		snap.Owner = PlayerID(owner.ID)
	}
	return snap, true
}

func (f *InProcessFacade) BuildingAt(pos hexgeom.Pos) (BuildingSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.buildings[pos]
	if !ok {
		return BuildingSnapshot{}, false
	}
	return BuildingSnapshot{
		Pos: b.pos, FlagPos: b.flagPos, Type: b.btype, Owner: b.owner,
		Unfinished: b.unfinished, Occupied: b.occupied, Serfs: b.serfs,
		StockPos: b.stockPos,
	}, true
}

var _ Facade = (*InProcessFacade)(nil)
