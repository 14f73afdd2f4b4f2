package worldfacade

import (
	"testing"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
)

func newTestFacade(t *testing.T) (*InProcessFacade, *hexgeom.Geometry) {
	t.Helper()
	geom, err := hexgeom.NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	store := mapstore.NewStore(geom)
	return NewInProcessFacade(store, geom), geom
}

func TestBuildFlagSetsOwnerAndObject(t *testing.T) {
	f, geom := newTestFacade(t)
	f.RegisterPlayer(1, geom.PosAt(0, 0))
	pos := geom.PosAt(4, 4)

	ok, err := f.BuildFlag(pos, 1)
	if err != nil || !ok {
		t.Fatalf("BuildFlag: ok=%v err=%v", ok, err)
	}
	if f.Map().ObjectAt(pos) != mapstore.ObjectFlag {
		t.Fatal("expected flag object at pos")
	}
	snap, found := f.FlagAt(pos)
	if !found || snap.Owner != 1 {
		t.Fatalf("FlagAt = %+v, found=%v", snap, found)
	}
}

func TestBuildRoadThenDemolishRestoresPaths(t *testing.T) {
	f, geom := newTestFacade(t)
	f.RegisterPlayer(1, geom.PosAt(0, 0))
	start := geom.PosAt(4, 4)
	end := geom.Move(start, hexgeom.Right)

	if _, err := f.BuildFlag(start, 1); err != nil {
		t.Fatalf("BuildFlag start: %v", err)
	}
	if _, err := f.BuildFlag(end, 1); err != nil {
		t.Fatalf("BuildFlag end: %v", err)
	}
	dirs := []hexgeom.Direction{hexgeom.Right}
	if ok, err := f.BuildRoad(start, dirs); err != nil || !ok {
		t.Fatalf("BuildRoad: ok=%v err=%v", ok, err)
	}
	if !f.Map().HasPath(start, hexgeom.Right) {
		t.Fatal("expected path bit after BuildRoad")
	}
	if ok, err := f.DemolishRoad(start, dirs); err != nil || !ok {
		t.Fatalf("DemolishRoad: ok=%v err=%v", ok, err)
	}
	if f.Map().HasPath(start, hexgeom.Right) {
		t.Fatal("expected path bit cleared after DemolishRoad")
	}
}

func TestPlayerBuildingsIsSnapshotNotLiveView(t *testing.T) {
	f, geom := newTestFacade(t)
	f.RegisterPlayer(1, geom.PosAt(0, 0))
	pos := geom.PosAt(6, 6)
	if _, err := f.BuildBuilding(pos, 1, BuildingLumberjack); err != nil {
		t.Fatalf("BuildBuilding: %v", err)
	}
	snap := f.PlayerBuildings(1)
	if len(snap) != 1 || snap[0].Type != BuildingLumberjack {
		t.Fatalf("PlayerBuildings = %+v", snap)
	}
	if _, err := f.DemolishBuilding(pos); err != nil {
		t.Fatalf("DemolishBuilding: %v", err)
	}
	if len(snap) != 1 {
		t.Fatal("expected earlier snapshot to remain unaffected by later demolish")
	}
	if got := f.PlayerBuildings(1); len(got) != 0 {
		t.Fatalf("expected fresh snapshot to reflect demolish, got %+v", got)
	}
}

func TestPlayerReturnsErrorForUnknownID(t *testing.T) {
	f, _ := newTestFacade(t)
	if _, err := f.Player(99); err == nil {
		t.Fatal("expected error for unregistered player")
	}
}
