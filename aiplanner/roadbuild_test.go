package aiplanner

import (
	"testing"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/prng"
	"github.com/freeserf/freeserf-sub004/worldfacade"
)

func newRoadTestPlanner(t *testing.T) (*Planner, *worldfacade.InProcessFacade, *hexgeom.Geometry) {
	t.Helper()
	geom, err := hexgeom.NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	store := mapstore.NewStore(geom)
	facade := worldfacade.NewInProcessFacade(store, geom)
	castleFlag := geom.PosAt(0, 0)
	facade.RegisterPlayer(1, castleFlag)
	p := NewPlanner(facade, 1, prng.NewStream(7, 11, 13), castleFlag)
	return p, facade, geom
}

func TestBuildBestRoadDirectConnectsTwoFlags(t *testing.T) {
	p, facade, geom := newRoadTestPlanner(t)

	start := geom.PosAt(5, 5)
	target := geom.PosAt(8, 5)
	if ok, err := facade.BuildFlag(start, 1); err != nil || !ok {
		t.Fatalf("BuildFlag(start): ok=%v err=%v", ok, err)
	}
	if ok, err := facade.BuildFlag(target, 1); err != nil || !ok {
		t.Fatalf("BuildFlag(target): ok=%v err=%v", ok, err)
	}

	built, err := p.BuildBestRoad(start, target, Direct)
	if err != nil {
		t.Fatalf("BuildBestRoad: %v", err)
	}
	if !built {
		t.Fatal("expected a road to be built between two open adjacent-ish flags")
	}
	if !facade.Map().Paths(start).Any() {
		t.Fatal("expected start flag to have at least one path bit set after build")
	}
}

func TestBuildBestRoadFailsWhenStartIsBoxedIn(t *testing.T) {
	p, facade, geom := newRoadTestPlanner(t)

	start := geom.PosAt(5, 5)
	target := geom.PosAt(8, 5)
	if ok, err := facade.BuildFlag(start, 1); err != nil || !ok {
		t.Fatalf("BuildFlag(start): ok=%v err=%v", ok, err)
	}
	if ok, err := facade.BuildFlag(target, 1); err != nil || !ok {
		t.Fatalf("BuildFlag(target): ok=%v err=%v", ok, err)
	}

	// Ring start with a foreign player's flags on every side; PlotRoad's
	// edgeValid rejects any step onto a non-target flag, so every first
	// move away from start is blocked and no route can be plotted.
	store := facade.Map()
	for _, d := range hexgeom.AllDirections {
		store.SetObject(geom.Move(start, d), mapstore.ObjectFlag, 2)
	}

	_, err := p.BuildBestRoad(start, target, Direct)
	if err == nil {
		t.Fatal("expected BuildBestRoad to fail when start is boxed in by foreign flags")
	}
}
