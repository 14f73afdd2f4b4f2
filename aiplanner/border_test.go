package aiplanner

import (
	"testing"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/prng"
	"github.com/freeserf/freeserf-sub004/worldfacade"
)

func TestWalkToBorderFindsFirstForeignTile(t *testing.T) {
	geom, err := hexgeom.NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	store := mapstore.NewStore(geom)

	start := geom.PosAt(10, 10)
	store.SetOwner(start, mapstore.OptPlayerID{ID: 1, Present: true})
	for i := 1; i <= 3; i++ {
		store.SetOwner(geom.Move(start, hexgeom.Right), mapstore.OptPlayerID{ID: 1, Present: true})
		start = geom.Move(start, hexgeom.Right)
	}
	// start now sits 3 east of the original own-territory tile, still owned.
	// One step further is unowned, so walkToBorder should land exactly there.

	origin := geom.PosAt(10, 10)
	border, ok := walkToBorder(store, geom, origin, hexgeom.Right, worldfacade.PlayerID(1), 10)
	if !ok {
		t.Fatal("expected walkToBorder to find a border tile")
	}
	want := geom.Move(start, hexgeom.Right)
	if border != want {
		t.Fatalf("walkToBorder = %v, want %v", border, want)
	}
}

func TestWalkToBorderFailsWhenAllOwned(t *testing.T) {
	geom, _ := hexgeom.NewGeometry(3)
	store := mapstore.NewStore(geom)
	start := geom.PosAt(10, 10)
	pos := start
	for i := 0; i < 5; i++ {
		pos = geom.Move(pos, hexgeom.Right)
		store.SetOwner(pos, mapstore.OptPlayerID{ID: 1, Present: true})
	}
	_, ok := walkToBorder(store, geom, start, hexgeom.Right, worldfacade.PlayerID(1), 5)
	if ok {
		t.Fatal("expected walkToBorder to fail when every tile within range is owned")
	}
}

func TestExpandBorderBuildsHutAtBestScoringCorner(t *testing.T) {
	geom, err := hexgeom.NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	store := mapstore.NewStore(geom)
	facade := worldfacade.NewInProcessFacade(store, geom)

	castleFlag := geom.PosAt(10, 10)
	facade.RegisterPlayer(1, castleFlag)
	if ok, err := facade.BuildFlag(castleFlag, 1); err != nil || !ok {
		t.Fatalf("BuildFlag(castleFlag): ok=%v err=%v", ok, err)
	}

	hutPos := geom.PosAt(12, 10)
	if _, err := facade.BuildBuilding(hutPos, 1, worldfacade.BuildingKnightHut); err != nil {
		t.Fatalf("BuildBuilding: %v", err)
	}
	facade.SetBuildingOccupancy(hutPos, true, 3)
	facade.SetBuildingUnfinished(hutPos, false)

	// Mark a modest ring of territory around the hut as owned by player 1
	// so walkToBorder has somewhere to land just outside it.
	for _, pos := range geom.Range(hutPos, 3) {
		store.SetOwner(pos, mapstore.OptPlayerID{ID: 1, Present: true})
	}
	// Seed gold near one border direction so that corner scores highest.
	for _, pos := range geom.Range(geom.Move(hutPos, hexgeom.Right), borderScoreRing) {
		store.SetMineral(pos, mapstore.MineralDeposit{Kind: mapstore.MineralGold, Amount: 10})
	}

	p := NewPlanner(facade, 1, prng.NewStream(1, 2, 3), castleFlag)
	built, err := p.ExpandBorder()
	if err != nil {
		t.Fatalf("ExpandBorder: %v", err)
	}
	if !built {
		t.Fatal("expected ExpandBorder to build a hut at the best-scoring border corner")
	}
}
