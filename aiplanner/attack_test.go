package aiplanner

import (
	"testing"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/prng"
	"github.com/freeserf/freeserf-sub004/worldfacade"
)

func TestScoreAttacksScenario(t *testing.T) {
	// spec §8 scenario 6: own morale=1400, ratio=3.0, target hut with 1
	// defender, 8 knights available (capped to 3 by the hut's attack cap)
	// -> attack proceeds.
	geom, err := hexgeom.NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	store := mapstore.NewStore(geom)
	facade := worldfacade.NewInProcessFacade(store, geom)

	castle := geom.PosAt(10, 10)
	facade.RegisterPlayer(1, castle)
	facade.RegisterPlayer(2, geom.PosAt(20, 20))
	facade.SetMorale(1, 1400)
	facade.SetKnightsAvailable(1, 8)

	ownHutPos := geom.PosAt(12, 10)
	if _, err := facade.BuildBuilding(ownHutPos, 1, worldfacade.BuildingKnightHut); err != nil {
		t.Fatalf("build own hut: %v", err)
	}
	facade.SetBuildingOccupancy(ownHutPos, true, 3)

	enemyHutPos := geom.PosAt(13, 10)
	if _, err := facade.BuildBuilding(enemyHutPos, 2, worldfacade.BuildingKnightHut); err != nil {
		t.Fatalf("build enemy hut: %v", err)
	}
	facade.SetBuildingOccupancy(enemyHutPos, true, 1)

	p := NewPlanner(facade, 1, prng.NewStream(1, 2, 3), castle)
	p.Enemies = []worldfacade.PlayerID{2}

	plans, err := p.ScoreAttacks()
	if err != nil {
		t.Fatalf("ScoreAttacks: %v", err)
	}
	if len(plans) == 0 {
		t.Fatal("expected at least one attack plan")
	}
	found := false
	for _, pl := range plans {
		if pl.TargetBuilding == enemyHutPos && pl.AttackerCount == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an attack plan capped at 3 knights (hut cap) against %v, got %+v", enemyHutPos, plans)
	}
}

func TestScoreAttacksRejectsLowMorale(t *testing.T) {
	geom, _ := hexgeom.NewGeometry(3)
	store := mapstore.NewStore(geom)
	facade := worldfacade.NewInProcessFacade(store, geom)
	castle := geom.PosAt(10, 10)
	facade.RegisterPlayer(1, castle)
	facade.SetMorale(1, 1000)

	p := NewPlanner(facade, 1, prng.NewStream(1, 2, 3), castle)
	plans, err := p.ScoreAttacks()
	if err != nil {
		t.Fatalf("ScoreAttacks: %v", err)
	}
	if len(plans) != 0 {
		t.Fatalf("expected no attack plans below morale threshold, got %+v", plans)
	}
}
