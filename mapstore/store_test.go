package mapstore

import (
	"testing"

	"github.com/freeserf/freeserf-sub004/hexgeom"
)

func newTestStore(t *testing.T) (*Store, *hexgeom.Geometry) {
	t.Helper()
	geom, err := hexgeom.NewGeometry(3)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	return NewStore(geom), geom
}

func TestSetPathMaintainsReciprocalBit(t *testing.T) {
	store, geom := newTestStore(t)
	pos := geom.PosAt(5, 5)

	store.SetPath(pos, hexgeom.Right)

	if !store.HasPath(pos, hexgeom.Right) {
		t.Fatal("expected path bit set at origin")
	}
	other := geom.Move(pos, hexgeom.Right)
	if !store.HasPath(other, hexgeom.Right.Reverse()) {
		t.Fatal("expected reciprocal path bit set at neighbor")
	}

	store.ClearPath(pos, hexgeom.Right)
	if store.HasPath(pos, hexgeom.Right) || store.HasPath(other, hexgeom.Right.Reverse()) {
		t.Fatal("expected both path bits cleared")
	}
}

func TestSetMineralTracksGoldTotal(t *testing.T) {
	store, geom := newTestStore(t)
	p1 := geom.PosAt(1, 1)
	p2 := geom.PosAt(2, 2)

	store.SetMineral(p1, MineralDeposit{Kind: MineralGold, Amount: 10})
	store.SetMineral(p2, MineralDeposit{Kind: MineralGold, Amount: 5})
	if got := store.GoldTotal(); got != 15 {
		t.Fatalf("GoldTotal() = %d, want 15", got)
	}

	store.SetMineral(p1, MineralDeposit{Kind: MineralIron, Amount: 3})
	if got := store.GoldTotal(); got != 5 {
		t.Fatalf("GoldTotal() after overwrite = %d, want 5", got)
	}
}

func TestChangeListenerNotifiedOnMutation(t *testing.T) {
	store, geom := newTestStore(t)
	pos := geom.PosAt(3, 3)

	var notified []hexgeom.Pos
	store.AddChangeListener(func(p hexgeom.Pos) { notified = append(notified, p) })

	store.SetHeight(pos, 12)
	if len(notified) != 1 || notified[0] != pos {
		t.Fatalf("notified = %v, want single entry %v", notified, pos)
	}
}

func TestBuildFlagRejectsNonOpenTile(t *testing.T) {
	store, geom := newTestStore(t)
	pos := geom.PosAt(4, 4)
	store.SetObject(pos, ObjectCastle, 0)

	if err := store.BuildFlag(pos, 1); err == nil {
		t.Fatal("expected error building flag on Filled tile")
	}
}

func TestBuildRoadRequiresFlagsAtBothEnds(t *testing.T) {
	store, geom := newTestStore(t)
	start := geom.PosAt(5, 5)
	if err := store.BuildFlag(start, 1); err != nil {
		t.Fatalf("BuildFlag: %v", err)
	}

	if err := store.BuildRoad(start, []hexgeom.Direction{hexgeom.Right}); err == nil {
		t.Fatal("expected error because road end has no flag")
	}

	end := geom.Move(start, hexgeom.Right)
	if err := store.BuildFlag(end, 1); err != nil {
		t.Fatalf("BuildFlag: %v", err)
	}
	if err := store.BuildRoad(start, []hexgeom.Direction{hexgeom.Right}); err != nil {
		t.Fatalf("BuildRoad: %v", err)
	}
	if !store.HasPath(start, hexgeom.Right) {
		t.Fatal("expected path laid from start")
	}
}

func TestVertexTerrainKindsReadsFourTriangles(t *testing.T) {
	store, geom := newTestStore(t)
	pos := geom.PosAt(6, 6)
	ul := geom.Move(pos, hexgeom.UpLeft)

	store.SetTerrain(pos, Grass1, Grass2)
	store.SetTerrain(ul, Desert0, Snow0)

	kinds := store.VertexTerrainKinds(pos)
	want := [4]Terrain{Grass1, Grass2, Desert0, Snow0}
	if kinds != want {
		t.Fatalf("VertexTerrainKinds = %v, want %v", kinds, want)
	}

	if !store.HasTerrainKind(pos, Snow0, Snow1) {
		t.Fatal("expected HasTerrainKind to find Snow0 among the four triangles")
	}
	if store.HasTerrainKind(pos, Water0, Water3) {
		t.Fatal("did not expect any water triangle at this vertex")
	}
}
