package aiplanner

import (
	"sort"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/worldfacade"
)

// attackScanRing is the spec §4.8 radius within which an own military
// building considers enemy military buildings as attack targets.
const attackScanRing = 13

// mineValueWeight weights enemy mines so the scoring pass prefers attacks
// that cripple the opponent's resource supply (spec §4.8: coal*2, iron*4,
// gold*6).
var mineValueWeight = map[worldfacade.BuildingType]float64{
	worldfacade.BuildingCoalMine: 2,
	worldfacade.BuildingIronMine: 4,
	worldfacade.BuildingGoldMine: 6,
}

// AttackPlan is one scored attack opportunity: enough attacking knights
// are available, morale and the attacker/defender ratio both clear their
// thresholds.
type AttackPlan struct {
	TargetBuilding hexgeom.Pos
	TargetOwner    worldfacade.PlayerID
	AttackingFrom  hexgeom.Pos
	AttackerCount  int
	Score          float64
}

// ScoreAttacks implements spec §4.8's attack-scoring pass: for every own
// military building, every enemy military building within attackScanRing
// is a candidate if attackable-knights (capped per building type) is at
// least 1, own morale clears MinKnightMoraleAttack, and the
// attacker/defender ratio clears MinKnightRatioAttack. Candidates are
// sorted descending by score (ratio weighted by the target's mine value,
// if any).
func (p *Planner) ScoreAttacks() ([]AttackPlan, error) {
	snap, err := p.World.Player(p.Player)
	if err != nil {
		return nil, err
	}
	if snap.Morale <= p.Thresholds.MinKnightMoraleAttack {
		return nil, nil
	}

	store := p.World.Map()
	geom := store.Geom

	var ownMilitary []worldfacade.BuildingSnapshot
	for _, b := range p.World.PlayerBuildings(p.Player) {
		if worldfacade.IsMilitary(b.Type) && b.Occupied {
			ownMilitary = append(ownMilitary, b)
		}
	}
	if len(ownMilitary) == 0 {
		return nil, nil
	}

	var plans []AttackPlan
	for _, enemyID := range p.Enemies {
		for _, eb := range p.World.PlayerBuildings(enemyID) {
			if !worldfacade.IsMilitary(eb.Type) {
				continue
			}
			cap := worldfacade.AttackCap(eb.Type)
			if cap == 0 {
				continue
			}
			for _, ownB := range ownMilitary {
				if geom.TileDistance(ownB.Pos, eb.Pos) > attackScanRing {
					continue
				}
				attackers := snap.KnightsAvailableToAttack
				if attackers > cap {
					attackers = cap
				}
				if attackers < 1 {
					continue
				}
				defenders := eb.Serfs
				if defenders < 1 {
					defenders = 1
				}
				ratio := float64(attackers) / float64(defenders)
				if ratio < p.Thresholds.MinKnightRatioAttack {
					continue
				}
				weight := mineValueWeight[eb.Type]
				if weight == 0 {
					weight = 1
				}
				plans = append(plans, AttackPlan{
					TargetBuilding: eb.Pos,
					TargetOwner:    enemyID,
					AttackingFrom:  ownB.Pos,
					AttackerCount:  attackers,
					Score:          ratio * weight,
				})
			}
		}
	}

	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Score > plans[j].Score })
	return plans, nil
}
