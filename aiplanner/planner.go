package aiplanner

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/prng"
	"github.com/freeserf/freeserf-sub004/worldfacade"
)

const name = "github.com/freeserf/freeserf-sub004/aiplanner"

// Logger is this package's structured logger, wired the way the teacher's
// service packages wire theirs (services/gormbe/db.go): planner subphases
// log at Debug, Unbuildable/Disconnected outcomes at Info, invariant
// violations at Error immediately before the fatal panic spec §7 mandates.
var Logger = otelslog.NewLogger(name)

// Planner drives all AI decisions for one player (spec §4.8). One Planner
// runs on its own cooperative goroutine; RunLoop checks ctx and
// exitRequested between subphases rather than mid-subphase, so a subphase
// that holds the world lock always finishes what it started (spec §5
// cancellation).
type Planner struct {
	World      worldfacade.Facade
	Player     worldfacade.PlayerID
	Thresholds Thresholds
	Affinity   map[worldfacade.BuildingType]Affinity
	Rng        *prng.Stream
	CastleFlag hexgeom.Pos

	// ExpandTowards restricts ExpandBorder's scoring to these resource
	// categories; empty means score all categories (spec §4.8).
	ExpandTowards []ExpandGoal

	// Enemies lists the other players ScoreAttacks considers. worldfacade
	// has no "all players" query (spec §4.9's narrow contract), so the
	// embedding application supplies the active opponent set directly.
	Enemies []worldfacade.PlayerID

	// bad records, per building type, positions a previous attempt at
	// that type failed to connect (spec §7 item 3): the planner will not
	// retry the same (type, position) pair for this player's lifetime.
	bad map[worldfacade.BuildingType]map[hexgeom.Pos]bool

	exitRequested atomic.Bool
}

// NewPlanner builds a Planner with default thresholds and affinity table.
func NewPlanner(world worldfacade.Facade, player worldfacade.PlayerID, rng *prng.Stream, castleFlag hexgeom.Pos) *Planner {
	return &Planner{
		World:      world,
		Player:     player,
		Thresholds: DefaultThresholds(),
		Affinity:   DefaultAffinity(),
		Rng:        rng,
		CastleFlag: castleFlag,
		bad:        make(map[worldfacade.BuildingType]map[hexgeom.Pos]bool),
	}
}

// RequestExit sets the cancellation flag an in-flight RunLoop observes
// between subphases. The main thread should join the planner goroutine
// after calling this (spec §5).
func (p *Planner) RequestExit() { p.exitRequested.Store(true) }

// markBad records that bt should not be retried at pos.
func (p *Planner) markBad(bt worldfacade.BuildingType, pos hexgeom.Pos) {
	if p.bad[bt] == nil {
		p.bad[bt] = make(map[hexgeom.Pos]bool)
	}
	p.bad[bt][pos] = true
}

// isBad reports whether bt has already failed to connect at pos.
func (p *Planner) isBad(bt worldfacade.BuildingType, pos hexgeom.Pos) bool {
	return p.bad[bt] != nil && p.bad[bt][pos]
}

// subphase is one ordered step of a planning loop.
type subphase struct {
	name string
	run  func(context.Context) error
}

// subphases returns the ≈25 ordered steps of spec §4.8, in order. Most
// civilian-building and survey phases are necessarily thin here: the
// per-building economic simulation (production recipes, serf state
// machines, stock contents beyond the Thresholds-relevant totals) is an
// out-of-scope collaborator (spec §1); what belongs to this package is the
// decision of *whether* and *where* to act, expressed against
// worldfacade.Facade.
func (p *Planner) subphases() []subphase {
	return []subphase{
		{"survey_serfs_and_buildings", p.surveySerfsAndBuildings},
		{"promote_knights", p.promoteKnights},
		{"connect_disconnected_flags", p.connectDisconnectedFlags},
		{"build_spider_web_roads", p.buildSpiderWebRoads},
		{"fix_stuck_serfs", p.fixStuckSerfs},
		{"send_geologists", p.sendGeologists},
		{"build_rangers", p.buildRangers},
		{"demolish_unproductive_structures", p.demolishUnproductiveStructures},
		{"manage_tool_priorities", p.manageToolPriorities},
		{"balance_weaponsmith_inputs", p.balanceWeaponSmithInputs},
		{"consider_attacks", p.considerAttacksSubphase},
		{"adjust_knight_occupation", p.adjustKnightOccupation},
		{"place_mines", p.placeMines},
		{"place_sawmill_lumberjack", p.wrapCivilian(worldfacade.BuildingLumberjack)},
		{"place_stonecutter", p.wrapCivilian(worldfacade.BuildingStonecutter)},
		{"place_defensive_buffer", p.placeDefensiveBuffer},
		{"place_toolmaker_steelsmelter", p.wrapCivilian(worldfacade.BuildingToolmaker)},
		{"place_food_chain_and_third_lumberjack", p.wrapCivilian(worldfacade.BuildingFarm)},
		{"connect_coal", p.connectResource(worldfacade.BuildingCoalMine)},
		{"connect_iron", p.connectResource(worldfacade.BuildingIronMine)},
		{"place_steelsmelter", p.wrapCivilian(worldfacade.BuildingSteelSmelter)},
		{"place_blacksmith", p.wrapCivilian(worldfacade.BuildingWeaponSmith)},
		{"place_goldsmelter_and_goldmine", p.wrapCivilian(worldfacade.BuildingGoldSmelter)},
		{"place_warehouse", p.wrapCivilian(worldfacade.BuildingWarehouse)},
	}
}

// RunLoop executes every subphase in order, checking ctx.Err() and the
// exit-requested flag between (never within) subphases, so cancellation
// always lands on a subphase boundary (spec §5).
func (p *Planner) RunLoop(ctx context.Context) error {
	for _, sp := range p.subphases() {
		if ctx.Err() != nil || p.exitRequested.Load() {
			Logger.Info("planner loop exiting early", "player", p.Player, "next_subphase", sp.name)
			return ctx.Err()
		}
		Logger.Debug("running subphase", "player", p.Player, "subphase", sp.name)
		if err := sp.run(ctx); err != nil {
			Logger.Info("subphase returned recoverable outcome", "subphase", sp.name, "err", err)
		}
	}
	return nil
}
