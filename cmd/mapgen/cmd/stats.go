package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
)

var (
	statsSeed string
	statsSize int
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print gold/mineral totals and water-body count for a generated map",
	Long: `Generates a map for the given seed/size and reports its gold and
mineral totals plus the number of distinct connected water bodies.

Examples:
  ww-mapgen stats --seed 8667715887436237 --size 3`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsSeed, "seed", "", "decimal random seed (default: a fixed reproducible seed)")
	statsCmd.Flags().IntVar(&statsSize, "size", 3, "map size, in [3,10]")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	geom, store, err := generateStore(statsSeed, statsSize, "midpoints")
	if err != nil {
		return fmt.Errorf("generate map: %w", err)
	}

	var ironTiles, coalTiles, goldTiles, stoneTiles int
	for row := 0; row < geom.Rows(); row++ {
		for col := 0; col < geom.Cols(); col++ {
			pos := geom.PosAt(col, row)
			switch store.MineralAt(pos).Kind {
			case mapstore.MineralIron:
				ironTiles++
			case mapstore.MineralCoal:
				coalTiles++
			case mapstore.MineralGold:
				goldTiles++
			case mapstore.MineralStone:
				stoneTiles++
			}
		}
	}

	bodies := countWaterBodies(geom, store)

	fmt.Printf("gold total: %d\n", store.GoldTotal())
	fmt.Printf("mineral tiles: iron=%d coal=%d gold=%d stone=%d\n", ironTiles, coalTiles, goldTiles, stoneTiles)
	fmt.Printf("water bodies: %d\n", bodies)
	return nil
}

// isWaterTile reports whether pos is fully submerged (both triangles below
// water level).
func isWaterTile(store *mapstore.Store, pos hexgeom.Pos) bool {
	return store.TerrainUp(pos).IsWater() && store.TerrainDown(pos).IsWater()
}

// countWaterBodies flood-fills the torus grid over hex adjacency and counts
// the number of disjoint water regions.
func countWaterBodies(geom *hexgeom.Geometry, store *mapstore.Store) int {
	seen := make(map[hexgeom.Pos]bool, geom.TileCount())
	bodies := 0
	for row := 0; row < geom.Rows(); row++ {
		for col := 0; col < geom.Cols(); col++ {
			start := geom.PosAt(col, row)
			if seen[start] || !isWaterTile(store, start) {
				continue
			}
			bodies++
			queue := []hexgeom.Pos{start}
			seen[start] = true
			for len(queue) > 0 {
				pos := queue[0]
				queue = queue[1:]
				for _, d := range hexgeom.AllDirections {
					next := geom.Move(pos, d)
					if seen[next] || !isWaterTile(store, next) {
						continue
					}
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return bodies
}
