// Package terrain implements the map generation pipeline: corner seeding,
// midpoint displacement or diamond-square height generation, lake carving,
// terrain typing, shore and desert grading, object clustering, and mineral
// seeding.
package terrain

import (
	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/prng"
)

// HeightMethod selects the algorithm used to fill in height midpoints.
type HeightMethod int

const (
	HeightMidpoints HeightMethod = iota
	HeightDiamondSquare
)

// Slider names the 19 tunable knobs a generator facade exposes, each a
// value in [0.0, 2.0] around a nominal baseline of 1.0. Each scales the
// corresponding region's cluster count, except SliderFish and
// SliderLakesWaterLevel, which the generator does not read.
type Slider int

const (
	SliderTrees Slider = iota
	SliderStonepileDense
	SliderStonepileSparse
	SliderFish
	SliderMountainGold
	SliderMountainIron
	SliderMountainCoal
	SliderMountainStone
	SliderDesertFrequency
	SliderLakesWaterLevel
	SliderJunkGrassDeadTrees
	SliderJunkGrassSandStone
	SliderJunkWaterSubmergedTrees
	SliderJunkGrassStubTrees
	SliderJunkGrassSmallBoulders
	SliderJunkDesertAnimalCadavers
	SliderJunkDesertCacti
	SliderJunkWaterSubmergedBoulders
	SliderJunkDesertPalmTrees
	sliderCount
)

// Options configures one generation run.
type Options struct {
	Method          HeightMethod
	PreserveBugs    bool
	WaterLevel      int
	MaxLakeArea     int
	TerrainSpikyness int
	Sliders         [sliderCount]float64
}

// DefaultOptions returns the classic generator's tunables: every slider at
// its 1.0 baseline.
func DefaultOptions() Options {
	o := Options{
		Method:           HeightMidpoints,
		PreserveBugs:     true,
		WaterLevel:       20,
		MaxLakeArea:      14,
		TerrainSpikyness: 0x9999,
	}
	for i := range o.Sliders {
		o.Sliders[i] = 1.0
	}
	return o
}

func (o *Options) slider(s Slider) float64 { return o.Sliders[s] }

func scaleCount(base int, factor float64) int {
	n := int(float64(base)*factor + 0.5)
	if n < 0 {
		return 0
	}
	return n
}

// ClusterSpec describes one call in the object-placement sequence: num
// clusters of up to objsInCluster objects each, spiral-scattered within
// posMask, restricted to hexagons whose surrounding triangles fall in
// [terrainMin, terrainMax], object values drawn from objBase+(rand&objMask).
type ClusterSpec struct {
	NumClusters    int
	ObjsInCluster  int
	PosMask        int
	TerrainMin     mapstore.Terrain
	TerrainMax     mapstore.Terrain
	ObjBase        mapstore.Object
	ObjMask        int
}

// Generator runs the terrain generation pipeline against a fresh
// mapstore.Store.
type Generator struct {
	Geom *hexgeom.Geometry
	Rng  *prng.Stream
	Opts Options
}
