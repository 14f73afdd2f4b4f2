package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/prng"
	"github.com/freeserf/freeserf-sub004/terrain"
)

// newRng builds the deterministic stream a generate/road/stats run uses,
// from a decimal seed string if one was given, or a fixed fallback seed so
// repeated runs without --seed stay reproducible.
func newRng(seed string) (*prng.Stream, error) {
	if seed == "" {
		return prng.NewStream(1, 2, 3), nil
	}
	return prng.NewStreamFromSeedString(seed)
}

// generateStore runs the full generation pipeline for the given seed, size,
// and height method ("midpoints" or "diamond-square"; anything else falls
// back to midpoints) and returns both the geometry and the populated store.
func generateStore(seed string, size int, method string) (*hexgeom.Geometry, *mapstore.Store, error) {
	geom, err := hexgeom.NewGeometry(hexgeom.Size(size))
	if err != nil {
		return nil, nil, err
	}
	rng, err := newRng(seed)
	if err != nil {
		return nil, nil, err
	}
	opts := terrain.DefaultOptions()
	if method == "diamond-square" {
		opts.Method = terrain.HeightDiamondSquare
	}
	gen := terrain.NewGenerator(geom, rng, opts)
	store, err := gen.Generate()
	if err != nil {
		return nil, nil, err
	}
	return geom, store, nil
}

// parsePos parses a "col,row" flag value into hexgeom coordinates.
func parsePos(s string) (col, row int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("position %q must be formatted as col,row", s)
	}
	col, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column in %q: %w", s, err)
	}
	row, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row in %q: %w", s, err)
	}
	return col, row, nil
}
