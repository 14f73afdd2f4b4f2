package terrain

import (
	"github.com/freeserf/freeserf-sub004/hexgeom"
	"github.com/freeserf/freeserf-sub004/mapstore"
	"github.com/freeserf/freeserf-sub004/prng"
)

// genState is the scratch working set the pipeline mutates before the final
// values are copied into a mapstore.Store. Heights here range outside the
// eventual 0..31 tile scale (up to 255) to carry the lake-marking sentinels.
type genState struct {
	geom   *hexgeom.Geometry
	rng    *prng.Stream
	opts   Options
	n      int
	height []int
	up     []mapstore.Terrain
	down   []mapstore.Terrain
	obj    []mapstore.Object
	objOwn []int // scratch tag used by island removal; not the final ObjectOwner
	mKind  []mapstore.MineralKind
	mAmt   []uint8
}

// NewGenerator builds a Generator for geom using rng as its sole source of
// randomness; rng is consumed, never shared with AI runtime decisions.
func NewGenerator(geom *hexgeom.Geometry, rng *prng.Stream, opts Options) *Generator {
	return &Generator{Geom: geom, Rng: rng, Opts: opts}
}

// classicSalt is XORed into the caller-supplied seed before generation, the
// same way ClassicMapGenerator::generate() does, and two draws are burned
// before corner seeding begins.
var classicSalt = prng.NewStream(0x5a5a, 0xa5a5, 0xc3c3)

// Generate runs the full pipeline and returns a populated Store.
func (g *Generator) Generate() (*mapstore.Store, error) {
	n := g.Geom.TileCount()
	s := &genState{
		geom:   g.Geom,
		rng:    g.Rng.Xor(classicSalt),
		opts:   g.Opts,
		n:      n,
		height: make([]int, n),
		up:     make([]mapstore.Terrain, n),
		down:   make([]mapstore.Terrain, n),
		obj:    make([]mapstore.Object, n),
		objOwn: make([]int, n),
		mKind:  make([]mapstore.MineralKind, n),
		mAmt:   make([]uint8, n),
	}
	s.rng.Next()
	s.rng.Next()

	s.seedCorners()
	switch s.opts.Method {
	case HeightDiamondSquare:
		s.displaceDiamondSquare()
	default:
		s.displaceMidpoints()
	}
	s.clampHeights()
	s.createWaterBodies()
	s.rebase()
	s.terrainFromHeights()
	s.removeIslands()
	s.rescaleHeights()
	s.gradeShores()
	s.createDeserts()
	s.createCrosses()
	s.placeObjects()
	s.placeMinerals()
	s.cleanup()

	return s.toStore(), nil
}

func (s *genState) idx(pos hexgeom.Pos) int {
	return s.geom.Row(pos)*s.geom.Cols() + s.geom.Col(pos)
}

func (s *genState) posAt(col, row int) hexgeom.Pos { return s.geom.PosAt(col, row) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// seedCorners sets height at every (16i,16j) vertex to min(250, rand()&0xff).
func (s *genState) seedCorners() {
	for y := 0; y < s.geom.Rows(); y += 16 {
		for x := 0; x < s.geom.Cols(); x += 16 {
			r := int(s.rng.Next()) & 0xff
			s.height[s.idx(s.posAt(x, y))] = clampInt(r, 0, 250)
		}
	}
}

// displacement computes calc_height_displacement(avg, base, offset): a
// random offset in [-offset, base-offset) added to avg, clamped to [0,250].
func (s *genState) displacement(avg, base, offset int) int {
	r := int(s.rng.Next())
	h := ((r * base) >> 16) - offset + avg
	return clampInt(h, 0, 250)
}

// displaceMidpoints implements midpoint displacement at strides 8,4,2,1.
func (s *genState) displaceMidpoints() {
	raw := int(s.rng.Next())
	r1 := 0x80 + (raw & 0x7f)
	r2 := (r1 * s.opts.TerrainSpikyness) >> 16

	for i := 8; i > 0; i >>= 1 {
		for y := 0; y < s.geom.Rows(); y += 2 * i {
			for x := 0; x < s.geom.Cols(); x += 2 * i {
				pos := s.posAt(x, y)
				h := s.height[s.idx(pos)]

				posR := s.geom.MoveN(pos, hexgeom.Right, 2*i)
				posMidR := s.geom.MoveN(pos, hexgeom.Right, i)
				hR := s.height[s.idx(posR)]
				if s.opts.PreserveBugs && x == 0 && y == 0 && i == 8 {
					hR |= raw & 0xff00
				}
				s.height[s.idx(posMidR)] = s.displacement((h+hR)/2, r1, r2)

				posD := s.geom.MoveN(pos, hexgeom.Down, 2*i)
				posMidD := s.geom.MoveN(pos, hexgeom.Down, i)
				hD := s.height[s.idx(posD)]
				s.height[s.idx(posMidD)] = s.displacement((h+hD)/2, r1, r2)

				posDR := s.geom.MoveN(s.geom.MoveN(pos, hexgeom.Down, 2*i), hexgeom.Right, 2*i)
				posMidDR := s.geom.MoveN(s.geom.MoveN(pos, hexgeom.Down, i), hexgeom.Right, i)
				hDR := s.height[s.idx(posDR)]
				s.height[s.idx(posMidDR)] = s.displacement((h+hDR)/2, r1, r2)
			}
		}
		r1 >>= 1
		r2 >>= 1
	}
}

// displaceDiamondSquare implements the diamond-then-square midpoint fill.
func (s *genState) displaceDiamondSquare() {
	raw := int(s.rng.Next())
	r1 := 0x80 + (raw & 0x7f)
	r2 := (r1 * s.opts.TerrainSpikyness) >> 16

	for i := 8; i > 0; i >>= 1 {
		for y := 0; y < s.geom.Rows(); y += 2 * i {
			for x := 0; x < s.geom.Cols(); x += 2 * i {
				pos := s.posAt(x, y)
				h := s.height[s.idx(pos)]
				hR := s.height[s.idx(s.geom.MoveN(pos, hexgeom.Right, 2*i))]
				hD := s.height[s.idx(s.geom.MoveN(pos, hexgeom.Down, 2*i))]
				hDR := s.height[s.idx(s.geom.MoveN(s.geom.MoveN(pos, hexgeom.Down, 2*i), hexgeom.Right, 2*i))]
				posMidDR := s.geom.MoveN(s.geom.MoveN(pos, hexgeom.Down, i), hexgeom.Right, i)
				avg := (h + hR + hD + hDR) / 4
				s.height[s.idx(posMidDR)] = s.displacement(avg, r1, r2)
			}
		}
		for y := 0; y < s.geom.Rows(); y += 2 * i {
			for x := 0; x < s.geom.Cols(); x += 2 * i {
				pos := s.posAt(x, y)
				h := s.height[s.idx(pos)]
				hR := s.height[s.idx(s.geom.MoveN(pos, hexgeom.Right, 2*i))]
				hD := s.height[s.idx(s.geom.MoveN(pos, hexgeom.Down, 2*i))]
				hUR := s.height[s.idx(s.geom.MoveN(s.geom.MoveN(pos, hexgeom.Down, -i), hexgeom.Right, i))]
				hDR := s.height[s.idx(s.geom.MoveN(s.geom.MoveN(pos, hexgeom.Down, i), hexgeom.Right, i))]
				hDL := s.height[s.idx(s.geom.MoveN(s.geom.MoveN(pos, hexgeom.Down, i), hexgeom.Right, -i))]

				avgR := (h + hR + hUR + hDR) / 4
				s.height[s.idx(s.geom.MoveN(pos, hexgeom.Right, i))] = s.displacement(avgR, r1, r2)

				avgD := (h + hD + hDL + hDR) / 4
				s.height[s.idx(s.geom.MoveN(pos, hexgeom.Down, i))] = s.displacement(avgD, r1, r2)
			}
		}
		r1 >>= 1
		r2 >>= 1
	}
}

// clampHeights iterates to a fixpoint, pulling any 4-neighbor pair more than
// 32 apart back down to a 32 gap.
func (s *genState) clampHeights() {
	adjust := func(h1 int, pos2 hexgeom.Pos) bool {
		i2 := s.idx(pos2)
		h2 := s.height[i2]
		if abs(h1-h2) > 32 {
			if h1 < h2 {
				s.height[i2] = h1 + 32
			} else {
				s.height[i2] = h1 - 32
			}
			return true
		}
		return false
	}

	changed := true
	for changed {
		changed = false
		for y := 0; y < s.geom.Rows(); y++ {
			for x := 0; x < s.geom.Cols(); x++ {
				pos := s.posAt(x, y)
				h := s.height[s.idx(pos)]
				changed = adjust(h, s.geom.Move(pos, hexgeom.Down)) || changed
				changed = adjust(h, s.geom.Move(pos, hexgeom.DownRight)) || changed
				changed = adjust(h, s.geom.Move(pos, hexgeom.Right)) || changed
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// expandWaterPosition attempts to convert pos to water (255), requiring all
// six neighbors be at or below water level or already water-marked.
func (s *genState) expandWaterPosition(pos hexgeom.Pos) bool {
	expanding := false
	for _, d := range hexgeom.AllDirections {
		np := s.geom.Move(pos, d)
		h := s.height[s.idx(np)]
		if h > s.opts.WaterLevel && h < 254 {
			return false
		} else if h == 255 {
			expanding = true
		}
	}
	if expanding {
		s.height[s.idx(pos)] = 255
		for _, d := range hexgeom.AllDirections {
			np := s.idx(s.geom.Move(pos, d))
			if s.height[np] != 255 {
				s.height[np] = 254
			}
		}
	}
	return expanding
}

// expandWaterBody grows a lake from pos up to opts.MaxLakeArea rings, then
// demotes its markings by 2 so later passes treat it as solid ground.
func (s *genState) expandWaterBody(pos hexgeom.Pos) {
	for _, d := range hexgeom.AllDirections {
		if s.height[s.idx(s.geom.Move(pos, d))] > s.opts.WaterLevel {
			s.height[s.idx(pos)] = 0
			return
		}
	}

	s.height[s.idx(pos)] = 255
	for _, d := range hexgeom.AllDirections {
		s.height[s.idx(s.geom.Move(pos, d))] = 254
	}

	for i := 0; i < s.opts.MaxLakeArea; i++ {
		expanded := false
		np := s.geom.MoveN(pos, hexgeom.Right, i+1)
		for k := 0; k < 6; k++ {
			d := hexgeom.Down.TurnCW(k)
			for j := 0; j <= i; j++ {
				if s.expandWaterPosition(np) {
					expanded = true
				}
				np = s.geom.Move(np, d)
			}
		}
		if !expanded {
			break
		}
	}

	s.height[s.idx(pos)] -= 2
	np := pos
	for i := 0; i < s.opts.MaxLakeArea+1; i++ {
		np = s.geom.MoveN(pos, hexgeom.Right, i+1)
		for k := 0; k < 6; k++ {
			d := hexgeom.Down.TurnCW(k)
			for j := 0; j <= i; j++ {
				pi := s.idx(np)
				if s.height[pi] > 253 {
					s.height[pi] -= 2
				}
				np = s.geom.Move(np, d)
			}
		}
	}
}

// createWaterBodies expands a lake from every tile at or below water level,
// then folds the 0/252/253 markings back into real heights.
func (s *genState) createWaterBodies() {
	for h := 0; h <= s.opts.WaterLevel; h++ {
		for y := 0; y < s.geom.Rows(); y++ {
			for x := 0; x < s.geom.Cols(); x++ {
				pos := s.posAt(x, y)
				if s.height[s.idx(pos)] == h {
					s.expandWaterBody(pos)
				}
			}
		}
	}

	for y := 0; y < s.geom.Rows(); y++ {
		for x := 0; x < s.geom.Cols(); x++ {
			pos := s.posAt(x, y)
			i := s.idx(pos)
			switch s.height[i] {
			case 0:
				s.height[i] = s.opts.WaterLevel + 1
			case 252:
				s.height[i] = s.opts.WaterLevel
			case 253:
				s.height[i] = s.opts.WaterLevel - 1
				s.mKind[i] = mapstore.MineralNone
				s.mAmt[i] = uint8(s.rng.Next() & 7)
			}
		}
	}
}

// rebase subtracts water_level-1 from every height so sea level becomes 0.
func (s *genState) rebase() {
	h := s.opts.WaterLevel - 1
	for i := range s.height {
		s.height[i] -= h
	}
}

func calcMapType(sum int) mapstore.Terrain {
	switch {
	case sum < 3:
		return mapstore.Water0
	case sum < 384:
		return mapstore.Grass1
	case sum < 416:
		return mapstore.Grass2
	case sum < 448:
		return mapstore.Tundra0
	case sum < 480:
		return mapstore.Tundra1
	case sum < 528:
		return mapstore.Tundra2
	case sum < 560:
		return mapstore.Snow0
	default:
		return mapstore.Snow1
	}
}

// terrainFromHeights derives up/down triangle terrain from corner height
// sums, per the bucket thresholds.
func (s *genState) terrainFromHeights() {
	for y := 0; y < s.geom.Rows(); y++ {
		for x := 0; x < s.geom.Cols(); x++ {
			pos := s.posAt(x, y)
			h1 := s.height[s.idx(pos)]
			h2 := s.height[s.idx(s.geom.Move(pos, hexgeom.Right))]
			h3 := s.height[s.idx(s.geom.Move(pos, hexgeom.DownRight))]
			h4 := s.height[s.idx(s.geom.Move(pos, hexgeom.Down))]
			i := s.idx(pos)
			s.up[i] = calcMapType(h1 + h3 + h4)
			s.down[i] = calcMapType(h1 + h2 + h3)
		}
	}
}

// removeIslands flood-fills land from scanned seeds; if a component reaches
// 1/4 of the map it is kept and everything else becomes water.
func (s *genState) removeIslands() {
	mark := make([]uint8, s.n) // 0 unvisited, 1 frontier, 2 settled

	grassOrAbove := func(t mapstore.Terrain) bool { return t >= mapstore.Grass0 }

	landNeighbors := func(pos hexgeom.Pos) []hexgeom.Pos {
		var out []hexgeom.Pos
		i := s.idx(pos)
		if grassOrAbove(s.down[i]) {
			out = append(out, s.geom.Move(pos, hexgeom.Right), s.geom.Move(pos, hexgeom.Down))
		}
		if grassOrAbove(s.up[i]) {
			out = append(out, s.geom.Move(pos, hexgeom.DownRight), s.geom.Move(pos, hexgeom.Right))
		}
		left := s.idx(s.geom.Move(pos, hexgeom.Left))
		if grassOrAbove(s.down[left]) {
			out = append(out, s.geom.Move(pos, hexgeom.Left), s.geom.Move(pos, hexgeom.Down))
		}
		ul := s.idx(s.geom.Move(pos, hexgeom.UpLeft))
		if grassOrAbove(s.up[ul]) {
			out = append(out, s.geom.Move(pos, hexgeom.UpLeft), s.geom.Move(pos, hexgeom.Right))
		}
		if grassOrAbove(s.down[ul]) {
			out = append(out, s.geom.Move(pos, hexgeom.UpLeft), s.geom.Move(pos, hexgeom.Left))
		}
		up := s.idx(s.geom.Move(pos, hexgeom.Up))
		if grassOrAbove(s.up[up]) {
			out = append(out, s.geom.Move(pos, hexgeom.Up), s.geom.Move(pos, hexgeom.Right))
		}
		return out
	}

	found := false
outer:
	for y := 0; y < s.geom.Rows() && !found; y++ {
		for x := 0; x < s.geom.Cols() && !found; x++ {
			start := s.posAt(x, y)
			i := s.idx(start)
			if s.height[i] <= 0 || mark[i] != 0 {
				continue
			}
			mark[i] = 1
			frontier := []hexgeom.Pos{start}
			num := 0
			for len(frontier) > 0 {
				pos := frontier[len(frontier)-1]
				frontier = frontier[:len(frontier)-1]
				pi := s.idx(pos)
				if mark[pi] == 2 {
					continue
				}
				mark[pi] = 2
				num++
				for _, np := range landNeighbors(pos) {
					ni := s.idx(np)
					if mark[ni] == 0 {
						mark[ni] = 1
						frontier = append(frontier, np)
					}
				}
			}
			if 4*num >= s.n {
				found = true
				break outer
			}
		}
	}

	for y := 0; y < s.geom.Rows(); y++ {
		for x := 0; x < s.geom.Cols(); x++ {
			pos := s.posAt(x, y)
			i := s.idx(pos)
			if s.height[i] > 0 && mark[i] == 0 {
				s.height[i] = 0
				s.up[i] = mapstore.Water0
				s.down[i] = mapstore.Water0
				li := s.idx(s.geom.Move(pos, hexgeom.Left))
				s.down[li] = mapstore.Water0
				uli := s.idx(s.geom.Move(pos, hexgeom.UpLeft))
				s.up[uli] = mapstore.Water0
				s.down[uli] = mapstore.Water0
				ui := s.idx(s.geom.Move(pos, hexgeom.Up))
				s.up[ui] = mapstore.Water0
			}
		}
	}
}

// rescaleHeights maps the 0..250-ish working scale down to 0..31.
func (s *genState) rescaleHeights() {
	for i := range s.height {
		s.height[i] = (s.height[i] + 6) >> 3
	}
}

// seedTerrainType changes any vertex's up/down triangle from old to new_ if
// old is adjacent to at least one seed-typed triangle.
func (s *genState) seedTerrainType(old, seed, newType mapstore.Terrain) {
	for y := 0; y < s.geom.Rows(); y++ {
		for x := 0; x < s.geom.Cols(); x++ {
			pos := s.posAt(x, y)
			i := s.idx(pos)
			ul := s.geom.Move(pos, hexgeom.UpLeft)
			up := s.geom.Move(pos, hexgeom.Up)
			left := s.geom.Move(pos, hexgeom.Left)
			right := s.geom.Move(pos, hexgeom.Right)
			down := s.geom.Move(pos, hexgeom.Down)
			dl := s.geom.Move(pos, hexgeom.Left)
			dl = s.geom.Move(dl, hexgeom.Down)
			dr := s.geom.Move(pos, hexgeom.DownRight)

			if s.up[i] == old {
				if seed == s.down[s.idx(ul)] || seed == s.up[s.idx(ul)] ||
					seed == s.up[s.idx(up)] || seed == s.down[s.idx(left)] ||
					seed == s.up[s.idx(left)] || seed == s.down[i] ||
					seed == s.up[s.idx(right)] || seed == s.down[s.idx(dl)] ||
					seed == s.down[s.idx(down)] || seed == s.up[s.idx(down)] ||
					seed == s.down[s.idx(dr)] || seed == s.up[s.idx(dr)] {
					s.up[i] = newType
				}
			}
			if s.down[i] == old {
				ur := s.geom.Move(pos, hexgeom.Right)
				ur = s.geom.Move(ur, hexgeom.Up)
				if seed == s.down[s.idx(ul)] || seed == s.up[s.idx(ul)] ||
					seed == s.down[s.idx(up)] || seed == s.up[s.idx(up)] ||
					seed == s.up[s.idx(ur)] || seed == s.down[s.idx(left)] ||
					seed == s.up[i] || seed == s.down[s.idx(right)] ||
					seed == s.up[s.idx(right)] || seed == s.down[s.idx(down)] ||
					seed == s.down[s.idx(dr)] || seed == s.up[s.idx(dr)] {
					s.down[i] = newType
				}
			}
		}
	}
}

// gradeShores cascades water-closeness and grass-shore grading. Desert
// patches are seeded and graded separately, by createDeserts.
func (s *genState) gradeShores() {
	s.seedTerrainType(mapstore.Water0, mapstore.Grass1, mapstore.Water3)
	s.seedTerrainType(mapstore.Water0, mapstore.Water3, mapstore.Water2)
	s.seedTerrainType(mapstore.Water0, mapstore.Water2, mapstore.Water1)
	s.seedTerrainType(mapstore.Grass1, mapstore.Water3, mapstore.Grass0)
}

func (s *genState) hexagonTypesInRange(pos hexgeom.Pos, min, max mapstore.Terrain) bool {
	i := s.idx(pos)
	if s.down[i] < min || s.down[i] > max {
		return false
	}
	if s.up[i] < min || s.up[i] > max {
		return false
	}
	left := s.idx(s.geom.Move(pos, hexgeom.Left))
	if s.down[left] < min || s.down[left] > max {
		return false
	}
	ul := s.idx(s.geom.Move(pos, hexgeom.UpLeft))
	if s.down[ul] < min || s.down[ul] > max || s.up[ul] < min || s.up[ul] > max {
		return false
	}
	up := s.idx(s.geom.Move(pos, hexgeom.Up))
	if s.opts.PreserveBugs {
		if s.down[up] < min || s.down[up] > max {
			return false
		}
	} else {
		if s.up[up] < min || s.up[up] > max {
			return false
		}
	}
	return true
}

func (s *genState) checkDesertDownTriangle(pos hexgeom.Pos) bool {
	i := s.idx(pos)
	ok := func(t mapstore.Terrain) bool { return t == mapstore.Grass1 || t == mapstore.Desert2 }
	if !ok(s.down[i]) || !ok(s.up[i]) {
		return false
	}
	if !ok(s.down[s.idx(s.geom.Move(pos, hexgeom.Left))]) {
		return false
	}
	if !ok(s.down[s.idx(s.geom.Move(pos, hexgeom.Down))]) {
		return false
	}
	return true
}

func (s *genState) checkDesertUpTriangle(pos hexgeom.Pos) bool {
	i := s.idx(pos)
	ok := func(t mapstore.Terrain) bool { return t == mapstore.Grass1 || t == mapstore.Desert2 }
	if !ok(s.down[i]) || !ok(s.up[i]) {
		return false
	}
	if !ok(s.up[s.idx(s.geom.Move(pos, hexgeom.Right))]) {
		return false
	}
	if !ok(s.up[s.idx(s.geom.Move(pos, hexgeom.Up))]) {
		return false
	}
	return true
}

func (s *genState) randCoord() hexgeom.Pos {
	col := int(s.rng.Next()) % s.geom.Cols()
	row := int(s.rng.Next()) % s.geom.Rows()
	return s.posAt(col, row)
}

// createDeserts seeds Desert2 patches inside Grass1 regions (scaled by the
// DesertFrequency slider) and grades the surrounding bands.
func (s *genState) createDeserts() {
	regions := scaleCount(s.regionsBase(), s.opts.slider(SliderDesertFrequency))
	for i := 0; i < regions; i++ {
		for try := 0; try < 200; try++ {
			pos := s.randCoord()
			pi := s.idx(pos)
			if s.up[pi] == mapstore.Grass1 && s.down[pi] == mapstore.Grass1 {
				for idx := 255; idx >= 0; idx-- {
					sp, err := s.geom.SpiralPos(pos, idx%hexgeom.SpiralCount(hexgeom.MaxSpiralRing))
					if err != nil {
						continue
					}
					if s.checkDesertDownTriangle(sp) {
						s.up[s.idx(sp)] = mapstore.Desert2
					}
					if s.checkDesertUpTriangle(sp) {
						s.down[s.idx(sp)] = mapstore.Desert2
					}
				}
				break
			}
		}
	}

	s.seedTerrainType(mapstore.Desert2, mapstore.Grass1, mapstore.Grass3)
	s.seedTerrainType(mapstore.Desert2, mapstore.Grass3, mapstore.Desert0)
	s.seedTerrainType(mapstore.Desert2, mapstore.Desert0, mapstore.Desert1)

	for i := range s.up {
		if s.down[i] >= mapstore.Grass3 && s.down[i] <= mapstore.Desert1 {
			s.down[i] = mapstore.Grass1
		}
		if s.up[i] >= mapstore.Grass3 && s.up[i] <= mapstore.Desert1 {
			s.up[i] = mapstore.Grass1
		}
	}

	s.seedTerrainType(mapstore.Grass1, mapstore.Desert2, mapstore.Desert1)
	s.seedTerrainType(mapstore.Grass1, mapstore.Desert1, mapstore.Desert0)
	s.seedTerrainType(mapstore.Grass1, mapstore.Desert0, mapstore.Grass3)
}

// createCrosses places a cross atop every local height maximum at or above
// 26.
func (s *genState) createCrosses() {
	for y := 0; y < s.geom.Rows(); y++ {
		for x := 0; x < s.geom.Cols(); x++ {
			pos := s.posAt(x, y)
			h := s.height[s.idx(pos)]
			if h < 26 {
				continue
			}
			ge := func(d hexgeom.Direction) bool { return h >= s.height[s.idx(s.geom.Move(pos, d))] }
			gt := func(d hexgeom.Direction) bool { return h > s.height[s.idx(s.geom.Move(pos, d))] }
			if ge(hexgeom.Right) && ge(hexgeom.DownRight) && ge(hexgeom.Down) &&
				gt(hexgeom.Left) && gt(hexgeom.UpLeft) && gt(hexgeom.Up) {
				s.obj[s.idx(pos)] = mapstore.ObjectCross
			}
		}
	}
}

func (s *genState) regionsBase() int {
	return (s.geom.Cols() / 16) * (s.geom.Rows() / 16)
}

func (s *genState) posAddSpirallyRandom(pos hexgeom.Pos, mask int) hexgeom.Pos {
	idx := int(s.rng.Next()) & mask
	idx %= hexgeom.SpiralCount(hexgeom.MaxSpiralRing)
	sp, err := s.geom.SpiralPos(pos, idx)
	if err != nil {
		return pos
	}
	return sp
}

func (s *genState) createRandomObjectClusters(spec ClusterSpec) {
	for i := 0; i < spec.NumClusters; i++ {
		for try := 0; try < 100; try++ {
			pos := s.randCoord()
			if !s.hexagonTypesInRange(pos, spec.TerrainMin, spec.TerrainMax) {
				continue
			}
			for j := 0; j < spec.ObjsInCluster; j++ {
				op := s.posAddSpirallyRandom(pos, spec.PosMask)
				oi := s.idx(op)
				if s.hexagonTypesInRange(op, spec.TerrainMin, spec.TerrainMax) && s.obj[oi] == mapstore.ObjectNone {
					s.obj[oi] = spec.ObjBase + mapstore.Object(int(s.rng.Next())&spec.ObjMask)
				}
			}
			break
		}
	}
}

// placeObjects runs the full sequence of cluster-placement calls that gives
// the map its vegetation and junk-object texture, each scaled by its slider.
func (s *genState) placeObjects() {
	regions := s.regionsBase()
	trees := s.opts.slider(SliderTrees)

	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions*8, trees), 10, 0xff, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectTreeStart, 0xf})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, trees), 45, 0x3f, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectTreeStart, 0x7})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, trees), 30, 0x3f, mapstore.Grass0, mapstore.Grass2, mapstore.ObjectPineStart, 0x7})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, trees), 20, 0x7f, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectTreeStart, 0xf})

	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderStonepileDense)), 40, 0x3f, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectStoneStart, 0x7})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderStonepileSparse)), 15, 0xff, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectStoneStart, 0x7})

	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkGrassDeadTrees)), 2, 0xff, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectFelledTree, 0})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkGrassSandStone)), 6, 0xff, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectStoneStart, 0x1})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkWaterSubmergedTrees)), 50, 0x7f, mapstore.Water2, mapstore.Water3, mapstore.ObjectWaterTree, 0x3})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkGrassStubTrees)), 5, 0xff, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectStub, 0})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkGrassSmallBoulders)), 10, 0xff, mapstore.Grass1, mapstore.Grass2, mapstore.ObjectBoulder, 0x1})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkDesertAnimalCadavers)), 2, 0xf, mapstore.Desert2, mapstore.Desert2, mapstore.ObjectCadaverStart, 0x1})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkDesertCacti)), 6, 0x7f, mapstore.Desert0, mapstore.Desert2, mapstore.ObjectCactusStart, 0x1})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkWaterSubmergedBoulders)), 8, 0x7f, mapstore.Water0, mapstore.Water2, mapstore.ObjectStoneStart, 0x1})
	s.createRandomObjectClusters(ClusterSpec{scaleCount(regions, s.opts.slider(SliderJunkDesertPalmTrees)), 6, 0x3f, mapstore.Desert2, mapstore.Desert2, mapstore.ObjectPalmStart, 0x3})
}

var mineralClusterSizes = [6]int{1, 6, 12, 18, 24, 30}

func (s *genState) expandMineralCluster(iters int, pos hexgeom.Pos, index *int, amount int, kind mapstore.MineralKind) {
	for i := 0; i < iters; i++ {
		sp, err := s.geom.SpiralPos(pos, *index%hexgeom.SpiralCount(hexgeom.MaxSpiralRing))
		*index++
		if err != nil {
			continue
		}
		si := s.idx(sp)
		if s.mKind[si] == mapstore.MineralNone || s.mAmt[si] < uint8(amount) {
			s.mKind[si] = kind
			s.mAmt[si] = uint8(amount)
		}
	}
}

func (s *genState) createRandomMineralClusters(numClusters int, kind mapstore.MineralKind, min, max mapstore.Terrain) {
	for i := 0; i < numClusters; i++ {
		for try := 0; try < 100; try++ {
			pos := s.randCoord()
			if !s.hexagonTypesInRange(pos, min, max) {
				continue
			}
			index := 0
			count := 2 + ((int(s.rng.Next()) >> 2) & 3)
			for j := 0; j < count; j++ {
				amount := 4 * (count - j)
				s.expandMineralCluster(mineralClusterSizes[j], pos, &index, amount, kind)
			}
			break
		}
	}
}

// placeMinerals seeds concentric coal/iron/gold/stone clusters in the
// tundra/snow band, each scaled by its mountain-resource slider.
func (s *genState) placeMinerals() {
	regions := s.regionsBase()
	s.createRandomMineralClusters(scaleCount(regions*9, s.opts.slider(SliderMountainCoal)), mapstore.MineralCoal, mapstore.Tundra0, mapstore.Snow0)
	s.createRandomMineralClusters(scaleCount(regions*4, s.opts.slider(SliderMountainIron)), mapstore.MineralIron, mapstore.Tundra0, mapstore.Snow0)
	s.createRandomMineralClusters(scaleCount(regions*2, s.opts.slider(SliderMountainGold)), mapstore.MineralGold, mapstore.Tundra0, mapstore.Snow0)
	s.createRandomMineralClusters(scaleCount(regions*2, s.opts.slider(SliderMountainStone)), mapstore.MineralStone, mapstore.Tundra0, mapstore.Snow0)
}

// cleanup removes any Impassable object adjacent to water or another
// Impassable object, keeping walkable topology around obstacles.
func (s *genState) cleanup() {
	for y := 0; y < s.geom.Rows(); y++ {
		for x := 0; x < s.geom.Cols(); x++ {
			pos := s.posAt(x, y)
			i := s.idx(pos)
			if mapstore.Passability(s.obj[i]) != mapstore.Impassable {
				continue
			}
			for _, d := range hexgeom.AllDirections {
				np := s.geom.Move(pos, d)
				ni := s.idx(np)
				isWater := s.up[ni].IsWater() || s.down[ni].IsWater()
				if isWater || mapstore.Passability(s.obj[ni]) == mapstore.Impassable {
					s.obj[i] = mapstore.ObjectNone
					break
				}
			}
		}
	}
}

func (s *genState) toStore() *mapstore.Store {
	store := mapstore.NewStore(s.geom)
	for y := 0; y < s.geom.Rows(); y++ {
		for x := 0; x < s.geom.Cols(); x++ {
			pos := s.posAt(x, y)
			i := s.idx(pos)
			store.SetHeight(pos, uint8(clampInt(s.height[i], 0, 31)))
			store.SetTerrain(pos, s.up[i], s.down[i])
			if s.obj[i] != mapstore.ObjectNone {
				store.SetObject(pos, s.obj[i], 0)
			}
			if s.mKind[i] != mapstore.MineralNone || s.mAmt[i] != 0 {
				store.SetMineral(pos, mapstore.MineralDeposit{Kind: s.mKind[i], Amount: s.mAmt[i]})
			}
		}
	}
	return store
}
