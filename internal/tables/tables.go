package tables

import (
	"sync"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

// Phase1 holds every table phase-1 search needs: per-coordinate move
// tables (how a coordinate value changes under each of the 18 moves)
// and three joint prune tables, each giving an exact lower bound, in
// moves, on the distance remaining to reduce a pair of coordinates to solved.
type Phase1 struct {
	CornerOriMove [CornerOrientationCount][18]uint16
	EdgeOriMove   [EdgeOrientationCount][18]uint16
	SliceMove     [SliceCount][18]uint16

	PruneCornerOriSlice []uint8 // [CornerOrientationCount*SliceCount]
	PruneEdgeOriSlice   []uint8 // [EdgeOrientationCount*SliceCount]
	PruneCornerEdgeOri  []uint8 // [CornerOrientationCount*EdgeOrientationCount]

	SolvedSlice int
}

// Phase2 holds the analogous tables for the restricted phase-2 move set.
type Phase2 struct {
	CornerPermMove     [CornerPermutationCount][10]uint16
	EdgePerm8Move      [EdgePermutation8Count][10]uint16
	EquatorialPermMove [EquatorialPermCount][10]uint16

	PruneCornerPermEquatorial []uint8 // [CornerPermutationCount*EquatorialPermCount]
	PruneEdgePerm8Equatorial  []uint8 // [EdgePermutation8Count*EquatorialPermCount]
}

var (
	phase1Once sync.Once
	phase1     *Phase1

	phase2Once sync.Once
	phase2     *Phase2
)

// GetPhase1 returns the phase-1 tables, building them on first use.
// Construction is pure BFS over small index spaces (at most ~2000
// entries per coordinate) and takes well under a second.
func GetPhase1() *Phase1 {
	phase1Once.Do(func() {
		phase1 = buildPhase1()
	})
	return phase1
}

// GetPhase2 returns the phase-2 tables, building them on first use.
func GetPhase2() *Phase2 {
	phase2Once.Do(func() {
		phase2 = buildPhase2()
	})
	return phase2
}

func buildPhase1() *Phase1 {
	p := &Phase1{}

	for idx := 0; idx < CornerOrientationCount; idx++ {
		oris := decodeCornerOrientation(idx)
		for mi, m := range Phase1Moves {
			c := cube.NewCube3x3x3()
			for i := 0; i < 8; i++ {
				c.Corners[i] = cube.CornerPiece{Piece: i, Orientation: oris[i]}
			}
			c.Apply(m)
			var newOris [8]int
			for i := 0; i < 8; i++ {
				newOris[i] = c.Corners[i].Orientation
			}
			p.CornerOriMove[idx][mi] = uint16(encodeCornerOrientation(newOris))
		}
	}

	for idx := 0; idx < EdgeOrientationCount; idx++ {
		oris := decodeEdgeOrientation(idx)
		for mi, m := range Phase1Moves {
			c := cube.NewCube3x3x3()
			for i := 0; i < 12; i++ {
				c.Edges[i] = cube.EdgePiece{Piece: i, Orientation: oris[i]}
			}
			c.Apply(m)
			var newOris [12]int
			for i := 0; i < 12; i++ {
				newOris[i] = c.Edges[i].Orientation
			}
			p.EdgeOriMove[idx][mi] = uint16(encodeEdgeOrientation(newOris))
		}
	}

	for idx := 0; idx < SliceCount; idx++ {
		slots := decodeSlice(idx)
		for mi, m := range Phase1Moves {
			c := buildCubeForSlice(slots)
			c.Apply(m)
			p.SliceMove[idx][mi] = uint16(encodeSlice(equatorialSlotsOf(c)))
		}
	}

	p.SolvedSlice = encodeSlice(equatorialSlots)

	p.PruneCornerOriSlice = buildPairPrune(CornerOrientationCount, SliceCount, 18,
		func(a, mi int) int { return int(p.CornerOriMove[a][mi]) },
		func(b, mi int) int { return int(p.SliceMove[b][mi]) },
		0, p.SolvedSlice,
	)
	p.PruneEdgeOriSlice = buildPairPrune(EdgeOrientationCount, SliceCount, 18,
		func(a, mi int) int { return int(p.EdgeOriMove[a][mi]) },
		func(b, mi int) int { return int(p.SliceMove[b][mi]) },
		0, p.SolvedSlice,
	)
	p.PruneCornerEdgeOri = buildPairPrune(CornerOrientationCount, EdgeOrientationCount, 18,
		func(a, mi int) int { return int(p.CornerOriMove[a][mi]) },
		func(b, mi int) int { return int(p.EdgeOriMove[b][mi]) },
		0, 0,
	)

	return p
}

func buildPhase2() *Phase2 {
	p := &Phase2{}

	for idx := 0; idx < CornerPermutationCount; idx++ {
		for mi, m := range Phase2Moves {
			c := buildCubeForCornerPermutation(idx)
			c.Apply(m)
			p.CornerPermMove[idx][mi] = uint16(encodeCornerPermutation(c))
		}
	}

	for idx := 0; idx < EdgePermutation8Count; idx++ {
		for mi, m := range Phase2Moves {
			c := buildCubeForEdgePermutation8(idx)
			c.Apply(m)
			p.EdgePerm8Move[idx][mi] = uint16(encodeEdgePermutation8(c))
		}
	}

	for idx := 0; idx < EquatorialPermCount; idx++ {
		for mi, m := range Phase2Moves {
			c := buildCubeForEquatorialPermutation(idx)
			c.Apply(m)
			p.EquatorialPermMove[idx][mi] = uint16(encodeEquatorialPermutation(c))
		}
	}

	p.PruneCornerPermEquatorial = buildPairPrune(CornerPermutationCount, EquatorialPermCount, 10,
		func(a, mi int) int { return int(p.CornerPermMove[a][mi]) },
		func(b, mi int) int { return int(p.EquatorialPermMove[b][mi]) },
		0, 0,
	)
	p.PruneEdgePerm8Equatorial = buildPairPrune(EdgePermutation8Count, EquatorialPermCount, 10,
		func(a, mi int) int { return int(p.EdgePerm8Move[a][mi]) },
		func(b, mi int) int { return int(p.EquatorialPermMove[b][mi]) },
		0, 0,
	)

	return p
}

// buildPairPrune breadth-first-searches the product space of two
// coordinates from the solved pair, recording the exact distance (in
// moves) to every reachable pair. Because every move set used here is
// closed under inversion, this Cayley-graph distance from solved is
// identical to the distance to solved from any given pair, which is
// exactly the admissible heuristic the search needs.
func buildPairPrune(dimA, dimB, numMoves int, stepA, stepB func(x, mi int) int, startA, startB int) []uint8 {
	size := dimA * dimB
	dist := make([]uint8, size)
	const unvisited = 0xFF
	for i := range dist {
		dist[i] = unvisited
	}
	start := startA*dimB + startB
	dist[start] = 0
	queue := make([]int, 0, size)
	queue = append(queue, start)
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		a, b := cur/dimB, cur%dimB
		d := dist[cur]
		for mi := 0; mi < numMoves; mi++ {
			na, nb := stepA(a, mi), stepB(b, mi)
			next := na*dimB + nb
			if dist[next] == unvisited {
				dist[next] = d + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}
