package tables

import (
	"sync"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

// TwoByTwo holds the tables a 2x2x2 solve needs: since a 2x2x2 has no
// edges, a single phase suffices and only the corner subgroup matters.
// Corner orientation transitions under a move are identical to the
// 3x3x3 case (both cube sizes share the same corner generators), so
// the move table is reused from Phase1 rather than rebuilt.
type TwoByTwo struct {
	CornerPermMove [CornerPermutationCount][18]uint16

	PruneCornerOri  []uint8 // [CornerOrientationCount]
	PruneCornerPerm []uint8 // [CornerPermutationCount]
}

var (
	twoByTwoOnce sync.Once
	twoByTwo     *TwoByTwo
)

// GetTwoByTwo returns the 2x2x2 tables, building them on first use.
func GetTwoByTwo() *TwoByTwo {
	twoByTwoOnce.Do(func() {
		twoByTwo = buildTwoByTwo()
	})
	return twoByTwo
}

func buildTwoByTwo() *TwoByTwo {
	t := &TwoByTwo{}
	for idx := 0; idx < CornerPermutationCount; idx++ {
		for mi, m := range cube.AllMoves {
			c := buildCubeForCornerPermutation(idx)
			c.Apply(m)
			t.CornerPermMove[idx][mi] = uint16(encodeCornerPermutation(c))
		}
	}

	p1 := GetPhase1()
	t.PruneCornerOri = build1DPrune(CornerOrientationCount, 18, func(a, mi int) int {
		return int(p1.CornerOriMove[a][mi])
	}, 0)
	t.PruneCornerPerm = build1DPrune(CornerPermutationCount, 18, func(a, mi int) int {
		return int(t.CornerPermMove[a][mi])
	}, 0)

	return t
}

func build1DPrune(dim, numMoves int, step func(x, mi int) int, start int) []uint8 {
	const unvisited = 0xFF
	dist := make([]uint8, dim)
	for i := range dist {
		dist[i] = unvisited
	}
	dist[start] = 0
	queue := make([]int, 0, dim)
	queue = append(queue, start)
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		d := dist[cur]
		for mi := 0; mi < numMoves; mi++ {
			next := step(cur, mi)
			if dist[next] == unvisited {
				dist[next] = d + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}
