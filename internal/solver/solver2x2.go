package solver

import (
	"github.com/D0ntPanic/tpscube/internal/cube"
	"github.com/D0ntPanic/tpscube/internal/tables"
)

// Solve2x2x2 solves a 2x2x2 cube in a single phase: only the corner
// subgroup exists, so there is no need for the 3x3x3 solver's
// orientation/permutation split into two searches.
func (s *Solver) Solve2x2x2(c *cube.Cube2x2x2) ([]cube.Move, error) {
	if c.IsSolved() {
		return []cube.Move{}, nil
	}
	t := tables.GetTwoByTwo()

	var oris [8]int
	for i := range oris {
		oris[i] = c.Corners[i].Orientation
	}
	perm := make([]int, 8)
	for i := range perm {
		perm[i] = c.Corners[i].Piece
	}
	startOri := tables.EncodeCornerOrientation(oris)
	startPerm := tables.EncodePermutation(perm)

	path := make([]cube.Move, 0, s.maxSolutionMoves)
	bound := heuristicTwoByTwo(t, startOri, startPerm)
	for bound <= s.maxSolutionMoves {
		next, found := dfsTwoByTwo(t, startOri, startPerm, 0, bound, false, 0, &path)
		if found {
			result := make([]cube.Move, len(path))
			copy(result, path)
			return result, nil
		}
		if next == infinity {
			return nil, ErrNoSolution
		}
		bound = next
	}
	return nil, ErrNoSolution
}

func heuristicTwoByTwo(t *tables.TwoByTwo, ori, perm int) int {
	a := int(t.PruneCornerOri[ori])
	b := int(t.PruneCornerPerm[perm])
	if a > b {
		return a
	}
	return b
}

func dfsTwoByTwo(t *tables.TwoByTwo, ori, perm, g, bound int, hasLast bool, last cube.Move, path *[]cube.Move) (int, bool) {
	h := heuristicTwoByTwo(t, ori, perm)
	f := g + h
	if f > bound {
		return f, false
	}
	if ori == 0 && perm == 0 {
		return f, true
	}

	minNext := infinity
	for mi, m := range cube.AllMoves {
		if !moveAllowedAfter(hasLast, last, m) {
			continue
		}
		nextOri := int(tables.GetPhase1().CornerOriMove[ori][mi])
		nextPerm := int(t.CornerPermMove[perm][mi])
		*path = append(*path, m)
		tcost, found := dfsTwoByTwo(t, nextOri, nextPerm, g+1, bound, true, m, path)
		if found {
			return tcost, true
		}
		*path = (*path)[:len(*path)-1]
		if tcost < minNext {
			minNext = tcost
		}
	}
	return minNext, false
}
