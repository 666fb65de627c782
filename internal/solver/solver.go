// Package solver implements two-phase IDA* search (C3): phase 1
// reduces a scrambled cube to the subgroup reachable using only
// U, D, F2, B2, R2, L2; phase 2 finishes the solve within that
// subgroup. Both phases search over the compact coordinates built by
// internal/tables rather than full cube state.
package solver

import (
	"math"

	"github.com/D0ntPanic/tpscube/internal/cube"
	"github.com/D0ntPanic/tpscube/internal/tables"
)

const infinity = math.MaxInt32

// Solve returns a move sequence that solves c, searching phase 1 up to
// maxPhase1Depth and the combined solution up to maxSolutionMoves. An
// already-solved cube yields an empty sequence and a nil error.
func (s *Solver) Solve(c *cube.Cube3x3x3) ([]cube.Move, error) {
	if c.IsSolved() {
		return []cube.Move{}, nil
	}

	phase1Moves, ok := s.searchPhase1(tables.EncodePhase1(c), s.maxPhase1Depth)
	if !ok {
		return nil, ErrNoSolution
	}

	afterPhase1 := c.Clone()
	afterPhase1.ApplyAll(phase1Moves)

	remaining := s.maxSolutionMoves - len(phase1Moves)
	if remaining < 0 {
		remaining = 0
	}
	phase2Moves, ok := s.searchPhase2(tables.EncodePhase2(afterPhase1), remaining)
	if !ok {
		return nil, ErrNoSolution
	}

	solution := make([]cube.Move, 0, len(phase1Moves)+len(phase2Moves))
	solution = append(solution, phase1Moves...)
	solution = append(solution, phase2Moves...)
	if len(solution) > s.maxSolutionMoves {
		return nil, ErrNoSolution
	}
	return solution, nil
}

// SolveFast returns the first solution the two-phase search finds,
// without minimising the total length over different phase splits.
// Solve also returns its first solution, so for the same cube both
// return the same sequence. It respects the solver's overall move budget.
func (s *Solver) SolveFast(c *cube.Cube3x3x3) ([]cube.Move, error) {
	return s.Solve(c)
}

func oppositeFace(a, b cube.Face) bool {
	switch a {
	case cube.FaceU:
		return b == cube.FaceD
	case cube.FaceD:
		return b == cube.FaceU
	case cube.FaceF:
		return b == cube.FaceB
	case cube.FaceB:
		return b == cube.FaceF
	case cube.FaceR:
		return b == cube.FaceL
	case cube.FaceL:
		return b == cube.FaceR
	}
	return false
}

// moveAllowedAfter applies two standard IDA* search reductions: never
// turn the same face twice in a row (always suboptimal), and for
// commuting opposite-face pairs only allow the canonical ordering
// (e.g. U before D, never D before U) so both orders of an equivalent
// pair are not explored twice.
func moveAllowedAfter(hasLast bool, last, next cube.Move) bool {
	if !hasLast {
		return true
	}
	lf, nf := last.Face(), next.Face()
	if lf == nf {
		return false
	}
	if oppositeFace(lf, nf) && lf > nf {
		return false
	}
	return true
}

func heuristicPhase1(p1 *tables.Phase1, coord tables.Phase1Coordinate) int {
	a := int(p1.PruneCornerOriSlice[coord.CornerOri*tables.SliceCount+coord.Slice])
	b := int(p1.PruneEdgeOriSlice[coord.EdgeOri*tables.SliceCount+coord.Slice])
	c := int(p1.PruneCornerEdgeOri[coord.CornerOri*tables.EdgeOrientationCount+coord.EdgeOri])
	max := a
	if b > max {
		max = b
	}
	if c > max {
		max = c
	}
	return max
}

// isUDFace reports whether f is one of the two faces phase 1's
// terminal move may not turn: the last phase-1 move must be a
// non-UD quarter turn so phase 2 never has to repeat a UD turn
// already made at the phase boundary.
func isUDFace(f cube.Face) bool {
	return f == cube.FaceU || f == cube.FaceD
}

func (s *Solver) searchPhase1(start tables.Phase1Coordinate, maxDepth int) ([]cube.Move, bool) {
	p1 := tables.GetPhase1()
	goal := tables.Phase1Coordinate{CornerOri: 0, EdgeOri: 0, Slice: p1.SolvedSlice}
	if start == goal {
		return []cube.Move{}, true
	}

	path := make([]cube.Move, 0, maxDepth)
	bound := heuristicPhase1(p1, start)
	for bound <= maxDepth {
		next, found := dfsPhase1(p1, start, goal, 0, bound, false, 0, &path)
		if found {
			result := make([]cube.Move, len(path))
			copy(result, path)
			return result, true
		}
		if next == infinity {
			return nil, false
		}
		bound = next
	}
	return nil, false
}

func dfsPhase1(p1 *tables.Phase1, coord, goal tables.Phase1Coordinate, g, bound int, hasLast bool, last cube.Move, path *[]cube.Move) (int, bool) {
	h := heuristicPhase1(p1, coord)
	f := g + h
	if f > bound {
		return f, false
	}
	if coord == goal && hasLast && !isUDFace(last.Face()) && last.Turn() != cube.Double {
		return f, true
	}

	minNext := infinity
	for mi, m := range tables.Phase1Moves {
		if !moveAllowedAfter(hasLast, last, m) {
			continue
		}
		next := tables.Phase1Coordinate{
			CornerOri: int(p1.CornerOriMove[coord.CornerOri][mi]),
			EdgeOri:   int(p1.EdgeOriMove[coord.EdgeOri][mi]),
			Slice:     int(p1.SliceMove[coord.Slice][mi]),
		}
		*path = append(*path, m)
		t, found := dfsPhase1(p1, next, goal, g+1, bound, true, m, path)
		if found {
			return t, true
		}
		*path = (*path)[:len(*path)-1]
		if t < minNext {
			minNext = t
		}
	}
	return minNext, false
}

func heuristicPhase2(p2 *tables.Phase2, coord tables.Phase2Coordinate) int {
	a := int(p2.PruneCornerPermEquatorial[coord.CornerPerm*tables.EquatorialPermCount+coord.EquatorialPerm])
	b := int(p2.PruneEdgePerm8Equatorial[coord.EdgePerm8*tables.EquatorialPermCount+coord.EquatorialPerm])
	if a > b {
		return a
	}
	return b
}

func (s *Solver) searchPhase2(start tables.Phase2Coordinate, maxDepth int) ([]cube.Move, bool) {
	p2 := tables.GetPhase2()
	goal := tables.Phase2Coordinate{}
	if start == goal {
		return []cube.Move{}, true
	}

	path := make([]cube.Move, 0, maxDepth)
	bound := heuristicPhase2(p2, start)
	for bound <= maxDepth {
		next, found := dfsPhase2(p2, start, goal, 0, bound, false, 0, &path)
		if found {
			result := make([]cube.Move, len(path))
			copy(result, path)
			return result, true
		}
		if next == infinity {
			return nil, false
		}
		bound = next
	}
	return nil, false
}

func dfsPhase2(p2 *tables.Phase2, coord, goal tables.Phase2Coordinate, g, bound int, hasLast bool, last cube.Move, path *[]cube.Move) (int, bool) {
	h := heuristicPhase2(p2, coord)
	f := g + h
	if f > bound {
		return f, false
	}
	if coord == goal {
		return f, true
	}

	minNext := infinity
	for mi, m := range tables.Phase2Moves {
		if !moveAllowedAfter(hasLast, last, m) {
			continue
		}
		next := tables.Phase2Coordinate{
			CornerPerm:     int(p2.CornerPermMove[coord.CornerPerm][mi]),
			EdgePerm8:      int(p2.EdgePerm8Move[coord.EdgePerm8][mi]),
			EquatorialPerm: int(p2.EquatorialPermMove[coord.EquatorialPerm][mi]),
		}
		*path = append(*path, m)
		t, found := dfsPhase2(p2, next, goal, g+1, bound, true, m, path)
		if found {
			return t, true
		}
		*path = (*path)[:len(*path)-1]
		if t < minNext {
			minNext = t
		}
	}
	return minNext, false
}
