package solver

import (
	"testing"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

func TestSolve2x2x2AlreadySolved(t *testing.T) {
	s := New()
	c := cube.NewCube2x2x2()
	moves, err := s.Solve2x2x2(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(moves) != 0 {
		t.Fatalf("expected empty solution, got %v", moves)
	}
}

func TestSolve2x2x2ProducesSolvingSequence(t *testing.T) {
	s := New()
	c := cube.NewCube2x2x2()
	c.ApplyAll(cube.ParseMoves("R U R' U' R U R' U'"))

	solution, err := s.Solve2x2x2(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := c.Clone()
	result.ApplyAll(solution)
	if !result.IsSolved() {
		t.Fatalf("solution %s did not solve the 2x2x2", cube.FormatMoves(solution))
	}
}
