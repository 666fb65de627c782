package solver

import (
	"testing"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

func TestSolveAlreadySolvedReturnsEmptySequence(t *testing.T) {
	s := New()
	c := cube.NewCube3x3x3()
	moves, err := s.Solve(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(moves) != 0 {
		t.Fatalf("expected empty solution for solved cube, got %v", moves)
	}
}

func TestSolveShortScrambleProducesSolvingSequence(t *testing.T) {
	s := New()
	scrambles := [][]cube.Move{
		cube.ParseMoves("R U R' U'"),
		cube.ParseMoves("F R U R' U' F'"),
		cube.ParseMoves("R U2 R' D R U' R'"),
	}
	for _, scramble := range scrambles {
		c := cube.NewCube3x3x3()
		c.ApplyAll(scramble)

		solution, err := s.Solve(c)
		if err != nil {
			t.Fatalf("scramble %s: unexpected error: %v", cube.FormatMoves(scramble), err)
		}

		result := c.Clone()
		result.ApplyAll(solution)
		if !result.IsSolved() {
			t.Fatalf("scramble %s: solution %s did not solve the cube", cube.FormatMoves(scramble), cube.FormatMoves(solution))
		}
	}
}

func TestSolveFastAlsoSolves(t *testing.T) {
	s := New()
	c := cube.NewCube3x3x3()
	c.ApplyAll(cube.ParseMoves("R U R' U' R U R' U'"))

	solution, err := s.SolveFast(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := c.Clone()
	result.ApplyAll(solution)
	if !result.IsSolved() {
		t.Fatalf("fast solution %s did not solve the cube", cube.FormatMoves(solution))
	}
}

func TestSolveTenSeededRandomCubes(t *testing.T) {
	s := New()
	src := cube.NewLCGSource(42)
	for i := 0; i < 10; i++ {
		c := cube.RandomCube3x3x3(src)
		solution, err := s.Solve(c.Clone())
		if err != nil {
			t.Fatalf("cube %d: unexpected error: %v", i, err)
		}
		result := c.Clone()
		result.ApplyAll(solution)
		if !result.IsSolved() {
			t.Fatalf("cube %d: solution %s did not solve the cube", i, cube.FormatMoves(solution))
		}
	}
}

func TestSolveRespectsMaxSolutionMoves(t *testing.T) {
	s := New(WithMaxSolutionMoves(2))
	c := cube.NewCube3x3x3()
	c.ApplyAll(cube.ParseMoves("R U R' U' R U R' U' R U R' U'"))

	if _, err := s.Solve(c); err != ErrNoSolution {
		t.Fatalf("expected ErrNoSolution with a 2-move budget, got %v", err)
	}
}
