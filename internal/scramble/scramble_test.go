package scramble

import (
	"testing"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

func TestCube3x3x3ScrambleReachesUnsolvedLegalState(t *testing.T) {
	g := New(WithRandomSource(cube.NewLCGSource(1)))
	moves, err := g.Cube3x3x3()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := cube.NewCube3x3x3()
	c.ApplyAll(moves)
	if c.IsSolved() {
		t.Fatal("scramble should not leave the cube solved")
	}
}

func TestCube2x2x2Scramble(t *testing.T) {
	g := New(WithRandomSource(cube.NewLCGSource(2)))
	moves, err := g.Cube2x2x2()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := cube.NewCube2x2x2()
	c.ApplyAll(moves)
	if c.IsSolved() {
		t.Fatal("scramble should not leave the 2x2x2 solved")
	}
}
