// Package scramble generates WCA-style random-state scrambles (C4): a
// uniformly random solved-reachable cube state is sampled, solved, and
// the inverse of that solution is handed back as the scramble. This
// guarantees every scramble is both uniformly distributed over legal
// states and minimal-ish, since it rides on whatever solution length
// the solver finds.
package scramble

import (
	"github.com/D0ntPanic/tpscube/internal/cube"
	"github.com/D0ntPanic/tpscube/internal/solver"
)

// Generator produces random-state scrambles for 3x3x3 and 2x2x2 cubes.
type Generator struct {
	solver *solver.Solver
	random cube.RandomSource
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandomSource overrides the default crypto/rand-backed source,
// primarily so tests can get reproducible scrambles.
func WithRandomSource(src cube.RandomSource) Option {
	return func(g *Generator) { g.random = src }
}

// WithSolver overrides the default solver, e.g. to trade scramble
// quality for speed.
func WithSolver(s *solver.Solver) Option {
	return func(g *Generator) { g.solver = s }
}

// New returns a Generator using a fresh default solver and
// crypto/rand as its random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		solver: solver.New(),
		random: cube.CryptoSource{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Cube3x3x3 returns a scramble move sequence for a 3x3x3 cube: applying
// it to a solved cube reaches the sampled random state.
func (g *Generator) Cube3x3x3() ([]cube.Move, error) {
	target := cube.RandomCube3x3x3(g.random)
	solution, err := g.solver.SolveFast(target)
	if err != nil {
		return nil, err
	}
	return cube.InverseSequence(solution), nil
}

// Cube2x2x2 returns a scramble move sequence for a 2x2x2 cube.
func (g *Generator) Cube2x2x2() ([]cube.Move, error) {
	target := cube.RandomCube2x2x2(g.random)
	solution, err := g.solver.Solve2x2x2(target)
	if err != nil {
		return nil, err
	}
	return cube.InverseSequence(solution), nil
}
