package cube

import (
	"crypto/rand"
	"math/big"
)

// RandomSource produces uniformly distributed integers in [0, n). It is
// injectable so scramble generation and tests can be deterministic.
type RandomSource interface {
	Intn(n int) int
}

// LCGSource is a seedable linear congruential generator matching the
// reference sequence `s <- s*1103515245 + 12345`, `next(n) = s mod n`.
// It exists for reproducible tests, not for cryptographic use.
type LCGSource struct {
	state uint64
}

// NewLCGSource returns a source seeded with the given value.
func NewLCGSource(seed uint64) *LCGSource {
	return &LCGSource{state: seed}
}

func (l *LCGSource) Intn(n int) int {
	if n <= 0 {
		panic("cube: Intn requires n > 0")
	}
	l.state = l.state*1103515245 + 12345
	return int(l.state % uint64(n))
}

// CryptoSource draws from crypto/rand, the default source for real
// scrambles (as opposed to seeded test sources).
type CryptoSource struct{}

func (CryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(v.Int64())
}

// permutationParity returns 0 or 1: the parity of the permutation
// described by identities, as a sequence of transpositions.
func permutationParity(identities []int) int {
	seen := make([]bool, len(identities))
	parity := 0
	for i := range identities {
		if seen[i] {
			continue
		}
		cycleLen := 0
		j := i
		for !seen[j] {
			seen[j] = true
			j = identities[j]
			cycleLen++
		}
		if cycleLen > 0 {
			parity += cycleLen - 1
		}
	}
	return parity % 2
}

// RandomCube3x3x3 samples a uniform solved-reachable 3x3x3 state: the
// corner and edge permutations are drawn by successive swaps (with the
// last two edge slots swapped if needed to match corner parity), corner
// orientations are uniform on the first seven slots with the eighth
// fixed to zero the sum mod 3, and edge orientations are uniform on the
// first eleven with the twelfth fixed to zero the sum mod 2.
func RandomCube3x3x3(src RandomSource) *Cube3x3x3 {
	c := NewCube3x3x3()

	corners := shuffledIdentities(src, 8)
	edges := shuffledIdentities(src, 12)
	if permutationParity(corners) != permutationParity(edges) {
		edges[10], edges[11] = edges[11], edges[10]
	}

	cornerOriSum := 0
	for i := 0; i < 7; i++ {
		o := src.Intn(3)
		c.Corners[i] = CornerPiece{Piece: corners[i], Orientation: o}
		cornerOriSum += o
	}
	c.Corners[7] = CornerPiece{Piece: corners[7], Orientation: (3 - cornerOriSum%3) % 3}

	edgeOriSum := 0
	for i := 0; i < 11; i++ {
		o := src.Intn(2)
		c.Edges[i] = EdgePiece{Piece: edges[i], Orientation: o}
		edgeOriSum += o
	}
	c.Edges[11] = EdgePiece{Piece: edges[11], Orientation: (2 - edgeOriSum%2) % 2}

	return c
}

// RandomCube2x2x2 samples a uniform solved-reachable 2x2x2 state. Only
// corners exist; permutation parity is unconstrained (no edges to match
// against) and one corner's orientation is fixed by the sum invariant.
func RandomCube2x2x2(src RandomSource) *Cube2x2x2 {
	c := NewCube2x2x2()
	corners := shuffledIdentities(src, 8)
	sum := 0
	for i := 0; i < 7; i++ {
		o := src.Intn(3)
		c.Corners[i] = CornerPiece{Piece: corners[i], Orientation: o}
		sum += o
	}
	c.Corners[7] = CornerPiece{Piece: corners[7], Orientation: (3 - sum%3) % 3}
	return c
}

func shuffledIdentities(src RandomSource, n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}
