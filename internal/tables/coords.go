package tables

import "github.com/D0ntPanic/tpscube/internal/cube"

// Coordinate sizes, matching the index spaces a correct two-phase
// solver needs: phase 1 separates corner orientation, edge orientation
// and which four edge slots hold the equatorial (E-slice) pieces;
// phase 2, restricted to the move subgroup that preserves all three,
// separates corner permutation from the two edge permutations that
// subgroup cannot mix.
const (
	CornerOrientationCount = 2187 // 3^7
	EdgeOrientationCount   = 2048 // 2^11
	SliceCount             = 495  // C(12,4)
	CornerPermutationCount = 40320 // 8!
	EdgePermutation8Count  = 40320 // 8!
	EquatorialPermCount    = 24    // 4!
)

// Phase1Moves is the full 18-move set phase 1 search explores.
var Phase1Moves = cube.AllMoves[:]

// Phase2Moves is the subgroup phase 2 search explores: quarter turns of
// U/D (which never touch corner/edge orientation or slice membership)
// plus half turns of F/B/R/L (which return corner and edge orientation
// to zero and keep equatorial edges among themselves).
var Phase2Moves = []cube.Move{
	cube.MoveU, cube.MoveUPrime, cube.MoveU2,
	cube.MoveD, cube.MoveDPrime, cube.MoveD2,
	cube.MoveF2, cube.MoveB2, cube.MoveR2, cube.MoveL2,
}

func encodeCornerOrientation(oris [8]int) int {
	return EncodeBaseMixed(oris[0:7], 3)
}

// EncodeCornerOrientation exposes the corner-orientation coordinate
// encoding for callers (such as the 2x2x2 solver) that only care about
// the corner subgroup.
func EncodeCornerOrientation(oris [8]int) int {
	return encodeCornerOrientation(oris)
}

func decodeCornerOrientation(index int) [8]int {
	digits := DecodeBaseMixed(index, 7, 3)
	var oris [8]int
	sum := 0
	for i := 0; i < 7; i++ {
		oris[i] = digits[i]
		sum += digits[i]
	}
	oris[7] = (3 - sum%3) % 3
	return oris
}

func encodeEdgeOrientation(oris [12]int) int {
	return EncodeBaseMixed(oris[0:11], 2)
}

func decodeEdgeOrientation(index int) [12]int {
	digits := DecodeBaseMixed(index, 11, 2)
	var oris [12]int
	sum := 0
	for i := 0; i < 11; i++ {
		oris[i] = digits[i]
		sum += digits[i]
	}
	oris[11] = (2 - sum%2) % 2
	return oris
}

// equatorialSlots are the four edge slots holding the E-slice pieces
// (FR, FL, BR, BL) when the cube is solved.
var equatorialSlots = []int{8, 9, 10, 11}

func encodeSlice(equatorialSlotPositions []int) int {
	return EncodeCombination(equatorialSlotPositions, 12)
}

func decodeSlice(index int) []int {
	return DecodeCombination(index, 12, 4)
}

// buildCubeForSlice returns a 3x3x3 cube whose edges hold equatorial
// piece identities (8-11) at the given slots and non-equatorial
// identities (0-7) at the rest, everything else solved.
func buildCubeForSlice(slots []int) *cube.Cube3x3x3 {
	c := cube.NewCube3x3x3()
	inSlice := make(map[int]bool, 4)
	for _, s := range slots {
		inSlice[s] = true
	}
	nextEq, nextNonEq := 8, 0
	for slot := 0; slot < 12; slot++ {
		if inSlice[slot] {
			c.Edges[slot] = cube.EdgePiece{Piece: nextEq, Orientation: 0}
			nextEq++
		} else {
			c.Edges[slot] = cube.EdgePiece{Piece: nextNonEq, Orientation: 0}
			nextNonEq++
		}
	}
	return c
}

func equatorialSlotsOf(c *cube.Cube3x3x3) []int {
	slots := make([]int, 0, 4)
	for slot := 0; slot < 12; slot++ {
		if c.Edges[slot].Piece >= 8 {
			slots = append(slots, slot)
		}
	}
	return slots
}

func encodeCornerPermutation(c *cube.Cube3x3x3) int {
	perm := make([]int, 8)
	for i := 0; i < 8; i++ {
		perm[i] = c.Corners[i].Piece
	}
	return EncodePermutation(perm)
}

func buildCubeForCornerPermutation(index int) *cube.Cube3x3x3 {
	c := cube.NewCube3x3x3()
	perm := DecodePermutation(index, 8)
	for i := 0; i < 8; i++ {
		c.Corners[i] = cube.CornerPiece{Piece: perm[i], Orientation: 0}
	}
	return c
}

func encodeEdgePermutation8(c *cube.Cube3x3x3) int {
	perm := make([]int, 8)
	for i := 0; i < 8; i++ {
		perm[i] = c.Edges[i].Piece
	}
	return EncodePermutation(perm)
}

// buildCubeForEdgePermutation8 places a permutation of identities 0-7
// on slots 0-7 (the non-equatorial slots) and the solved equatorial
// identities 8-11 on slots 8-11.
func buildCubeForEdgePermutation8(index int) *cube.Cube3x3x3 {
	c := cube.NewCube3x3x3()
	perm := DecodePermutation(index, 8)
	for i := 0; i < 8; i++ {
		c.Edges[i] = cube.EdgePiece{Piece: perm[i], Orientation: 0}
	}
	for i := 8; i < 12; i++ {
		c.Edges[i] = cube.EdgePiece{Piece: i, Orientation: 0}
	}
	return c
}

func encodeEquatorialPermutation(c *cube.Cube3x3x3) int {
	perm := make([]int, 4)
	for i := 0; i < 4; i++ {
		perm[i] = c.Edges[8+i].Piece - 8
	}
	return EncodePermutation(perm)
}

func buildCubeForEquatorialPermutation(index int) *cube.Cube3x3x3 {
	c := cube.NewCube3x3x3()
	perm := DecodePermutation(index, 4)
	for i := 0; i < 8; i++ {
		c.Edges[i] = cube.EdgePiece{Piece: i, Orientation: 0}
	}
	for i := 0; i < 4; i++ {
		c.Edges[8+i] = cube.EdgePiece{Piece: perm[i] + 8, Orientation: 0}
	}
	return c
}

// Phase1Coordinate is the phase-1 search state: orientation/slice
// coordinates, independent of piece permutation identities.
type Phase1Coordinate struct {
	CornerOri int
	EdgeOri   int
	Slice     int
}

// EncodePhase1 projects a full cube state onto the phase-1 coordinate.
func EncodePhase1(c *cube.Cube3x3x3) Phase1Coordinate {
	var cOri [8]int
	for i := range cOri {
		cOri[i] = c.Corners[i].Orientation
	}
	var eOri [12]int
	for i := range eOri {
		eOri[i] = c.Edges[i].Orientation
	}
	return Phase1Coordinate{
		CornerOri: encodeCornerOrientation(cOri),
		EdgeOri:   encodeEdgeOrientation(eOri),
		Slice:     encodeSlice(equatorialSlotsOf(c)),
	}
}

// Phase2Coordinate is the phase-2 search state, valid only once
// Phase1Coordinate is solved.
type Phase2Coordinate struct {
	CornerPerm     int
	EdgePerm8      int
	EquatorialPerm int
}

// EncodePhase2 projects a full (phase-1-solved) cube state onto the
// phase-2 coordinate.
func EncodePhase2(c *cube.Cube3x3x3) Phase2Coordinate {
	return Phase2Coordinate{
		CornerPerm:     encodeCornerPermutation(c),
		EdgePerm8:      encodeEdgePermutation8(c),
		EquatorialPerm: encodeEquatorialPermutation(c),
	}
}
