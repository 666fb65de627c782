package cube

// This file derives, once at package init, the six face-turn generators
// that all piece-level move application is built from. Each generator
// describes a single quarter-turn-clockwise rigid rotation as a
// permutation of corner/edge slots plus the orientation delta each
// arriving piece picks up. A CCW move is the same generator applied
// three times and a double move twice, which is why only six tables are
// needed rather than eighteen: the group-theoretic order-4 structure of
// a quarter turn makes repeated application self-correcting (four
// applications of any generator is always the identity).

type cornerSlot int

const (
	slotUFR cornerSlot = iota
	slotUFL
	slotUBL
	slotUBR
	slotDFR
	slotDFL
	slotDBL
	slotDBR
)

type edgeSlot int

const (
	slotUF edgeSlot = iota
	slotUR
	slotUB
	slotUL
	slotDF
	slotDR
	slotDB
	slotDL
	slotFR
	slotFL
	slotBR
	slotBL
)

// generator describes one quarter-turn-clockwise face rotation.
type generator struct {
	cornerSrc   [8]int // cornerSrc[dest] = source slot whose piece lands at dest
	cornerDelta [8]int // orientation added (mod 3) to the piece landing at dest
	edgeSrc     [12]int
	edgeDelta   [12]int // orientation added (mod 2) to the piece landing at dest
}

func identityGenerator() generator {
	var g generator
	for i := range g.cornerSrc {
		g.cornerSrc[i] = i
	}
	for i := range g.edgeSrc {
		g.edgeSrc[i] = i
	}
	return g
}

func buildGenerator(cornerCycle []int, cornerTwist []int, edgeCycle []int, edgeFlip bool) generator {
	g := identityGenerator()
	n := len(cornerCycle)
	for i := 0; i < n; i++ {
		dest := cornerCycle[(i+1)%n]
		src := cornerCycle[i]
		g.cornerSrc[dest] = src
		g.cornerDelta[dest] = cornerTwist[i] % 3
	}
	m := len(edgeCycle)
	for i := 0; i < m; i++ {
		dest := edgeCycle[(i+1)%m]
		src := edgeCycle[i]
		g.edgeSrc[dest] = src
		if edgeFlip {
			g.edgeDelta[dest] = 1
		}
	}
	return g
}

// generators maps each Face to its quarter-turn-clockwise generator,
// given as literal slot cycles and per-slot twists.
var generators = map[Face]generator{
	FaceU: buildGenerator(
		[]int{int(slotUFR), int(slotUFL), int(slotUBL), int(slotUBR)}, []int{0, 0, 0, 0},
		[]int{int(slotUF), int(slotUR), int(slotUB), int(slotUL)}, false,
	),
	FaceD: buildGenerator(
		[]int{int(slotDFR), int(slotDBR), int(slotDBL), int(slotDFL)}, []int{0, 0, 0, 0},
		[]int{int(slotDF), int(slotDR), int(slotDB), int(slotDL)}, false,
	),
	FaceF: buildGenerator(
		[]int{int(slotUFR), int(slotDFR), int(slotDFL), int(slotUFL)}, []int{1, 2, 1, 2},
		[]int{int(slotUF), int(slotFR), int(slotDF), int(slotFL)}, true,
	),
	FaceB: buildGenerator(
		[]int{int(slotUBR), int(slotUBL), int(slotDBL), int(slotDBR)}, []int{1, 2, 1, 2},
		[]int{int(slotUB), int(slotBL), int(slotDB), int(slotBR)}, true,
	),
	FaceR: buildGenerator(
		[]int{int(slotUFR), int(slotUBR), int(slotDBR), int(slotDFR)}, []int{1, 2, 1, 2},
		[]int{int(slotUR), int(slotBR), int(slotDR), int(slotFR)}, false,
	),
	FaceL: buildGenerator(
		[]int{int(slotUFL), int(slotDFL), int(slotDBL), int(slotUBL)}, []int{1, 2, 1, 2},
		[]int{int(slotUL), int(slotFL), int(slotDL), int(slotBL)}, false,
	),
}

// quarterTurns returns how many times the face's generator must be
// applied to realise the move (1 for CW, 2 for Double, 3 for CCW).
func quarterTurns(t Turn) int {
	switch t {
	case CW:
		return 1
	case Double:
		return 2
	case CCW:
		return 3
	default:
		panic("cube: invalid turn")
	}
}
