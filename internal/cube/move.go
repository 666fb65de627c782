// Package cube implements the move and cube-state model (C1): face and
// piece representations of 2x2x2 and 3x3x3 Rubik's cubes, move
// application, and lossless conversion between the two representations.
package cube

import (
	"strings"
)

// Face identifies one of the six cube faces.
type Face int

const (
	FaceU Face = iota // Up
	FaceF             // Front
	FaceR             // Right
	FaceB             // Back
	FaceL             // Left
	FaceD             // Down
)

func (f Face) String() string {
	switch f {
	case FaceU:
		return "U"
	case FaceF:
		return "F"
	case FaceR:
		return "R"
	case FaceB:
		return "B"
	case FaceL:
		return "L"
	case FaceD:
		return "D"
	default:
		return "?"
	}
}

// Turn is the direction and magnitude of a face turn.
type Turn int

const (
	CW     Turn = 1  // quarter turn clockwise
	CCW    Turn = -1 // quarter turn counter-clockwise
	Double Turn = 2  // half turn
)

// Move is one of the 18 face-turn primitives. Ordinal numbering is
// stable and load bearing: move and prune table indices are keyed by
// it, so it must not be renumbered.
type Move int

const (
	MoveU Move = iota
	MoveUPrime
	MoveU2
	MoveF
	MoveFPrime
	MoveF2
	MoveR
	MoveRPrime
	MoveR2
	MoveB
	MoveBPrime
	MoveB2
	MoveL
	MoveLPrime
	MoveL2
	MoveD
	MoveDPrime
	MoveD2
	NumMoves // sentinel, equal to the move count (18)
)

// AllMoves lists every move in ordinal order.
var AllMoves = [NumMoves]Move{
	MoveU, MoveUPrime, MoveU2,
	MoveF, MoveFPrime, MoveF2,
	MoveR, MoveRPrime, MoveR2,
	MoveB, MoveBPrime, MoveB2,
	MoveL, MoveLPrime, MoveL2,
	MoveD, MoveDPrime, MoveD2,
}

// Face returns the face this move turns.
func (m Move) Face() Face {
	return Face(int(m) / 3)
}

// Turn returns the direction and magnitude of this move.
func (m Move) Turn() Turn {
	switch int(m) % 3 {
	case 0:
		return CW
	case 1:
		return CCW
	default:
		return Double
	}
}

// Inverse returns the inverse of this move: CW<->CCW, Double is its own inverse.
func (m Move) Inverse() Move {
	switch m.Turn() {
	case CW:
		return m + 1
	case CCW:
		return m - 1
	default:
		return m
	}
}

// Notation returns standard cube notation, e.g. "R", "R'", "R2".
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn() {
	case CCW:
		suffix = "'"
	case Double:
		suffix = "2"
	}
	return m.Face().String() + suffix
}

func (m Move) String() string {
	return m.Notation()
}

var faceByLetter = map[byte]Face{
	'U': FaceU, 'u': FaceU,
	'F': FaceF, 'f': FaceF,
	'R': FaceR, 'r': FaceR,
	'B': FaceB, 'b': FaceB,
	'L': FaceL, 'l': FaceL,
	'D': FaceD, 'd': FaceD,
}

// ParseMove parses a single notation token, e.g. "R", "R'", "R2".
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, ErrInvalidNotation
	}
	face, ok := faceByLetter[s[0]]
	if !ok {
		return 0, ErrInvalidNotation
	}
	turn := CW
	if len(s) > 1 {
		switch s[1:] {
		case "'", "`":
			turn = CCW
		case "2", "2'", "2`":
			turn = Double
		default:
			return 0, ErrInvalidNotation
		}
	}
	var offset int
	switch turn {
	case CW:
		offset = 0
	case CCW:
		offset = 1
	case Double:
		offset = 2
	}
	return Move(int(face)*3 + offset), nil
}

// ParseMoves parses a space-separated sequence of moves. Invalid tokens
// are skipped, matching the teacher library's lenient parser.
func ParseMoves(s string) []Move {
	fields := strings.Fields(s)
	moves := make([]Move, 0, len(fields))
	for _, f := range fields {
		m, err := ParseMove(f)
		if err != nil {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

// FormatMoves renders a move sequence as space-separated notation.
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}
	return strings.Join(parts, " ")
}

// InverseSequence returns the inverse of a move sequence: reversed order,
// each move individually inverted.
func InverseSequence(moves []Move) []Move {
	inv := make([]Move, len(moves))
	for i, m := range moves {
		inv[len(moves)-1-i] = m.Inverse()
	}
	return inv
}

// TimedMove pairs a move with the number of milliseconds elapsed since
// the previous move was emitted (0 for every move of a batch after the
// first).
type TimedMove struct {
	Move    Move
	DeltaMs uint32
}
