package cube

// Color is a facelet colour. Ordinals follow the canonical colour
// scheme used throughout this repository's wire formats and tests.
type Color int

const (
	White Color = iota
	Green
	Red
	Blue
	Orange
	Yellow
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Green:
		return "G"
	case Red:
		return "R"
	case Blue:
		return "B"
	case Orange:
		return "O"
	case Yellow:
		return "Y"
	default:
		return "?"
	}
}

// solvedColor is the facelet colour of a face's centre in a solved cube.
func solvedColor(f Face) Color {
	switch f {
	case FaceU:
		return White
	case FaceF:
		return Green
	case FaceR:
		return Red
	case FaceB:
		return Blue
	case FaceL:
		return Orange
	case FaceD:
		return Yellow
	default:
		panic("cube: invalid face")
	}
}
