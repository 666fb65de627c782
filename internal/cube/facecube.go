package cube

import "fmt"

// FaceCube is the face-colour representation: 6 faces of 9 facelets
// each in row-major order (0=top-left .. 8=bottom-right, 4=centre).
// It is always derived from, or converted into, a piece-format cube;
// moves are never applied directly to a FaceCube.
type FaceCube struct {
	Facelets [6][9]Color
}

// corner/edge facelet layouts: for each slot, the (face, index) pairs
// that carry its stickers, in the fixed order matching cornerColors /
// edgeColors below.
type facelet struct {
	face  Face
	index int
}

var cornerFacelets = [8][3]facelet{
	slotUFR: {{FaceU, 8}, {FaceF, 2}, {FaceR, 0}},
	slotUFL: {{FaceU, 6}, {FaceF, 0}, {FaceL, 2}},
	slotUBL: {{FaceU, 0}, {FaceL, 0}, {FaceB, 2}},
	slotUBR: {{FaceU, 2}, {FaceB, 0}, {FaceR, 2}},
	slotDFR: {{FaceD, 2}, {FaceF, 8}, {FaceR, 6}},
	slotDFL: {{FaceD, 0}, {FaceF, 6}, {FaceL, 8}},
	slotDBL: {{FaceD, 6}, {FaceL, 6}, {FaceB, 8}},
	slotDBR: {{FaceD, 8}, {FaceB, 6}, {FaceR, 8}},
}

var cornerColors = [8][3]Color{
	slotUFR: {White, Green, Red},
	slotUFL: {White, Green, Orange},
	slotUBL: {White, Orange, Blue},
	slotUBR: {White, Blue, Red},
	slotDFR: {Yellow, Green, Red},
	slotDFL: {Yellow, Green, Orange},
	slotDBL: {Yellow, Orange, Blue},
	slotDBR: {Yellow, Blue, Red},
}

var edgeFacelets = [12][2]facelet{
	slotUF: {{FaceU, 7}, {FaceF, 1}},
	slotUR: {{FaceU, 5}, {FaceR, 1}},
	slotUB: {{FaceU, 1}, {FaceB, 1}},
	slotUL: {{FaceU, 3}, {FaceL, 1}},
	slotDF: {{FaceD, 1}, {FaceF, 7}},
	slotDR: {{FaceD, 5}, {FaceR, 7}},
	slotDB: {{FaceD, 7}, {FaceB, 7}},
	slotDL: {{FaceD, 3}, {FaceL, 7}},
	slotFR: {{FaceF, 5}, {FaceR, 3}},
	slotFL: {{FaceF, 3}, {FaceL, 5}},
	slotBR: {{FaceB, 3}, {FaceR, 5}},
	slotBL: {{FaceB, 5}, {FaceL, 3}},
}

var edgeColors = [12][2]Color{
	slotUF: {White, Green},
	slotUR: {White, Red},
	slotUB: {White, Blue},
	slotUL: {White, Orange},
	slotDF: {Yellow, Green},
	slotDR: {Yellow, Red},
	slotDB: {Yellow, Blue},
	slotDL: {Yellow, Orange},
	slotFR: {Green, Red},
	slotFL: {Green, Orange},
	slotBR: {Blue, Red},
	slotBL: {Blue, Orange},
}

// Faces renders a piece-format cube into its face-colour representation.
func Faces(c *Cube3x3x3) *FaceCube {
	fc := &FaceCube{}
	for _, f := range []Face{FaceU, FaceF, FaceR, FaceB, FaceL, FaceD} {
		fc.Facelets[f][4] = solvedColor(f)
	}
	for slot := 0; slot < 8; slot++ {
		cp := c.Corners[slot]
		colors := cornerColors[cp.Piece]
		for k := 0; k < 3; k++ {
			fl := cornerFacelets[slot][k]
			fc.Facelets[fl.face][fl.index] = colors[(k-cp.Orientation+3)%3]
		}
	}
	for slot := 0; slot < 12; slot++ {
		ep := c.Edges[slot]
		colors := edgeColors[ep.Piece]
		for k := 0; k < 2; k++ {
			fl := edgeFacelets[slot][k]
			fc.Facelets[fl.face][fl.index] = colors[(k+ep.Orientation)%2]
		}
	}
	return fc
}

// AsPieces converts a face-colour cube back into piece format. It fails
// with ErrInvalidState if any slot's facelet colours do not match one
// of the eight canonical corners (respectively twelve edges) under any
// rotation/flip.
func (fc *FaceCube) AsPieces() (*Cube3x3x3, error) {
	c := &Cube3x3x3{}
	for slot := 0; slot < 8; slot++ {
		var obs [3]Color
		for k := 0; k < 3; k++ {
			fl := cornerFacelets[slot][k]
			obs[k] = fc.Facelets[fl.face][fl.index]
		}
		piece, orientation, ok := matchCorner(obs)
		if !ok {
			return nil, ErrInvalidState
		}
		c.Corners[slot] = CornerPiece{Piece: piece, Orientation: orientation}
	}
	for slot := 0; slot < 12; slot++ {
		var obs [2]Color
		for k := 0; k < 2; k++ {
			fl := edgeFacelets[slot][k]
			obs[k] = fc.Facelets[fl.face][fl.index]
		}
		piece, orientation, ok := matchEdge(obs)
		if !ok {
			return nil, ErrInvalidState
		}
		c.Edges[slot] = EdgePiece{Piece: piece, Orientation: orientation}
	}
	return c, nil
}

func matchCorner(obs [3]Color) (piece, orientation int, ok bool) {
	for p, colors := range cornerColors {
		for o := 0; o < 3; o++ {
			if obs[0] == colors[(0-o+3)%3] && obs[1] == colors[(1-o+3)%3] && obs[2] == colors[(2-o+3)%3] {
				return p, o, true
			}
		}
	}
	return 0, 0, false
}

func matchEdge(obs [2]Color) (piece, orientation int, ok bool) {
	for p, colors := range edgeColors {
		for o := 0; o < 2; o++ {
			if obs[0] == colors[(0+o)%2] && obs[1] == colors[(1+o)%2] {
				return p, o, true
			}
		}
	}
	return 0, 0, false
}

// FromColors builds a FaceCube from a flat 54-colour array in
// U,F,R,B,L,D face order (9 facelets per face, row-major), the layout
// used by Bluetooth cube-state wire decoders.
func FromColors(colors [54]Color) *FaceCube {
	fc := &FaceCube{}
	faces := []Face{FaceU, FaceF, FaceR, FaceB, FaceL, FaceD}
	for i, f := range faces {
		copy(fc.Facelets[f][:], colors[i*9:i*9+9])
	}
	return fc
}

// String renders the cube as an ASCII net, matching the teacher
// library's debug layout.
func (fc *FaceCube) String() string {
	row := func(f Face, start int) string {
		return fmt.Sprintf("%s%s%s", fc.Facelets[f][start], fc.Facelets[f][start+1], fc.Facelets[f][start+2])
	}
	s := ""
	for r := 0; r < 3; r++ {
		s += "      " + row(FaceU, r*3) + "\n"
	}
	for r := 0; r < 3; r++ {
		s += row(FaceL, r*3) + " " + row(FaceF, r*3) + " " + row(FaceR, r*3) + " " + row(FaceB, r*3) + "\n"
	}
	for r := 0; r < 3; r++ {
		s += "      " + row(FaceD, r*3) + "\n"
	}
	return s
}
