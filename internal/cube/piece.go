package cube

// CornerPiece is a corner in piece (cubie) format: which of the 8
// corner identities occupies a slot, and its orientation in {0,1,2}.
type CornerPiece struct {
	Piece       int
	Orientation int
}

// EdgePiece is an edge in piece format: identity 0-11, orientation in {0,1}.
type EdgePiece struct {
	Piece       int
	Orientation int
}

// Cube3x3x3 is the piece-format state of a 3x3x3 cube: eight corners and
// twelve edges, each an (identity, orientation) pair. Slot i always
// holds whichever piece currently occupies position i; Corners[i].Piece
// is that piece's identity in the solved-state enumeration.
type Cube3x3x3 struct {
	Corners [8]CornerPiece
	Edges   [12]EdgePiece
}

// NewCube3x3x3 returns a solved cube.
func NewCube3x3x3() *Cube3x3x3 {
	c := &Cube3x3x3{}
	c.Reset()
	return c
}

// Reset returns the cube to the solved state.
func (c *Cube3x3x3) Reset() {
	for i := range c.Corners {
		c.Corners[i] = CornerPiece{Piece: i, Orientation: 0}
	}
	for i := range c.Edges {
		c.Edges[i] = EdgePiece{Piece: i, Orientation: 0}
	}
}

// Clone returns an independent copy.
func (c *Cube3x3x3) Clone() *Cube3x3x3 {
	cp := *c
	return &cp
}

// IsSolved reports whether every piece sits in its identity slot with
// zero orientation.
func (c *Cube3x3x3) IsSolved() bool {
	for i, cp := range c.Corners {
		if cp.Piece != i || cp.Orientation != 0 {
			return false
		}
	}
	for i, ep := range c.Edges {
		if ep.Piece != i || ep.Orientation != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two cubes hold the same state.
func (c *Cube3x3x3) Equal(o *Cube3x3x3) bool {
	return c.Corners == o.Corners && c.Edges == o.Edges
}

// Apply performs a single move, mutating the receiver.
func (c *Cube3x3x3) Apply(m Move) {
	gen := generators[m.Face()]
	for i := 0; i < quarterTurns(m.Turn()); i++ {
		c.applyGenerator(&gen)
	}
}

// ApplyAll applies a sequence of moves in order.
func (c *Cube3x3x3) ApplyAll(moves []Move) {
	for _, m := range moves {
		c.Apply(m)
	}
}

func (c *Cube3x3x3) applyGenerator(g *generator) {
	var newCorners [8]CornerPiece
	for i := 0; i < 8; i++ {
		src := c.Corners[g.cornerSrc[i]]
		newCorners[i] = CornerPiece{
			Piece:       src.Piece,
			Orientation: (src.Orientation + g.cornerDelta[i]) % 3,
		}
	}
	var newEdges [12]EdgePiece
	for i := 0; i < 12; i++ {
		src := c.Edges[g.edgeSrc[i]]
		newEdges[i] = EdgePiece{
			Piece:       src.Piece,
			Orientation: (src.Orientation + g.edgeDelta[i]) % 2,
		}
	}
	c.Corners = newCorners
	c.Edges = newEdges
}

// Cube2x2x2 is the piece-format state of a 2x2x2 cube: only the eight
// corners exist; the remaining invariants mirror the 3x3x3 corner
// subspace (one corner's position and orientation are conventionally
// fixed to remove the whole-cube rotation symmetry, handled by callers
// that index into tables rather than here).
type Cube2x2x2 struct {
	Corners [8]CornerPiece
}

// NewCube2x2x2 returns a solved cube.
func NewCube2x2x2() *Cube2x2x2 {
	c := &Cube2x2x2{}
	c.Reset()
	return c
}

func (c *Cube2x2x2) Reset() {
	for i := range c.Corners {
		c.Corners[i] = CornerPiece{Piece: i, Orientation: 0}
	}
}

func (c *Cube2x2x2) Clone() *Cube2x2x2 {
	cp := *c
	return &cp
}

func (c *Cube2x2x2) IsSolved() bool {
	for i, cp := range c.Corners {
		if cp.Piece != i || cp.Orientation != 0 {
			return false
		}
	}
	return true
}

func (c *Cube2x2x2) Equal(o *Cube2x2x2) bool {
	return c.Corners == o.Corners
}

func (c *Cube2x2x2) Apply(m Move) {
	gen := generators[m.Face()]
	for i := 0; i < quarterTurns(m.Turn()); i++ {
		var newCorners [8]CornerPiece
		for j := 0; j < 8; j++ {
			src := c.Corners[gen.cornerSrc[j]]
			newCorners[j] = CornerPiece{
				Piece:       src.Piece,
				Orientation: (src.Orientation + gen.cornerDelta[j]) % 3,
			}
		}
		c.Corners = newCorners
	}
}

func (c *Cube2x2x2) ApplyAll(moves []Move) {
	for _, m := range moves {
		c.Apply(m)
	}
}
