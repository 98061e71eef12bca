package physics

import "fmt"

// Surface names what a body collided with.
type Surface uint8

const (
	SurfaceFloor Surface = iota
	SurfaceCeiling
	SurfaceWallLeft
	SurfaceWallRight
	SurfaceBoundLeft
	SurfaceBoundRight
	SurfaceBoundTop
	SurfaceBoundBottom
)

func (s Surface) String() string {
	switch s {
	case SurfaceFloor:
		return "floor"
	case SurfaceCeiling:
		return "ceiling"
	case SurfaceWallLeft:
		return "wall_left"
	case SurfaceWallRight:
		return "wall_right"
	case SurfaceBoundLeft:
		return "bound_left"
	case SurfaceBoundRight:
		return "bound_right"
	case SurfaceBoundTop:
		return "bound_top"
	case SurfaceBoundBottom:
		return "bound_bottom"
	default:
		return fmt.Sprintf("Surface(%d)", uint8(s))
	}
}

// Contact is one collision response applied by Resolve.
type Contact struct {
	Surface Surface
	Speed   float64 // |velocity| along the contact axis before the response
}

// Corners are the four tiles around a body's footprint. Row2/Col2 are one
// past Row1/Col1, and every index is clamped into the grid.
type Corners struct {
	Row1, Col1, Row2, Col2 int
	B11, B12, B21, B22     Tile
}

// SampleCorners picks the tiles under the body's top-left cell and its
// right, lower and diagonal neighbours.
func SampleCorners(grid *TileGrid, b KinematicBody) Corners {
	row, col := grid.CellOf(b.Position.X, b.Position.Y)
	row1 := clampIndex(row, grid.Rows())
	col1 := clampIndex(col, grid.Cols())
	row2 := clampIndex(row1+1, grid.Rows())
	col2 := clampIndex(col1+1, grid.Cols())
	return Corners{
		Row1: row1, Col1: col1, Row2: row2, Col2: col2,
		B11: grid.Sample(row1, col1),
		B12: grid.Sample(row1, col2),
		B21: grid.Sample(row2, col1),
		B22: grid.Sample(row2, col2),
	}
}

// Resolution is the outcome of resolving one tick.
type Resolution struct {
	State    MotionState
	Corners  Corners
	Contacts []Contact
}

// Landed reports whether the resolution turned a fall into a landing.
func (r Resolution) Landed(prev MotionState) bool {
	return prev == StateFalling && r.State == StateWalking
}

// Resolve pushes b out of solid tiles and the map boundary, damping the
// velocity along each contact axis. Order: floor, ceiling, then the side
// walls (skipped after a ceiling hit), then the map bounds.
func Resolve(grid *TileGrid, b *KinematicBody, s MotionState) Resolution {
	c := SampleCorners(grid, *b)
	res := Resolution{State: s, Corners: c}

	// The column/row past the top-left cell only matter once the footprint
	// actually reaches into them.
	reachesCol2 := b.Right() > c.B12.Left()
	reachesRow2 := b.Bottom() > c.B21.Top()

	// Floor probe. A lower tile the body slid into sideways is a wall, not
	// a floor.
	supports := func(t Tile, sidePen, sideSpeed float64) bool {
		if t.Passable() {
			return false
		}
		if !reachesRow2 {
			return true
		}
		return enteredThrough(b.Bottom()-t.Top(), b.Velocity.Y, sidePen, sideSpeed)
	}
	supported := supports(c.B21, c.B21.Right()-b.Position.X, -b.Velocity.X) ||
		(reachesCol2 && supports(c.B22, b.Right()-c.B22.Left(), b.Velocity.X))
	if !supported {
		res.State = StateFalling
	} else if reachesRow2 {
		speed := b.Velocity.Y
		b.Position.Y = c.B21.Top() - b.Extent
		if b.Velocity.Y > 0 {
			b.Velocity.Y = 0
		}
		if res.State == StateFalling {
			res.State = StateWalking
			res.Contacts = append(res.Contacts, Contact{Surface: SurfaceFloor, Speed: abs(speed)})
		}
		reachesRow2 = false
	}

	if b.Velocity.Y < 0 && hitsCeiling(*b, c, reachesCol2) {
		res.Contacts = append(res.Contacts, Contact{Surface: SurfaceCeiling, Speed: -b.Velocity.Y})
		b.Position.Y = c.B11.Bottom()
		b.Velocity.Y = bounce(b.Velocity.Y)
	} else {
		switch {
		case b.Velocity.X > 0 && reachesCol2:
			if !c.B12.Passable() || (reachesRow2 && !c.B22.Passable()) {
				res.Contacts = append(res.Contacts, Contact{Surface: SurfaceWallRight, Speed: b.Velocity.X})
				b.Position.X = c.B12.Left() - b.Extent
				b.Velocity.X = bounce(b.Velocity.X)
			}
		case b.Velocity.X < 0:
			if !c.B11.Passable() || (reachesRow2 && !c.B21.Passable()) {
				res.Contacts = append(res.Contacts, Contact{Surface: SurfaceWallLeft, Speed: -b.Velocity.X})
				b.Position.X = c.B11.Right()
				b.Velocity.X = bounce(b.Velocity.X)
			}
		}
	}

	res.Contacts = clampToBounds(grid, b, res.Contacts)
	return res
}

// hitsCeiling reports whether an upward-moving body struck the underside of
// a top tile. A top tile the body entered sideways more recently than from
// below is a wall, left to the side checks.
func hitsCeiling(b KinematicBody, c Corners, reachesCol2 bool) bool {
	up := -b.Velocity.Y
	if !c.B11.Passable() && enteredThrough(c.B11.Bottom()-b.Position.Y, up, c.B11.Right()-b.Position.X, -b.Velocity.X) {
		return true
	}
	if reachesCol2 && c.Col2 != c.Col1 && !c.B12.Passable() &&
		enteredThrough(c.B12.Bottom()-b.Position.Y, up, b.Right()-c.B12.Left(), b.Velocity.X) {
		return true
	}
	return false
}

// enteredThrough reports whether a tile overlapped by pen along one axis and
// sidePen along the other was entered through the face on the first axis.
// Dividing each depth by the speed into that face gives how many ticks ago
// the face was crossed; the most recent crossing wins. With no sideways
// approach the first axis wins.
func enteredThrough(pen, speed, sidePen, sideSpeed float64) bool {
	if sideSpeed <= 0 {
		return true
	}
	if speed <= 0 {
		return false
	}
	return pen*sideSpeed <= sidePen*speed
}

// clampToBounds keeps the body inside the map. The two horizontal
// boundaries are mutually exclusive, as are the two vertical ones.
func clampToBounds(grid *TileGrid, b *KinematicBody, contacts []Contact) []Contact {
	w, h := grid.WidthUnits(), grid.HeightUnits()

	if b.Position.X < 0 {
		contacts = append(contacts, Contact{Surface: SurfaceBoundLeft, Speed: abs(b.Velocity.X)})
		b.Position.X = 0
		b.Velocity.X = bounce(b.Velocity.X)
	} else if b.Right() > w {
		contacts = append(contacts, Contact{Surface: SurfaceBoundRight, Speed: abs(b.Velocity.X)})
		b.Position.X = w - b.Extent
		b.Velocity.X = bounce(b.Velocity.X)
	}

	if b.Position.Y < 0 {
		contacts = append(contacts, Contact{Surface: SurfaceBoundTop, Speed: abs(b.Velocity.Y)})
		b.Position.Y = 0
		b.Velocity.Y = bounce(b.Velocity.Y)
	} else if b.Bottom() > h {
		contacts = append(contacts, Contact{Surface: SurfaceBoundBottom, Speed: abs(b.Velocity.Y)})
		b.Position.Y = h - b.Extent
		b.Velocity.Y = bounce(b.Velocity.Y)
	}
	return contacts
}

func bounce(v float64) float64 {
	return -v * bounceRetained
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
