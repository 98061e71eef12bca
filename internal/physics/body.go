package physics

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidBody = errors.New("invalid body")

// Vec2 is a 2D vector in world units. +Y points down.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v scaled by f.
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// KinematicBody is the simulated actor: a square of side Extent whose
// top-left corner sits at Position.
type KinematicBody struct {
	Position Vec2
	Velocity Vec2
	Extent   float64
}

// Right returns the world x of the body's right edge.
func (b KinematicBody) Right() float64 { return b.Position.X + b.Extent }

// Bottom returns the world y of the body's bottom edge.
func (b KinematicBody) Bottom() float64 { return b.Position.Y + b.Extent }

// Integrate moves the body by one tick of its velocity.
func (b *KinematicBody) Integrate() {
	b.Position = b.Position.Add(b.Velocity)
}

// ValidateBody checks that the body can be resolved against grid: the
// footprint must fit in a 2x2 block of cells and lie inside the map.
func ValidateBody(b KinematicBody, grid *TileGrid) error {
	if !(b.Extent > 0) {
		return fmt.Errorf("%w: extent must be positive, got %v", ErrInvalidBody, b.Extent)
	}
	if b.Extent > grid.CellSize() {
		return fmt.Errorf("%w: extent %v exceeds cell size %v", ErrInvalidBody, b.Extent, grid.CellSize())
	}
	if b.Extent > grid.WidthUnits() || b.Extent > grid.HeightUnits() {
		return fmt.Errorf("%w: extent %v does not fit a %vx%v map", ErrInvalidBody, b.Extent, grid.WidthUnits(), grid.HeightUnits())
	}
	for _, v := range []float64{b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: position and velocity must be finite, got %+v %+v", ErrInvalidBody, b.Position, b.Velocity)
		}
	}
	if b.Position.X < 0 || b.Right() > grid.WidthUnits() || b.Position.Y < 0 || b.Bottom() > grid.HeightUnits() {
		return fmt.Errorf("%w: footprint (%v,%v)-(%v,%v) leaves the %vx%v map",
			ErrInvalidBody, b.Position.X, b.Position.Y, b.Right(), b.Bottom(), grid.WidthUnits(), grid.HeightUnits())
	}
	return nil
}
