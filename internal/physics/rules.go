package physics

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidRules = errors.New("invalid movement rules")

const (
	// bounceRetained is the fraction of speed kept, sign inverted, after
	// hitting a solid surface or the map boundary.
	bounceRetained = 0.25

	// startKick is the horizontal push applied when leaving Stopped.
	startKick = 1.5
	// moveKick is the horizontal push applied while Walking or Falling.
	moveKick = 1.0
)

// MovementRules holds the tunable constants of the controller.
type MovementRules struct {
	Friction    float64 // horizontal deceleration coefficient, > 0
	Gravity     float64 // added to velocity.y every Falling tick; +y is down
	JumpImpulse float64 // upward speed set by a jump
	// MaxVelocity caps |velocity| per axis. A zero component is uncapped.
	MaxVelocity Vec2
}

// DefaultRules returns the tuning used by the built-in levels.
func DefaultRules() MovementRules {
	return MovementRules{
		Friction:    0.1,
		Gravity:     0.5,
		JumpImpulse: 8,
	}
}

// Validate rejects rules the controller cannot run with.
func (r MovementRules) Validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case !finite(r.Friction) || r.Friction <= 0:
		return fmt.Errorf("%w: friction must be positive, got %v", ErrInvalidRules, r.Friction)
	case !finite(r.Gravity) || r.Gravity < 0:
		return fmt.Errorf("%w: gravity must be non-negative (+y is down), got %v", ErrInvalidRules, r.Gravity)
	case !finite(r.JumpImpulse) || r.JumpImpulse < 0:
		return fmt.Errorf("%w: jump impulse must be non-negative, got %v", ErrInvalidRules, r.JumpImpulse)
	case !finite(r.MaxVelocity.X) || r.MaxVelocity.X < 0, !finite(r.MaxVelocity.Y) || r.MaxVelocity.Y < 0:
		return fmt.Errorf("%w: max velocity components must be non-negative, got %+v", ErrInvalidRules, r.MaxVelocity)
	}
	return nil
}

// capVelocity clamps v to the configured per-axis limits.
func (r MovementRules) capVelocity(v Vec2) Vec2 {
	if m := r.MaxVelocity.X; m > 0 {
		v.X = math.Max(-m, math.Min(m, v.X))
	}
	if m := r.MaxVelocity.Y; m > 0 {
		v.Y = math.Max(-m, math.Min(m, v.Y))
	}
	return v
}
