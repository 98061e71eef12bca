package physics

import (
	"fmt"
	"math"
	"strings"
)

// MotionState is the actor's movement mode.
type MotionState uint8

const (
	StateStopped MotionState = iota // on the ground, not moving
	StateWalking                    // on the ground, sliding under friction
	StateFalling                    // airborne, under gravity
	motionStateCount
)

func (s MotionState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateWalking:
		return "walking"
	case StateFalling:
		return "falling"
	default:
		return fmt.Sprintf("MotionState(%d)", uint8(s))
	}
}

// ParseMotionState is the inverse of MotionState.String. It is case-insensitive.
func ParseMotionState(s string) (MotionState, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for st := StateStopped; st < motionStateCount; st++ {
		if st.String() == want {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown motion state %q (want stopped, walking or falling)", s)
}

// Intent is an abstract input press.
type Intent uint8

const (
	IntentMoveLeft Intent = iota
	IntentMoveRight
	IntentJump
)

func (in Intent) String() string {
	switch in {
	case IntentMoveLeft:
		return "move_left"
	case IntentMoveRight:
		return "move_right"
	case IntentJump:
		return "jump"
	default:
		return fmt.Sprintf("Intent(%d)", uint8(in))
	}
}

// horizontalSign returns -1 for left, +1 for right and 0 otherwise.
func (in Intent) horizontalSign() float64 {
	switch in {
	case IntentMoveLeft:
		return -1
	case IntentMoveRight:
		return 1
	default:
		return 0
	}
}

// ApplyIntent returns the state and velocity that result from one input
// press. Jumps are ignored while Falling.
func ApplyIntent(s MotionState, v Vec2, in Intent, r MovementRules) (MotionState, Vec2) {
	switch in {
	case IntentMoveLeft, IntentMoveRight:
		dir := in.horizontalSign()
		switch s {
		case StateStopped:
			v.X += dir * startKick
			s = StateWalking
		case StateWalking, StateFalling:
			v.X += dir * moveKick
		}
	case IntentJump:
		if s == StateFalling {
			return s, v
		}
		v.Y = -r.JumpImpulse
		s = StateFalling
	}
	return s, r.capVelocity(v)
}

// Advance runs the input-free half of a tick: gravity, integration and
// friction. Collision is not considered here.
func Advance(s MotionState, b KinematicBody, r MovementRules) (MotionState, KinematicBody) {
	switch s {
	case StateStopped:
		b.Velocity = Vec2{}
	case StateWalking:
		b.Integrate()
		var stopped bool
		b.Velocity.X, stopped = ApplyFriction(b.Velocity.X, r.Friction)
		if stopped {
			s = StateStopped
		}
	case StateFalling:
		b.Velocity.Y += r.Gravity
		b.Velocity = r.capVelocity(b.Velocity)
		b.Integrate()
		b.Velocity.X, _ = ApplyFriction(b.Velocity.X, r.Friction)
	}
	return s, b
}

// ApplyFriction decelerates a horizontal speed. The deceleration grows with
// speed: friction is scaled by the rounded magnitude (at least 1). The
// second result reports that the speed snapped to zero this step.
// A step that would cross zero snaps instead of reversing direction.
func ApplyFriction(vx, friction float64) (float64, bool) {
	speed := math.Abs(vx)
	if speed <= friction {
		return 0, true
	}
	scale := math.Round(speed)
	if scale == 0 {
		scale = 1
	}
	decel := friction * scale
	if decel >= speed {
		return 0, true
	}
	if vx > 0 {
		return vx - decel, false
	}
	return vx + decel, false
}
