package physics

import "fmt"

// EventKind classifies controller events.
type EventKind uint8

const (
	EventStateChange EventKind = iota // From → To
	EventJump                         // jump accepted; Value is the impulse
	EventLand                         // Falling → Walking on a floor; Value is impact speed
	EventBounce                       // damped rebound; Surface says off what, Value is impact speed
)

func (k EventKind) String() string {
	switch k {
	case EventStateChange:
		return "state_change"
	case EventJump:
		return "jump"
	case EventLand:
		return "land"
	case EventBounce:
		return "bounce"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is something that happened to the actor during ApplyInput or Tick.
type Event struct {
	Tick    int
	Kind    EventKind
	From    MotionState
	To      MotionState
	Surface Surface
	Value   float64
}

func (e Event) String() string {
	switch e.Kind {
	case EventStateChange:
		return fmt.Sprintf("T=%d %s %s → %s", e.Tick, e.Kind, e.From, e.To)
	case EventBounce:
		return fmt.Sprintf("T=%d %s %s %.2f", e.Tick, e.Kind, e.Surface, e.Value)
	default:
		return fmt.Sprintf("T=%d %s %.2f", e.Tick, e.Kind, e.Value)
	}
}
