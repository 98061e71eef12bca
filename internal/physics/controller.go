package physics

import "fmt"

// Snapshot is the actor's state after a tick.
type Snapshot struct {
	Tick  int
	Body  KinematicBody
	State MotionState
}

// Controller drives one actor over a tile grid. It is not safe for
// concurrent use; callers serialise ApplyInput and Tick.
type Controller struct {
	grid  *TileGrid
	rules MovementRules
	body  KinematicBody
	state MotionState
	tick  int

	subscribers []func(Event)
	pending     []Event
}

// NewController validates its inputs and returns a controller ready to tick.
func NewController(grid *TileGrid, rules MovementRules, body KinematicBody, state MotionState) (*Controller, error) {
	if grid == nil {
		return nil, fmt.Errorf("new controller: %w", ErrInvalidDimensions)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	if err := ValidateBody(body, grid); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	if state >= motionStateCount {
		return nil, fmt.Errorf("new controller: unknown motion state %d", uint8(state))
	}
	return &Controller{
		grid:  grid,
		rules: rules,
		body:  body,
		state: state,
	}, nil
}

// Subscribe registers fn to receive every event, in order, after the
// operation that raised it has finished.
func (c *Controller) Subscribe(fn func(Event)) {
	c.subscribers = append(c.subscribers, fn)
}

// ApplyInput applies one press event. Call once per press, not per tick.
func (c *Controller) ApplyInput(in Intent) {
	from := c.state
	c.state, c.body.Velocity = ApplyIntent(c.state, c.body.Velocity, in, c.rules)

	if in == IntentJump && from != StateFalling {
		c.raise(Event{Kind: EventJump, From: from, To: c.state, Value: c.rules.JumpImpulse})
	}
	if c.state != from {
		c.raise(Event{Kind: EventStateChange, From: from, To: c.state})
	}
	c.flush()
}

// Tick advances the simulation by one fixed step: motion, integration, then
// collision resolution.
func (c *Controller) Tick() Snapshot {
	c.tick++
	from := c.state

	state, body := Advance(c.state, c.body, c.rules)
	res := Resolve(c.grid, &body, state)
	c.body, c.state = body, res.State

	for _, ct := range res.Contacts {
		kind := EventBounce
		if ct.Surface == SurfaceFloor && res.Landed(from) {
			kind = EventLand
		}
		c.raise(Event{Kind: kind, From: from, To: c.state, Surface: ct.Surface, Value: ct.Speed})
	}
	if c.state != from {
		c.raise(Event{Kind: EventStateChange, From: from, To: c.state})
	}
	c.flush()
	return c.Snapshot()
}

// Body returns a copy of the actor's body.
func (c *Controller) Body() KinematicBody { return c.body }

// State returns the current motion state.
func (c *Controller) State() MotionState { return c.state }

// TickCount returns the number of ticks run so far.
func (c *Controller) TickCount() int { return c.tick }

// Grid returns the grid the controller resolves against.
func (c *Controller) Grid() *TileGrid { return c.grid }

// Rules returns the movement rules.
func (c *Controller) Rules() MovementRules { return c.rules }

// Snapshot returns the current state without advancing.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{Tick: c.tick, Body: c.body, State: c.state}
}

func (c *Controller) raise(e Event) {
	e.Tick = c.tick
	c.pending = append(c.pending, e)
}

func (c *Controller) flush() {
	for _, e := range c.pending {
		for _, fn := range c.subscribers {
			fn(e)
		}
	}
	c.pending = c.pending[:0]
}
