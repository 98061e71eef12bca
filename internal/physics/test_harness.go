package physics

import "fmt"

// TestSim is a headless simulation harness used by tests and the headless
// report. It mirrors the game loop (presses first, then one tick) with
// scripted input and structured logging.
type TestSim struct {
	Grid   *TileGrid
	Ctrl   *Controller
	SimLog *SimLog
	Trace  []Snapshot // every post-tick snapshot, when tracing is on

	cols, rows int
	cellSize   float64
	grid       *TileGrid // prebuilt grid, overrides cols/rows
	body       KinematicBody
	state      MotionState
	rules      MovementRules
	script     map[int][]Intent // presses applied before the given tick runs
	trace      bool
	verbose    bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // grid size, rules, verbose: applied first
	simOptTiles                      // tile kinds: applied once the grid exists
	simOptActor                      // body, state, script: applied last
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim) error
}

// WithGridCells sets the grid size in cells.
func WithGridCells(cols, rows int, cellSize float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) error {
		ts.cols, ts.rows, ts.cellSize = cols, rows, cellSize
		return nil
	}}
}

// WithGrid runs the simulation on a prebuilt grid.
func WithGrid(g *TileGrid) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) error {
		ts.grid = g
		return nil
	}}
}

// WithRules replaces the default movement rules.
func WithRules(r MovementRules) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) error {
		ts.rules = r
		return nil
	}}
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) error {
		ts.verbose = v
		return nil
	}}
}

// WithTrace keeps every post-tick snapshot in Trace.
func WithTrace(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) error {
		ts.trace = v
		return nil
	}}
}

// WithGroundRow makes a whole row solid.
func WithGroundRow(row int) SimOption {
	return SimOption{simOptTiles, func(ts *TestSim) error {
		return ts.Grid.FillRow(row, TileGround)
	}}
}

// WithGroundTile makes one cell solid.
func WithGroundTile(row, col int) SimOption {
	return SimOption{simOptTiles, func(ts *TestSim) error {
		return ts.Grid.SetTile(row, col, TileGround)
	}}
}

// WithGroundColumn makes rows [fromRow, toRow] of a column solid.
func WithGroundColumn(col, fromRow, toRow int) SimOption {
	return SimOption{simOptTiles, func(ts *TestSim) error {
		for row := fromRow; row <= toRow; row++ {
			if err := ts.Grid.SetTile(row, col, TileGround); err != nil {
				return err
			}
		}
		return nil
	}}
}

// WithBody places the actor's top-left corner at (x, y).
func WithBody(x, y, extent float64) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) error {
		ts.body.Position = Vec2{X: x, Y: y}
		ts.body.Extent = extent
		return nil
	}}
}

// WithVelocity sets the actor's initial velocity.
func WithVelocity(vx, vy float64) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) error {
		ts.body.Velocity = Vec2{X: vx, Y: vy}
		return nil
	}}
}

// WithState sets the actor's initial motion state.
func WithState(s MotionState) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) error {
		ts.state = s
		return nil
	}}
}

// WithInput schedules presses to be applied just before the given tick
// (1-based) runs.
func WithInput(tick int, intents ...Intent) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) error {
		if tick < 1 {
			return fmt.Errorf("scripted input at tick %d: ticks start at 1", tick)
		}
		ts.script[tick] = append(ts.script[tick], intents...)
		return nil
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (grid size, rules, verbose)
//  2. Build the grid
//  3. Tiles
//  4. Actor and input script, then the controller
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		cols:     10,
		rows:     10,
		cellSize: 25,
		body:     KinematicBody{Extent: 25},
		state:    StateFalling,
		rules:    DefaultRules(),
		script:   map[int][]Intent{},
	}
	apply := func(kind simOptionKind) error {
		for _, o := range opts {
			if o.kind != kind {
				continue
			}
			if err := o.fn(ts); err != nil {
				return err
			}
		}
		return nil
	}

	if err := apply(simOptInfra); err != nil {
		return nil, err
	}
	ts.Grid = ts.grid
	if ts.Grid == nil {
		g, err := NewTileGridCells(ts.cols, ts.rows, ts.cellSize)
		if err != nil {
			return nil, err
		}
		ts.Grid = g
	}
	if err := apply(simOptTiles); err != nil {
		return nil, err
	}
	if err := apply(simOptActor); err != nil {
		return nil, err
	}

	ctrl, err := NewController(ts.Grid, ts.rules, ts.body, ts.state)
	if err != nil {
		return nil, err
	}
	ts.Ctrl = ctrl
	ts.SimLog = NewSimLog("P1", ts.verbose)
	ts.SimLog.Attach(ctrl)
	return ts, nil
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Ctrl.TickCount()
		}
	}
	return -1
}

// runOneTick mirrors the game loop for the headless harness.
func (ts *TestSim) runOneTick() {
	next := ts.Ctrl.TickCount() + 1
	for _, in := range ts.script[next] {
		ts.Ctrl.ApplyInput(in)
	}
	snap := ts.Ctrl.Tick()
	ts.SimLog.RecordSnapshot(snap)
	if ts.trace {
		ts.Trace = append(ts.Trace, snap)
	}
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Ctrl.TickCount()
}

// Snapshot returns the actor's current state.
func (ts *TestSim) Snapshot() Snapshot {
	return ts.Ctrl.Snapshot()
}

// InBounds reports whether snap's body lies fully inside the grid's map.
func InBounds(g *TileGrid, snap Snapshot) bool {
	b := snap.Body
	return b.Position.X >= 0 && b.Right() <= g.WidthUnits() &&
		b.Position.Y >= 0 && b.Bottom() <= g.HeightUnits()
}
