package physics

import (
	"math"
	"math/rand"
	"testing"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

func mustSim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	ts, err := NewTestSim(opts...)
	if err != nil {
		t.Fatalf("NewTestSim: %v", err)
	}
	return ts
}

// --- Scenario: Drop Onto Floor ---

func TestScenario_DropOntoFloor(t *testing.T) {
	t.Log("=== TestScenario_DropOntoFloor ===")
	t.Log("--- Setup: 10x10 grid, row 5 ground, body at (100,0) falling ---")

	ts := mustSim(t,
		WithGridCells(10, 10, 25),
		WithGroundRow(5),
		WithBody(100, 0, 25),
		WithState(StateFalling),
	)

	landed := ts.RunUntil(func(ts *TestSim) bool { return ts.Ctrl.State() != StateFalling }, 100)
	dumpLog(t, ts)
	t.Log(ts.SimLog.Summary(ts.Snapshot()))

	if landed != 20 {
		t.Fatalf("expected to land on tick 20, landed on %d", landed)
	}
	snap := ts.Snapshot()
	if snap.State != StateWalking {
		t.Fatalf("state after landing = %s, want walking", snap.State)
	}
	if want := 5*25 - 25.0; snap.Body.Position.Y != want {
		t.Fatalf("resting y = %v, want %v", snap.Body.Position.Y, want)
	}
	if snap.Body.Velocity.Y != 0 {
		t.Fatalf("vertical speed after landing = %v, want 0", snap.Body.Velocity.Y)
	}
	if got := ts.SimLog.CountCategory("collision", "land"); got != 1 {
		t.Fatalf("expected exactly one landing, got %d", got)
	}
	if !ts.SimLog.HasEntry("state", "change", "falling → walking") {
		t.Fatal("missing falling → walking state change")
	}

	// With no horizontal speed, friction settles the body next tick.
	ts.RunTicks(1)
	if ts.Ctrl.State() != StateStopped {
		t.Fatalf("state one tick after landing = %s, want stopped", ts.Ctrl.State())
	}
	ts.RunTicks(50)
	if y := ts.Ctrl.Body().Position.Y; y != 100 {
		t.Fatalf("resting body drifted to y=%v", y)
	}
}

// --- Scenario: Walk And Stop ---

func TestScenario_WalkAndStop(t *testing.T) {
	t.Log("=== TestScenario_WalkAndStop ===")

	ts := mustSim(t,
		WithGroundRow(5),
		WithBody(50, 100, 25),
		WithState(StateStopped),
		WithInput(1, IntentMoveRight),
		WithTrace(true),
	)

	stopped := ts.RunUntil(func(ts *TestSim) bool { return ts.Ctrl.State() == StateStopped }, 100)
	dumpLog(t, ts)

	if stopped != 15 {
		t.Fatalf("expected to stop on tick 15, stopped on %d", stopped)
	}
	x := ts.Ctrl.Body().Position.X
	if math.Abs(x-60.6) > 1e-6 {
		t.Fatalf("slide distance: x=%v, want 60.6", x)
	}
	for i := 1; i < len(ts.Trace); i++ {
		prev, cur := ts.Trace[i-1].Body.Velocity.X, ts.Trace[i].Body.Velocity.X
		if cur > prev {
			t.Fatalf("tick %d: speed rose from %v to %v without input", ts.Trace[i].Tick, prev, cur)
		}
		if ts.Trace[i].Body.Position.Y != 100 {
			t.Fatalf("tick %d: walking body left the floor (y=%v)", ts.Trace[i].Tick, ts.Trace[i].Body.Position.Y)
		}
	}
}

// --- Scenario: Jump And Land ---

func TestScenario_JumpAndLand(t *testing.T) {
	t.Log("=== TestScenario_JumpAndLand ===")

	ts := mustSim(t,
		WithGroundRow(5),
		WithBody(50, 100, 25),
		WithState(StateStopped),
		WithInput(1, IntentJump),
		WithInput(3, IntentJump), // mid-air, must be ignored
	)

	peak := 100.0
	landed := ts.RunUntil(func(ts *TestSim) bool {
		peak = math.Min(peak, ts.Ctrl.Body().Position.Y)
		return ts.Ctrl.State() == StateWalking
	}, 100)
	dumpLog(t, ts)

	if landed != 32 {
		t.Fatalf("expected to land on tick 32, landed on %d", landed)
	}
	if peak != 40 {
		t.Fatalf("jump apex y=%v, want 40", peak)
	}
	if got := ts.SimLog.CountCategory("motion", "jump"); got != 1 {
		t.Fatalf("expected one accepted jump, got %d", got)
	}
	land, ok := ts.SimLog.LastOf("collision", "land")
	if !ok {
		t.Fatal("no landing recorded")
	}
	if land.NumVal != 8 {
		t.Fatalf("impact speed %v, want 8", land.NumVal)
	}
	if y := ts.Ctrl.Body().Position.Y; y != 100 {
		t.Fatalf("landed at y=%v, want 100", y)
	}
}

// --- Scenario: Wall Bounce ---

func TestScenario_WallBounceOnce(t *testing.T) {
	t.Log("=== TestScenario_WallBounceOnce ===")

	ts := mustSim(t,
		WithGroundRow(5),
		WithGroundColumn(6, 0, 9),
		WithBody(100, 100, 25),
		WithState(StateStopped),
		WithInput(1, IntentMoveRight),
		WithInput(2, IntentMoveRight),
		WithInput(3, IntentMoveRight),
		WithTrace(true),
	)

	ts.RunTicks(40)
	dumpLog(t, ts)

	bounces := ts.SimLog.Filter("collision", "bounce")
	if len(bounces) != 1 {
		t.Fatalf("expected exactly one bounce, got %d", len(bounces))
	}
	b := bounces[0]
	if b.Tick != 14 {
		t.Fatalf("bounce on tick %d, want 14", b.Tick)
	}
	var at Snapshot
	for _, s := range ts.Trace {
		if s.Tick == b.Tick {
			at = s
		}
	}
	if at.Body.Position.X != 125 {
		t.Fatalf("body not flush with wall: x=%v", at.Body.Position.X)
	}
	if want := -b.NumVal / 4; math.Abs(at.Body.Velocity.X-want) > 1e-9 {
		t.Fatalf("rebound speed %v, want %v", at.Body.Velocity.X, want)
	}
	if ts.Ctrl.State() != StateStopped {
		t.Fatalf("body should settle after the bounce, state=%s", ts.Ctrl.State())
	}
	if x := ts.Ctrl.Body().Right(); x > 150 {
		t.Fatalf("body ended inside the wall: right=%v", x)
	}
}

// --- Scenario: Bottomless Map ---

func TestScenario_EmptyMapBouncesOffBottom(t *testing.T) {
	t.Log("=== TestScenario_EmptyMapBouncesOffBottom ===")

	ts := mustSim(t, WithBody(100, 0, 25))
	ts.RunTicks(60)
	dumpLog(t, ts)

	if !ts.SimLog.HasEntry("collision", "bounce", "bound_bottom") {
		t.Fatal("with no ground the map boundary should act as a bounce surface")
	}
	if ts.Ctrl.State() != StateFalling {
		t.Fatalf("no tile ever supports the body, state=%s", ts.Ctrl.State())
	}
	if !InBounds(ts.Grid, ts.Snapshot()) {
		t.Fatal("body escaped the map")
	}
}

// --- Property: Containment ---

func TestProperty_BodyStaysInBounds(t *testing.T) {
	intents := []Intent{IntentMoveLeft, IntentMoveRight, IntentJump}
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, err := NewTileGridCells(12, 9, 25)
		if err != nil {
			t.Fatal(err)
		}
		for row := 0; row < g.Rows(); row++ {
			for col := 0; col < g.Cols(); col++ {
				if rng.Float64() < 0.2 {
					_ = g.SetTile(row, col, TileGround)
				}
			}
		}
		extent := 5 + rng.Float64()*20
		ts := mustSim(t,
			WithGrid(g),
			WithBody(rng.Float64()*(g.WidthUnits()-extent), rng.Float64()*(g.HeightUnits()-extent), extent),
			WithVelocity(rng.Float64()*40-20, rng.Float64()*40-20),
		)
		for tick := 0; tick < 2000; tick++ {
			if rng.Intn(4) == 0 {
				ts.Ctrl.ApplyInput(intents[rng.Intn(len(intents))])
			}
			ts.RunTicks(1)
			snap := ts.Snapshot()
			if !InBounds(g, snap) {
				dumpLog(t, ts)
				t.Fatalf("seed %d tick %d: body out of bounds at (%v,%v)", seed, snap.Tick, snap.Body.Position.X, snap.Body.Position.Y)
			}
			v := snap.Body.Velocity
			if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
				t.Fatalf("seed %d tick %d: velocity not finite: %+v", seed, snap.Tick, v)
			}
		}
	}
}

// --- Property: Stopped Means Still ---

func TestProperty_StoppedHasZeroVelocity(t *testing.T) {
	ts := mustSim(t,
		WithGroundRow(9),
		WithBody(100, 0, 20),
		WithVelocity(6, 0),
		WithTrace(true),
	)
	ts.RunTicks(300)

	sawStopped := false
	for _, s := range ts.Trace {
		if s.State != StateStopped {
			continue
		}
		sawStopped = true
		if s.Body.Velocity != (Vec2{}) {
			t.Fatalf("tick %d: stopped body has velocity %+v", s.Tick, s.Body.Velocity)
		}
	}
	if !sawStopped {
		t.Fatal("body never came to rest")
	}
}
