package audio

import (
	"testing"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// TestSoundManagerGracefulDegradation verifies playback is safe without a device
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager()
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("sound operations panicked without initialization: %v", r)
		}
	}()

	sm.HandleEvent(physics.Event{Kind: physics.EventJump, Value: 8})
	sm.HandleEvent(physics.Event{Kind: physics.EventLand, Value: 4})
	sm.SetMuted(true)
	sm.Cleanup()
}

// TestSoundManagerInitialization verifies init and cleanup when a device exists
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager()
	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	if err := sm.Initialize(); err != nil {
		t.Errorf("second initialization should be a no-op, got %v", err)
	}
	sm.HandleEvent(physics.Event{Kind: physics.EventJump, Tick: 1, Value: 8})
	sm.Cleanup()
}

// TestSoundManagerRateLimit verifies a cue repeating every tick plays once per gap
func TestSoundManagerRateLimit(t *testing.T) {
	sm := NewSoundManager()
	for tick := 1; tick <= 12; tick++ {
		sm.HandleEvent(physics.Event{Tick: tick, Kind: physics.EventBounce, Surface: physics.SurfaceWallLeft, Value: 2})
	}
	if got := sm.Played(CueBounce); got != 3 {
		t.Errorf("bounce played %d times in 12 ticks, want 3", got)
	}
	sm.HandleEvent(physics.Event{Tick: 12, Kind: physics.EventJump, Value: 8})
	if got := sm.Played(CueJump); got != 1 {
		t.Errorf("cues are limited independently, jump played %d times", got)
	}
	// A restarted level counts ticks from zero again.
	sm.HandleEvent(physics.Event{Tick: 1, Kind: physics.EventBounce, Value: 2})
	if got := sm.Played(CueBounce); got != 4 {
		t.Errorf("bounce after restart not played, count %d", got)
	}
}

// TestSoundManagerAttach verifies controller events reach the manager
func TestSoundManagerAttach(t *testing.T) {
	g, err := physics.NewTileGridCells(10, 10, 25)
	if err != nil {
		t.Fatal(err)
	}
	_ = g.FillRow(5, physics.TileGround)
	c, err := physics.NewController(g, physics.DefaultRules(), physics.KinematicBody{Position: physics.Vec2{X: 100, Y: 100}, Extent: 25}, physics.StateStopped)
	if err != nil {
		t.Fatal(err)
	}
	sm := NewSoundManager()
	sm.SetMuted(true)
	sm.Attach(c)

	c.ApplyInput(physics.IntentJump)
	for i := 0; i < 40; i++ {
		c.Tick()
	}
	if sm.Played(CueJump) != 1 || sm.Played(CueLand) != 1 {
		t.Errorf("jump=%d land=%d, want 1 each", sm.Played(CueJump), sm.Played(CueLand))
	}
	if !sm.Muted() {
		t.Error("manager should stay muted")
	}
}
