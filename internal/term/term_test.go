package term

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Block-Hopper/internal/level"
	"github.com/Garsondee/Block-Hopper/internal/physics"
)

func TestIntentForKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want physics.Intent
		ok   bool
	}{
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), physics.IntentMoveLeft, true},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), physics.IntentMoveRight, true},
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), physics.IntentJump, true},
		{"a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), physics.IntentMoveLeft, true},
		{"D", tcell.NewEventKey(tcell.KeyRune, 'D', tcell.ModNone), physics.IntentMoveRight, true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), physics.IntentJump, true},
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), physics.IntentJump, true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), 0, false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntentForKey(tt.ev)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCommandForKey(t *testing.T) {
	assert.Equal(t, CmdQuit, CommandForKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.Equal(t, CmdQuit, CommandForKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.Equal(t, CmdRestart, CommandForKey(tcell.NewEventKey(tcell.KeyRune, 'R', tcell.ModNone)))
	assert.Equal(t, CmdToggleMute, CommandForKey(tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone)))
	assert.Equal(t, CmdNone, CommandForKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
}

func rowText(s tcell.Screen, y, width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestDraw_GridActorAndStatus(t *testing.T) {
	scr := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, scr.Init())
	defer scr.Fini()
	scr.SetSize(80, 11)

	l, err := level.Builtin("first-steps")
	require.NoError(t, err)
	g, err := l.Grid()
	require.NoError(t, err)
	snap := physics.Snapshot{
		Tick:  20,
		State: physics.StateWalking,
		Body:  physics.KinematicBody{Position: physics.Vec2{X: 100, Y: 100}, Extent: 25},
	}

	Draw(scr, g, Frame{Level: "first-steps", Snap: snap, Event: "T=20 land 10.00", Muted: true})

	assert.Equal(t, "    @     ", rowText(scr, 4, 10))
	assert.Equal(t, strings.Repeat(string(groundGlyph), 10), rowText(scr, 5, 10))
	status := rowText(scr, 10, 80)
	assert.True(t, strings.HasPrefix(status, " first-steps  T=20  walking"), status)
	assert.Contains(t, status, "land 10.00")
	assert.Contains(t, status, "[muted]")
}

func TestDraw_ClipsToSmallScreen(t *testing.T) {
	scr := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, scr.Init())
	defer scr.Fini()
	scr.SetSize(4, 3)

	g, err := physics.NewTileGridCells(10, 10, 25)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		Draw(scr, g, Frame{Snap: physics.Snapshot{Body: physics.KinematicBody{Position: physics.Vec2{X: 200, Y: 200}, Extent: 25}}})
	})
}

func TestActorCell_Clamped(t *testing.T) {
	g, err := physics.NewTileGridCells(10, 10, 25)
	require.NoError(t, err)
	row, col := ActorCell(g, physics.KinematicBody{Position: physics.Vec2{X: 240, Y: 240}, Extent: 25})
	assert.Equal(t, 9, row)
	assert.Equal(t, 9, col)
	row, col = ActorCell(g, physics.KinematicBody{Position: physics.Vec2{X: 0, Y: 37}, Extent: 25})
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)
}

func TestApp_RunQuitAndRestart(t *testing.T) {
	scr := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, scr.Init())
	defer scr.Fini()
	scr.SetSize(40, 12)

	l, err := level.Builtin("first-steps")
	require.NoError(t, err)

	frames := make(chan physics.Snapshot, 256)
	app := &App{Screen: scr, Level: l, TPS: 500, OnFrame: func(s physics.Snapshot) {
		select {
		case frames <- s:
		default:
		}
	}}

	errc := make(chan error, 1)
	go func() { errc <- app.Run(context.Background()) }()

	waitFor := func(pred func(physics.Snapshot) bool) physics.Snapshot {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case s := <-frames:
				if pred(s) {
					return s
				}
			case <-deadline:
				t.Fatal("timed out waiting for frame")
			}
		}
	}

	landed := waitFor(func(s physics.Snapshot) bool { return s.State != physics.StateFalling })
	assert.Equal(t, 100.0, landed.Body.Position.Y)

	scr.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	restarted := waitFor(func(s physics.Snapshot) bool { return s.Tick == 1 })
	assert.Equal(t, physics.StateFalling, restarted.State)

	scr.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not quit")
	}
}
