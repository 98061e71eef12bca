package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// command is a non-movement key action.
type command int

const (
	cmdRestart command = iota
	cmdCopyReport
	cmdToggleMute
	cmdTogglePause
	cmdSlower
	cmdFaster
	cmdToggleHUD
)

type intentBinding struct {
	keys   []ebiten.Key
	intent physics.Intent
}

type commandBinding struct {
	key ebiten.Key
	cmd command
}

// Order matters: intents are applied in table order when several keys go
// down in the same frame, so a jump sees the horizontal push first.
var intentBindings = []intentBinding{
	{keys: []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, intent: physics.IntentMoveLeft},
	{keys: []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, intent: physics.IntentMoveRight},
	{keys: []ebiten.Key{ebiten.KeySpace, ebiten.KeyArrowUp, ebiten.KeyW}, intent: physics.IntentJump},
}

var commandBindings = []commandBinding{
	{key: ebiten.KeyR, cmd: cmdRestart},
	{key: ebiten.KeyC, cmd: cmdCopyReport},
	{key: ebiten.KeyM, cmd: cmdToggleMute},
	{key: ebiten.KeyP, cmd: cmdTogglePause},
	{key: ebiten.KeyComma, cmd: cmdSlower},
	{key: ebiten.KeyPeriod, cmd: cmdFaster},
	{key: ebiten.KeyH, cmd: cmdToggleHUD},
}

// pressedIntents maps the keys that went down this frame to intents. One
// intent per binding, so A and ← together still push once.
func pressedIntents(justPressed func(ebiten.Key) bool) []physics.Intent {
	var out []physics.Intent
	for _, b := range intentBindings {
		for _, k := range b.keys {
			if justPressed(k) {
				out = append(out, b.intent)
				break
			}
		}
	}
	return out
}

func pressedCommands(justPressed func(ebiten.Key) bool) []command {
	var out []command
	for _, b := range commandBindings {
		if justPressed(b.key) {
			out = append(out, b.cmd)
		}
	}
	return out
}

// speeds are the selectable simulation rates; 0 is paused.
var speeds = []float64{0, 0.5, 1, 2, 4}

func slower(cur float64) float64 {
	for i, s := range speeds {
		if s >= cur && i > 0 {
			return speeds[i-1]
		}
	}
	return cur
}

func faster(cur float64) float64 {
	for i, s := range speeds {
		if s <= cur && i < len(speeds)-1 && speeds[i+1] > cur {
			return speeds[i+1]
		}
	}
	return cur
}

func (g *Game) handleInput() {
	for _, in := range pressedIntents(inpututil.IsKeyJustPressed) {
		g.ctrl.ApplyInput(in)
	}

	for _, c := range pressedCommands(inpututil.IsKeyJustPressed) {
		switch c {
		case cmdRestart:
			if err := g.restart(); err != nil {
				g.status = "restart failed: " + err.Error()
			}
		case cmdCopyReport:
			g.copyReport()
		case cmdToggleMute:
			if g.sound != nil {
				g.sound.SetMuted(!g.sound.Muted())
			}
		case cmdTogglePause:
			if g.simSpeed > 0 {
				g.simSpeed = 0
			} else {
				g.simSpeed = 1
			}
		case cmdSlower:
			g.simSpeed = slower(g.simSpeed)
		case cmdFaster:
			g.simSpeed = faster(g.simSpeed)
		case cmdToggleHUD:
			g.showHUD = !g.showHUD
		}
	}
}
