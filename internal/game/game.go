// Package game is the windowed front end: it drives a physics controller
// from keyboard input at a fixed tick rate and draws the level with ebiten.
package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Block-Hopper/internal/audio"
	"github.com/Garsondee/Block-Hopper/internal/level"
	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

// fieldTarget is the playfield width the world is scaled towards.
const fieldTarget = 960

var (
	groundFill   = color.RGBA{R: 92, G: 78, B: 60, A: 255}
	groundEdge   = color.RGBA{R: 130, G: 112, B: 84, A: 255}
	skyFill      = color.RGBA{R: 24, G: 30, B: 46, A: 255}
	gridLine     = color.RGBA{R: 40, G: 48, B: 70, A: 120}
	stateColours = map[physics.MotionState]color.RGBA{
		physics.StateStopped: {R: 230, G: 220, B: 90, A: 255},
		physics.StateWalking: {R: 100, G: 210, B: 120, A: 255},
		physics.StateFalling: {R: 230, G: 110, B: 90, A: 255},
	}
)

type Game struct {
	level *level.Level
	sound *audio.SoundManager // may be nil
	ctrl  *physics.Controller
	face  *text.GoTextFace

	events  *EventLog
	history history
	attempt int
	status  string // one-shot message shown in the HUD

	width  int
	height int
	fieldW int
	fieldH int
	offX   int
	offY   int
	scale  float64 // pixels per world unit

	showHUD bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds
}

// New builds a game for lvl. sound may be nil.
func New(lvl *level.Level, sound *audio.SoundManager) (*Game, error) {
	face, err := newHUDFace()
	if err != nil {
		return nil, err
	}
	g := &Game{
		level:    lvl,
		sound:    sound,
		face:     face,
		events:   NewEventLog(),
		showHUD:  true,
		simSpeed: 1.0,
	}
	if err := g.restart(); err != nil {
		return nil, err
	}

	grid := g.ctrl.Grid()
	g.scale = fieldScale(grid.WidthUnits())
	g.fieldW = int(math.Ceil(grid.WidthUnits() * g.scale))
	g.fieldH = int(math.Ceil(grid.HeightUnits() * g.scale))
	g.offX, g.offY = borderWidth, borderWidth
	g.width = borderWidth + g.fieldW + borderWidth + logPanelWidth
	g.height = max(borderWidth+g.fieldH+borderWidth, 360)
	return g, nil
}

// fieldScale picks a pixel scale that brings the map close to fieldTarget
// wide without shrinking below half size or growing past 3x.
func fieldScale(widthUnits float64) float64 {
	if widthUnits <= 0 {
		return 1
	}
	return math.Max(0.5, math.Min(3, fieldTarget/widthUnits))
}

// restart replaces the controller with a fresh one at the spawn point.
func (g *Game) restart() error {
	ctrl, err := g.level.Build()
	if err != nil {
		return err
	}
	ctrl.Subscribe(g.events.Add)
	if g.sound != nil {
		g.sound.Attach(ctrl)
	}
	g.ctrl = ctrl
	g.events.Reset()
	g.history.reset()
	g.history.add(ctrl.Snapshot())
	g.tickAccum = 0
	g.attempt++
	return nil
}

// Controller returns the controller of the current attempt.
func (g *Game) Controller() *physics.Controller { return g.ctrl }

func (g *Game) Update() error {
	// Input is handled every frame regardless of sim speed.
	g.handleInput()
	g.advance()
	return nil
}

// advance runs the ticks owed at the current speed. Above 1x that is
// several per frame; below 1x fractions accumulate.
func (g *Game) advance() {
	if g.simSpeed <= 0 {
		return
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}
}

// simTick runs one simulation tick.
func (g *Game) simTick() {
	g.history.add(g.ctrl.Tick())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 11, B: 16, A: 255})
	g.drawWorld(screen)

	ox := float32(g.offX)
	oy := float32(g.offY)
	fw := float32(g.fieldW)
	fh := float32(g.fieldH)
	vector.StrokeRect(screen, ox-1, oy-1, fw+2, fh+2, 2.0, color.RGBA{R: 70, G: 80, B: 120, A: 255}, false)
	vector.StrokeRect(screen, ox-3, oy-3, fw+6, fh+6, 1.0, color.RGBA{R: 45, G: 50, B: 80, A: 100}, false)

	g.events.Draw(screen, g.width-logPanelWidth, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	grid := g.ctrl.Grid()
	ox := float32(g.offX)
	oy := float32(g.offY)
	cell := float32(grid.CellSize() * g.scale)

	vector.FillRect(screen, ox, oy, float32(g.fieldW), float32(g.fieldH), skyFill, false)
	for col := 1; col < grid.Cols(); col++ {
		x := ox + float32(col)*cell
		vector.StrokeLine(screen, x, oy, x, oy+float32(g.fieldH), 1.0, gridLine, false)
	}
	for row := 1; row < grid.Rows(); row++ {
		y := oy + float32(row)*cell
		vector.StrokeLine(screen, ox, y, ox+float32(g.fieldW), y, 1.0, gridLine, false)
	}

	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if grid.IsPassable(row, col) {
				continue
			}
			x := ox + float32(col)*cell
			y := oy + float32(row)*cell
			vector.FillRect(screen, x, y, cell, cell, groundFill, false)
			if row == 0 || grid.IsPassable(row-1, col) {
				vector.StrokeLine(screen, x, y+1, x+cell, y+1, 2.0, groundEdge, false)
			}
		}
	}

	snap := g.ctrl.Snapshot()
	b := snap.Body
	ax := ox + float32(b.Position.X*g.scale)
	ay := oy + float32(b.Position.Y*g.scale)
	ext := float32(b.Extent * g.scale)
	vector.FillRect(screen, ax, ay, ext, ext, stateColours[snap.State], true)
	vector.StrokeRect(screen, ax, ay, ext, ext, 1.5, color.RGBA{R: 20, G: 20, B: 20, A: 255}, true)

	// Velocity hint from the body centre.
	cx, cy := ax+ext/2, ay+ext/2
	vx := float32(b.Velocity.X * g.scale * 4)
	vy := float32(b.Velocity.Y * g.scale * 4)
	if vx != 0 || vy != 0 {
		vector.StrokeLine(screen, cx, cy, cx+vx, cy+vy, 1.5, color.RGBA{R: 255, G: 255, B: 255, A: 160}, true)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// WindowSize returns the preferred window size.
func (g *Game) WindowSize() (int, int) {
	return g.width, g.height
}

// Title is the window title for the level.
func (g *Game) Title() string {
	return fmt.Sprintf("Block Hopper: %s", g.level.Name)
}
