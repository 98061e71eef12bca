package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

const (
	groundGlyph = '█'
	emptyGlyph  = ' '
	actorGlyph  = '@'
)

var (
	styleGround = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleEmpty  = tcell.StyleDefault
	styleActor  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// Frame is everything the renderer draws for one tick.
type Frame struct {
	Level string
	Snap  physics.Snapshot
	Event string // most recent event, if any
	Muted bool
}

// Draw paints the grid, the actor and a status line. The map is clipped to
// the screen; the bottom row is always the status line.
func Draw(s tcell.Screen, g *physics.TileGrid, f Frame) {
	w, h := s.Size()
	s.Clear()
	rows := min(g.Rows(), h-1)
	cols := min(g.Cols(), w)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if g.IsPassable(r, c) {
				s.SetContent(c, r, emptyGlyph, nil, styleEmpty)
			} else {
				s.SetContent(c, r, groundGlyph, nil, styleGround)
			}
		}
	}

	ar, ac := ActorCell(g, f.Snap.Body)
	if ar < rows && ac < cols {
		s.SetContent(ac, ar, actorGlyph, nil, styleActor)
	}

	if h > 0 {
		drawText(s, 0, h-1, w, statusLine(f), styleStatus)
	}
	s.Show()
}

// ActorCell returns the tile holding the body's centre, clamped into the grid.
func ActorCell(g *physics.TileGrid, b physics.KinematicBody) (row, col int) {
	cs := g.CellSize()
	row = int(math.Floor((b.Position.Y + b.Extent/2) / cs))
	col = int(math.Floor((b.Position.X + b.Extent/2) / cs))
	return max(0, min(row, g.Rows()-1)), max(0, min(col, g.Cols()-1))
}

func statusLine(f Frame) string {
	b := f.Snap.Body
	line := fmt.Sprintf(" %s  T=%d  %-7s pos=(%.1f,%.1f) vel=(%.2f,%.2f)",
		f.Level, f.Snap.Tick, f.Snap.State, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y)
	if f.Event != "" {
		line += "  | " + f.Event
	}
	if f.Muted {
		line += "  [muted]"
	}
	return line
}

// drawText writes str on row y from x, padding the rest of the row.
func drawText(s tcell.Screen, x, y, width int, str string, style tcell.Style) {
	col := x
	for _, r := range str {
		if col >= width {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		s.SetContent(col, y, ' ', nil, style)
	}
}
