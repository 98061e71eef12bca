package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

const (
	logPanelWidth = 300
	logMaxEntries = 60
	logLineHeight = 14
)

// EventLog is a ring buffer of controller events rendered on-screen.
type EventLog struct {
	entries []physics.Event
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]physics.Event, logMaxEntries),
	}
}

// Add appends an event, overwriting the oldest once full.
func (el *EventLog) Add(e physics.Event) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Len returns the number of stored events.
func (el *EventLog) Len() int { return el.count }

// Reset drops every stored event.
func (el *EventLog) Reset() {
	el.head = 0
	el.count = 0
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []physics.Event {
	result := make([]physics.Event, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Since returns the stored events raised on or after fromTick, oldest first.
func (el *EventLog) Since(fromTick int) []physics.Event {
	var out []physics.Event
	for _, e := range el.Recent() {
		if e.Tick >= fromTick {
			out = append(out, e)
		}
	}
	return out
}

func eventColor(k physics.EventKind) color.RGBA {
	switch k {
	case physics.EventJump:
		return color.RGBA{R: 90, G: 200, B: 110, A: 255}
	case physics.EventLand:
		return color.RGBA{R: 90, G: 150, B: 230, A: 255}
	case physics.EventBounce:
		return color.RGBA{R: 230, G: 120, B: 60, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

// Draw renders the log panel at panelX, newest event at the bottom.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 11, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 55, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 22, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENT LOG", panelX+8, 0)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 55, B: 90, A: 200}, false)

	entries := el.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	const highlight = 3
	y := 20
	for i, e := range entries {
		if i >= len(entries)-highlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 32, B: 48, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, eventColor(e.Kind), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Tick, eventLine(e)), panelX+12, y-1)
		y += logLineHeight
	}
}

// eventLine is Event.String without the tick prefix and with ASCII arrows:
// the debug font has no glyph for →.
func eventLine(e physics.Event) string {
	switch e.Kind {
	case physics.EventStateChange:
		return fmt.Sprintf("%s -> %s", e.From, e.To)
	case physics.EventBounce:
		return fmt.Sprintf("bounce %s %.2f", e.Surface, e.Value)
	default:
		return fmt.Sprintf("%s %.2f", e.Kind, e.Value)
	}
}
