package game

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

const (
	hudFontSize = 13
	hudLineH    = 17
	hudPadX     = 8
	hudPadY     = 6
)

func newHUDFace() (*text.GoTextFace, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load mono font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: hudFontSize}, nil
}

func speedLabel(speed float64) string {
	switch speed {
	case 0:
		return "PAUSED"
	case 1, 2, 4:
		return fmt.Sprintf("%.0fx", speed)
	default:
		return fmt.Sprintf("%.1fx", speed)
	}
}

// hudLines is the HUD content: actor state first, key legend after.
func hudLines(levelName string, snap physics.Snapshot, speed float64, muted bool, status string) []string {
	b := snap.Body
	sound := "on"
	if muted {
		sound = "muted"
	}
	lines := []string{
		fmt.Sprintf("%s  T=%d  %s", levelName, snap.Tick, snap.State),
		fmt.Sprintf("pos (%7.2f,%7.2f)  vel (%6.2f,%6.2f)", b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y),
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed  sound: %s", speedLabel(speed), sound),
		"←/A →/D move  Space/↑/W jump",
		"R restart  C copy report  M mute  H hide",
	}
	if status != "" {
		lines = append(lines, status)
	}
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := hudLines(g.level.Name, g.ctrl.Snapshot(), g.simSpeed, g.sound != nil && g.sound.Muted(), g.status)

	maxW := 0.0
	for _, l := range lines {
		w, _ := text.Measure(l, g.face, hudLineH)
		if w > maxW {
			maxW = w
		}
	}
	boxW := float32(maxW) + hudPadX*2
	boxH := float32(len(lines)*hudLineH + hudPadY*2)
	bx := float32(g.offX + 6)
	by := float32(g.offY + 6)

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 14, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 70, G: 80, B: 120, A: 180}, false)
	vector.StrokeLine(screen, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 100, G: 110, B: 170, A: 80}, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(bx)+hudPadX, float64(by)+hudPadY)
	op.LineSpacing = hudLineH
	op.ColorScale.ScaleWithColor(color.RGBA{R: 220, G: 225, B: 235, A: 255})
	text.Draw(screen, strings.Join(lines, "\n"), g.face, op)
}
