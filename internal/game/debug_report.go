package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// reportTicks is how much history the debug report covers.
const reportTicks = 120

// history is a bounded record of the last reportTicks snapshots.
type history struct {
	snaps []physics.Snapshot
}

func (h *history) add(s physics.Snapshot) {
	if len(h.snaps) == reportTicks {
		copy(h.snaps, h.snaps[1:])
		h.snaps = h.snaps[:reportTicks-1]
	}
	h.snaps = append(h.snaps, s)
}

func (h *history) reset() { h.snaps = h.snaps[:0] }

type snapshotSummary struct {
	stoppedTicks int
	walkingTicks int
	fallingTicks int
	maxSpeedX    float64
	maxSpeedY    float64
	minY         float64
	maxY         float64
}

func summarizeSnapshots(snaps []physics.Snapshot) snapshotSummary {
	res := snapshotSummary{minY: math.MaxFloat64}
	for _, s := range snaps {
		switch s.State {
		case physics.StateStopped:
			res.stoppedTicks++
		case physics.StateWalking:
			res.walkingTicks++
		case physics.StateFalling:
			res.fallingTicks++
		}
		res.maxSpeedX = math.Max(res.maxSpeedX, math.Abs(s.Body.Velocity.X))
		res.maxSpeedY = math.Max(res.maxSpeedY, math.Abs(s.Body.Velocity.Y))
		res.minY = math.Min(res.minY, s.Body.Position.Y)
		res.maxY = math.Max(res.maxY, s.Body.Position.Y)
	}
	if res.minY == math.MaxFloat64 {
		res.minY = 0
	}
	return res
}

// reportStage is a run of consecutive ticks in one motion state.
type reportStage struct {
	first physics.Snapshot
	last  physics.Snapshot
	count int
}

func buildStages(snaps []physics.Snapshot) []reportStage {
	var stages []reportStage
	for _, s := range snaps {
		if n := len(stages); n > 0 && stages[n-1].last.State == s.State {
			stages[n-1].last = s
			stages[n-1].count++
			continue
		}
		stages = append(stages, reportStage{first: s, last: s, count: 1})
	}
	return stages
}

func compactSnapshot(s physics.Snapshot) string {
	b := s.Body
	return fmt.Sprintf("T=%d %s pos=(%.2f,%.2f) vel=(%.2f,%.2f)", s.Tick, s.State, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y)
}

// debugReport describes the current attempt: rules, the actor now, a
// per-state timeline of the recent history and the recent events.
func (g *Game) debugReport() string {
	now := g.ctrl.Snapshot()
	fromTick := now.Tick - reportTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}
	r := g.ctrl.Rules()

	var b strings.Builder
	fmt.Fprintf(&b, "--- Block Hopper debug report ---\n")
	fmt.Fprintf(&b, "level=%s source=%s attempt=%d tick_range=[%d..%d]\n", g.level.Name, g.level.Source(), g.attempt, fromTick, now.Tick)
	fmt.Fprintf(&b, "rules: friction=%.3f gravity=%.3f jump=%.2f max_velocity=(%.2f,%.2f)\n",
		r.Friction, r.Gravity, r.JumpImpulse, r.MaxVelocity.X, r.MaxVelocity.Y)
	fmt.Fprintf(&b, "now: %s extent=%.2f\n\n", compactSnapshot(now), now.Body.Extent)

	snaps := g.history.snaps
	if len(snaps) == 0 {
		b.WriteString("(no snapshots recorded yet)\n")
	} else {
		sum := summarizeSnapshots(snaps)
		fmt.Fprintf(&b, "summary: stopped=%d walking=%d falling=%d max|vx|=%.2f max|vy|=%.2f y[min/max]=%.2f/%.2f\n",
			sum.stoppedTicks, sum.walkingTicks, sum.fallingTicks, sum.maxSpeedX, sum.maxSpeedY, sum.minY, sum.maxY)
		b.WriteString("stages:\n")
		for i, st := range buildStages(snaps) {
			fmt.Fprintf(&b, "  %02d) T=%d..%d (%dt) %s\n", i+1, st.first.Tick, st.last.Tick, st.count, st.first.State)
			b.WriteString("      first: ")
			b.WriteString(compactSnapshot(st.first))
			b.WriteByte('\n')
			if st.count > 1 {
				b.WriteString("      last:  ")
				b.WriteString(compactSnapshot(st.last))
				b.WriteByte('\n')
			}
		}
	}

	events := g.events.Since(fromTick)
	if len(events) > 0 {
		b.WriteString("events:\n")
		for _, e := range events {
			b.WriteString("  - ")
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// copyReport puts the debug report on the system clipboard and reports the
// outcome on the status line.
func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.debugReport()); err != nil {
		g.status = "clipboard unavailable: " + err.Error()
		return
	}
	g.status = fmt.Sprintf("debug report copied (T=%d)", g.ctrl.TickCount())
}
