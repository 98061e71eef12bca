// Package session runs a controller against a clock. Front ends that own
// their own frame loop (ebiten) drive the controller directly; the rest feed
// input and ticks through channels.
package session

import (
	"context"
	"time"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// Run drives ctrl on a single goroutine until ctx is cancelled or ticks is
// closed. Intents are applied in arrival order; any still queued when a
// tick arrives are applied before that tick runs. onFrame, if set, sees
// every post-tick snapshot.
func Run(ctx context.Context, ctrl *physics.Controller, intents <-chan physics.Intent, ticks <-chan time.Time, onFrame func(physics.Snapshot)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-intents:
			if !ok {
				intents = nil
				continue
			}
			ctrl.ApplyInput(in)
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			drain(ctrl, intents)
			snap := ctrl.Tick()
			if onFrame != nil {
				onFrame(snap)
			}
		}
	}
}

func drain(ctrl *physics.Controller, intents <-chan physics.Intent) {
	for {
		select {
		case in, ok := <-intents:
			if !ok {
				return
			}
			ctrl.ApplyInput(in)
		default:
			return
		}
	}
}

// Interval converts a ticks-per-second rate into a ticker period.
// Non-positive rates fall back to 60.
func Interval(tps int) time.Duration {
	if tps <= 0 {
		tps = 60
	}
	return time.Second / time.Duration(tps)
}
