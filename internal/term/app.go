package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Block-Hopper/internal/audio"
	"github.com/Garsondee/Block-Hopper/internal/level"
	"github.com/Garsondee/Block-Hopper/internal/physics"
	"github.com/Garsondee/Block-Hopper/internal/session"
)

// App runs one level in a terminal until the player quits.
type App struct {
	Screen tcell.Screen
	Level  *level.Level
	Sound  *audio.SoundManager // optional
	TPS    int

	// OnFrame, if set, is called after each frame is drawn.
	OnFrame func(physics.Snapshot)
}

// Run owns the screen's event stream until quit, ctx cancellation or the
// screen closing. R rebuilds the level from its spawn point.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.Screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(session.Interval(a.TPS))
	defer ticker.Stop()

	for {
		restart, err := a.play(ctx, events, ticker.C)
		if err != nil || !restart {
			return err
		}
	}
}

// play runs one attempt at the level. It reports whether the player asked
// for a restart.
func (a *App) play(ctx context.Context, events <-chan tcell.Event, clock <-chan time.Time) (bool, error) {
	ctrl, err := a.Level.Build()
	if err != nil {
		return false, err
	}
	grid := ctrl.Grid()

	var last string
	ctrl.Subscribe(func(e physics.Event) { last = e.String() })
	if a.Sound != nil {
		a.Sound.Attach(ctrl)
	}

	runCtx, cancel := context.WithCancel(ctx)
	intents := make(chan physics.Intent, 16)
	ticks := make(chan time.Time)
	errc := make(chan error, 1)
	go func() {
		errc <- session.Run(runCtx, ctrl, intents, ticks, func(s physics.Snapshot) {
			Draw(a.Screen, grid, Frame{Level: a.Level.Name, Snap: s, Event: last, Muted: a.Sound != nil && a.Sound.Muted()})
			if a.OnFrame != nil {
				a.OnFrame(s)
			}
		})
	}()
	stop := func() {
		cancel()
		<-errc
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return false, ctx.Err()
		case t := <-clock:
			select {
			case ticks <- t:
			case <-runCtx.Done():
			}
		case ev, ok := <-events:
			if !ok {
				stop()
				return false, nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.Screen.Sync()
			case *tcell.EventKey:
				if in, ok := IntentForKey(ev); ok {
					select {
					case intents <- in:
					default: // queue full; drop the press
					}
					continue
				}
				switch CommandForKey(ev) {
				case CmdQuit:
					stop()
					return false, nil
				case CmdRestart:
					stop()
					return true, nil
				case CmdToggleMute:
					if a.Sound != nil {
						a.Sound.SetMuted(!a.Sound.Muted())
					}
				}
			}
		}
	}
}
