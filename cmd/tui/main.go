package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Block-Hopper/internal/audio"
	"github.com/Garsondee/Block-Hopper/internal/level"
	"github.com/Garsondee/Block-Hopper/internal/term"
)

func main() {
	var ref string
	var seed int64
	var mute bool
	var tps int

	flag.StringVar(&ref, "level", "first-steps", "built-in level name or path to a level file")
	flag.Int64Var(&seed, "seed", -1, "generate a level from this seed instead of loading -level")
	flag.BoolVar(&mute, "mute", false, "start with sound muted")
	flag.IntVar(&tps, "tps", 30, "simulation ticks per second")
	flag.Parse()

	lvl, err := level.Select(ref, seed)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		sound = nil
	} else {
		sound.SetMuted(mute)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := &term.App{Screen: screen, Level: lvl, Sound: sound, TPS: tps}
	err = app.Run(ctx)

	stop()
	if sound != nil {
		sound.Cleanup()
	}
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
