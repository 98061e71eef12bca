package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Block-Hopper/internal/audio"
	"github.com/Garsondee/Block-Hopper/internal/game"
	"github.com/Garsondee/Block-Hopper/internal/level"
)

func main() {
	var ref string
	var seed int64
	var mute bool
	var tps int

	flag.StringVar(&ref, "level", "first-steps", "built-in level name or path to a level file")
	flag.Int64Var(&seed, "seed", -1, "generate a level from this seed instead of loading -level")
	flag.BoolVar(&mute, "mute", false, "start with sound muted")
	flag.IntVar(&tps, "tps", 60, "simulation ticks per second")
	flag.Parse()

	lvl, err := level.Select(ref, seed)
	if err != nil {
		log.Fatal(err)
	}

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		log.Printf("audio disabled: %v", err)
	}
	defer sound.Cleanup()
	sound.SetMuted(mute)

	g, err := game.New(lvl, sound)
	if err != nil {
		log.Fatal(err)
	}

	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	ebiten.SetWindowTitle(g.Title())
	ebiten.SetWindowSize(g.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
