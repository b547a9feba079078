package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/milk9111/trackanim/bake"
	"github.com/milk9111/trackanim/config"
	"github.com/milk9111/trackanim/prefabs"
)

func main() {
	log.SetPrefix("bake: ")
	log.SetFlags(0)

	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	out := fs.String("o", "", "output file (default stdout)")
	workers := fs.Int("workers", 0, "objects resolved in parallel per frame (0 = GOMAXPROCS)")
	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	scene, err := prefabs.LoadScene(cfg.Scene)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frames, err := bake.Run(ctx, scene, bake.Options{
		FPS:        cfg.FPS,
		GridUnit:   cfg.GridUnit,
		LeftHanded: cfg.LeftHanded,
		Workers:    *workers,
	})
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Debug {
		log.Printf("%s: %d frames over %.2fs", cfg.Scene, len(frames), scene.Duration)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}
	if err := bake.Write(w, frames); err != nil {
		log.Fatal(err)
	}
}
