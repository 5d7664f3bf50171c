// Command terrainmap writes a top-down PNG of the terrain around a point.
package main

import (
	"flag"
	"image/png"
	"log"
	"os"

	"flyover/internal/config"
	"flyover/internal/game"
	"flyover/internal/mapview"
)

func main() {
	logger := log.New(os.Stdout, "[terrainmap] ", log.LstdFlags)

	var (
		flags   config.Flags
		out     = "terrain.png"
		centerX float64
		centerZ float64
		extent  = 500.0
		ppu     = 1.0
		legend  = true
	)
	fs := flag.NewFlagSet("terrainmap", flag.ExitOnError)
	flags.Bind(fs)
	fs.StringVar(&out, "out", out, "output PNG path")
	fs.Float64Var(&centerX, "x", centerX, "map centre x")
	fs.Float64Var(&centerZ, "z", centerZ, "map centre z")
	fs.Float64Var(&extent, "extent", extent, "side length of the mapped square in world units")
	fs.Float64Var(&ppu, "ppu", ppu, "output pixels per world unit")
	fs.BoolVar(&legend, "legend", legend, "draw the biome legend")
	_ = fs.Parse(os.Args[1:])

	cfg, err := flags.Resolve()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	field, seed, err := game.BuildHeightField(cfg.Terrain)
	if err != nil {
		logger.Fatalf("height field: %v", err)
	}
	logger.Printf("seed %d, noise %q", seed, cfg.Terrain.Noise)

	img, err := mapview.Render(field, mapview.Centered(centerX, centerZ, extent), mapview.Options{PixelsPerUnit: ppu, Legend: legend})
	if err != nil {
		logger.Fatalf("render: %v", err)
	}

	f, err := os.Create(out)
	if err != nil {
		logger.Fatalf("create %s: %v", out, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		logger.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		logger.Fatalf("close %s: %v", out, err)
	}
	logger.Printf("wrote %s (%dx%d)", out, img.Bounds().Dx(), img.Bounds().Dy())
}
