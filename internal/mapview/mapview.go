// Package mapview renders a height field as a top-down biome map.
package mapview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"flyover/internal/world"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var ErrInvalidRegion = errors.New("invalid map region")

// Limits on the sample grid and the output image so a typo can't allocate
// gigabytes.
const (
	MaxSamples = 4096
	MaxPixels  = 16384
)

// Region is an axis-aligned world rectangle in the x/z plane.
type Region struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

func (r Region) Width() float64 { return r.MaxX - r.MinX }
func (r Region) Depth() float64 { return r.MaxZ - r.MinZ }
func (r Region) valid() bool {
	for _, v := range [...]float64{r.MinX, r.MinZ, r.MaxX, r.MaxZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width() > 0 && r.Depth() > 0
}

// Centered returns a square region of side extent around (x, z).
func Centered(x, z, extent float64) Region {
	h := extent / 2
	return Region{MinX: x - h, MinZ: z - h, MaxX: x + h, MaxZ: z + h}
}

// Options controls the output image.
type Options struct {
	PixelsPerUnit float64
	Legend        bool
}

// Render samples field once per world unit over region, shades each biome
// colour by relative elevation and scales the result to PixelsPerUnit.
// Image row 0 is MinZ.
func Render(field *world.HeightField, region Region, opts Options) (*image.RGBA, error) {
	if field == nil || !region.valid() {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidRegion, region)
	}
	if !(opts.PixelsPerUnit > 0) || math.IsInf(opts.PixelsPerUnit, 0) {
		return nil, fmt.Errorf("%w: pixels per unit %v", ErrInvalidRegion, opts.PixelsPerUnit)
	}
	sw := int(math.Ceil(region.Width()))
	sh := int(math.Ceil(region.Depth()))
	if sw > MaxSamples || sh > MaxSamples {
		return nil, fmt.Errorf("%w: %dx%d samples exceeds %d", ErrInvalidRegion, sw, sh, MaxSamples)
	}

	elev := make([]float64, sw*sh)
	biomes := make([]world.Biome, sw*sh)
	lo, hi := math.Inf(1), math.Inf(-1)
	for j := 0; j < sh; j++ {
		for i := 0; i < sw; i++ {
			e, b := field.Sample(region.MinX+float64(i)+0.5, region.MinZ+float64(j)+0.5)
			elev[j*sw+i] = e
			biomes[j*sw+i] = b
			lo = min(lo, e)
			hi = max(hi, e)
		}
	}

	base := image.NewRGBA(image.Rect(0, 0, sw, sh))
	for j := 0; j < sh; j++ {
		for i := 0; i < sw; i++ {
			k := j*sw + i
			base.SetRGBA(i, j, shade(biomes[k], elev[k], lo, hi))
		}
	}

	fw := math.Round(region.Width() * opts.PixelsPerUnit)
	fh := math.Round(region.Depth() * opts.PixelsPerUnit)
	if fw > MaxPixels || fh > MaxPixels {
		return nil, fmt.Errorf("%w: %.0fx%.0f pixels exceeds %d", ErrInvalidRegion, fw, fh, MaxPixels)
	}
	ow := max(1, int(fw))
	oh := max(1, int(fh))
	if ow == sw && oh == sh {
		if opts.Legend {
			drawLegend(base)
		}
		return base, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, ow, oh))
	draw.NearestNeighbor.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)
	if opts.Legend {
		drawLegend(out)
	}
	return out, nil
}

// shade scales the biome colour into [0.55, 1] by elevation within [lo, hi].
func shade(b world.Biome, e, lo, hi float64) color.RGBA {
	t := 1.0
	if hi > lo {
		t = 0.55 + 0.45*(e-lo)/(hi-lo)
	}
	c := b.Color()
	return color.RGBA{
		R: uint8(math.Round(float64(c[0]) * t * 255)),
		G: uint8(math.Round(float64(c[1]) * t * 255)),
		B: uint8(math.Round(float64(c[2]) * t * 255)),
		A: 255,
	}
}

func toRGBA(b world.Biome) color.RGBA {
	return shade(b, 0, 0, 0)
}

var legendBiomes = []world.Biome{world.BiomeSnow, world.BiomeStone, world.BiomeGrass, world.BiomeDirt}

// drawLegend writes a swatch and name per biome into the top-left corner.
func drawLegend(dst *image.RGBA) {
	face := basicfont.Face7x13
	const pad, swatch, line = 4, 9, 14
	w := pad*3 + swatch + 5*face.Advance
	h := pad*2 + line*len(legendBiomes)
	if dst.Bounds().Dx() < w || dst.Bounds().Dy() < h {
		return
	}
	draw.Draw(dst, image.Rect(0, 0, w, h), image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	d := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	for n, b := range legendBiomes {
		y := pad + n*line
		draw.Draw(dst, image.Rect(pad, y+2, pad+swatch, y+2+swatch), image.NewUniform(toRGBA(b)), image.Point{}, draw.Src)
		d.Dot = fixed.P(pad*2+swatch, y+face.Ascent+1)
		d.DrawString(b.String())
	}
}
