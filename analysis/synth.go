package analysis

import (
	"image"
	"image/color"
	"math"
	"math/rand"
)

// Generator renders one synthetic preview image. Generators fail
// independently: one failing generator leaves its artifact absent and the
// run continues.
type Generator func(rnd *rand.Rand) (image.Image, error)

// Artifact filenames within the run directory.
const (
	ArtifactWaterfall        = "waterfall.png"
	ArtifactActivityMap      = "activity_map.png"
	ArtifactWindowPreview    = "window_preview.png"
	ArtifactCandidatePreview = "candidate_preview.png"
)

// DefaultGenerators returns the stub generator set, keyed by artifact
// filename.
func DefaultGenerators() map[string]Generator {
	return map[string]Generator{
		ArtifactWaterfall:        genHeatmap(320, 200, heatPalette),
		ArtifactActivityMap:      genHeatmap(160, 160, activityPalette),
		ArtifactWindowPreview:    genClusterScatter(320, 240),
		ArtifactCandidatePreview: genSpectrum(320, 240),
	}
}

// genHeatmap renders a random intensity heatmap, standing in for the real
// waterfall/activity rasters.
func genHeatmap(w, h int, palette func(v float64) color.RGBA) Generator {
	return func(rnd *rand.Rand) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			// A slow vertical drift keeps the noise from looking flat.
			drift := 0.2 * math.Sin(float64(y)/24)
			for x := 0; x < w; x++ {
				v := clamp01(0.5 + drift + 0.45*(rnd.Float64()*2-1))
				img.SetRGBA(x, y, palette(v))
			}
		}
		return img, nil
	}
}

// genSpectrum renders a fixed noise-floor spectrum with injected narrowband
// peaks at the stub candidate frequencies.
func genSpectrum(w, h int) Generator {
	return func(rnd *rand.Rand) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		fill(img, color.RGBA{12, 12, 24, 255})

		// Peak positions mirror the 8 stub candidates, spread across the band.
		peaks := make(map[int]float64, stubCandidateCount)
		for i := 0; i < stubCandidateCount; i++ {
			bin := (i + 1) * w / (stubCandidateCount + 1)
			peaks[bin] = 0.55 + 0.05*float64(i%3)
		}

		for x := 0; x < w; x++ {
			v := 0.15 + 0.08*rnd.Float64()
			for bin, amp := range peaks {
				d := float64(x - bin)
				v += amp * math.Exp(-d*d/8)
			}
			top := h - 1 - int(clamp01(v)*float64(h-1))
			for y := h - 1; y >= top; y-- {
				img.SetRGBA(x, y, color.RGBA{80, 220, 140, 255})
			}
		}
		return img, nil
	}
}

// genClusterScatter renders Gaussian point clusters, standing in for the
// window/cluster projection.
func genClusterScatter(w, h int) Generator {
	return func(rnd *rand.Rand) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		fill(img, color.RGBA{18, 18, 28, 255})

		colors := []color.RGBA{
			{240, 120, 100, 255},
			{110, 180, 240, 255},
			{250, 200, 90, 255},
		}
		for c, col := range colors {
			cx := float64(w) * (0.25 + 0.25*float64(c))
			cy := float64(h) * (0.3 + 0.15*float64(c))
			for i := 0; i < 120; i++ {
				x := int(cx + rnd.NormFloat64()*float64(w)/16)
				y := int(cy + rnd.NormFloat64()*float64(h)/16)
				if x >= 0 && x < w && y >= 0 && y < h {
					img.SetRGBA(x, y, col)
				}
			}
		}
		return img, nil
	}
}

func heatPalette(v float64) color.RGBA {
	// Cold blue through hot yellow.
	return color.RGBA{
		R: uint8(255 * v),
		G: uint8(220 * v * v),
		B: uint8(200 * (1 - v)),
		A: 255,
	}
}

func activityPalette(v float64) color.RGBA {
	return color.RGBA{
		R: uint8(40 + 60*v),
		G: uint8(255 * v),
		B: uint8(90 * (1 - v)),
		A: 255,
	}
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
