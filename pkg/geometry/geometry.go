// Package geometry resizes screenshots to dimensions the vision model can
// consume: a max-dimension pre-resize for throughput, then alignment to the
// model's patch/merge grid with optional pixel-count bounds.
package geometry

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/gui-locator/pkg/types"
)

// Config holds the geometry constraints of the target model.
type Config struct {
	// MaxDimension caps the longer side before grid alignment. Large
	// screenshots otherwise dominate generation latency. 0 disables the cap.
	MaxDimension int
	// PatchSize and MergeSize define the alignment grid: output dimensions
	// are multiples of PatchSize*MergeSize.
	PatchSize int
	MergeSize int
	// MinPixels and MaxPixels bound the total pixel count after alignment.
	// 0 means unbounded.
	MinPixels int
	MaxPixels int
}

// DefaultConfig returns the geometry of the Holo2 image processor.
func DefaultConfig() Config {
	return Config{
		MaxDimension: 1280,
		PatchSize:    14,
		MergeSize:    2,
		MinPixels:    64 << 10,
		MaxPixels:    2 << 20,
	}
}

// Factor returns the grid alignment factor.
func (c Config) Factor() int { return c.PatchSize * c.MergeSize }

// Normalize produces a new image whose dimensions satisfy cfg. The caller's
// image is never mutated; every resize yields a derived buffer. Output
// dimensions are a pure function of the input size and cfg.
func Normalize(img image.Image, cfg Config) (image.Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 1 || height < 1 {
		return nil, &types.InvalidImageError{Reason: fmt.Sprintf("degenerate dimensions %dx%d", width, height)}
	}

	// Pre-resize to keep generation latency reasonable.
	if cfg.MaxDimension > 0 && max(width, height) > cfg.MaxDimension {
		ratio := float64(cfg.MaxDimension) / float64(max(width, height))
		newW := int(float64(width) * ratio)
		newH := int(float64(height) * ratio)
		if newW < 1 {
			newW = 1
		}
		if newH < 1 {
			newH = 1
		}
		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
		width, height = newW, newH
	}

	alignedH, alignedW, err := SmartResize(height, width, cfg.Factor(), cfg.MinPixels, cfg.MaxPixels)
	if err != nil {
		return nil, err
	}

	if alignedW == width && alignedH == height {
		return imaging.Clone(img), nil
	}
	return imaging.Resize(img, alignedW, alignedH, imaging.Lanczos), nil
}

// SmartResize computes the (height, width) closest to the input that are
// exact multiples of factor, scaled so the total pixel count falls within
// [minPixels, maxPixels] when those bounds are non-zero. Aspect ratio is
// preserved as closely as the grid allows.
func SmartResize(height, width, factor, minPixels, maxPixels int) (int, int, error) {
	if factor < 1 {
		return 0, 0, fmt.Errorf("alignment factor must be positive, got %d", factor)
	}
	if height < 1 || width < 1 {
		return 0, 0, &types.InvalidImageError{Reason: fmt.Sprintf("degenerate dimensions %dx%d", width, height)}
	}
	if ratio := float64(max(height, width)) / float64(min(height, width)); ratio > 200 {
		return 0, 0, &types.InvalidImageError{Reason: fmt.Sprintf("absolute aspect ratio %.2f exceeds 200", ratio)}
	}

	round := func(x float64) int { return int(math.RoundToEven(x)) }

	hBar := max(factor, round(float64(height)/float64(factor))*factor)
	wBar := max(factor, round(float64(width)/float64(factor))*factor)

	if maxPixels > 0 && hBar*wBar > maxPixels {
		beta := math.Sqrt(float64(height*width) / float64(maxPixels))
		hBar = max(factor, int(math.Floor(float64(height)/beta/float64(factor)))*factor)
		wBar = max(factor, int(math.Floor(float64(width)/beta/float64(factor)))*factor)
	} else if minPixels > 0 && hBar*wBar < minPixels {
		beta := math.Sqrt(float64(minPixels) / float64(height*width))
		hBar = int(math.Ceil(float64(height)*beta/float64(factor))) * factor
		wBar = int(math.Ceil(float64(width)*beta/float64(factor))) * factor
	}

	return hBar, wBar, nil
}
