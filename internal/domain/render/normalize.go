// Package render turns a decoded image into square icon renditions.
//
// Every function here is pure: inputs are never mutated and each pass
// returns a surface it allocated itself, so the normalized base can be
// shared read-only between goroutines rendering different sizes.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/bnema/ico256/internal/domain/entity"
)

// MinBaseEdge is the smallest edge of a normalized base surface.
const MinBaseEdge = 512

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// BaseEdge returns the edge of the base surface for a w x h source.
func BaseEdge(w, h int) int {
	return max(MinBaseEdge, max(w, h))
}

// Normalize centers src on a square surface of BaseEdge pixels, scaling it
// uniformly to fit. Opaque backgrounds are filled with white first; the
// transparent background leaves the padding at zero alpha.
func Normalize(src image.Image, bg entity.Background) (*entity.Surface, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no decoded image", entity.ErrInvalidImageDimensions)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: decoded image is %dx%d", entity.ErrInvalidImageDimensions, w, h)
	}

	edge := BaseEdge(w, h)
	base, err := entity.NewSquareSurface(edge)
	if err != nil {
		return nil, err
	}
	if bg.IsOpaque() {
		base.Fill(white)
	}

	xdraw.CatmullRom.Scale(base.Image(), Placement(w, h, edge), src, bounds, xdraw.Over, nil)
	return base, nil
}

// Placement returns where a w x h source lands inside an edge x edge base:
// uniformly scaled so the longer side spans the edge, centered on both axes.
func Placement(w, h, edge int) image.Rectangle {
	scale := float64(edge) / float64(max(w, h))
	sw := float64(w) * scale
	sh := float64(h) * scale
	ox := (float64(edge) - sw) / 2
	oy := (float64(edge) - sh) / 2

	r := image.Rect(roundPixel(ox), roundPixel(oy), roundPixel(ox+sw), roundPixel(oy+sh))
	return r.Intersect(image.Rect(0, 0, edge, edge))
}

func roundPixel(v float64) int {
	return int(math.Round(v))
}
