package entity

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Surface is a grid of straight-alpha RGBA pixels, 8 bits per channel.
// Pixel data lives in an *image.NRGBA anchored at the origin.
type Surface struct {
	img *image.NRGBA
}

// NewSurface allocates a fully transparent surface.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImageDimensions, width, height)
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// NewSquareSurface allocates a transparent edge x edge surface.
func NewSquareSurface(edge int) (*Surface, error) {
	return NewSurface(edge, edge)
}

// SurfaceFromImage copies any image into a new origin-anchored surface.
func SurfaceFromImage(src image.Image) (*Surface, error) {
	b := src.Bounds()
	s, err := NewSurface(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Src)
	return s, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Edge returns the edge length of a square surface, or 0 if it is not square.
func (s *Surface) Edge() int {
	if !s.IsSquare() {
		return 0
	}
	return s.Width()
}

// IsSquare reports whether width equals height.
func (s *Surface) IsSquare() bool {
	return s.Width() == s.Height()
}

// Image exposes the backing image. Callers that do not own the surface must
// treat it as read-only.
func (s *Surface) Image() *image.NRGBA { return s.img }

// Pix returns the raw RGBA bytes, row-major, 4 bytes per pixel.
func (s *Surface) Pix() []uint8 { return s.img.Pix }

// Stride returns the byte distance between rows.
func (s *Surface) Stride() int { return s.img.Stride }

// Offset returns the index of the pixel (x, y) in Pix.
func (s *Surface) Offset(x, y int) int {
	return y*s.img.Stride + x*4
}

// NRGBAAt returns the pixel at (x, y).
func (s *Surface) NRGBAAt(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}

// SetNRGBA writes the pixel at (x, y).
func (s *Surface) SetNRGBA(x, y int, c color.NRGBA) {
	s.img.SetNRGBA(x, y, c)
}

// Fill paints every pixel with c.
func (s *Surface) Fill(c color.NRGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Clone returns a deep copy that shares no memory with s.
func (s *Surface) Clone() *Surface {
	dst := image.NewNRGBA(s.img.Rect)
	copy(dst.Pix, s.img.Pix)
	return &Surface{img: dst}
}
