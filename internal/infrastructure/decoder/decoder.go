// Package decoder turns source bytes into images for the conversion pipeline.
package decoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/render"
	"github.com/bnema/ico256/internal/domain/validation"
	"github.com/bnema/ico256/internal/logging"
)

const mediaTypeSVG = "image/svg+xml"

type rasterDecoder func(r *bytes.Reader) (image.Image, error)

// Raster formats by the name image.DecodeConfig reports.
var rasterDecoders = map[string]rasterDecoder{
	"png":  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
	"jpeg": func(r *bytes.Reader) (image.Image, error) { return jpeg.Decode(r) },
	"webp": func(r *bytes.Reader) (image.Image, error) { return webp.Decode(r) },
	"gif":  func(r *bytes.Reader) (image.Image, error) { return gif.Decode(r) },
	"bmp":  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
}

// Decoder implements port.ImageDecoder.
//
// Raster sources are decoded by content, the way a browser would, so a PNG
// served as image/jpeg still works. The declared type only selects SVG
// rasterization.
type Decoder struct {
	svgEdge   int
	maxPixels int64
}

// NewDecoder creates a Decoder. SVG sources are rasterized so their longer
// side is svgEdge pixels; svgEdge <= 0 uses the base edge of the pipeline.
// Sources whose area exceeds maxPixels are rejected from their header;
// maxPixels <= 0 uses validation.MaxSourcePixels.
func NewDecoder(svgEdge int, maxPixels int64) *Decoder {
	if svgEdge <= 0 {
		svgEdge = render.MinBaseEdge
	}
	return &Decoder{svgEdge: svgEdge, maxPixels: validation.EffectivePixelLimit(maxPixels)}
}

var _ port.ImageDecoder = (*Decoder)(nil)

// Decode implements port.ImageDecoder.
func (d *Decoder) Decode(ctx context.Context, data []byte, mediaType string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	if validation.NormalizeMediaType(mediaType) == mediaTypeSVG || (mediaType == "" && looksLikeSVG(data)) {
		if err := validation.ValidateDimensions(d.svgEdge, d.svgEdge, d.maxPixels); err != nil {
			return nil, err
		}
		img, err := rasterizeSVG(data, d.svgEdge)
		if err != nil {
			return nil, fmt.Errorf("%w: svg: %v", entity.ErrUndecodable, err)
		}
		log.Debug().Int("edge", d.svgEdge).Msg("svg rasterized")
		return img, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUndecodable, err)
	}
	if err := validation.ValidateDimensions(cfg.Width, cfg.Height, d.maxPixels); err != nil {
		log.Debug().Err(err).Str("format", format).Msg("source rejected from header")
		return nil, err
	}

	decode, ok := rasterDecoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrUndecodable, format)
	}
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrUndecodable, format, err)
	}

	log.Debug().
		Str("declared", mediaType).
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("raster decoded")
	return img, nil
}
