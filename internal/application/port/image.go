package port

import (
	"context"
	"image"
)

// ImageDecoder turns encoded source bytes into pixels. Vector sources are
// rasterized here, before the conversion pipeline sees them.
type ImageDecoder interface {
	Decode(ctx context.Context, data []byte, mediaType string) (image.Image, error)
}

// MediaSniffer detects a media type from content. It returns "" when the
// content is not recognized.
type MediaSniffer interface {
	Sniff(data []byte) string
}

// RasterEncoder produces the standalone raster export of an image.
type RasterEncoder interface {
	EncodePNG(ctx context.Context, img image.Image) ([]byte, error)
}
