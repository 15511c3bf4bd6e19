// Package encoder implements the raster export used for every icon size.
package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/bnema/ico256/internal/application/port"
)

// ParseCompression maps a config value to a png compression level.
func ParseCompression(value string) (png.CompressionLevel, error) {
	switch value {
	case "", "default":
		return png.DefaultCompression, nil
	case "best":
		return png.BestCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "none":
		return png.NoCompression, nil
	default:
		return 0, fmt.Errorf("unknown png compression %q", value)
	}
}

// bufferPool shares encoder state across the parallel size branches.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}

// PNGEncoder implements port.RasterEncoder. It is safe for concurrent use.
type PNGEncoder struct {
	enc *png.Encoder
}

// NewPNGEncoder creates a PNGEncoder with the given compression level.
func NewPNGEncoder(level png.CompressionLevel) *PNGEncoder {
	return &PNGEncoder{
		enc: &png.Encoder{CompressionLevel: level, BufferPool: &bufferPool{}},
	}
}

var _ port.RasterEncoder = (*PNGEncoder)(nil)

// EncodePNG implements port.RasterEncoder.
func (e *PNGEncoder) EncodePNG(ctx context.Context, img image.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}
