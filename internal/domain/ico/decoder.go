package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/bnema/ico256/internal/domain/entity"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Payload formats reported by Decode.
const (
	FormatBMP = "bmp"
	FormatPNG = "png"
)

// DecodedImage is one image read back from a container.
type DecodedImage struct {
	Entry  entity.DirectoryEntry
	Format string
	Image  *image.NRGBA
}

// ReadDirectory parses the file header and directory entries of data.
func ReadDirectory(data []byte) ([]entity.DirectoryEntry, error) {
	r := bytes.NewReader(data)

	var hdr iconDir
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if hdr.Reserved != 0 || hdr.Type != resourceTypeIcon {
		return nil, fmt.Errorf("%w: not an icon file (type %d)", ErrMalformed, hdr.Type)
	}
	if hdr.Count == 0 {
		return nil, fmt.Errorf("%w: empty directory", ErrMalformed)
	}

	raw := make([]iconDirEntry, hdr.Count)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("%w: directory: %v", ErrMalformed, err)
	}

	entries := make([]entity.DirectoryEntry, len(raw))
	for i, e := range raw {
		if uint64(e.Offset)+uint64(e.BytesInRes) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: entry %d points past end of data", ErrMalformed, i)
		}
		entries[i] = e.toEntity()
	}
	return entries, nil
}

// Decode reads every image of an icon container. PNG payloads and 32-bit
// bitmaps are supported.
func Decode(r io.Reader) ([]DecodedImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}

	entries, err := ReadDirectory(data)
	if err != nil {
		return nil, err
	}

	images := make([]DecodedImage, 0, len(entries))
	for i, e := range entries {
		payload := data[e.Offset:e.End()]
		img, format, err := decodePayload(payload)
		if err != nil {
			return nil, fmt.Errorf("image %d (%dx%d): %w", i, e.EdgeWidth(), e.EdgeHeight(), err)
		}
		images = append(images, DecodedImage{Entry: e, Format: format, Image: img})
	}
	return images, nil
}

func decodePayload(payload []byte) (*image.NRGBA, string, error) {
	if bytes.HasPrefix(payload, pngSignature) {
		img, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, "", fmt.Errorf("%w: png payload: %v", ErrMalformed, err)
		}
		s, err := entity.SurfaceFromImage(img)
		if err != nil {
			return nil, "", err
		}
		return s.Image(), FormatPNG, nil
	}

	img, err := decodeBitmap(payload)
	if err != nil {
		return nil, "", err
	}
	return img, FormatBMP, nil
}

func decodeBitmap(payload []byte) (*image.NRGBA, error) {
	var bih bitmapInfoHeader
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, &bih); err != nil {
		return nil, fmt.Errorf("%w: bitmap header: %v", ErrMalformed, err)
	}
	if bih.Size != bitmapInfoSize {
		return nil, fmt.Errorf("%w: bitmap header size %d", ErrMalformed, bih.Size)
	}
	if bih.BitCount != bitsPerPixel || bih.Compression != 0 {
		return nil, fmt.Errorf("%w: only uncompressed 32-bit bitmaps are supported (got %d-bit)", ErrMalformed, bih.BitCount)
	}

	w := int(bih.Width)
	h := int(bih.Height) / 2
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: bitmap is %dx%d", entity.ErrInvalidImageDimensions, w, h)
	}

	rowBytes := w * bytesPerPixel
	pixels := payload[bitmapInfoSize:]
	if len(pixels) < rowBytes*h {
		return nil, fmt.Errorf("%w: truncated pixel data", ErrMalformed)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		src := pixels[row*rowBytes : (row+1)*rowBytes]
		y := h - 1 - row
		dst := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		for x := 0; x < rowBytes; x += bytesPerPixel {
			dst[x] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x]
			dst[x+3] = src[x+3]
		}
	}
	return img, nil
}
