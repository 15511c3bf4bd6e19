// Package ico reads and writes the legacy multi-resolution icon container.
//
// Layout, all fields little-endian:
//
//	ICONDIR        6 bytes   reserved=0, type=1, count
//	ICONDIRENTRY  16 bytes   per image
//	image data               BITMAPINFOHEADER + BGRA rows bottom-up + AND mask
//
// Embedded bitmaps declare twice their real height to account for the AND mask.
package ico

import "errors"

const (
	headerSize     = 6
	entrySize      = 16
	bitmapInfoSize = 40

	// singleDataOffset is where the image data starts in a one-image file.
	singleDataOffset = headerSize + entrySize

	resourceTypeIcon = 1
	bitsPerPixel     = 32
	bytesPerPixel    = bitsPerPixel / 8
	colorPlanes      = 1
)

// ErrMalformed is returned when icon data cannot be parsed.
var ErrMalformed = errors.New("malformed icon data")

type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type iconDirEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// MaskSize returns the byte length of the AND mask for a square bitmap.
func MaskSize(edge int) int {
	return (edge + 7) / 8 * edge
}

// PixelDataSize returns the byte length of the BGRA pixel rows.
func PixelDataSize(edge int) int {
	return edge * edge * bytesPerPixel
}

// ImageDataSize returns the byte length of one embedded bitmap.
func ImageDataSize(edge int) int {
	return bitmapInfoSize + PixelDataSize(edge) + MaskSize(edge)
}
