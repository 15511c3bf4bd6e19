package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/bnema/ico256/internal/domain/entity"
)

// EncodeSingle serializes one square surface as a one-image icon file.
func EncodeSingle(s *entity.Surface) ([]byte, error) {
	payload, err := encodeImage(s)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, singleDataOffset+len(payload)))
	entry := newEntry(s.Edge(), len(payload), singleDataOffset)
	if err := writeDirectory(buf, []iconDirEntry{entry}); err != nil {
		return nil, err
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

// EncodeMulti serializes the surfaces for sizes into one container.
// Entries are written in ascending edge order whatever the order of sizes;
// duplicate sizes are written once.
func EncodeMulti(sizes []entity.IconSize, surfaces map[entity.IconSize]*entity.Surface) ([]byte, []entity.DirectoryEntry, error) {
	if len(sizes) == 0 {
		return nil, nil, fmt.Errorf("%w: no sizes to encode", entity.ErrEncodingFailure)
	}

	ordered := slices.Clone(sizes)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	payloads := make([][]byte, len(ordered))
	for i, size := range ordered {
		s, ok := surfaces[size]
		if !ok || s == nil {
			return nil, nil, &entity.SizeError{Size: size, Err: entity.ErrMissingSurface}
		}
		if s.Edge() != int(size) {
			return nil, nil, &entity.SizeError{
				Size: size,
				Err:  fmt.Errorf("%w: surface is %dx%d", entity.ErrInvalidImageDimensions, s.Width(), s.Height()),
			}
		}

		// Same bytes as EncodeSingle minus its file header and entry.
		single, err := EncodeSingle(s)
		if err != nil {
			return nil, nil, &entity.SizeError{Size: size, Err: err}
		}
		payloads[i] = single[singleDataOffset:]
	}

	entries := make([]iconDirEntry, len(ordered))
	offset := headerSize + entrySize*len(ordered)
	total := offset
	for i, size := range ordered {
		entries[i] = newEntry(int(size), len(payloads[i]), offset)
		offset += len(payloads[i])
		total += len(payloads[i])
	}

	buf := bytes.NewBuffer(make([]byte, 0, total))
	if err := writeDirectory(buf, entries); err != nil {
		return nil, nil, err
	}
	for _, p := range payloads {
		buf.Write(p)
	}

	directory := make([]entity.DirectoryEntry, len(entries))
	for i, e := range entries {
		directory[i] = e.toEntity()
	}
	return buf.Bytes(), directory, nil
}

func newEntry(edge, size, offset int) iconDirEntry {
	return iconDirEntry{
		Width:      entity.EncodeEdge(edge),
		Height:     entity.EncodeEdge(edge),
		Planes:     colorPlanes,
		BitCount:   bitsPerPixel,
		BytesInRes: uint32(size),
		Offset:     uint32(offset),
	}
}

func (e iconDirEntry) toEntity() entity.DirectoryEntry {
	return entity.DirectoryEntry{
		Width:      e.Width,
		Height:     e.Height,
		ColorCount: e.ColorCount,
		Planes:     e.Planes,
		BitCount:   e.BitCount,
		Size:       e.BytesInRes,
		Offset:     e.Offset,
	}
}

func writeDirectory(buf *bytes.Buffer, entries []iconDirEntry) error {
	hdr := iconDir{Type: resourceTypeIcon, Count: uint16(len(entries))}
	if err := binary.Write(buf, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("write icon header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, entries); err != nil {
		return fmt.Errorf("write icon directory: %w", err)
	}
	return nil
}

// encodeImage emits the bitmap header, the pixel rows and the AND mask.
func encodeImage(s *entity.Surface) ([]byte, error) {
	if s == nil || s.Edge() == 0 {
		return nil, fmt.Errorf("%w: icon surfaces must be square", entity.ErrInvalidImageDimensions)
	}
	edge := s.Edge()

	buf := bytes.NewBuffer(make([]byte, 0, ImageDataSize(edge)))
	bih := bitmapInfoHeader{
		Size:      bitmapInfoSize,
		Width:     int32(edge),
		Height:    int32(edge * 2),
		Planes:    colorPlanes,
		BitCount:  bitsPerPixel,
		SizeImage: uint32(PixelDataSize(edge)),
	}
	if err := binary.Write(buf, binary.LittleEndian, bih); err != nil {
		return nil, fmt.Errorf("write bitmap header: %w", err)
	}

	pix := s.Pix()
	row := make([]byte, edge*bytesPerPixel)
	for y := edge - 1; y >= 0; y-- {
		for x := 0; x < edge; x++ {
			i := s.Offset(x, y)
			j := x * bytesPerPixel
			row[j] = pix[i+2]
			row[j+1] = pix[i+1]
			row[j+2] = pix[i]
			row[j+3] = pix[i+3]
		}
		buf.Write(row)
	}

	buf.Write(make([]byte, MaskSize(edge)))
	return buf.Bytes(), nil
}
