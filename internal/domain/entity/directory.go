package entity

// Encoded directory byte for the 256px edge, which does not fit in a byte.
const directoryEdge256 = 0

// DirectoryEntry is one row of an icon container directory.
type DirectoryEntry struct {
	Width      uint8  `json:"width"`
	Height     uint8  `json:"height"`
	ColorCount uint8  `json:"color_count"`
	Planes     uint16 `json:"planes"`
	BitCount   uint16 `json:"bit_count"`
	Size       uint32 `json:"size"`
	Offset     uint32 `json:"offset"`
}

// EncodeEdge returns the directory byte for an edge length (256 encodes as 0).
func EncodeEdge(edge int) uint8 {
	if edge >= 256 {
		return directoryEdge256
	}
	return uint8(edge)
}

// DecodeEdge reverses EncodeEdge.
func DecodeEdge(b uint8) int {
	if b == directoryEdge256 {
		return 256
	}
	return int(b)
}

// EdgeWidth returns the decoded pixel width.
func (e DirectoryEntry) EdgeWidth() int { return DecodeEdge(e.Width) }

// EdgeHeight returns the decoded pixel height.
func (e DirectoryEntry) EdgeHeight() int { return DecodeEdge(e.Height) }

// End returns the offset just past the entry's data.
func (e DirectoryEntry) End() uint32 { return e.Offset + e.Size }
