package entity

import (
	"fmt"
	"strings"
)

// Background controls what fills the padding around the source image.
type Background string

const (
	// BackgroundWhite pads with opaque white.
	BackgroundWhite Background = "white"
	// BackgroundTransparent pads with fully transparent pixels.
	BackgroundTransparent Background = "transparent"
)

// IsOpaque reports whether the padding is filled with solid white.
func (b Background) IsOpaque() bool {
	return b != BackgroundTransparent
}

// ParseBackground accepts the config and flag spellings of a background mode.
func ParseBackground(value string) (Background, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "white", "opaque":
		return BackgroundWhite, nil
	case "transparent", "none", "remove":
		return BackgroundTransparent, nil
	default:
		return "", fmt.Errorf("unknown background mode %q (expected white or transparent)", value)
	}
}
