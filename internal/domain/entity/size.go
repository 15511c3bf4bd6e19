package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// IconSize is the edge length, in pixels, of one icon rendition.
type IconSize int

// Conventional icon sizes, ascending.
const (
	Size16  IconSize = 16
	Size32  IconSize = 32
	Size48  IconSize = 48
	Size64  IconSize = 64
	Size128 IconSize = 128
	Size256 IconSize = 256
)

// StandardSizes returns every supported size in ascending order.
// A fresh slice is returned so callers may sort or trim it freely.
func StandardSizes() []IconSize {
	return []IconSize{Size16, Size32, Size48, Size64, Size128, Size256}
}

// Band is the resampling strategy selected for a size.
type Band int

const (
	// BandSmall covers edges up to 32px: supersampled, sharpened, point-sampled.
	BandSmall Band = iota
	// BandMedium covers 33..128px: a single high-quality resample.
	BandMedium
	// BandLarge covers edges above 128px: resample followed by an unsharp mask.
	BandLarge
)

const (
	smallBandMaxEdge  = 32
	mediumBandMaxEdge = 128

	// SharpenMaxEdge is the largest edge that receives the generic sharpen pass.
	SharpenMaxEdge = 64
)

func (b Band) String() string {
	switch b {
	case BandSmall:
		return "small"
	case BandMedium:
		return "medium"
	case BandLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Band returns the resampling band for the size.
func (s IconSize) Band() Band {
	switch {
	case int(s) <= smallBandMaxEdge:
		return BandSmall
	case int(s) <= mediumBandMaxEdge:
		return BandMedium
	default:
		return BandLarge
	}
}

// NeedsSharpen reports whether the generic sharpen pass applies to this size.
func (s IconSize) NeedsSharpen() bool {
	return int(s) <= SharpenMaxEdge
}

// IsStandard reports whether s is one of StandardSizes.
func (s IconSize) IsStandard() bool {
	for _, std := range StandardSizes() {
		if s == std {
			return true
		}
	}
	return false
}

// Label returns the conventional "NxN" label.
func (s IconSize) Label() string {
	return fmt.Sprintf("%dx%d", int(s), int(s))
}

// ParseIconSize parses a single size, accepting "32" or "32x32".
func ParseIconSize(value string) (IconSize, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if w, h, ok := strings.Cut(v, "x"); ok {
		if w != h {
			return 0, fmt.Errorf("icon size %q is not square", value)
		}
		v = w
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid icon size %q: %w", value, err)
	}

	size := IconSize(n)
	if !size.IsStandard() {
		return 0, fmt.Errorf("unsupported icon size %d (supported: %s)", n, FormatSizes(StandardSizes()))
	}
	return size, nil
}

// ParseIconSizes parses a list of sizes, dropping duplicates and sorting ascending.
// An empty list yields StandardSizes.
func ParseIconSizes(values []string) ([]IconSize, error) {
	if len(values) == 0 {
		return StandardSizes(), nil
	}

	seen := make(map[IconSize]bool, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			size, err := ParseIconSize(part)
			if err != nil {
				return nil, err
			}
			seen[size] = true
		}
	}

	sizes := make([]IconSize, 0, len(seen))
	for _, std := range StandardSizes() {
		if seen[std] {
			sizes = append(sizes, std)
		}
	}
	if len(sizes) == 0 {
		return StandardSizes(), nil
	}
	return sizes, nil
}

// SizesFromInts converts config values into sizes, validating each one.
func SizesFromInts(values []int) ([]IconSize, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return ParseIconSizes(parts)
}

// FormatSizes joins sizes as "16,32,48".
func FormatSizes(sizes []IconSize) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(int(s))
	}
	return strings.Join(parts, ",")
}
