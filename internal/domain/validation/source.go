// Package validation holds the checks run on sources and settings before
// any work starts.
package validation

import (
	"fmt"
	"mime"
	"slices"
	"strings"

	"github.com/bnema/ico256/internal/domain/entity"
)

// MaxSourceBytes is the hard ceiling on source size (15 MiB).
const MaxSourceBytes int64 = 15 << 20

// MaxSourcePixels is the hard ceiling on decoded source area (6000x6000).
const MaxSourcePixels int64 = 36_000_000

var acceptedMediaTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/svg+xml",
	"image/webp",
}

// AcceptedMediaTypes returns the media types a source may declare.
func AcceptedMediaTypes() []string {
	return slices.Clone(acceptedMediaTypes)
}

// NormalizeMediaType strips parameters and lowercases a declared type.
// "image/PNG; charset=binary" becomes "image/png".
func NormalizeMediaType(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(declared)
	}
	return mediaType
}

// IsAcceptedMediaType reports whether declared is one of the accepted types.
func IsAcceptedMediaType(declared string) bool {
	return slices.Contains(acceptedMediaTypes, NormalizeMediaType(declared))
}

// EffectiveLimit clamps a configured ceiling to (0, MaxSourceBytes].
// Configuration may lower the ceiling, never raise it.
func EffectiveLimit(limit int64) int64 {
	if limit <= 0 || limit > MaxSourceBytes {
		return MaxSourceBytes
	}
	return limit
}

// ValidateSource checks the declared media type and byte length of a source.
// The media type is checked first so an oversized file of the wrong type
// reports the type problem.
func ValidateSource(declared string, size, limit int64) error {
	mediaType := NormalizeMediaType(declared)
	if !slices.Contains(acceptedMediaTypes, mediaType) {
		shown := mediaType
		if shown == "" {
			shown = "unknown"
		}
		return &entity.ValidationError{
			Rule:   entity.RuleMediaType,
			Detail: fmt.Sprintf("%s is not supported (accepted: %s)", shown, strings.Join(acceptedMediaTypes, ", ")),
		}
	}

	if size <= 0 {
		return &entity.ValidationError{Rule: entity.RuleEmpty, Detail: "source is empty"}
	}

	limit = EffectiveLimit(limit)
	if size > limit {
		return &entity.ValidationError{
			Rule:   entity.RuleMaxSize,
			Detail: fmt.Sprintf("source is %s, limit is %s", FormatBytes(size), FormatBytes(limit)),
		}
	}
	return nil
}

// EffectivePixelLimit clamps a configured area ceiling to (0, MaxSourcePixels].
func EffectivePixelLimit(limit int64) int64 {
	if limit <= 0 || limit > MaxSourcePixels {
		return MaxSourcePixels
	}
	return limit
}

// ValidateDimensions checks the decoded area of a source against limit.
// It runs on header dimensions, before any pixel buffer is allocated.
func ValidateDimensions(width, height int, limit int64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", entity.ErrInvalidImageDimensions, width, height)
	}
	limit = EffectivePixelLimit(limit)
	if int64(width)*int64(height) > limit {
		return &entity.ValidationError{
			Rule:   entity.RuleMaxPixels,
			Detail: fmt.Sprintf("source is %dx%d, limit is %d pixels", width, height, limit),
		}
	}
	return nil
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
