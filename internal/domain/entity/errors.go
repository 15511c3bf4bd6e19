package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a source is rejected before any processing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidImageDimensions is returned for zero-area or non-square surfaces.
	ErrInvalidImageDimensions = errors.New("invalid image dimensions")
	// ErrMissingSurface means a requested size had no surface when encoding started.
	ErrMissingSurface = errors.New("missing surface")
	// ErrEncodingFailure is returned when a raster export produced no data.
	ErrEncodingFailure = errors.New("encoding failure")
	// ErrUndecodable is returned when source bytes are not a readable image.
	ErrUndecodable = errors.New("source cannot be decoded")
	// ErrNoArtifacts is returned when every size of a run failed.
	ErrNoArtifacts = errors.New("no icon sizes were generated")
)

// ValidationRule names the source check that failed.
type ValidationRule string

const (
	RuleMediaType ValidationRule = "media_type"
	RuleMaxSize   ValidationRule = "max_size"
	RuleEmpty     ValidationRule = "empty"
	RuleMaxPixels ValidationRule = "max_pixels"
)

// ValidationError describes why a source was rejected.
type ValidationError struct {
	Rule   ValidationRule
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input (%s): %s", e.Rule, e.Detail)
}

// Is makes errors.Is(err, ErrInvalidInput) hold for every ValidationError.
func (*ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// SizeError ties a pipeline failure to the size it happened on.
type SizeError struct {
	Size IconSize
	Err  error
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("size %s: %v", e.Size.Label(), e.Err)
}

func (e *SizeError) Unwrap() error {
	return e.Err
}

// ValidationRuleOf returns the failed rule when err carries a ValidationError.
func ValidationRuleOf(err error) (ValidationRule, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Rule, true
	}
	return "", false
}
