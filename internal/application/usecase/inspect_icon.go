package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/ico"
	"github.com/bnema/ico256/internal/logging"
)

// InspectIconInput holds an icon file's bytes.
type InspectIconInput struct {
	Data []byte
	// Decode also reads the pixels of every image.
	Decode bool
}

// InspectIconOutput describes an icon container.
type InspectIconOutput struct {
	Entries    []entity.DirectoryEntry
	Images     []ico.DecodedImage
	TotalBytes int
}

// InspectIconUseCase reads the directory of an icon file.
type InspectIconUseCase struct{}

// NewInspectIconUseCase creates a new InspectIconUseCase.
func NewInspectIconUseCase() *InspectIconUseCase {
	return &InspectIconUseCase{}
}

// Execute parses the directory and, when asked, decodes every image.
func (*InspectIconUseCase) Execute(ctx context.Context, input InspectIconInput) (*InspectIconOutput, error) {
	entries, err := ico.ReadDirectory(input.Data)
	if err != nil {
		return nil, err
	}

	out := &InspectIconOutput{Entries: entries, TotalBytes: len(input.Data)}
	if input.Decode {
		images, err := ico.Decode(bytes.NewReader(input.Data))
		if err != nil {
			return nil, fmt.Errorf("decode icon images: %w", err)
		}
		out.Images = images
	}

	logging.FromContext(ctx).Debug().
		Int("images", len(entries)).
		Int("bytes", len(input.Data)).
		Msg("icon inspected")
	return out, nil
}
