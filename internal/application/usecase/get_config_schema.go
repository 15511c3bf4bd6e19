package usecase

import (
	"context"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/entity"
)

// GetConfigSchemaUseCase retrieves configuration schema information.
type GetConfigSchemaUseCase struct {
	provider port.ConfigSchemaProvider
}

// NewGetConfigSchemaUseCase creates a new GetConfigSchemaUseCase.
func NewGetConfigSchemaUseCase(provider port.ConfigSchemaProvider) *GetConfigSchemaUseCase {
	return &GetConfigSchemaUseCase{
		provider: provider,
	}
}

// GetConfigSchemaInput contains input parameters for schema retrieval.
type GetConfigSchemaInput struct {
	// Section limits the keys to one section when set.
	Section string
	// IncludeJSONSchema also renders the JSON Schema document.
	IncludeJSONSchema bool
}

// GetConfigSchemaOutput contains the schema information.
type GetConfigSchemaOutput struct {
	Keys       []entity.ConfigKeyInfo
	JSONSchema []byte
}

// Execute retrieves configuration keys with their metadata.
func (uc *GetConfigSchemaUseCase) Execute(_ context.Context, input GetConfigSchemaInput) (*GetConfigSchemaOutput, error) {
	keys := uc.provider.GetSchema()
	if input.Section != "" {
		filtered := keys[:0:0]
		for _, k := range keys {
			if k.Section == input.Section {
				filtered = append(filtered, k)
			}
		}
		keys = filtered
	}

	out := &GetConfigSchemaOutput{Keys: keys}
	if input.IncludeJSONSchema {
		doc, err := uc.provider.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.JSONSchema = doc
	}
	return out, nil
}
