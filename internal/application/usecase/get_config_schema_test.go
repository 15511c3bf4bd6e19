package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/entity"
)

type fakeSchemaProvider struct {
	keys    []entity.ConfigKeyInfo
	doc     []byte
	docErr  error
	docRead bool
}

func (p *fakeSchemaProvider) GetSchema() []entity.ConfigKeyInfo { return p.keys }

func (p *fakeSchemaProvider) JSONSchema() ([]byte, error) {
	p.docRead = true
	return p.doc, p.docErr
}

func schemaKeys() []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "conversion.background",
			Type:        "string",
			Default:     "white",
			Description: "Padding fill around the source",
			Values:      []string{"white", "transparent"},
			Section:     "Conversion",
		},
		{
			Key:         "logging.level",
			Type:        "string",
			Default:     "info",
			Description: "Log verbosity level",
			Values:      []string{"trace", "debug", "info", "warn", "error", "fatal"},
			Section:     "Logging",
		},
	}
}

func TestGetConfigSchemaUseCase_Execute(t *testing.T) {
	t.Run("returns schema keys from provider", func(t *testing.T) {
		provider := &fakeSchemaProvider{keys: schemaKeys()}
		uc := usecase.NewGetConfigSchemaUseCase(provider)

		result, err := uc.Execute(context.Background(), usecase.GetConfigSchemaInput{})

		require.NoError(t, err)
		require.Len(t, result.Keys, 2)
		assert.Equal(t, "conversion.background", result.Keys[0].Key)
		assert.Equal(t, "logging.level", result.Keys[1].Key)
		assert.Nil(t, result.JSONSchema)
		assert.False(t, provider.docRead)
	})

	t.Run("filters by section", func(t *testing.T) {
		provider := &fakeSchemaProvider{keys: schemaKeys()}
		uc := usecase.NewGetConfigSchemaUseCase(provider)

		result, err := uc.Execute(context.Background(), usecase.GetConfigSchemaInput{Section: "Logging"})

		require.NoError(t, err)
		require.Len(t, result.Keys, 1)
		assert.Equal(t, "logging.level", result.Keys[0].Key)
		assert.Len(t, provider.keys, 2, "provider slice must not be modified")
	})

	t.Run("handles empty schema", func(t *testing.T) {
		uc := usecase.NewGetConfigSchemaUseCase(&fakeSchemaProvider{})

		result, err := uc.Execute(context.Background(), usecase.GetConfigSchemaInput{})

		require.NoError(t, err)
		assert.Empty(t, result.Keys)
	})

	t.Run("includes json schema", func(t *testing.T) {
		provider := &fakeSchemaProvider{keys: schemaKeys(), doc: []byte(`{"type":"object"}`)}
		uc := usecase.NewGetConfigSchemaUseCase(provider)

		result, err := uc.Execute(context.Background(), usecase.GetConfigSchemaInput{IncludeJSONSchema: true})

		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"object"}`, string(result.JSONSchema))
	})

	t.Run("json schema error", func(t *testing.T) {
		provider := &fakeSchemaProvider{docErr: assert.AnError}
		uc := usecase.NewGetConfigSchemaUseCase(provider)

		_, err := uc.Execute(context.Background(), usecase.GetConfigSchemaInput{IncludeJSONSchema: true})

		assert.ErrorIs(t, err, assert.AnError)
	})
}
