package port

import "github.com/bnema/ico256/internal/domain/entity"

// ConfigSchemaProvider provides configuration schema information.
type ConfigSchemaProvider interface {
	// GetSchema returns all configuration keys with their metadata.
	GetSchema() []entity.ConfigKeyInfo
	// JSONSchema returns the JSON Schema document of the config file.
	JSONSchema() ([]byte, error)
}
