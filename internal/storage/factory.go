// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/galaxygarden/nbody-datagen/internal/config"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.OutputConfig) (Backend, error) {
	switch cfg.Type {
	case "", "file":
		return NewFileBackend(cfg), nil
	case "discard":
		return DiscardBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown output type: %s", cfg.Type)
	}
}
