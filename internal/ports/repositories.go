package ports

import (
	"context"

	"github.com/agilstore/core/internal/domain/entities"
)

// DocumentStore defines the persistence boundary for the inventory document
type DocumentStore interface {
	// EnsureExists creates the backing file with an empty document when absent
	EnsureExists(ctx context.Context) error
	// Load reads the document, repairing or resetting it when the file is damaged
	Load(ctx context.Context) (*entities.Document, error)
	// Save overwrites the backing file with the whole document
	Save(ctx context.Context, doc *entities.Document) error
	// Location returns where the document lives
	Location() string
}

// ListFilter narrows and orders a product listing
type ListFilter struct {
	Category string
	SortBy   entities.SortField
}
