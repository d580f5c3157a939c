package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the document collection holding patient records.
type Repository interface {
	// Create assigns ID and CreatedAt and persists the record.
	Create(ctx context.Context, p *Patient) error
	// List returns every record ordered by descending ID.
	List(ctx context.Context) ([]*Patient, error)
	// Delete removes the record, or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}
