package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a doctor does not exist.
var ErrNotFound = errors.New("doctor not found")

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	// GetByID returns ErrNotFound when no doctor has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Doctor, int, error)
	Facets(ctx context.Context) (*Facets, error)
}
