package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when an account already exists for the email.
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound is returned when an account or profile does not exist.
var ErrNotFound = errors.New("account not found")

type Repository interface {
	// CreateWithProfile inserts the account and its profile atomically,
	// returning ErrEmailTaken if the email is already registered.
	CreateWithProfile(ctx context.Context, a *Account, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error)
}
