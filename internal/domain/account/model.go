package account

import (
	"time"

	"github.com/google/uuid"
)

// Account maps to the accounts table. The password hash never leaves the
// server.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Profile maps to the profiles table, keyed by account id. Its fields are the
// patient details copied onto appointments at booking time.
type Profile struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Mobile   string    `db:"mobile" json:"mobile"`
}
