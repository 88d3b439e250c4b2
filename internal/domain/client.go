package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of the account.
type Client struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Worker is a field worker belonging to an account. Workers appear as job
// assignees and time-entry owners.
type Worker struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Name      string
	Email     string
	Role      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
