package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered customer. Email is unique across all users.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser carries the fields the store needs to insert a user.
type NewUser struct {
	Name  string
	Email string
}
