package types

import (
	"time"

	"github.com/google/uuid"
)

// User is the API view of an account, without the password hash.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Prenom    string    `json:"prenom"`
	Nom       string    `json:"nom"`
	Telephone string    `json:"telephone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Prenom    string `json:"prenom" validate:"required"`
	Nom       string `json:"nom" validate:"required"`
	Telephone string `json:"telephone"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the authenticated user and their token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
