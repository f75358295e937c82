// Package user provides application users: the email known to the identity
// provider joined with the flags this application controls.
package user

import (
	"context"
	"strings"

	"procurement/internal/core/entity"
)

// EmailField is the join key between the identity provider and the users collection.
const EmailField = "email"

// User is a person allowed to sign in.
type User struct {
	entity.Base

	Email   string `doc:"email" json:"email" validate:"required,email"`
	IsAdmin bool   `doc:"isAdmin" json:"isAdmin"`
	Blocked bool   `doc:"blocked" json:"blocked"`
}

// NewUser creates a non-admin, unblocked user.
func NewUser(email string) *User {
	return &User{Email: email}
}

func (u *User) Normalize() {
	u.Email = NormalizeEmail(u.Email)
}

// Validate implements entity.Validatable interface.
func (u *User) Validate(ctx context.Context) error {
	return entity.ValidateStruct(u)
}

// NormalizeEmail lower-cases and trims an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
