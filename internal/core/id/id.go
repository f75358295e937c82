// Package id generates document identifiers for stores that do not assign their own.
// UUIDv7 is time-ordered, so GetAll on such stores comes back roughly in creation order.
package id

import (
	"github.com/google/uuid"
)

// New generates a new UUIDv7 string.
func New() string {
	v, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.NewString()
	}
	return v.String()
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
