// Package entity holds the identity and validation contracts shared by every stored entity.
package entity

import (
	"context"
	"reflect"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without store access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identifiable is implemented by entities whose id is assigned by the document store.
type Identifiable interface {
	GetID() string
	SetID(id string)
}

// Entity is the constraint of the generic repository.
type Entity interface {
	Identifiable
	Validatable
}

// Base carries the store-assigned identifier on the in-memory value.
// The id is never written into the document body.
type Base struct {
	ID string `doc:"-" json:"id"`
}

// GetID returns the document id (empty before create).
func (b *Base) GetID() string {
	return b.ID
}

// SetID is called by the repository after create and after every read.
func (b *Base) SetID(id string) {
	b.ID = id
}

// IsNew reports whether the entity has not been stored yet.
func (b *Base) IsNew() bool {
	return b.ID == ""
}

// IsNil reports whether v is nil or a typed nil pointer.
// Repositories return a nil pointer for a missing document.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
