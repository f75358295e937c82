// Package contact provides the Contact catalog: people reachable at a supplier.
package contact

import (
	"context"
	"strings"

	"procurement/internal/core/entity"
	"procurement/internal/domain/catalogs/supplier"
)

// Contact is a person at a supplier.
type Contact struct {
	entity.Base

	Name   string `doc:"name" json:"name" validate:"required"`
	Email  string `doc:"email" json:"email" validate:"required,email"`
	Phone  string `doc:"phone" json:"phone" validate:"required,min=14"`
	Active bool   `doc:"active" json:"active"`

	SupplierID string `doc:"supplierId" json:"supplierId" validate:"required"`

	// Supplier is resolved on read and never stored.
	Supplier *supplier.Supplier `doc:"-" json:"supplier,omitempty"`
}

// NewContact creates an active Contact for a supplier.
func NewContact(name, email, phone, supplierID string) *Contact {
	return &Contact{
		Name:       name,
		Email:      email,
		Phone:      phone,
		Active:     true,
		SupplierID: supplierID,
	}
}

// Patch is a partial update of a Contact. Nil fields are left unchanged.
type Patch struct {
	Name       *string `doc:"name"`
	Email      *string `doc:"email"`
	Phone      *string `doc:"phone"`
	Active     *bool   `doc:"active"`
	SupplierID *string `doc:"supplierId"`
}

// WithSupplier returns a copy of c with the supplier attached.
func (c *Contact) WithSupplier(s *supplier.Supplier) *Contact {
	cp := *c
	cp.Supplier = s
	return &cp
}

func (c *Contact) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
}

// Validate implements entity.Validatable interface.
func (c *Contact) Validate(ctx context.Context) error {
	return entity.ValidateStruct(c)
}
