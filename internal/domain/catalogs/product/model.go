// Package product provides the Product catalog.
package product

import (
	"context"
	"strings"

	"procurement/internal/core/apperror"
	"procurement/internal/core/entity"
)

// MeasurementUnit is the unit a product is requested in.
// Stored values carry the code and the Portuguese name, as existing data does.
type MeasurementUnit string

const (
	UnitPiece       MeasurementUnit = "UN (Unidade)"
	UnitTon         MeasurementUnit = "T (Tonelada)"
	UnitKilogram    MeasurementUnit = "KG (Quilograma)"
	UnitLiter       MeasurementUnit = "L (Litro)"
	UnitMilliliter  MeasurementUnit = "ML (Mililitro)"
	UnitCentimeter  MeasurementUnit = "CM (Centímetro)"
	UnitMeter       MeasurementUnit = "M (Metro linear)"
	UnitSquareMeter MeasurementUnit = "M² (Metro quadrado)"
	UnitCubicMeter  MeasurementUnit = "M³ (Metro cúbico)"
	UnitBox         MeasurementUnit = "CX (Caixa)"
	UnitDozen       MeasurementUnit = "DZ (Dúzia)"
	UnitThousand    MeasurementUnit = "MI (Milheiro)"
)

// MeasurementUnits lists every accepted unit in display order.
var MeasurementUnits = []MeasurementUnit{
	UnitPiece, UnitTon, UnitKilogram, UnitLiter, UnitMilliliter, UnitCentimeter,
	UnitMeter, UnitSquareMeter, UnitCubicMeter, UnitBox, UnitDozen, UnitThousand,
}

// Code returns the short code ("KG", "M³").
func (u MeasurementUnit) Code() string {
	code, _, _ := strings.Cut(string(u), " ")
	return code
}

// IsValid reports whether u is one of MeasurementUnits.
func (u MeasurementUnit) IsValid() bool {
	for _, m := range MeasurementUnits {
		if u == m {
			return true
		}
	}
	return false
}

// ParseMeasurementUnit accepts a stored value or a bare code (case-insensitive).
func ParseMeasurementUnit(s string) (MeasurementUnit, bool) {
	s = strings.TrimSpace(s)
	for _, m := range MeasurementUnits {
		if string(m) == s || strings.EqualFold(m.Code(), s) {
			return m, true
		}
	}
	return "", false
}

// Product is an item that can be requested and quoted.
type Product struct {
	entity.Base

	Name            string          `doc:"name" json:"name" validate:"required"`
	Description     string          `doc:"description" json:"description" validate:"required"`
	Observations    string          `doc:"observations" json:"observations,omitempty"`
	Active          bool            `doc:"active" json:"active"`
	MeasurementUnit MeasurementUnit `doc:"measurementUnit" json:"measurementUnit" validate:"required"`
}

// NewProduct creates an active Product.
func NewProduct(name, description string, unit MeasurementUnit) *Product {
	return &Product{
		Name:            name,
		Description:     description,
		Active:          true,
		MeasurementUnit: unit,
	}
}

// Patch is a partial update of a Product. Nil fields are left unchanged.
type Patch struct {
	Name            *string          `doc:"name"`
	Description     *string          `doc:"description"`
	Observations    *string          `doc:"observations"`
	Active          *bool            `doc:"active"`
	MeasurementUnit *MeasurementUnit `doc:"measurementUnit"`
}

func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if u, ok := ParseMeasurementUnit(string(p.MeasurementUnit)); ok {
		p.MeasurementUnit = u
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := entity.ValidateStruct(p); err != nil {
		return err
	}
	if !p.MeasurementUnit.IsValid() {
		return apperror.NewValidation("invalid measurement unit").
			WithDetail("field", "measurementUnit").
			WithDetail("value", string(p.MeasurementUnit))
	}
	return nil
}
