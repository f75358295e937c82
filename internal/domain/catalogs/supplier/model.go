// Package supplier provides the Supplier catalog: companies and individuals that quote products.
package supplier

import (
	"context"
	"regexp"
	"strings"

	"procurement/internal/core/apperror"
	"procurement/internal/core/entity"
)

// Pre-compiled patterns for tax document and postal code masks.
var (
	nonDigitRE = regexp.MustCompile(`\D`)
	cpfRE      = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	cnpjRE     = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	cepRE      = regexp.MustCompile(`^\d{5}-\d{3}$`)
)

// SupplierType distinguishes individuals (CPF) from organizations (CNPJ).
// Values match what is already stored in existing collections.
type SupplierType string

const (
	TypeIndividual   SupplierType = "Física"
	TypeOrganization SupplierType = "Jurídica"
)

// SupplierTypes lists the accepted values.
var SupplierTypes = []SupplierType{TypeIndividual, TypeOrganization}

// IsValid reports whether t is a known supplier type.
func (t SupplierType) IsValid() bool {
	return t == TypeIndividual || t == TypeOrganization
}

// DocumentLabel returns the name of the tax document for the type.
func (t SupplierType) DocumentLabel() string {
	if t == TypeOrganization {
		return "CNPJ"
	}
	return "CPF"
}

// Supplier represents a company or individual that sends quotations.
type Supplier struct {
	entity.Base

	Name         string       `doc:"name" json:"name" validate:"required"`
	Active       bool         `doc:"active" json:"active"`
	SupplierType SupplierType `doc:"supplierType" json:"supplierType" validate:"required"`

	// TaxDocument is a CPF (999.999.999-99) or CNPJ (99.999.999/9999-99) depending on SupplierType
	TaxDocument string `doc:"document" json:"document" validate:"required"`

	City  string `doc:"city" json:"city" validate:"required"`
	State string `doc:"state" json:"state" validate:"required,len=2,alpha"`

	// PostalCode is a CEP (99999-999)
	PostalCode string `doc:"cep" json:"cep" validate:"required"`
}

// NewSupplier creates an active Supplier.
func NewSupplier(name string, supplierType SupplierType, taxDocument, city, state, postalCode string) *Supplier {
	return &Supplier{
		Name:         name,
		Active:       true,
		SupplierType: supplierType,
		TaxDocument:  taxDocument,
		City:         city,
		State:        state,
		PostalCode:   postalCode,
	}
}

// Patch is a partial update of a Supplier. Nil fields are left unchanged.
type Patch struct {
	Name         *string       `doc:"name"`
	Active       *bool         `doc:"active"`
	SupplierType *SupplierType `doc:"supplierType"`
	TaxDocument  *string       `doc:"document"`
	City         *string       `doc:"city"`
	State        *string       `doc:"state"`
	PostalCode   *string       `doc:"cep"`
}

// Normalize trims input and applies the CPF/CNPJ/CEP masks to digits-only values.
func (s *Supplier) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.ToUpper(strings.TrimSpace(s.State))
	s.TaxDocument = FormatTaxDocument(s.SupplierType, s.TaxDocument)
	s.PostalCode = FormatPostalCode(s.PostalCode)
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := entity.ValidateStruct(s); err != nil {
		return err
	}

	if !s.SupplierType.IsValid() {
		return apperror.NewValidation("invalid supplier type").
			WithDetail("field", "supplierType").
			WithDetail("value", string(s.SupplierType))
	}

	if err := ValidateTaxDocument(s.SupplierType, s.TaxDocument); err != nil {
		return err
	}

	if !cepRE.MatchString(s.PostalCode) {
		return apperror.NewValidation("invalid postal code").
			WithDetail("field", "cep").
			WithDetail("expected", "99999-999")
	}

	return nil
}

// ValidateTaxDocument checks the document mask for the supplier type.
func ValidateTaxDocument(t SupplierType, doc string) error {
	re, mask := cpfRE, "999.999.999-99"
	if t == TypeOrganization {
		re, mask = cnpjRE, "99.999.999/9999-99"
	}
	if !re.MatchString(doc) {
		return apperror.NewValidation("invalid "+t.DocumentLabel()).
			WithDetail("field", "document").
			WithDetail("expected", mask)
	}
	return nil
}

// FormatTaxDocument applies the CPF or CNPJ mask when doc holds exactly the right
// number of digits. Anything else is returned trimmed and left to validation.
func FormatTaxDocument(t SupplierType, doc string) string {
	doc = strings.TrimSpace(doc)
	digits := nonDigitRE.ReplaceAllString(doc, "")

	switch {
	case t == TypeIndividual && len(digits) == 11:
		return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
	case t == TypeOrganization && len(digits) == 14:
		return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
	}
	return doc
}

// FormatPostalCode applies the CEP mask to an 8-digit value.
func FormatPostalCode(cep string) string {
	cep = strings.TrimSpace(cep)
	digits := nonDigitRE.ReplaceAllString(cep, "")
	if len(digits) == 8 {
		return digits[:5] + "-" + digits[5:]
	}
	return cep
}
