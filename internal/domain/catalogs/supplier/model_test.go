package supplier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"procurement/internal/core/apperror"
)

func TestFormatTaxDocument(t *testing.T) {
	tests := []struct {
		name string
		typ  SupplierType
		in   string
		want string
	}{
		{"cpf digits", TypeIndividual, "12345678901", "123.456.789-01"},
		{"cpf masked", TypeIndividual, "123.456.789-01", "123.456.789-01"},
		{"cnpj digits", TypeOrganization, "12345678000199", "12.345.678/0001-99"},
		{"cnpj digits on individual", TypeIndividual, "12345678000199", "12345678000199"},
		{"short", TypeOrganization, " 123 ", "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTaxDocument(tt.typ, tt.in))
		})
	}
}

func TestSupplier_Validate(t *testing.T) {
	ctx := context.Background()

	valid := NewSupplier("Casa do Construtor", TypeOrganization, "12345678000199", "Curitiba", "pr", "80000000")
	valid.Normalize()
	assert.NoError(t, valid.Validate(ctx))
	assert.Equal(t, "PR", valid.State)
	assert.Equal(t, "80000-000", valid.PostalCode)

	wrongMask := NewSupplier("João", TypeIndividual, "12.345.678/0001-99", "Curitiba", "PR", "80000-000")
	err := wrongMask.Validate(ctx)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "document", appErr.Details["field"])

	badType := NewSupplier("X", SupplierType("Outro"), "123.456.789-01", "Curitiba", "PR", "80000-000")
	assert.Error(t, badType.Validate(ctx))

	badState := NewSupplier("X", TypeIndividual, "123.456.789-01", "Curitiba", "PRN", "80000-000")
	assert.Error(t, badState.Validate(ctx))

	missingName := NewSupplier("", TypeIndividual, "123.456.789-01", "Curitiba", "PR", "80000-000")
	err = missingName.Validate(ctx)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "name", appErr.Details["field"])
}
