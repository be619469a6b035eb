// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidBarcode(t *testing.T) {
	assert.True(t, ValidBarcode("3017620422003"))
	assert.True(t, ValidBarcode("ABC-123_x"))

	// Absence of a barcode is a nil pointer, never an empty string.
	assert.False(t, ValidBarcode(""))
	assert.False(t, ValidBarcode("has space"))
	assert.False(t, ValidBarcode("é123"))
	assert.False(t, ValidBarcode("code;drop"))
}

func TestIsProtectedParameter(t *testing.T) {
	assert.True(t, IsProtectedParameter(ParamAlertUrgent))
	assert.True(t, IsProtectedParameter(ParamAlertLow))
	assert.True(t, IsProtectedParameter(ParamColorExpired))
	assert.True(t, IsProtectedParameter(ParamColorLow))

	assert.False(t, IsProtectedParameter("company_name"))
	assert.False(t, IsProtectedParameter(""))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, LotStatusActive.IsValid())
	assert.True(t, LotStatusWithdrawn.IsValid())
	assert.False(t, LotStatus("archived").IsValid())

	assert.True(t, UnitKilogram.IsValid())
	assert.False(t, UnitOfMeasure("ton").IsValid())

	assert.True(t, ParameterTypeColor.IsValid())
	assert.False(t, ParameterType("blob").IsValid())
}
