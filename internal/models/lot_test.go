// internal/models/lot_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danalakshmi/freshtrack-backend/internal/apperrors"
)

func validLot() Lot {
	return Lot{
		LotNumber:       "LOT-20260301-ABC123",
		ReceptionDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate:  time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		InitialQuantity: 100,
		CurrentQuantity: 100,
		Status:          LotStatusActive,
	}
}

func TestLotValidate(t *testing.T) {
	lot := validLot()
	assert.NoError(t, lot.Validate())

	lot = validLot()
	lot.InitialQuantity = 0
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(lot.Validate()))

	lot = validLot()
	lot.CurrentQuantity = -1
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(lot.Validate()))

	lot = validLot()
	lot.CurrentQuantity = 150
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(lot.Validate()))

	lot = validLot()
	lot.ExpirationDate = lot.ReceptionDate.AddDate(0, 0, -1)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(lot.Validate()))

	// Same-day reception and expiration is allowed.
	lot = validLot()
	lot.ExpirationDate = lot.ReceptionDate
	assert.NoError(t, lot.Validate())

	lot = validLot()
	lot.Status = "unknown"
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(lot.Validate()))
}

func TestApplySalePartialThenFull(t *testing.T) {
	lot := validLot()
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	require.NoError(t, lot.ApplySale(40, "morning market", now))
	assert.Equal(t, 60.0, lot.CurrentQuantity)
	assert.Equal(t, LotStatusActive, lot.Status)
	assert.Nil(t, lot.SoldDate)
	assert.Equal(t, "partial sale: morning market", lot.Notes)

	require.NoError(t, lot.ApplySale(60, "", now))
	assert.Equal(t, 0.0, lot.CurrentQuantity)
	assert.Equal(t, LotStatusSold, lot.Status)
	require.NotNil(t, lot.SoldDate)
	assert.Equal(t, now, *lot.SoldDate)
	assert.Equal(t, "partial sale: morning market | sold out", lot.Notes)
}

func TestApplySaleRejections(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	lot := validLot()
	lot.Status = LotStatusSold
	err := lot.ApplySale(10, "", now)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	lot = validLot()
	err = lot.ApplySale(0, "", now)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	lot = validLot()
	err = lot.ApplySale(-5, "", now)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	lot = validLot()
	err = lot.ApplySale(101, "", now)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	// A rejected sale must not touch the lot.
	assert.Equal(t, 100.0, lot.CurrentQuantity)
	assert.Equal(t, LotStatusActive, lot.Status)
}

func TestAppendNote(t *testing.T) {
	lot := Lot{}
	lot.AppendNote("withdrawn", "damaged packaging")
	assert.Equal(t, "withdrawn: damaged packaging", lot.Notes)

	lot.AppendNote("restocked", "")
	assert.Equal(t, "withdrawn: damaged packaging | restocked", lot.Notes)
}
