// internal/models/lot.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/danalakshmi/freshtrack-backend/internal/apperrors"
)

type Lot struct {
	BaseModel
	ProductID       uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	LotNumber       string     `json:"lot_number" gorm:"size:100;not null;uniqueIndex"`
	ExpirationDate  time.Time  `json:"expiration_date" gorm:"type:date;not null;index"`
	ReceptionDate   time.Time  `json:"reception_date" gorm:"type:date;not null"`
	InitialQuantity float64    `json:"initial_quantity" gorm:"type:decimal(10,2);not null"`
	CurrentQuantity float64    `json:"current_quantity" gorm:"type:decimal(10,2);not null"`
	PurchasePrice   *float64   `json:"purchase_price,omitempty" gorm:"type:decimal(10,2)"`
	Supplier        string     `json:"supplier" gorm:"size:255;index"`
	Status          LotStatus  `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	Notes           string     `json:"notes" gorm:"type:text"`
	SoldDate        *time.Time `json:"sold_date,omitempty"`

	// Cached alert flags, recomputed whenever the expiration date or
	// status changes. Derived from the classifier, never authoritative.
	AlertJ1  bool `json:"alert_j1" gorm:"not null;default:false;index"`
	AlertJ7  bool `json:"alert_j7" gorm:"not null;default:false;index"`
	AlertJ30 bool `json:"alert_j30" gorm:"not null;default:false"`
	AlertJ60 bool `json:"alert_j60" gorm:"not null;default:false"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Validate checks the invariants that must hold for every persisted lot:
// positive initial quantity, current quantity within [0, initial], and
// expiration on or after reception.
func (l *Lot) Validate() error {
	if l.InitialQuantity <= 0 {
		return apperrors.Validation("initial quantity must be positive")
	}
	if l.CurrentQuantity < 0 {
		return apperrors.Validation("current quantity cannot be negative")
	}
	if l.CurrentQuantity > l.InitialQuantity {
		return apperrors.Validation("current quantity cannot exceed initial quantity")
	}
	if l.ExpirationDate.Before(l.ReceptionDate) {
		return apperrors.Validation("expiration date cannot be before reception date")
	}
	if !l.Status.IsValid() {
		return apperrors.Validation("invalid lot status")
	}
	return nil
}

// ApplySale mutates the lot for a sale of qty units at the given time.
// Full sales flip the status to sold and stamp the sold date; partial
// sales only decrement the quantity. The caller persists the result
// inside a transaction.
func (l *Lot) ApplySale(qty float64, note string, now time.Time) error {
	if l.Status != LotStatusActive {
		return apperrors.InvalidState("only active lots can be sold")
	}
	if qty <= 0 {
		return apperrors.Validation("sale quantity must be positive")
	}
	if qty > l.CurrentQuantity {
		return apperrors.Validation("sale quantity exceeds available quantity")
	}

	if qty == l.CurrentQuantity {
		l.CurrentQuantity = 0
		l.Status = LotStatusSold
		l.SoldDate = &now
		l.AppendNote("sold out", note)
	} else {
		l.CurrentQuantity -= qty
		l.AppendNote("partial sale", note)
	}
	return nil
}

func (l *Lot) AppendNote(prefix, note string) {
	entry := prefix
	if note != "" {
		entry += ": " + note
	}
	if l.Notes == "" {
		l.Notes = entry
	} else {
		l.Notes += " | " + entry
	}
}
