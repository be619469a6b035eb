// internal/models/product.go
package models

import "regexp"

var barcodePattern = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

type Product struct {
	BaseModel
	Name        string        `json:"name" gorm:"size:255;not null;index"`
	Barcode     *string       `json:"barcode,omitempty" gorm:"size:100;uniqueIndex"`
	Category    string        `json:"category" gorm:"size:100;not null;index"`
	Description string        `json:"description" gorm:"type:text"`
	Brand       string        `json:"brand" gorm:"size:100"`
	Unit        UnitOfMeasure `json:"unit" gorm:"type:varchar(10);not null;default:'piece'"`
	Active      bool          `json:"active" gorm:"not null;default:true;index"`

	// Relationships
	Lots []Lot `json:"lots,omitempty" gorm:"foreignKey:ProductID"`
}

// ValidBarcode reports whether s is usable as a barcode. The empty
// string is rejected; use a nil pointer for "no barcode".
func ValidBarcode(s string) bool {
	return barcodePattern.MatchString(s)
}
