// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type LotStatus string

const (
	LotStatusActive    LotStatus = "active"
	LotStatusSold      LotStatus = "sold"
	LotStatusExpired   LotStatus = "expired"
	LotStatusWithdrawn LotStatus = "withdrawn"
)

func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusActive, LotStatusSold, LotStatusExpired, LotStatusWithdrawn:
		return true
	}
	return false
}

type UnitOfMeasure string

const (
	UnitKilogram   UnitOfMeasure = "kg"
	UnitGram       UnitOfMeasure = "g"
	UnitLiter      UnitOfMeasure = "L"
	UnitMilliliter UnitOfMeasure = "mL"
	UnitPiece      UnitOfMeasure = "piece"
)

func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

type ParameterType string

const (
	ParameterTypeString  ParameterType = "string"
	ParameterTypeInt     ParameterType = "int"
	ParameterTypeFloat   ParameterType = "float"
	ParameterTypeBoolean ParameterType = "boolean"
	ParameterTypeJSON    ParameterType = "json"
	ParameterTypeColor   ParameterType = "color"
)

func (t ParameterType) IsValid() bool {
	switch t {
	case ParameterTypeString, ParameterTypeInt, ParameterTypeFloat,
		ParameterTypeBoolean, ParameterTypeJSON, ParameterTypeColor:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleViewer  UserRole = "viewer"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleViewer:
		return true
	}
	return false
}
