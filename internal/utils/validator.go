// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danalakshmi/freshtrack-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("barcode", validateBarcode)
	validate.RegisterValidation("unit", validateUnit)
	validate.RegisterValidation("lot_status", validateLotStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateBarcode(fl validator.FieldLevel) bool {
	return models.ValidBarcode(fl.Field().String())
}

func validateUnit(fl validator.FieldLevel) bool {
	return models.UnitOfMeasure(fl.Field().String()).IsValid()
}

func validateLotStatus(fl validator.FieldLevel) bool {
	return models.LotStatus(fl.Field().String()).IsValid()
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "barcode":
		return "Barcode may only contain letters, digits, hyphens and underscores"
	case "unit":
		return "Unit must be one of kg, g, L, mL, piece"
	case "lot_status":
		return "Status must be one of active, sold, expired, withdrawn"
	default:
		return e.Field() + " is invalid"
	}
}
