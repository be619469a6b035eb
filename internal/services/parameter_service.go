// internal/services/parameter_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danalakshmi/freshtrack-backend/internal/alert"
	"github.com/danalakshmi/freshtrack-backend/internal/apperrors"
	"github.com/danalakshmi/freshtrack-backend/internal/cache"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type ParameterService struct {
	db    *gorm.DB
	cache *cache.Store
}

type CreateParameterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Value       string `json:"value" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description,omitempty"`
}

type UpdateParameterRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Value       *string `json:"value,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

// GroupedParameters mirrors the settings screen layout: alert
// thresholds, colors, then everything else.
type GroupedParameters struct {
	Alerts []models.Parameter `json:"alerts"`
	Colors []models.Parameter `json:"colors"`
	Other  []models.Parameter `json:"other"`
}

func NewParameterService(db *gorm.DB, cacheStore *cache.Store) *ParameterService {
	return &ParameterService{db: db, cache: cacheStore}
}

func (s *ParameterService) List() ([]models.Parameter, *GroupedParameters, error) {
	var params []models.Parameter
	if err := s.db.Order("name ASC").Find(&params).Error; err != nil {
		return nil, nil, apperrors.Storage("failed to fetch parameters", err)
	}

	grouped := &GroupedParameters{}
	for _, p := range params {
		switch {
		case strings.HasPrefix(p.Name, "alert_"):
			grouped.Alerts = append(grouped.Alerts, p)
		case strings.HasPrefix(p.Name, "color_"):
			grouped.Colors = append(grouped.Colors, p)
		default:
			grouped.Other = append(grouped.Other, p)
		}
	}

	return params, grouped, nil
}

func (s *ParameterService) Create(req *CreateParameterRequest) (*models.Parameter, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	paramType := models.ParameterType(req.Type)
	if !paramType.IsValid() {
		return nil, apperrors.Validation("invalid parameter type")
	}

	var count int64
	if err := s.db.Model(&models.Parameter{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, apperrors.Storage("failed to check parameter name", err)
	}
	if count > 0 {
		return nil, apperrors.Conflict("a parameter with this name already exists")
	}

	param := &models.Parameter{
		Name:        req.Name,
		Value:       req.Value,
		Type:        paramType,
		Description: req.Description,
	}

	if err := s.db.Create(param).Error; err != nil {
		return nil, apperrors.Storage("failed to create parameter", err)
	}

	s.invalidateIfAlertRelated(param.Name)
	return param, nil
}

func (s *ParameterService) Update(id uuid.UUID, req *UpdateParameterRequest) (*models.Parameter, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var param models.Parameter
	if err := s.db.First(&param, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("parameter not found")
		}
		return nil, apperrors.Storage("failed to fetch parameter", err)
	}

	if req.Name != nil && *req.Name != param.Name {
		if models.IsProtectedParameter(param.Name) {
			return nil, apperrors.Conflict("protected parameters cannot be renamed")
		}
		var count int64
		if err := s.db.Model(&models.Parameter{}).
			Where("name = ? AND id != ?", *req.Name, id).Count(&count).Error; err != nil {
			return nil, apperrors.Storage("failed to check parameter name", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("a parameter with this name already exists")
		}
		param.Name = *req.Name
	}

	if req.Type != nil {
		paramType := models.ParameterType(*req.Type)
		if !paramType.IsValid() {
			return nil, apperrors.Validation("invalid parameter type")
		}
		param.Type = paramType
	}
	if req.Value != nil {
		param.Value = *req.Value
	}
	if req.Description != nil {
		param.Description = *req.Description
	}

	if err := s.db.Save(&param).Error; err != nil {
		return nil, apperrors.Storage("failed to update parameter", err)
	}

	s.invalidateIfAlertRelated(param.Name)
	return &param, nil
}

func (s *ParameterService) Delete(id uuid.UUID) error {
	var param models.Parameter
	if err := s.db.First(&param, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("parameter not found")
		}
		return apperrors.Storage("failed to fetch parameter", err)
	}

	if models.IsProtectedParameter(param.Name) {
		return apperrors.Conflict("this system parameter cannot be deleted")
	}

	if err := s.db.Delete(&param).Error; err != nil {
		return apperrors.Storage("failed to delete parameter", err)
	}

	s.invalidateIfAlertRelated(param.Name)
	return nil
}

// AlertConfig builds the classifier configuration from stored
// parameter overrides. Falls back to defaults when the store fails so
// classification never blocks on a parameter read.
func (s *ParameterService) AlertConfig() alert.Config {
	var params []models.Parameter
	if err := s.db.Where("name LIKE 'alert_%' OR name LIKE 'color_%'").Find(&params).Error; err != nil {
		return alert.DefaultConfig()
	}
	return alert.ConfigFromParameters(params)
}

// Threshold and color changes make every cached summary stale.
func (s *ParameterService) invalidateIfAlertRelated(name string) {
	if strings.HasPrefix(name, "alert_") || strings.HasPrefix(name, "color_") {
		ctx := context.Background()
		s.cache.ClearPattern(ctx, "dashboard:*")
		s.cache.ClearPattern(ctx, "alerts:*")
	}
}
