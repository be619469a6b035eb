// internal/services/lot_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/danalakshmi/freshtrack-backend/internal/alert"
	"github.com/danalakshmi/freshtrack-backend/internal/apperrors"
	"github.com/danalakshmi/freshtrack-backend/internal/database"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

// LotService drives the lot lifecycle: creation, updates, partial and
// full sales, retirement and alert-flag recomputation.
type LotService struct {
	db         *gorm.DB
	parameters *ParameterService
	clock      utils.Clock
}

const dateLayout = "2006-01-02"

type CreateLotRequest struct {
	ProductID       uuid.UUID `json:"product_id" validate:"required"`
	LotNumber       string    `json:"lot_number,omitempty" validate:"omitempty,max=100"`
	ExpirationDate  string    `json:"expiration_date" validate:"required"`
	ReceptionDate   string    `json:"reception_date" validate:"required"`
	InitialQuantity float64   `json:"initial_quantity" validate:"required,gt=0"`
	PurchasePrice   *float64  `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	Supplier        string    `json:"supplier,omitempty" validate:"omitempty,max=255"`
	Notes           string    `json:"notes,omitempty"`
}

type UpdateLotRequest struct {
	LotNumber       *string  `json:"lot_number,omitempty" validate:"omitempty,min=1,max=100"`
	ExpirationDate  *string  `json:"expiration_date,omitempty"`
	ReceptionDate   *string  `json:"reception_date,omitempty"`
	InitialQuantity *float64 `json:"initial_quantity,omitempty" validate:"omitempty,gt=0"`
	CurrentQuantity *float64 `json:"current_quantity,omitempty" validate:"omitempty,gte=0"`
	PurchasePrice   *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	Supplier        *string  `json:"supplier,omitempty" validate:"omitempty,max=255"`
	Status          *string  `json:"status,omitempty" validate:"omitempty,lot_status"`
	Notes           *string  `json:"notes,omitempty"`
}

type MarkSoldRequest struct {
	Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Notes    string   `json:"notes,omitempty"`
}

type LotSearchParams struct {
	utils.PaginationParams
	Status     *models.LotStatus `json:"status,omitempty"`
	AlertLevel *alert.Level      `json:"alert_level,omitempty"`
	// Alerting restricts to lots inside any alert band. Ignored when
	// AlertLevel is set.
	Alerting  bool       `json:"alerting,omitempty"`
	ProductID *uuid.UUID `json:"produit_id,omitempty"`
	Supplier  string     `json:"supplier,omitempty"`
	DateMin   *time.Time `json:"date_expiration_min,omitempty"`
	DateMax   *time.Time `json:"date_expiration_max,omitempty"`
}

// LotView is a lot enriched with its product and live classification.
type LotView struct {
	models.Lot
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category"`
	ProductUnit     string `json:"product_unit"`
	alert.Classification
	UrgencyScore int `json:"urgency_score"`
}

func NewLotService(db *gorm.DB, parameters *ParameterService, clock utils.Clock) *LotService {
	return &LotService{db: db, parameters: parameters, clock: clock}
}

func (s *LotService) Create(req *CreateLotRequest) (*LotView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	expiration, err := parseDate(req.ExpirationDate)
	if err != nil {
		return nil, apperrors.Validation("invalid expiration_date, expected YYYY-MM-DD")
	}
	reception, err := parseDate(req.ReceptionDate)
	if err != nil {
		return nil, apperrors.Validation("invalid reception_date, expected YYYY-MM-DD")
	}

	// The owning product must exist and be active
	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("product not found")
		}
		return nil, apperrors.Storage("failed to fetch product", err)
	}
	if !product.Active {
		return nil, apperrors.Validation("cannot create a lot for an inactive product")
	}

	lotNumber := req.LotNumber
	if lotNumber == "" {
		lotNumber = s.generateLotNumber()
	} else {
		var count int64
		if err := s.db.Model(&models.Lot{}).Where("lot_number = ?", lotNumber).Count(&count).Error; err != nil {
			return nil, apperrors.Storage("failed to check lot number", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("a lot with this number already exists")
		}
	}

	lot := &models.Lot{
		ProductID:       req.ProductID,
		LotNumber:       lotNumber,
		ExpirationDate:  expiration,
		ReceptionDate:   reception,
		InitialQuantity: req.InitialQuantity,
		CurrentQuantity: req.InitialQuantity,
		PurchasePrice:   req.PurchasePrice,
		Supplier:        req.Supplier,
		Status:          models.LotStatusActive,
		Notes:           req.Notes,
	}

	if err := lot.Validate(); err != nil {
		return nil, err
	}

	s.applyAlertFlags(lot)

	if err := s.db.Create(lot).Error; err != nil {
		return nil, apperrors.Storage("failed to create lot", err)
	}

	return s.Get(lot.ID)
}

func (s *LotService) Get(id uuid.UUID) (*LotView, error) {
	var lot models.Lot
	if err := s.db.Preload("Product").First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot not found")
		}
		return nil, apperrors.Storage("failed to fetch lot", err)
	}
	view := s.toView(lot, s.parameters.AlertConfig())
	return &view, nil
}

func (s *LotService) Update(id uuid.UUID, req *UpdateLotRequest) (*LotView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var lot models.Lot
	if err := s.db.First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot not found")
		}
		return nil, apperrors.Storage("failed to fetch lot", err)
	}

	expirationChanged := false
	statusChanged := false

	if req.LotNumber != nil && *req.LotNumber != lot.LotNumber {
		var count int64
		if err := s.db.Model(&models.Lot{}).
			Where("lot_number = ? AND id != ?", *req.LotNumber, id).Count(&count).Error; err != nil {
			return nil, apperrors.Storage("failed to check lot number", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("a lot with this number already exists")
		}
		lot.LotNumber = *req.LotNumber
	}

	if req.ExpirationDate != nil {
		expiration, err := parseDate(*req.ExpirationDate)
		if err != nil {
			return nil, apperrors.Validation("invalid expiration_date, expected YYYY-MM-DD")
		}
		if !expiration.Equal(lot.ExpirationDate) {
			lot.ExpirationDate = expiration
			expirationChanged = true
		}
	}

	if req.ReceptionDate != nil {
		reception, err := parseDate(*req.ReceptionDate)
		if err != nil {
			return nil, apperrors.Validation("invalid reception_date, expected YYYY-MM-DD")
		}
		lot.ReceptionDate = reception
	}

	if req.InitialQuantity != nil {
		lot.InitialQuantity = *req.InitialQuantity
	}
	if req.CurrentQuantity != nil {
		lot.CurrentQuantity = *req.CurrentQuantity
	}
	if req.PurchasePrice != nil {
		lot.PurchasePrice = req.PurchasePrice
	}
	if req.Supplier != nil {
		lot.Supplier = *req.Supplier
	}
	if req.Status != nil && models.LotStatus(*req.Status) != lot.Status {
		lot.Status = models.LotStatus(*req.Status)
		statusChanged = true
	}
	if req.Notes != nil {
		lot.Notes = *req.Notes
	}

	// Re-validate the merged record before persisting
	if err := lot.Validate(); err != nil {
		return nil, err
	}

	if expirationChanged || statusChanged {
		s.applyAlertFlags(&lot)
	}

	if err := s.db.Save(&lot).Error; err != nil {
		return nil, apperrors.Storage("failed to update lot", err)
	}

	return s.Get(lot.ID)
}

// MarkSold sells qty units (defaulting to everything left) from an
// active lot. Quantity and status writes happen in one transaction
// under a row lock so concurrent sales cannot double-decrement.
func (s *LotService) MarkSold(id uuid.UUID, req *MarkSoldRequest) (*LotView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var saleErr error
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var lot models.Lot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&lot, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				saleErr = apperrors.NotFound("lot not found")
				return saleErr
			}
			return apperrors.Storage("failed to fetch lot", err)
		}

		qty := lot.CurrentQuantity
		if req.Quantity != nil {
			qty = *req.Quantity
		}

		if err := lot.ApplySale(qty, req.Notes, s.clock.Now()); err != nil {
			saleErr = err
			return err
		}

		if err := tx.Save(&lot).Error; err != nil {
			return apperrors.Storage("failed to record sale", err)
		}
		return nil
	})
	if err != nil {
		if saleErr != nil {
			return nil, saleErr
		}
		return nil, err
	}

	return s.Get(id)
}

// Retire withdraws a lot regardless of its prior status. This is the
// soft-delete path; quantity is left untouched.
func (s *LotService) Retire(id uuid.UUID) (*LotView, error) {
	var lot models.Lot
	if err := s.db.First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot not found")
		}
		return nil, apperrors.Storage("failed to fetch lot", err)
	}

	lot.Status = models.LotStatusWithdrawn
	s.applyAlertFlags(&lot)

	if err := s.db.Save(&lot).Error; err != nil {
		return nil, apperrors.Storage("failed to retire lot", err)
	}

	return s.Get(id)
}

// RecomputeAlerts refreshes the cached alert flags for one lot, or for
// every active lot when id is nil. Safe to call repeatedly.
func (s *LotService) RecomputeAlerts(id *uuid.UUID) (int64, error) {
	cfg := s.parameters.AlertConfig()

	query := s.db.Model(&models.Lot{})
	if id != nil {
		query = query.Where("id = ?", *id)
	} else {
		query = query.Where("status = ?", models.LotStatusActive)
	}

	var lots []models.Lot
	if err := query.Find(&lots).Error; err != nil {
		return 0, apperrors.Storage("failed to fetch lots", err)
	}
	if id != nil && len(lots) == 0 {
		return 0, apperrors.NotFound("lot not found")
	}

	now := s.clock.Now()
	var updated int64
	for _, lot := range lots {
		j1, j7, j30, j60 := cfg.Flags(lot.ExpirationDate, now)
		if j1 == lot.AlertJ1 && j7 == lot.AlertJ7 && j30 == lot.AlertJ30 && j60 == lot.AlertJ60 {
			continue
		}
		err := s.db.Model(&models.Lot{}).Where("id = ?", lot.ID).Updates(map[string]interface{}{
			"alert_j1":  j1,
			"alert_j7":  j7,
			"alert_j30": j30,
			"alert_j60": j60,
		}).Error
		if err != nil {
			return updated, apperrors.Storage("failed to update alert flags", err)
		}
		updated++
	}

	return updated, nil
}

func (s *LotService) List(params LotSearchParams) ([]LotView, int64, error) {
	query := s.db.Model(&models.Lot{}).Preload("Product")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.Supplier != "" {
		query = query.Where("supplier ILIKE ?", "%"+params.Supplier+"%")
	}
	if params.Category != "" {
		query = query.Joins("JOIN products ON products.id = lots.product_id").
			Where("products.category = ?", params.Category)
	}
	if params.DateMin != nil {
		query = query.Where("expiration_date >= ?", *params.DateMin)
	}
	if params.DateMax != nil {
		query = query.Where("expiration_date <= ?", *params.DateMax)
	}
	if params.AlertLevel != nil {
		if !params.AlertLevel.Known() {
			return nil, 0, apperrors.Validation(fmt.Sprintf("unknown alert level %q", *params.AlertLevel))
		}
		query = s.applyAlertLevelFilter(query, *params.AlertLevel)
	} else if params.Alerting {
		query = query.Where("alert_j60 = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage("failed to count lots", err)
	}

	query = query.Order("expiration_date ASC, lot_number ASC")
	query = utils.ApplyPagination(query, params.PaginationParams)

	var lots []models.Lot
	if err := query.Find(&lots).Error; err != nil {
		return nil, 0, apperrors.Storage("failed to fetch lots", err)
	}

	cfg := s.parameters.AlertConfig()
	views := make([]LotView, 0, len(lots))
	for _, lot := range lots {
		views = append(views, s.toView(lot, cfg))
	}

	return views, total, nil
}

// The cached flags are cumulative (j60 covers everything within 60
// days), so narrower bands are excluded explicitly. Expired and none
// are computed states with no cached flag and filter on the date
// directly. Callers must reject unknown levels before getting here.
func (s *LotService) applyAlertLevelFilter(query *gorm.DB, level alert.Level) *gorm.DB {
	switch level {
	case alert.LevelExpired:
		return query.Where("expiration_date < ?", startOfDay(s.clock.Now()))
	case alert.LevelUrgent:
		return query.Where("alert_j1 = ?", true)
	case alert.LevelImportant:
		return query.Where("alert_j7 = ? AND alert_j1 = ?", true, false)
	case alert.LevelMedium:
		return query.Where("alert_j30 = ? AND alert_j7 = ?", true, false)
	case alert.LevelLow:
		return query.Where("alert_j60 = ? AND alert_j30 = ?", true, false)
	case alert.LevelNone:
		return query.Where("alert_j60 = ?", false)
	default:
		return query
	}
}

func (s *LotService) toView(lot models.Lot, cfg alert.Config) LotView {
	classification := cfg.Classify(lot.ExpirationDate, s.clock.Now())
	return LotView{
		Lot:             lot,
		ProductName:     lot.Product.Name,
		ProductCategory: lot.Product.Category,
		ProductUnit:     string(lot.Product.Unit),
		Classification:  classification,
		UrgencyScore:    alert.UrgencyScore(classification.RemainingDays, lot.CurrentQuantity),
	}
}

func (s *LotService) applyAlertFlags(lot *models.Lot) {
	cfg := s.parameters.AlertConfig()
	lot.AlertJ1, lot.AlertJ7, lot.AlertJ30, lot.AlertJ60 = cfg.Flags(lot.ExpirationDate, s.clock.Now())
}

func (s *LotService) generateLotNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("LOT-%s-%s", s.clock.Now().Format("20060102"), suffix)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
