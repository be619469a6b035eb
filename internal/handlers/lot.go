// internal/handlers/lot.go
package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/danalakshmi/freshtrack-backend/internal/alert"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
	"github.com/danalakshmi/freshtrack-backend/internal/services"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type LotHandler struct {
	lotService *services.LotService
}

func NewLotHandler(lotService *services.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

// lotAction is the write envelope: POST /lots carries an action
// discriminator so creation and sales share one endpoint.
type lotAction struct {
	Action string          `json:"action"`
	LotID  *uuid.UUID      `json:"lot_id,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// GET /lots
func (h *LotHandler) GetLots(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.LotSearchParams{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		lotStatus := models.LotStatus(status)
		searchParams.Status = &lotStatus
	}

	if level := c.Query("alert_level"); level != "" {
		alertLevel := alert.Level(level)
		searchParams.AlertLevel = &alertLevel
	}

	if productIDStr := c.Query("produit_id"); productIDStr != "" {
		if productID, err := uuid.Parse(productIDStr); err == nil {
			searchParams.ProductID = &productID
		}
	}

	if supplier := c.Query("supplier"); supplier != "" {
		searchParams.Supplier = supplier
	}

	if dateMinStr := c.Query("date_expiration_min"); dateMinStr != "" {
		if dateMin, err := time.Parse("2006-01-02", dateMinStr); err == nil {
			searchParams.DateMin = &dateMin
		}
	}

	if dateMaxStr := c.Query("date_expiration_max"); dateMaxStr != "" {
		if dateMax, err := time.Parse("2006-01-02", dateMaxStr); err == nil {
			searchParams.DateMax = &dateMax
		}
	}

	lots, total, err := h.lotService.List(searchParams)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(lots, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /lots/:id
func (h *LotHandler) GetLot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid lot id", nil)
		return
	}

	lot, err := h.lotService.Get(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, lot)
}

// POST /lots
// Body: {"action": "create" | "mark_sold", ...}
func (h *LotHandler) PostLot(c *gin.Context) {
	var envelope lotAction
	if err := c.ShouldBindJSON(&envelope); err != nil {
		utils.BadRequestResponse(c, "invalid request body", err.Error())
		return
	}

	switch envelope.Action {
	case "", "create":
		h.createLot(c, envelope.Data)
	case "mark_sold":
		h.markSold(c, envelope)
	default:
		utils.BadRequestResponse(c, "unknown action", gin.H{"action": envelope.Action})
	}
}

func (h *LotHandler) createLot(c *gin.Context, data json.RawMessage) {
	var req services.CreateLotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		utils.BadRequestResponse(c, "invalid lot payload", err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	lot, err := h.lotService.Create(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, lot)
}

func (h *LotHandler) markSold(c *gin.Context, envelope lotAction) {
	if envelope.LotID == nil {
		utils.BadRequestResponse(c, "lot_id is required for mark_sold", nil)
		return
	}

	var req services.MarkSoldRequest
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &req); err != nil {
			utils.BadRequestResponse(c, "invalid sale payload", err.Error())
			return
		}
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	lot, err := h.lotService.MarkSold(*envelope.LotID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, lot)
}

// PUT /lots/:id
func (h *LotHandler) UpdateLot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid lot id", nil)
		return
	}

	var req services.UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	lot, err := h.lotService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, lot)
}

// DELETE /lots/:id retires a lot from circulation.
func (h *LotHandler) RetireLot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid lot id", nil)
		return
	}

	lot, err := h.lotService.Retire(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, lot)
}

// POST /lots/recompute-alerts
func (h *LotHandler) RecomputeAlerts(c *gin.Context) {
	var lotID *uuid.UUID
	if idStr := c.Query("lot_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid lot id", nil)
			return
		}
		lotID = &id
	}

	updated, err := h.lotService.RecomputeAlerts(lotID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"updated": updated})
}
