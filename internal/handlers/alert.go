// internal/handlers/alert.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/danalakshmi/freshtrack-backend/internal/alert"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
	"github.com/danalakshmi/freshtrack-backend/internal/services"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type AlertHandler struct {
	lotService *services.LotService
	aggService *services.AggregationService
}

func NewAlertHandler(lotService *services.LotService, aggService *services.AggregationService) *AlertHandler {
	return &AlertHandler{lotService: lotService, aggService: aggService}
}

// GET /alertes?action=list|summary|urgentes|dashboard|par_produit
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	switch c.DefaultQuery("action", "list") {
	case "list":
		h.listAlerts(c)
	case "summary":
		summary, err := h.aggService.LevelSummary(c.Request.Context())
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, summary)
	case "urgentes":
		h.listUrgent(c)
	case "dashboard":
		topN := 10
		if topStr := c.Query("top"); topStr != "" {
			if parsed, err := strconv.Atoi(topStr); err == nil {
				topN = parsed
			}
		}
		snapshot, err := h.aggService.Dashboard(c.Request.Context(), topN)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, snapshot)
	case "par_produit":
		h.listByProduct(c)
	default:
		utils.BadRequestResponse(c, "unknown action", gin.H{"action": c.Query("action")})
	}
}

// listAlerts returns active lots inside the alert window, optionally
// narrowed to one level.
func (h *AlertHandler) listAlerts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	active := models.LotStatusActive
	searchParams := services.LotSearchParams{
		PaginationParams: params,
		Status:           &active,
		Alerting:         true,
	}

	if levelStr := c.Query("level"); levelStr != "" {
		level := alert.Level(levelStr)
		searchParams.AlertLevel = &level
	}

	lots, total, err := h.lotService.List(searchParams)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(lots, total, params)
	utils.PaginatedResponse(c, result)
}

func (h *AlertHandler) listUrgent(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	active := models.LotStatusActive
	urgent := alert.LevelUrgent
	searchParams := services.LotSearchParams{
		PaginationParams: params,
		Status:           &active,
		AlertLevel:       &urgent,
	}

	lots, total, err := h.lotService.List(searchParams)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(lots, total, params)
	utils.PaginatedResponse(c, result)
}

func (h *AlertHandler) listByProduct(c *gin.Context) {
	productIDStr := c.Query("produit_id")
	if productIDStr == "" {
		utils.BadRequestResponse(c, "produit_id is required", nil)
		return
	}

	productID, err := uuid.Parse(productIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	params := utils.GetPaginationParams(c)

	active := models.LotStatusActive
	searchParams := services.LotSearchParams{
		PaginationParams: params,
		Status:           &active,
		Alerting:         true,
		ProductID:        &productID,
	}

	lots, total, err := h.lotService.List(searchParams)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(lots, total, params)
	utils.PaginatedResponse(c, result)
}
