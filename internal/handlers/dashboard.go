// internal/handlers/dashboard.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/danalakshmi/freshtrack-backend/internal/services"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type DashboardHandler struct {
	aggService *services.AggregationService
}

func NewDashboardHandler(aggService *services.AggregationService) *DashboardHandler {
	return &DashboardHandler{aggService: aggService}
}

// GET /dashboard?action=metriques|tendances|alertes_resume|statistiques_produits|fournisseurs_stats|categories_repartition|prochaines_expirations
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	switch c.DefaultQuery("action", "metriques") {
	case "metriques":
		topN := 10
		if topStr := c.Query("top"); topStr != "" {
			if parsed, err := strconv.Atoi(topStr); err == nil {
				topN = parsed
			}
		}
		snapshot, err := h.aggService.Dashboard(ctx, topN)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, snapshot)

	case "tendances":
		trend, err := h.aggService.Trend(ctx)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, trend)

	case "alertes_resume":
		summary, err := h.aggService.LevelSummary(ctx)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, summary)

	case "statistiques_produits":
		limit := 10
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil {
				limit = parsed
			}
		}
		stats, err := h.aggService.ProductStatistics(limit)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, stats)

	case "fournisseurs_stats":
		stats, err := h.aggService.SupplierStatistics()
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, stats)

	case "categories_repartition":
		summary, err := h.aggService.CategorySummary(ctx)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, summary)

	case "prochaines_expirations":
		limit := 0
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil {
				limit = parsed
			}
		}
		lots, err := h.aggService.UpcomingExpirations(ctx, limit)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, lots)

	default:
		utils.BadRequestResponse(c, "unknown action", gin.H{"action": c.Query("action")})
	}
}
