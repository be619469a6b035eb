// internal/handlers/parameter.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/danalakshmi/freshtrack-backend/internal/services"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type ParameterHandler struct {
	parameterService *services.ParameterService
}

func NewParameterHandler(parameterService *services.ParameterService) *ParameterHandler {
	return &ParameterHandler{parameterService: parameterService}
}

// GET /parametres
func (h *ParameterHandler) GetParameters(c *gin.Context) {
	parameters, grouped, err := h.parameterService.List()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"parameters": parameters,
		"grouped":    grouped,
	})
}

// POST /parametres (admin)
func (h *ParameterHandler) CreateParameter(c *gin.Context) {
	var req services.CreateParameterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	parameter, err := h.parameterService.Create(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, parameter)
}

// PUT /parametres/:id (admin)
func (h *ParameterHandler) UpdateParameter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid parameter id", nil)
		return
	}

	var req services.UpdateParameterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	parameter, err := h.parameterService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, parameter)
}

// DELETE /parametres/:id (admin)
func (h *ParameterHandler) DeleteParameter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid parameter id", nil)
		return
	}

	if err := h.parameterService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
