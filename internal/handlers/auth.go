// internal/handlers/auth.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danalakshmi/freshtrack-backend/internal/services"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", err.Error())
		return
	}

	result, err := h.authService.Login(req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /auth/logout
// Body {"all": true} revokes every session of the token's owner.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		All bool `json:"all"`
	}
	// Body is optional
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(bearerToken(c), req.All); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"logged_out": true})
}

// POST /auth/validate
func (h *AuthHandler) Validate(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		utils.UnauthorizedResponse(c, "missing token")
		return
	}

	profile, err := h.authService.Validate(token)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"valid": true, "user": profile})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
