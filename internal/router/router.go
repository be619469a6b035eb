// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/danalakshmi/freshtrack-backend/internal/cache"
	"github.com/danalakshmi/freshtrack-backend/internal/config"
	"github.com/danalakshmi/freshtrack-backend/internal/handlers"
	"github.com/danalakshmi/freshtrack-backend/internal/middleware"
	"github.com/danalakshmi/freshtrack-backend/internal/services"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

func Initialize(db *gorm.DB, cacheStore *cache.Store, cfg *config.Config) *gin.Engine {
	clock := utils.RealClock{}

	// Initialize services
	parameterService := services.NewParameterService(db, cacheStore)
	productService := services.NewProductService(db)
	lotService := services.NewLotService(db, parameterService, clock)
	aggregationService := services.NewAggregationService(db, parameterService, lotService, cacheStore, clock)
	authService := services.NewAuthService(db, clock,
		time.Duration(cfg.JWT.AccessTokenTTL)*time.Hour,
		time.Duration(cfg.JWT.RememberTokenTTL)*time.Hour)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	lotHandler := handlers.NewLotHandler(lotService)
	alertHandler := handlers.NewAlertHandler(lotService, aggregationService)
	dashboardHandler := handlers.NewDashboardHandler(aggregationService)
	parameterHandler := handlers.NewParameterHandler(parameterService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.DevelopmentMode = cfg.Environment != "production"

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/v1")

	// Auth routes
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/validate", authHandler.Validate)
	}

	// Public reads; a bearer token is decoded when present so the
	// request log can attribute them.
	reads := v1.Group("")
	reads.Use(middleware.OptionalAuth(clock))
	{
		reads.GET("/products", productHandler.GetProducts)
		reads.GET("/products/search", productHandler.SearchProducts)
		reads.GET("/products/categories", productHandler.GetCategories)
		reads.GET("/products/:id", productHandler.GetProduct)

		reads.GET("/lots", lotHandler.GetLots)
		reads.GET("/lots/:id", lotHandler.GetLot)

		reads.GET("/alertes", alertHandler.GetAlerts)
		reads.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	// Mutations require a valid token
	writes := v1.Group("")
	writes.Use(middleware.AuthRequired(clock))
	{
		writes.POST("/products", productHandler.CreateProduct)
		writes.PUT("/products/:id", productHandler.UpdateProduct)
		writes.DELETE("/products/:id", productHandler.DeleteProduct)

		writes.POST("/lots", lotHandler.PostLot)
		writes.POST("/lots/recompute-alerts", lotHandler.RecomputeAlerts)
		writes.PUT("/lots/:id", lotHandler.UpdateLot)
		writes.DELETE("/lots/:id", lotHandler.RetireLot)

		writes.GET("/parametres", parameterHandler.GetParameters)
		writes.POST("/parametres", middleware.AdminRequired(), parameterHandler.CreateParameter)
		writes.PUT("/parametres/:id", middleware.AdminRequired(), parameterHandler.UpdateParameter)
		writes.DELETE("/parametres/:id", middleware.AdminRequired(), parameterHandler.DeleteParameter)
	}

	return r
}
