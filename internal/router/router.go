// Package router assembles the HTTP surface of the famledger API.
package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"famledger/internal/config"
	_ "famledger/internal/docs" // Import swagger docs
	"famledger/internal/handlers"
	"famledger/internal/middleware"
	"famledger/internal/services"
	"famledger/internal/storage"
)

// New wires services and handlers on db and returns the configured engine.
func New(db *gorm.DB, cfg *config.Config, store storage.Storage) *gin.Engine {
	// Initialize services
	familyService := services.NewFamilyService(db)
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db, familyService)
	recordService := services.NewRecordService(db, familyService, categoryService, store)
	summaryService := services.NewSummaryService(db, familyService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, familyService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	recordHandler := handlers.NewRecordHandler(recordService, store, cfg.MaxUploadBytes)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

	metrics := middleware.NewHTTPMetrics("famledger")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", middleware.APIKeyMiddleware(cfg.MetricsAPIKey), gin.WrapH(metrics.Handler()))

	// Uploaded images, when they live on local disk
	if local, ok := store.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.MediaURL, "/") {
		router.Static(cfg.MediaURL, local.Root())
	}

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/profile", authHandler.JoinFamily)
	protected.DELETE("/profile", authHandler.DeleteAccount)

	// Family routes
	families := protected.Group("/families")
	families.POST("", familyHandler.CreateFamily)
	families.GET("/current", familyHandler.GetFamily)
	families.DELETE("/current", familyHandler.DeleteFamily)

	// Category routes
	categories := protected.Group("/category")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.ReplaceCategory)
	categories.PATCH("/:id", categoryHandler.PatchCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Record routes
	records := protected.Group("/record")
	records.GET("", recordHandler.ListRecords)
	records.POST("", recordHandler.CreateRecord)
	records.GET("/:id", recordHandler.GetRecord)
	records.PUT("/:id", recordHandler.ReplaceRecord)
	records.PATCH("/:id", recordHandler.PatchRecord)
	records.DELETE("/:id", recordHandler.DeleteRecord)
	records.POST("/:id/upload-image", recordHandler.UploadImage)

	protected.GET("/summary", summaryHandler.GetSummary)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
