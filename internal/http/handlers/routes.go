package handlers

import (
	"artisania/internal/app"
	"artisania/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	// Auth routes (no authentication required)
	authHandler := NewAuthHandler(services.AuthService)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Nil concrete services must not become non-nil interfaces.
	var uploader ImageUploader
	if services.StorageService != nil {
		uploader = services.StorageService
	}
	var describer ListingDescriber
	if services.Describer != nil {
		describer = services.Describer
	}

	productHandler := NewProductHandler(services.ProductRepo, uploader)
	pipelineHandler := NewPipelineHandler(services.Enhancer, describer, services.PublishService)

	// Public marketplace and onboarding pipeline
	api.GET("/marketplace", productHandler.Marketplace)
	api.POST("/enhance-image", pipelineHandler.EnhanceImage)
	api.POST("/generate-product-info", pipelineHandler.GenerateProductInfo)
	api.POST("/publish", pipelineHandler.Publish)

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(services.AuthService))

	account := protected.Group("/account")
	account.GET("/profile", authHandler.GetProfile)
	account.PUT("/profile", authHandler.UpdateProfile)

	products := protected.Group("/products")
	products.POST("", productHandler.Create)
	products.GET("/mine", productHandler.ListMine)
	products.PUT("/:id", productHandler.Update)
	products.POST("/:id/upload-image", productHandler.UploadImage)
}
