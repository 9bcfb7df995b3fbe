package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"order-desk/models"
)

func corsConfig(development bool, origins []string) cors.Config {
	if development {
		// Development: Allow all origins
		return cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "If-Match", requestIDHeader},
			ExposeHeaders:   []string{"Content-Length", requestIDHeader},
			MaxAge:          12 * time.Hour,
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "If-Match", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), RequestID())
	router.Use(cors.New(corsConfig(h.cfg.IsDevelopment(), h.cfg.CORS)))
	router.MaxMultipartMemory = h.cfg.Uploads.MaxMB << 20

	router.GET("/healthz", h.HealthHandler)
	router.Static("/uploads", h.cfg.Uploads.Dir)

	// --- Authentication Routes ---
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.RegisterHandler)
		authGroup.POST("/login", h.LoginHandler)
		authGroup.POST("/forgot-password", h.ForgotPasswordHandler)
		authGroup.POST("/reset-password", h.ResetPasswordHandler)
	}

	api := router.Group("/api", h.AuthMiddleware())
	api.GET("/me", h.MeHandler)

	// --- User Management (admin only) ---
	userRoutes := api.Group("/users", RequireRole(models.RoleAdmin))
	{
		userRoutes.GET("", h.ListUsersHandler)
		userRoutes.POST("", h.CreateUserHandler)
		userRoutes.GET("/:id", h.GetUserHandler)
		userRoutes.PUT("/:id", h.UpdateUserHandler)
		userRoutes.DELETE("/:id", h.DeleteUserHandler)
	}

	// --- Menu Catalog ---
	menuRoutes := api.Group("/menu-items")
	{
		menuRoutes.GET("", h.ListMenuItemsHandler)
		menuRoutes.GET("/:id", h.GetMenuItemHandler)

		adminMenuRoutes := menuRoutes.Group("", RequireRole(models.RoleAdmin))
		adminMenuRoutes.POST("", h.CreateMenuItemHandler)
		adminMenuRoutes.PUT("/:id", h.UpdateMenuItemHandler)
		adminMenuRoutes.DELETE("/:id", h.DeleteMenuItemHandler)
		adminMenuRoutes.POST("/:id/image", h.UploadMenuItemImageHandler)
	}

	// --- Orders (front desk) ---
	orderRoutes := api.Group("/orders", RequireRole(models.RoleAdmin, models.RoleReception))
	{
		orderRoutes.POST("", h.CreateOrderHandler)
		orderRoutes.GET("", h.ListOrdersHandler)
		orderRoutes.GET("/:id", h.GetOrderHandler)
		orderRoutes.PUT("/:id", h.UpdateOrderHandler)
		orderRoutes.PATCH("/:id/payment", h.UpdateOrderPaymentHandler)
		orderRoutes.PATCH("/:id/paid", h.MarkOrderAsPaidHandler)
		orderRoutes.PATCH("/:id/pay-remaining", h.PayRemainingHandler)
		orderRoutes.PATCH("/:id/delivery", h.UpdateDeliveryHandler)
		orderRoutes.DELETE("/:id", RequireRole(models.RoleAdmin), h.DeleteOrderHandler)
	}

	// --- Reporting (admin only) ---
	api.GET("/reports/orders", RequireRole(models.RoleAdmin), h.OrderReportHandler)

	return router
}
