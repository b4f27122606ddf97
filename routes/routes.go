package routes

import (
	"time"

	"parkwise/handlers"
	"parkwise/middleware"
	"parkwise/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers endpoints that need no identity.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)

	lots := r.Group("/api/lots")
	{
		lots.GET("", hb.LotHandler.ListLotsHandler)
		lots.GET("/nearby", hb.LotHandler.NearbyLotsHandler)
		lots.GET("/:id", hb.LotHandler.GetLotHandler)
	}

	r.POST("/api/payments/webhook", hb.InvoiceHandler.PaymentWebhookHandler)
}

// RegisterDriverRoutes registers endpoints for signed-in drivers.
func RegisterDriverRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(hb.Auth)

	users := api.Group("/users/me")
	{
		users.GET("", hb.UserHandler.GetMeHandler)
		users.PUT("", hb.UserHandler.UpdateMeHandler)
		users.PUT("/fcm-token", hb.UserHandler.SetFCMTokenHandler)
	}

	vehicles := api.Group("/vehicles")
	{
		vehicles.POST("", hb.VehicleHandler.RegisterVehicleHandler)
		vehicles.GET("", hb.VehicleHandler.ListVehiclesHandler)
		vehicles.GET("/:id", hb.VehicleHandler.GetVehicleHandler)
		vehicles.DELETE("/:id", hb.VehicleHandler.DeleteVehicleHandler)
		vehicles.GET("/:id/qr", hb.VehicleHandler.VehicleQRHandler)
		vehicles.POST("/:id/photo", hb.VehicleHandler.UploadVehiclePhotoHandler)
	}

	sessions := api.Group("/sessions")
	{
		sessions.GET("/active", hb.SessionHandler.ActiveSessionsHandler)
		sessions.GET("", hb.SessionHandler.ListSessionsHandler)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", hb.InvoiceHandler.ListInvoicesHandler)
		invoices.GET("/:id", hb.InvoiceHandler.GetInvoiceHandler)
		invoices.POST("/:id/pay", hb.InvoiceHandler.PayInvoiceHandler)
	}
}

// RegisterScannerRoutes registers the gate scanner endpoint.
func RegisterScannerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/scan", hb.ScannerAuth, hb.SessionHandler.ScanHandler)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(hb.Auth, middleware.RequireRole(models.RoleAdmin))

	lots := admin.Group("/lots")
	{
		lots.POST("", hb.LotHandler.CreateLotHandler)
		lots.PUT("/:id", hb.LotHandler.UpdateLotHandler)
		lots.DELETE("/:id", hb.LotHandler.DeleteLotHandler)
		lots.POST("/:id/scanner-key", hb.LotHandler.RotateScannerKeyHandler)
		lots.POST("/:id/photo", hb.LotHandler.UploadLotPhotoHandler)
		lots.GET("/:id/rates", hb.RateHandler.ListRatesHandler)
		lots.POST("/:id/rates", hb.RateHandler.CreateRateHandler)
	}

	rates := admin.Group("/rates")
	{
		rates.GET("/resolve", hb.RateHandler.ResolveRateHandler)
		rates.PUT("/:id", hb.RateHandler.UpdateRateHandler)
		rates.POST("/:id/activate", hb.RateHandler.ActivateRateHandler)
		rates.POST("/:id/deactivate", hb.RateHandler.DeactivateRateHandler)
		rates.DELETE("/:id", hb.RateHandler.DeleteRateHandler)
	}

	sessions := admin.Group("/sessions")
	{
		sessions.GET("", hb.SessionHandler.ListSessionsHandler)
		sessions.POST("/checkin", hb.SessionHandler.CheckInHandler)
		sessions.POST("/:id/checkout", hb.SessionHandler.CheckOutHandler)
	}

	invoices := admin.Group("/invoices")
	{
		invoices.GET("", hb.InvoiceHandler.ListInvoicesHandler)
		invoices.GET("/overdue", hb.InvoiceHandler.ListOverdueHandler)
		invoices.GET("/:id", hb.InvoiceHandler.GetInvoiceHandler)
		invoices.POST("/:id/mark-paid", hb.InvoiceHandler.MarkPaidHandler)
		invoices.POST("/:id/waive", hb.InvoiceHandler.WaiveHandler)
		invoices.POST("/:id/overdue-charge", hb.InvoiceHandler.AddOverdueChargeHandler)
	}

	admin.PUT("/vehicles/:id/rate-type", hb.VehicleHandler.SetRateTypeHandler)

	users := admin.Group("/users")
	{
		users.GET("", hb.UserHandler.GetAllUsersHandler)
		users.PUT("/:id/role", hb.UserHandler.SetRoleHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Lot-ID", "X-Scanner-Key"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPublicRoutes(r, hb)
	RegisterDriverRoutes(r, hb)
	RegisterScannerRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
