package routes

import (
	"net/http"
	"time"

	"gharseva/handlers"
	"gharseva/middleware"
	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/verify-otp", hb.VerifyOTPHandler)
		api.POST("/resend-otp", hb.ResendOTPHandler)
		api.POST("/login", hb.LoginHandler)
		api.POST("/refresh", hb.RefreshHandler)
		api.POST("/logout", hb.LogoutHandler)

		// Protected profile endpoints.
		api.Use(middleware.JWTAuth())
		api.GET("/me", hb.ProfileHandler)
		api.PATCH("/me", hb.UpdateProfileHandler)
		api.PUT("/me/fcm-token", hb.SetFCMTokenHandler)
	}
}

// RegisterCatalogRoutes registers category and service browsing plus the
// admin-only catalog writes.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/categories", hb.ListCategoriesHandler)
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/services/popular", hb.PopularServicesHandler)
		api.GET("/services/:id", hb.GetServiceHandler)
		api.GET("/services/:id/ratings", hb.RatingsForServiceHandler)
		api.GET("/availability", hb.AvailabilityHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth())
		protected.GET("/favorites", hb.FavoriteServicesHandler)
		protected.POST("/favorites/:serviceId", hb.AddFavoriteHandler)
		protected.DELETE("/favorites/:serviceId", hb.RemoveFavoriteHandler)

		adminOnly := api.Group("")
		adminOnly.Use(middleware.JWTAuth(), middleware.RequireRole(models.RoleAdmin))
		adminOnly.POST("/categories", hb.CreateCategoryHandler)
		adminOnly.POST("/services", hb.CreateServiceHandler)
		adminOnly.PATCH("/services/:id", hb.UpdateServiceHandler)
	}
}

// RegisterBookingRoutes registers the resident-facing booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuth())
	{
		api.POST("", middleware.RequireRole(models.RoleResident), hb.CreateBookingHandler)
		api.GET("", middleware.RequireRole(models.RoleResident), hb.MyBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.PUT("/:id/reschedule", hb.RescheduleBookingHandler)
		api.PUT("/:id/cancel", hb.CancelBookingHandler)
		api.GET("/:id/otp", middleware.RequireRole(models.RoleResident), hb.BookingOTPHandler)
		api.POST("/:id/issues", hb.ReportIssueHandler)
		api.GET("/:id/rating", hb.RatingForBookingHandler)
		api.GET("/:id/assignments", middleware.RequireRole(models.RoleAdmin), hb.AssignmentHistoryHandler)
	}
}

// RegisterSevakRoutes registers the sevak job workflow.
func RegisterSevakRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sevak")
	api.Use(middleware.JWTAuth(), middleware.RequireRole(models.RoleSevak))
	{
		api.GET("/jobs/open", hb.OpenJobsHandler)
		api.POST("/jobs/:id/accept", hb.AcceptJobHandler)
		api.GET("/jobs", hb.MyJobsHandler)
		api.POST("/jobs/check-in", hb.CheckInHandler)
		api.POST("/jobs/check-out", hb.CheckOutHandler)
		api.POST("/jobs/:id/complete", hb.CompleteJobHandler)
		api.GET("/earnings", hb.MyEarningsHandler)
		api.GET("/earnings/summary", hb.MyEarningsSummaryHandler)
		api.GET("/ratings", hb.MyRatingsHandler)
	}
}

// RegisterRatingRoutes registers rating submission.
func RegisterRatingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/ratings")
	api.Use(middleware.JWTAuth(), middleware.RequireRole(models.RoleResident))
	{
		api.POST("", hb.CreateRatingHandler)
	}
}

// RegisterNotificationRoutes registers the in-app inbox.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.JWTAuth())
	{
		api.GET("", hb.NotificationsHandler)
		api.GET("/unread-count", hb.UnreadCountHandler)
		api.PUT("/:id/read", hb.MarkReadHandler)
		api.PUT("/read-all", hb.MarkAllReadHandler)
	}
}

// RegisterPaymentRoutes registers the gateway flow. The webhook stays
// outside auth: the gateway signs its own calls.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.StripeWebhookHandler)

	api := r.Group("/api/payments")
	api.Use(middleware.JWTAuth(), middleware.RequireRole(models.RoleResident))
	{
		api.POST("/orders", hb.CreateOrderHandler)
		api.POST("/verify", hb.VerifyPaymentHandler)
		api.GET("/orders", hb.MyOrdersHandler)
	}
	invoices := r.Group("/api/payments/invoices")
	invoices.Use(middleware.JWTAuth())
	invoices.GET("/:id", hb.InvoiceHandler)
}

// RegisterAdminRoutes registers oversight endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	api.Use(middleware.JWTAuth(), middleware.RequireRole(models.RoleAdmin))
	{
		api.GET("/dashboard", hb.DashboardHandler)
		api.GET("/users", hb.ListUsersHandler)
		api.PUT("/bookings/:id/assign", hb.AssignSevakHandler)
		api.POST("/bookings/:id/refund", hb.RefundBookingHandler)
		api.POST("/sevaks/:id/blacklist", hb.BlacklistSevakHandler)
		api.DELETE("/sevaks/:id/blacklist", hb.ReinstateSevakHandler)
		api.GET("/sevaks/:id/blacklist", hb.BlacklistHistoryHandler)
		api.GET("/blacklist", hb.ListBlacklistedHandler)
		api.POST("/broadcasts", hb.BroadcastHandler)
		api.GET("/broadcasts", hb.ListBroadcastsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the
// periodic dependency monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterSevakRoutes(r, hb)
	RegisterRatingRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
