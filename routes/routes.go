package routes

import (
	"net/http"
	"time"

	"skybook/config"
	"skybook/handlers"
	"skybook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/users")
	{
		api.POST("/signup", hb.Users.SignupHandler)
		api.POST("/login", hb.Users.LoginHandler)

		// Protected routes (require authentication).
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.Users.GetMeHandler)
		api.PATCH("/updateMe", hb.Users.UpdateMeHandler)
		api.DELETE("/deleteMe", hb.Users.DeleteMeHandler)

		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		admin.GET("", hb.Users.ListUsersHandler)
		admin.GET("/:id", hb.Users.GetUserHandler)
		admin.PATCH("/:id", hb.Users.UpdateUserHandler)
		admin.DELETE("/:id", hb.Users.DeleteUserHandler)
	}
}

// RegisterFlightRoutes registers flight inventory endpoints. Reads are
// public; writes are admin-only.
func RegisterFlightRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/flights")
	{
		api.GET("", hb.Flights.ListFlightsHandler)
		api.GET("/search", hb.Flights.SearchFlightsHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthMiddleware(hb.UserRepo), middleware.RequireAdmin())
		admin.POST("", hb.Flights.CreateFlightHandler)
		admin.GET("/stats/flight-stats", hb.Flights.FlightStatsHandler)
		admin.PATCH("/:id", hb.Flights.UpdateFlightHandler)
		admin.DELETE("/:id", hb.Flights.DeleteFlightHandler)
		admin.PATCH("/:id/cancel", hb.Flights.CancelFlightHandler)

		api.GET("/:id", hb.Flights.GetFlightHandler)
	}
}

// RegisterBookingRoutes registers booking lifecycle endpoints. All require
// authentication; list, stats and the expiry sweep are admin-only.
func RegisterBookingRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/bookings")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.POST("", hb.Bookings.CreateBookingHandler)
		api.GET("/my-bookings", hb.Bookings.MyBookingsHandler)

		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		admin.GET("", hb.Bookings.ListBookingsHandler)
		admin.GET("/stats/booking-stats", hb.Bookings.BookingStatsHandler)
		admin.POST("/check-expired", hb.Bookings.CheckExpiredHandler)

		api.GET("/:id", hb.Bookings.GetBookingHandler)
		api.PATCH("/:id/cancel", hb.Bookings.CancelBookingHandler)
	}
}

// RegisterPaymentRoutes registers payment endpoints. The webhook and the
// dummy verifier are unauthenticated; the webhook authenticates itself via
// its signature.
func RegisterPaymentRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/payments")
	{
		api.POST("/webhook/paystack", hb.Webhooks.PaystackWebhookHandler)
		api.POST("/dummy-verify", hb.Payments.DummyVerifyPaymentHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("/initiate", hb.Payments.InitiatePaymentHandler)
		api.GET("/my-payments", hb.Payments.MyPaymentsHandler)
		api.GET("/verify", hb.Payments.VerifyPaymentHandler)

		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		admin.GET("", hb.Payments.ListPaymentsHandler)
		admin.POST("/refund", hb.Payments.RefundPaymentHandler)
		admin.GET("/stats/payment-stats", hb.Payments.PaymentStatsHandler)

		api.GET("/:id", hb.Payments.GetPaymentHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	allowOrigins := []string{"*"}
	if config.AppConfig.FrontendURL != "" {
		allowOrigins = []string{config.AppConfig.FrontendURL}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "x-paystack-signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterHealthRoute(r)

	v1 := r.Group("/api/v1")
	RegisterUserRoutes(v1, hb)
	RegisterFlightRoutes(v1, hb)
	RegisterBookingRoutes(v1, hb)
	RegisterPaymentRoutes(v1, hb)
}
