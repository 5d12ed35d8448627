package routes

import (
	"net/http"
	"time"

	"banglabnb/handlers"
	"banglabnb/middleware"
	"banglabnb/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bookings *handlers.BookingHandler, trips *handlers.TripHandler, payments *handlers.PaymentHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, bookings)
	RegisterTripRoutes(r, trips)
	RegisterPaymentRoutes(r, payments)
}

// RegisterHealthRoute registers the liveness endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterBookingRoutes registers listing availability and booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	listings := r.Group("/api/listings")
	{
		// Availability is public; guests browse before signing in.
		listings.GET("/:id/availability", h.CheckAvailability)
		listings.GET("/:id/calendar", h.ListingCalendar)
	}

	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.JWTAuthMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/accept", middleware.RequireRole(models.RoleHost), h.AcceptBooking)
		bookings.PATCH("/:id/cancel", h.CancelBooking)
		bookings.PATCH("/:id/checkin", h.CheckIn)
		bookings.PATCH("/:id/checkout", h.CheckOut)
	}

	orders := r.Group("/api/orders")
	orders.Use(middleware.JWTAuthMiddleware())
	{
		orders.POST("/combined", h.CreateCombinedOrder)
		orders.POST("/quote", h.QuotePrice)
	}

	host := r.Group("/api/host")
	host.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleHost))
	{
		host.GET("/bookings", h.ListHostBookings)
	}
}

// RegisterTripRoutes registers ride trip and seat reservation endpoints.
func RegisterTripRoutes(r *gin.Engine, h *handlers.TripHandler) {
	trips := r.Group("/api/trips")
	{
		trips.GET("", h.ListAvailable)
		trips.GET("/:id", h.GetTrip)

		protected := trips.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.GET("/reservations", h.ListMyReservations)
		protected.GET("/:id/seats", h.CheckSeats)
		protected.POST("/:id/reserve", h.ReserveSeats)
		protected.PATCH("/:id/reserve/cancel", h.CancelReservation)
		protected.POST("", middleware.RequireRole(models.RoleDriver), h.CreateTrip)
		protected.PATCH("/:id/cancel", middleware.RequireRole(models.RoleDriver), h.CancelTrip)
		protected.PATCH("/:id/complete", middleware.RequireRole(models.RoleDriver), h.MarkCompleted)
	}

	driver := r.Group("/api/driver")
	driver.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleDriver))
	{
		driver.GET("/trips", h.ListMyTrips)
	}
}

// RegisterPaymentRoutes registers payment initiation, gateway callbacks and
// payout endpoints. Callback endpoints are unauthenticated: the gateway
// posts to them directly and correctness rests on the transaction id lookup
// plus the idempotent paid flip, not on a bearer token.
func RegisterPaymentRoutes(r *gin.Engine, h *handlers.PaymentHandler) {
	payments := r.Group("/api/payments")
	{
		payments.POST("/success", h.Success)
		payments.POST("/fail", h.Fail)
		payments.POST("/cancel", h.Cancel)
		payments.POST("/ipn", h.IPN)

		protected := payments.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/booking", h.InitiateBookingPayment)
		protected.POST("/trip", h.InitiateTripPayment)
		protected.GET("/:tranId/events", middleware.RequireRole(models.RoleAdmin), h.ListEvents)
	}

	host := r.Group("/api/host")
	host.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleHost))
	{
		host.GET("/payouts", h.ListMyPayouts)
	}
}
