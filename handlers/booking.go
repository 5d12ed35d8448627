package handlers

import (
	"net/http"
	"time"

	"banglabnb/middleware"
	"banglabnb/services/booking"
	"banglabnb/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking state machine over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CheckAvailability handles GET /api/listings/:id/availability?from=...&to=...
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid 'from' date", err.Error())
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid 'to' date", err.Error())
		return
	}

	if err := h.Service.CheckAvailability(c.Request.Context(), c.Param("id"), from, to); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}

// ListingCalendar handles GET /api/listings/:id/calendar
func (h *BookingHandler) ListingCalendar(c *gin.Context) {
	ranges, err := h.Service.ListingCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booked": ranges})
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), middleware.ActorID(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateCombinedOrder handles POST /api/orders/combined
func (h *BookingHandler) CreateCombinedOrder(c *gin.Context) {
	var input booking.CombinedOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.CreateCombinedOrder(c.Request.Context(), middleware.ActorID(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// QuotePrice handles POST /api/orders/quote
func (h *BookingHandler) QuotePrice(c *gin.Context) {
	var input booking.CombinedOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	breakdown, err := h.Service.QuotePrice(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// GetBooking handles GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	found, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListMyBookings handles GET /api/bookings
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.Service.ListGuestBookings(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListHostBookings handles GET /api/host/bookings
func (h *BookingHandler) ListHostBookings(c *gin.Context) {
	bookings, err := h.Service.ListHostBookings(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// AcceptBooking handles PATCH /api/bookings/:id/accept
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	updated, err := h.Service.AcceptBooking(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CancelBooking handles PATCH /api/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	updated, err := h.Service.CancelBooking(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CheckIn handles PATCH /api/bookings/:id/checkin
func (h *BookingHandler) CheckIn(c *gin.Context) {
	updated, err := h.Service.CheckIn(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CheckOut handles PATCH /api/bookings/:id/checkout
func (h *BookingHandler) CheckOut(c *gin.Context) {
	updated, err := h.Service.CheckOut(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
