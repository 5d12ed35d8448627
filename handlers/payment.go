package handlers

import (
	"net/http"
	"strconv"

	"banglabnb/config"
	"banglabnb/middleware"
	"banglabnb/models"
	"banglabnb/services/payment"
	"banglabnb/services/payout"
	"banglabnb/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes payment initiation and the gateway callback
// endpoints. Callbacks are form POSTs from the gateway, not the client, so
// they carry no bearer token and are mounted outside the auth group.
type PaymentHandler struct {
	Service payment.PaymentService
	Payouts payout.PayoutService
}

func NewPaymentHandler(svc payment.PaymentService, payouts payout.PayoutService) *PaymentHandler {
	return &PaymentHandler{Service: svc, Payouts: payouts}
}

type initiateBookingInput struct {
	BookingID string          `json:"booking_id"`
	Amount    float64         `json:"amount"`
	Customer  models.Customer `json:"customer"`
}

// InitiateBookingPayment handles POST /api/payments/booking
func (h *PaymentHandler) InitiateBookingPayment(c *gin.Context) {
	var input initiateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Service.InitiateBookingPayment(c.Request.Context(), middleware.ActorID(c), input.BookingID, input.Amount, input.Customer)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type initiateTripInput struct {
	TripID   string          `json:"trip_id"`
	Customer models.Customer `json:"customer"`
}

// InitiateTripPayment handles POST /api/payments/trip
func (h *PaymentHandler) InitiateTripPayment(c *gin.Context) {
	var input initiateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Service.InitiateTripPayment(c.Request.Context(), middleware.ActorID(c), input.TripID, input.Customer)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Success handles POST /api/payments/success — the gateway's redirect after
// a completed checkout. The payer's browser follows the redirect, so on
// success we bounce to the client app's confirmation page.
func (h *PaymentHandler) Success(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	valID := c.PostForm("val_id")
	amount, _ := strconv.ParseFloat(c.PostForm("amount"), 64)

	result, err := h.Service.HandleSuccess(c.Request.Context(), tranID, valID, amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, config.AppConfig.ClientURL+"/payment/success?order="+result.OrderID)
}

// Fail handles POST /api/payments/fail
func (h *PaymentHandler) Fail(c *gin.Context) {
	if err := h.Service.HandleFailure(c.Request.Context(), c.PostForm("tran_id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, config.AppConfig.ClientURL+"/payment/failed")
}

// Cancel handles POST /api/payments/cancel — the payer abandoned checkout.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	if err := h.Service.HandleFailure(c.Request.Context(), c.PostForm("tran_id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, config.AppConfig.ClientURL+"/payment/cancelled")
}

// IPN handles POST /api/payments/ipn — the gateway's server-to-server
// notification, delivered independently of the browser redirect.
func (h *PaymentHandler) IPN(c *gin.Context) {
	payload := map[string]string{}
	if err := c.Request.ParseForm(); err == nil {
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				payload[k] = v[0]
			}
		}
	}
	amount, _ := strconv.ParseFloat(c.PostForm("amount"), 64)

	result, err := h.Service.HandleIPN(c.Request.Context(), c.PostForm("tran_id"), c.PostForm("status"), c.PostForm("val_id"), amount, payload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListEvents handles GET /api/payments/:tranId/events (admin role).
func (h *PaymentHandler) ListEvents(c *gin.Context) {
	events, err := h.Service.ListEvents(c.Request.Context(), c.Param("tranId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListMyPayouts handles GET /api/host/payouts (host role).
func (h *PaymentHandler) ListMyPayouts(c *gin.Context) {
	payouts, err := h.Payouts.ListHostPayouts(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}
