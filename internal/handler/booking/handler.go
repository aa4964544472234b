package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doctorsportal/portal-api/internal/handler"
	"github.com/doctorsportal/portal-api/internal/middleware"
	"github.com/doctorsportal/portal-api/internal/model"
	bookingService "github.com/doctorsportal/portal-api/internal/service/booking"
)

type Handler struct {
	service *bookingService.Service
}

func NewHandler(service *bookingService.Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking accepts a booking attempt. A duplicate (treatment, date,
// patient) triple is a normal outcome reported with success=false and the
// existing record, not an error status.
func (h *Handler) CreateBooking(c *gin.Context) {
	var booking model.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Create(c.Request.Context(), &booking)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusOK, gin.H{"success": false, "booking": result.Existing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result.Booking})
}

// ListBookings returns the authenticated patient's bookings. A query for any
// other identity is forbidden, regardless of whether that identity exists.
func (h *Handler) ListBookings(c *gin.Context) {
	patient := c.Query("patient")
	email := c.GetString(middleware.ContextUserEmail)

	if patient != email {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("forbidden access"))
		return
	}

	bookings, err := h.service.ListForPatient(c.Request.Context(), patient)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) GetBooking(c *gin.Context) {
	booking, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// RecordPayment marks the booking paid and appends a payment record.
func (h *Handler) RecordPayment(c *gin.Context) {
	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), &req); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"transactionId": req.TransactionID,
	}))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.POST("/booking", h.CreateBooking)
	r.GET("/booking", auth.Authenticate(), h.ListBookings)
	r.GET("/booking/:id", auth.Authenticate(), h.GetBooking)
	r.PATCH("/booking/:id", auth.Authenticate(), h.RecordPayment)
}
