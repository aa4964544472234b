package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doctorsportal/portal-api/internal/handler"
	"github.com/doctorsportal/portal-api/internal/middleware"
	"github.com/doctorsportal/portal-api/internal/model"
	paymentService "github.com/doctorsportal/portal-api/internal/service/payment"
)

type Handler struct {
	service *paymentService.Service
}

func NewHandler(service *paymentService.Service) *Handler {
	return &Handler{service: service}
}

// CreatePaymentIntent asks the upstream provider for a payment intent and
// returns its client secret.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req model.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.CreateIntent(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.POST("/create-payment-intent", auth.Authenticate(), h.CreatePaymentIntent)
}
