package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doctorsportal/portal-api/internal/handler"
	"github.com/doctorsportal/portal-api/internal/middleware"
	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
	availabilityService "github.com/doctorsportal/portal-api/internal/service/availability"
	catalogService "github.com/doctorsportal/portal-api/internal/service/catalog"
)

type Handler struct {
	catalog      *catalogService.Service
	availability *availabilityService.Service
}

func NewHandler(catalog *catalogService.Service, availability *availabilityService.Service) *Handler {
	return &Handler{
		catalog:      catalog,
		availability: availability,
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetAvailable returns the catalog with each service's slots reduced to the
// ones still free on the requested date.
func (h *Handler) GetAvailable(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date query parameter is required"))
		return
	}

	services, err := h.availability.ForDate(c.Request.Context(), date)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	svc, err := h.catalog.CreateService(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("service already exists"))
			return
		}
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(svc))
}

func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.catalog.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("service not found"))
			return
		}
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.GET("/service", h.ListServices)
	r.GET("/available", h.GetAvailable)
	r.POST("/service", auth.Authenticate(), auth.RequireAdmin(), h.CreateService)
	r.DELETE("/service/:id", auth.Authenticate(), auth.RequireAdmin(), h.DeleteService)
}
