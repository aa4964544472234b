package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doctorsportal/portal-api/internal/handler"
	"github.com/doctorsportal/portal-api/internal/middleware"
	"github.com/doctorsportal/portal-api/internal/model"
	userService "github.com/doctorsportal/portal-api/internal/service/user"
)

type Handler struct {
	service *userService.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *userService.Service) *Handler {
	return &Handler{service: service}
}

// UpsertUser writes the profile keyed by the path email and returns the write
// acknowledgment together with a freshly signed bearer token. This is the
// only token-issuance path.
func (h *Handler) UpsertUser(c *gin.Context, email string) {
	var req model.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.Upsert(c.Request.Context(), email, &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) MakeAdmin(c *gin.Context, email string) {
	result, err := h.service.MakeAdmin(c.Request.Context(), email)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAdminStatus reports whether the given email holds the admin role. An
// unknown email is simply not an admin.
func (h *Handler) GetAdminStatus(c *gin.Context) {
	isAdmin, err := h.service.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": isAdmin})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// dispatchPut serves both PUT /user/:email and PUT /user/admin/:email. The
// router tree cannot hold a static "admin" segment next to the email
// wildcard, so a single catch-all splits them here. Only the admin branch is
// credential-gated; a plain profile upsert stays open.
func (h *Handler) dispatchPut(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("email"), "/")

	if email, ok := strings.CutPrefix(path, "admin/"); ok {
		h.auth.Authenticate()(c)
		if c.IsAborted() {
			return
		}
		h.auth.RequireAdmin()(c)
		if c.IsAborted() {
			return
		}
		h.MakeAdmin(c, email)
		return
	}

	h.UpsertUser(c, path)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	h.auth = auth
	r.PUT("/user/*email", h.dispatchPut)
	r.GET("/user", auth.Authenticate(), h.ListUsers)
	r.GET("/admin/:email", h.GetAdminStatus)
}
