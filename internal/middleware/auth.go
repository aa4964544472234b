package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doctorsportal/portal-api/internal/handler"
	"github.com/doctorsportal/portal-api/internal/repository"
	"github.com/doctorsportal/portal-api/pkg/auth"
)

// ContextUserEmail is the gin context key holding the authenticated identity.
const ContextUserEmail = "userEmail"

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
	userRepo repository.UserRepository
}

func NewAuthMiddleware(tokenSvc *auth.TokenService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: tokenSvc,
		userRepo: userRepo,
	}
}

// Authenticate verifies the bearer token and sets the caller's email in the
// request context. A missing or ill-formed header is unauthenticated (401); a
// present token failing signature or expiry is forbidden (403). Nothing
// persists between requests, each one re-verifies.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.tokenSvc.Verify(parts[1])
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			c.JSON(http.StatusForbidden, handler.NewErrorResponse(msg))
			c.Abort()
			return
		}

		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin resolves the authenticated identity to a user record and
// permits the request only for the admin role. Applied strictly after
// Authenticate. A missing user and a non-admin role are distinct cases, both
// mapped to forbidden.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextUserEmail)
		if email == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authentication"))
			c.Abort()
			return
		}

		user, err := m.userRepo.GetByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusForbidden, handler.NewErrorResponse("forbidden access"))
			} else {
				c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to check role"))
			}
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("forbidden access"))
			c.Abort()
			return
		}

		c.Next()
	}
}
