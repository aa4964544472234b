package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
	"github.com/doctorsportal/portal-api/pkg/auth"
)

type fakeUserRepo struct {
	users   map[string]*model.User
	repoErr error
}

func (f *fakeUserRepo) Upsert(context.Context, *model.User) (*repository.UpsertResult, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) List(context.Context) ([]model.User, error) { return nil, nil }

func (f *fakeUserRepo) SetRole(context.Context, string, string) (*repository.UpsertResult, error) {
	return nil, nil
}

func setupRouter(t *testing.T, repo repository.UserRepository) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenSvc := auth.NewTokenService("test-secret", time.Hour)
	m := NewAuthMiddleware(tokenSvc, repo)

	r := gin.New()
	r.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextUserEmail)})
	})
	r.GET("/admin-only", m.Authenticate(), m.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, tokenSvc
}

func doGet(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r, tokenSvc := setupRouter(t, &fakeUserRepo{})

	valid, err := tokenSvc.Generate("p@example.com")
	require.NoError(t, err)

	expired, err := auth.NewTokenService("test-secret", -time.Minute).Generate("p@example.com")
	require.NoError(t, err)

	otherKey, err := auth.NewTokenService("other-secret", time.Hour).Generate("p@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"bare token", valid, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusForbidden},
		{"expired token", "Bearer " + expired, http.StatusForbidden},
		{"wrong key", "Bearer " + otherKey, http.StatusForbidden},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, "/protected", tt.authHeader)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	r, tokenSvc := setupRouter(t, &fakeUserRepo{})

	token, err := tokenSvc.Generate("p@example.com")
	require.NoError(t, err)

	w := doGet(r, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "p@example.com")
}

func TestExpiredTokenMessage(t *testing.T) {
	r, _ := setupRouter(t, &fakeUserRepo{})

	expired, err := auth.NewTokenService("test-secret", -time.Minute).Generate("p@example.com")
	require.NoError(t, err)

	w := doGet(r, "/protected", "Bearer "+expired)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestRequireAdmin(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*model.User{
		"admin@example.com": {Email: "admin@example.com", Role: model.RoleAdmin},
		"p@example.com":     {Email: "p@example.com"},
	}}
	r, tokenSvc := setupRouter(t, repo)

	tests := []struct {
		name       string
		email      string
		wantStatus int
	}{
		{"admin allowed", "admin@example.com", http.StatusOK},
		{"regular user forbidden", "p@example.com", http.StatusForbidden},
		{"unknown user forbidden", "ghost@example.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokenSvc.Generate(tt.email)
			require.NoError(t, err)

			w := doGet(r, "/admin-only", "Bearer "+token)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireAdminStorageFault(t *testing.T) {
	repo := &fakeUserRepo{repoErr: errors.New("connection reset")}
	r, tokenSvc := setupRouter(t, repo)

	token, err := tokenSvc.Generate("admin@example.com")
	require.NoError(t, err)

	w := doGet(r, "/admin-only", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
