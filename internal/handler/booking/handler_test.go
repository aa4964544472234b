package booking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/portal-api/internal/middleware"
	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
	bookingService "github.com/doctorsportal/portal-api/internal/service/booking"
	"github.com/doctorsportal/portal-api/pkg/auth"
	"github.com/doctorsportal/portal-api/pkg/logger"
	"github.com/doctorsportal/portal-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("booking_handler_test")

type fakeBookingRepo struct {
	insertErr error
	existing  *model.Booking
	byPatient map[string][]model.Booking
}

func (f *fakeBookingRepo) Insert(_ context.Context, b *model.Booking) (*model.Booking, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return b, nil
}

func (f *fakeBookingRepo) FindTriple(context.Context, string, string, string) (*model.Booking, error) {
	if f.existing == nil {
		return nil, repository.ErrNotFound
	}
	return f.existing, nil
}

func (f *fakeBookingRepo) Get(context.Context, string) (*model.Booking, error) {
	if f.existing == nil {
		return nil, repository.ErrNotFound
	}
	return f.existing, nil
}

func (f *fakeBookingRepo) ListByDate(context.Context, string) ([]model.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListByPatient(_ context.Context, patient string) ([]model.Booking, error) {
	return f.byPatient[patient], nil
}

func (f *fakeBookingRepo) MarkPaid(context.Context, string, string) error { return nil }

type fakePaymentRepo struct{}

func (fakePaymentRepo) Insert(context.Context, *model.Payment) error { return nil }

type fakeEmitter struct{}

func (fakeEmitter) Emit(context.Context, string, interface{}) error { return nil }

type fakeEmail struct{}

func (fakeEmail) SendBookingConfirmation(context.Context, *model.Booking) error { return nil }

type fakeUserRepo struct{}

func (fakeUserRepo) Upsert(context.Context, *model.User) (*repository.UpsertResult, error) {
	return nil, nil
}

func (fakeUserRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (fakeUserRepo) List(context.Context) ([]model.User, error) { return nil, nil }

func (fakeUserRepo) SetRole(context.Context, string, string) (*repository.UpsertResult, error) {
	return nil, nil
}

func setupRouter(t *testing.T, repo *fakeBookingRepo) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := bookingService.NewService(repo, fakePaymentRepo{}, fakeEmitter{}, fakeEmail{}, testMetrics, log)
	tokenSvc := auth.NewTokenService("test-secret", time.Hour)
	authMw := middleware.NewAuthMiddleware(tokenSvc, fakeUserRepo{})

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group(""), authMw)
	return r, tokenSvc
}

func TestListBookingsOwnership(t *testing.T) {
	repo := &fakeBookingRepo{byPatient: map[string][]model.Booking{
		"p@example.com": {{Treatment: "Fluoride", Patient: "p@example.com"}},
	}}
	r, tokenSvc := setupRouter(t, repo)

	token, err := tokenSvc.Generate("p@example.com")
	require.NoError(t, err)

	// Querying your own bookings works.
	req := httptest.NewRequest(http.MethodGet, "/booking?patient=p@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fluoride")

	// Any other identity is forbidden, existing or not.
	req = httptest.NewRequest(http.MethodGet, "/booking?patient=other@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden access")
}

func TestListBookingsRequiresToken(t *testing.T) {
	r, _ := setupRouter(t, &fakeBookingRepo{})

	req := httptest.NewRequest(http.MethodGet, "/booking?patient=p@example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingOpenEndpoint(t *testing.T) {
	r, _ := setupRouter(t, &fakeBookingRepo{})

	body := `{"treatment":"Fluoride","date":"2026-05-10","patient":"p@example.com","slot":"8.00 AM - 9.00 AM"}`
	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestCreateBookingDuplicateReportsExisting(t *testing.T) {
	existing := &model.Booking{
		Treatment: "Fluoride",
		Date:      "2026-05-10",
		Patient:   "p@example.com",
		Slot:      "8.00 AM - 9.00 AM",
	}
	r, _ := setupRouter(t, &fakeBookingRepo{insertErr: repository.ErrDuplicate, existing: existing})

	body := `{"treatment":"Fluoride","date":"2026-05-10","patient":"p@example.com","slot":"9.00 AM - 10.00 AM"}`
	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "8.00 AM - 9.00 AM")
}

func TestGetBookingNotFound(t *testing.T) {
	r, tokenSvc := setupRouter(t, &fakeBookingRepo{})

	token, err := tokenSvc.Generate("p@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/booking/64b0c0ffee00deadbeef0001", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
