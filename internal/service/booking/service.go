package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/doctorsportal/portal-api/internal/email"
	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
	apperrors "github.com/doctorsportal/portal-api/pkg/errors"
	"github.com/doctorsportal/portal-api/pkg/logger"
	"github.com/doctorsportal/portal-api/pkg/metrics"
)

// Emitter records domain events for asynchronous publishing.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	events      Emitter
	emailSvc    email.Service
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

func NewService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	events Emitter,
	emailSvc email.Service,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		events:      events,
		emailSvc:    emailSvc,
		metrics:     metrics,
		logger:      logger,
	}
}

// Create inserts the booking. The unique (treatment, date, patient) index
// enforces uniqueness at the storage level; a duplicate is a normal negative
// outcome carrying the record that was already there, not a fault.
func (s *Service) Create(ctx context.Context, booking *model.Booking) (*model.BookingResult, error) {
	inserted, err := s.bookingRepo.Insert(ctx, booking)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			existing, findErr := s.bookingRepo.FindTriple(ctx, booking.Treatment, booking.Date, booking.Patient)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load existing booking: %w", findErr)
			}
			s.metrics.BookingConflicts.Inc()
			return &model.BookingResult{Success: false, Existing: existing}, nil
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.metrics.BookingsCreated.Inc()

	if err := s.events.Emit(ctx, model.EventBookingCreated, inserted); err != nil {
		s.logger.Error(err, "failed to emit booking.created event", "booking_id", inserted.ID.Hex())
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, inserted); err != nil {
		s.logger.Error(err, "failed to send booking confirmation", "patient", inserted.Patient)
	}

	return &model.BookingResult{Success: true, Booking: inserted}, nil
}

// RecordPayment marks the booking paid and appends a payment record. Both
// writes are attempted; a fault in one does not roll back the other.
func (s *Service) RecordPayment(ctx context.Context, bookingID string, req *model.RecordPaymentRequest) error {
	markErr := s.bookingRepo.MarkPaid(ctx, bookingID, req.TransactionID)

	payment := &model.Payment{
		TransactionID: req.TransactionID,
		BookingID:     bookingID,
		Amount:        req.Amount,
	}
	insertErr := s.paymentRepo.Insert(ctx, payment)

	if markErr != nil {
		if errors.Is(markErr, repository.ErrNotFound) {
			return apperrors.NotFound("booking", markErr)
		}
		return fmt.Errorf("failed to mark booking paid: %w", markErr)
	}
	if insertErr != nil {
		return fmt.Errorf("failed to record payment: %w", insertErr)
	}

	s.metrics.PaymentsRecorded.Inc()

	if err := s.events.Emit(ctx, model.EventBookingPaid, payment); err != nil {
		s.logger.Error(err, "failed to emit booking.paid event", "booking_id", bookingID)
	}
	return nil
}

// ListForPatient returns the bookings owned by the given identity. The
// ownership check against the authenticated identity happens at the HTTP
// layer before this is called.
func (s *Service) ListForPatient(ctx context.Context, patient string) ([]model.Booking, error) {
	bookings, err := s.bookingRepo.ListByPatient(ctx, patient)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}
