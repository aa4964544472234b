package repository

import (
	"context"
	"errors"

	"github.com/doctorsportal/portal-api/internal/model"
)

// Sentinel errors returned by all repository implementations.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UpsertResult is the storage write acknowledgment returned to clients of
// the user upsert, shaped like the document store's own ack.
type UpsertResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedID    interface{} `json:"upsertedId,omitempty"`
}

type ServiceRepository interface {
	List(ctx context.Context) ([]model.Service, error)
	Create(ctx context.Context, svc *model.Service) error
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	// Insert relies on the unique (treatment, date, patient) index and
	// returns ErrDuplicate when the triple is already booked.
	Insert(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindTriple(ctx context.Context, treatment, date, patient string) (*model.Booking, error)
	Get(ctx context.Context, id string) (*model.Booking, error)
	ListByDate(ctx context.Context, date string) ([]model.Booking, error)
	ListByPatient(ctx context.Context, patient string) ([]model.Booking, error)
	MarkPaid(ctx context.Context, id, transactionID string) error
}

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) (*UpsertResult, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetRole(ctx context.Context, email, role string) (*UpsertResult, error)
}

type DoctorRepository interface {
	List(ctx context.Context) ([]model.Doctor, error)
	Create(ctx context.Context, doctor *model.Doctor) error
	DeleteByEmail(ctx context.Context, email string) error
}

type PaymentRepository interface {
	Insert(ctx context.Context, payment *model.Payment) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	// ClaimPending atomically moves up to limit PENDING events to PROCESSING
	// and returns them.
	ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id string) error
	MarkRetry(ctx context.Context, id string, errMsg string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
}
