package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
)

type paymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *DB) repository.PaymentRepository {
	return &paymentRepository{col: db.db.Collection(colPayments)}
}

func (r *paymentRepository) Insert(ctx context.Context, payment *model.Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	if _, err := r.col.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}
