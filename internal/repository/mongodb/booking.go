package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
)

type bookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *DB) repository.BookingRepository {
	return &bookingRepository{col: db.db.Collection(colBookings)}
}

func (r *bookingRepository) Insert(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	res, err := r.col.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return booking, nil
}

func (r *bookingRepository) FindTriple(ctx context.Context, treatment, date, patient string) (*model.Booking, error) {
	filter := bson.M{
		"treatment": treatment,
		"date":      date,
		"patient":   patient,
	}

	var booking model.Booking
	if err := r.col.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) Get(ctx context.Context, id string) (*model.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var booking model.Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByDate(ctx context.Context, date string) ([]model.Booking, error) {
	return r.list(ctx, bson.M{"date": date})
}

func (r *bookingRepository) ListByPatient(ctx context.Context, patient string) ([]model.Booking, error) {
	return r.list(ctx, bson.M{"patient": patient})
}

func (r *bookingRepository) list(ctx context.Context, filter bson.M) ([]model.Booking, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id, transactionID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"paid":          true,
		"transactionId": transactionID,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
