package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
)

type doctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *DB) repository.DoctorRepository {
	return &doctorRepository{col: db.db.Collection(colDoctors)}
}

func (r *doctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := []model.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	res, err := r.col.InsertOne(ctx, doctor)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert doctor: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doctor.ID = oid
	}
	return nil
}

func (r *doctorRepository) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
