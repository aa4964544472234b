package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
)

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{col: db.db.Collection(colUsers)}
}

// Upsert writes the profile keyed by email. Calling it again with the same
// email is a plain update; the role field is never touched here so an
// existing elevation survives profile rewrites.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) (*repository.UpsertResult, error) {
	filter := bson.M{"email": user.Email}
	update := bson.M{"$set": bson.M{
		"email": user.Email,
		"name":  user.Name,
	}}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return upsertResult(res), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *userRepository) SetRole(ctx context.Context, email, role string) (*repository.UpsertResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set user role: %w", err)
	}
	return upsertResult(res), nil
}

func upsertResult(res *mongo.UpdateResult) *repository.UpsertResult {
	return &repository.UpsertResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    res.UpsertedID,
	}
}
