package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
)

type outboxRepository struct {
	col *mongo.Collection
}

func NewOutboxRepository(db *DB) repository.OutboxRepository {
	return &outboxRepository{col: db.db.Collection(colOutbox)}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if _, err := r.col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// ClaimPending moves events to PROCESSING one at a time via findAndModify so
// concurrent processors never publish the same event twice.
func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	events := make([]*model.OutboxEvent, 0, limit)

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetReturnDocument(options.After)

	for len(events) < limit {
		update := bson.M{"$set": bson.M{
			"status":    model.OutboxStatusProcessing,
			"updatedAt": time.Now(),
		}}

		var event model.OutboxEvent
		err := r.col.FindOneAndUpdate(ctx,
			bson.M{"status": model.OutboxStatusPending},
			update, opts,
		).Decode(&event)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				break
			}
			return nil, fmt.Errorf("failed to claim outbox event: %w", err)
		}
		events = append(events, &event)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id string) error {
	now := time.Now()
	return r.update(ctx, id, bson.M{"$set": bson.M{
		"status":      model.OutboxStatusProcessed,
		"processedAt": now,
		"updatedAt":   now,
	}})
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id string, errMsg string) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{
			"status":       model.OutboxStatusPending,
			"errorMessage": errMsg,
			"updatedAt":    time.Now(),
		},
		"$inc": bson.M{"retryCount": 1},
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, errMsg string) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{
			"status":       model.OutboxStatusFailed,
			"errorMessage": errMsg,
			"updatedAt":    time.Now(),
		},
		"$inc": bson.M{"retryCount": 1},
	})
}

func (r *outboxRepository) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update outbox event: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
