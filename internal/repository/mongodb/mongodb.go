package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	colServices = "services"
	colBookings = "bookings"
	colUsers    = "users"
	colDoctors  = "doctors"
	colPayments = "payments"
	colOutbox   = "outbox"
)

type Config struct {
	URI      string
	Database string
}

// DB wraps the shared, long-lived client opened once at process start and
// reused by all requests.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewDB(cfg Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DB{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the service depends on. The unique
// compound index on bookings closes the check-then-insert race: two
// concurrent creates for the same (treatment, date, patient) cannot both
// land, the storage engine rejects the second.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	bookingIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "treatment", Value: 1},
			{Key: "date", Value: 1},
			{Key: "patient", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := d.db.Collection(colBookings).Indexes().CreateOne(ctx, bookingIdx); err != nil {
		return fmt.Errorf("failed to create booking index: %w", err)
	}

	uniqueKey := func(col, field string) error {
		idx := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := d.db.Collection(col).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s.%s index: %w", col, field, err)
		}
		return nil
	}
	if err := uniqueKey(colServices, "name"); err != nil {
		return err
	}
	if err := uniqueKey(colUsers, "email"); err != nil {
		return err
	}
	if err := uniqueKey(colDoctors, "email"); err != nil {
		return err
	}

	outboxIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: 1},
		},
	}
	if _, err := d.db.Collection(colOutbox).Indexes().CreateOne(ctx, outboxIdx); err != nil {
		return fmt.Errorf("failed to create outbox index: %w", err)
	}
	return nil
}
