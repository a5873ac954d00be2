package meallog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig configures the meal-log database connection.
type MongoConfig struct {
	ConnectionURL   string        `env:"MEALLOG_MONGODB_URL,required"`
	Database        string        `env:"MEALLOG_MONGODB_DATABASE" envDefault:"oxakit"`
	Collection      string        `env:"MEALLOG_MONGODB_COLLECTION" envDefault:"meal_entries"`
	ConnectTimeout  time.Duration `env:"MEALLOG_MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MEALLOG_MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"MEALLOG_MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MEALLOG_MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts   int           `env:"MEALLOG_MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"MEALLOG_MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}

// Connect establishes a mongo client with retry and returns the meal-entry
// collection.
func Connect(ctx context.Context, cfg MongoConfig) (*mongo.Collection, error) {
	attempts := max(1, cfg.RetryAttempts)
	for range attempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize).
				SetMinPoolSize(cfg.MinPoolSize).
				SetMaxConnIdleTime(cfg.MaxConnIdleTime),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client.Database(cfg.Database).Collection(cfg.Collection), nil
			}
			_ = client.Disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrFailedToConnectToMongo
}

// MongoStore persists entries in a mongo collection keyed by entry ID, with
// day-stamp lookups for the daily view.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a store over an existing collection. Panics on nil
// collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	if collection == nil {
		panic("meallog: mongo.Collection is required")
	}
	return &MongoStore{collection: collection}
}

func (s *MongoStore) Add(ctx context.Context, entry Entry) error {
	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) Remove(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if result.DeletedCount == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *MongoStore) ListDay(ctx context.Context, day string) ([]Entry, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"day": day},
		options.Find().SetSort(bson.D{{Key: "logged_at", Value: 1}}))
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return entries, nil
}
