package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config holds the settings for the document-store backend.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store bundles the client with the database the repositories read from.
type Store struct {
	client *mongo.Client
	DB     *mongo.Database
}

// Open dials MongoDB and pings it before returning.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	store := &Store{client: client, DB: client.Database(cfg.Database)}
	if err := store.Ping(dialCtx); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, err
	}
	return store, nil
}

// Ping runs a server round trip against the selected database.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.DB.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
