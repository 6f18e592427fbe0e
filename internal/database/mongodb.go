package database

import (
	"context"
	"fmt"
	"time"

	"github.com/virajo/backoffice/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri).SetRetryWrites(false)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Mongo ties the client lifecycle to the configured database.
type Mongo struct {
	Client  *mongo.Client
	DB      *mongo.Database
	timeout time.Duration
}

// Open connects using cfg. cfg.URI must be set.
func Open(ctx context.Context, cfg config.MongoDBConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: MONGODB_URI is empty")
	}
	client, err := ConnectMongo(ctx, cfg.URI, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Mongo{Client: client, DB: client.Database(cfg.Database), timeout: cfg.Timeout}, nil
}

// Ping is used by the readiness probe.
func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
