package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"learnwords/config"
	"learnwords/logger"
	"learnwords/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the durable user store behind the progress service
type Store interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	MarkWordRead(ctx context.Context, userID string, day int, word string, required int) (*models.MarkResult, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
	CreateUser(ctx context.Context, user *models.User) error
	// Streak and badges are maintained outside the progress flow
	SetStreak(ctx context.Context, userID string, streak int) error
	AddBadge(ctx context.Context, userID string, badge string) error
	Close(ctx context.Context) error
}

// Open connects the store selected by cfg.Database.Driver
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, database, err := ConnectMongoDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client, database, cfg.DatabaseTimeout())
		if err := store.EnsureIndexes(ctx); err != nil {
			client.Disconnect(ctx)
			return nil, err
		}
		return store, nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Database.SQLitePath, cfg.DatabaseTimeout())
	case config.DriverMemory:
		logger.Warn("using in-memory store; progress is lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// extractDBName parses the database name from the URI, defaulting to "learnwords"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "learnwords"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "learnwords"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(ctx context.Context, uri string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := extractDBName(uri)
	logger.Info("connected to MongoDB", "database", dbName)

	return client, client.Database(dbName), nil
}
