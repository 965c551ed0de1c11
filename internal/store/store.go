// Package store is the document store client shared by every handler of a
// service. It owns the single backend connection and hands out typed
// collections bound to it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"recordapi/internal/config"
	"recordapi/internal/database"
	"recordapi/internal/database/migration"
	"recordapi/internal/repository"
	"recordapi/internal/repository/mongodb"
	"recordapi/internal/repository/postgres"
)

// Client holds one connection to the configured backend.
type Client struct {
	driver string
	mongo  *mongo.Client
	mdb    *mongo.Database
	sql    *sql.DB
	dbHost string
	logger *zap.Logger
}

// Connect opens the backend selected by cfg.Driver.
func Connect(cfg config.StoreConfig, logger *zap.Logger) (*Client, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, db, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return NewMongoClient(client, db, logger), nil
	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		c := NewSQLClient(db, logger)
		c.dbHost = cfg.Postgres.Host
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// NewMongoClient wraps an already connected MongoDB client.
func NewMongoClient(client *mongo.Client, db *mongo.Database, logger *zap.Logger) *Client {
	return &Client{driver: config.DriverMongo, mongo: client, mdb: db, logger: logger}
}

// NewSQLClient wraps an already opened PostgreSQL pool.
func NewSQLClient(db *sql.DB, logger *zap.Logger) *Client {
	return &Client{driver: config.DriverPostgres, sql: db, logger: logger}
}

// Driver reports the backend in use.
func (c *Client) Driver() string {
	return c.driver
}

// PingContext checks that the backend is reachable.
func (c *Client) PingContext(ctx context.Context) error {
	if c.driver == config.DriverMongo {
		return c.mongo.Ping(ctx, readpref.Primary())
	}
	return c.sql.PingContext(ctx)
}

// EnsureCollections prepares storage for the named collections.
// MongoDB creates collections on first write, so only PostgreSQL needs work here.
func (c *Client) EnsureCollections(ctx context.Context, names ...string) error {
	if c.driver != config.DriverPostgres {
		return nil
	}
	return migration.EnsureCollections(ctx, c.sql, c.logger, c.dbHost, names...)
}

// Close releases the backend connection.
func (c *Client) Close(ctx context.Context) error {
	if c.driver == config.DriverMongo {
		return c.mongo.Disconnect(ctx)
	}
	return c.sql.Close()
}

// Collection returns the typed collection called name on the client's backend.
func Collection[T any](c *Client, name string) (repository.Collection[T], error) {
	if c.driver == config.DriverMongo {
		return mongodb.NewCollection[T](c.mdb.Collection(name)), nil
	}
	coll, err := postgres.NewCollection[T](c.sql, name)
	if err != nil {
		return nil, err
	}
	return coll, nil
}
