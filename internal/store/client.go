// Package store holds the MongoDB document repositories. Every write is a
// single independent document write; there are no cross-document
// transactions and no caching, reads always hit the store.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Client wraps one Mongo database handle.
type Client struct {
	raw *mongo.Client
	db  *mongo.Database
}

// Dial connects to Mongo and pings it.
func Dial(ctx context.Context, uri, dbName string) (*Client, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	raw, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := raw.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &Client{raw: raw, db: raw.Database(dbName)}, nil
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	return c.raw.Disconnect(ctx)
}

// nowISO is the stored timestamp format: ISO-8601 in UTC.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
