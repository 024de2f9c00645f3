package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("not found")

// Store owns the MongoDB connection and exposes the typed collections.
// It is constructed once at startup and closed on shutdown.
type Store struct {
	client *mongo.Client

	Users    UserCollection
	Jobs     JobCollection
	Invoices InvoiceCollection
	Notes    NoteCollection
}

// Connect establishes the MongoDB connection, verifies it with a ping and
// wires up the collections.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}

	database := client.Database(dbName)
	return &Store{
		client:   client,
		Users:    &MongoUserCollection{Collection: database.Collection("users")},
		Jobs:     &MongoJobCollection{Collection: database.Collection("jobs")},
		Invoices: &MongoInvoiceCollection{Collection: database.Collection("invoices")},
		Notes:    &MongoNoteCollection{Collection: database.Collection("job_notes")},
	}, nil
}

// Close releases the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
