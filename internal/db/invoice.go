package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icdtuning/workshop-backend/internal/models"
)

// InvoiceCollection defines the interface for invoice database operations
type InvoiceCollection interface {
	InsertInvoice(ctx context.Context, invoice models.Invoice) (string, error)
	FindInvoiceByID(ctx context.Context, id string) (*models.Invoice, error)
	FindInvoicesByJob(ctx context.Context, jobID string) ([]models.Invoice, error)
	CountInvoices(ctx context.Context) (int64, error)
	SetDispatchFlag(ctx context.Context, id string, field string) error
}

// MongoInvoiceCollection implements InvoiceCollection for MongoDB
type MongoInvoiceCollection struct {
	Collection *mongo.Collection
}

// InsertInvoice inserts an invoice record and returns its generated id.
func (c *MongoInvoiceCollection) InsertInvoice(ctx context.Context, invoice models.Invoice) (string, error) {
	if invoice.ID.IsZero() {
		invoice.ID = primitive.NewObjectID()
	}
	if invoice.Parts == nil {
		invoice.Parts = []models.PartItem{}
	}

	_, err := c.Collection.InsertOne(ctx, invoice)
	if err != nil {
		return "", err
	}
	return invoice.ID.Hex(), nil
}

// FindInvoiceByID finds an invoice by its ID.
func (c *MongoInvoiceCollection) FindInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var invoice models.Invoice
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &invoice, nil
}

// FindInvoicesByJob lists all invoices referencing a job.
func (c *MongoInvoiceCollection) FindInvoicesByJob(ctx context.Context, jobID string) ([]models.Invoice, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountInvoices counts all invoice documents. Used for sequential number
// generation; the count-then-insert pair is not transactional, so concurrent
// creations can race to the same number.
func (c *MongoInvoiceCollection) CountInvoices(ctx context.Context) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{})
}

// SetDispatchFlag marks one of the dispatch booleans on an invoice.
func (c *MongoInvoiceCollection) SetDispatchFlag(ctx context.Context, id string, field string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{field: true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NoteCollection defines the interface for job note operations
type NoteCollection interface {
	InsertNote(ctx context.Context, note models.JobNote) error
	FindNotesByJob(ctx context.Context, jobID string) ([]models.JobNote, error)
}

// MongoNoteCollection implements NoteCollection for MongoDB
type MongoNoteCollection struct {
	Collection *mongo.Collection
}

// InsertNote inserts a job note.
func (c *MongoNoteCollection) InsertNote(ctx context.Context, note models.JobNote) error {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	note.CreatedAt = time.Now()

	_, err := c.Collection.InsertOne(ctx, note)
	return err
}

// FindNotesByJob lists all notes attached to a job.
func (c *MongoNoteCollection) FindNotesByJob(ctx context.Context, jobID string) ([]models.JobNote, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []models.JobNote
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
