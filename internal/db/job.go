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

// JobCollection defines the interface for job database operations.
// Dates cross this boundary only as time.Time values; string parsing belongs
// to the request decoding layer.
type JobCollection interface {
	InsertJob(ctx context.Context, job models.Job) (string, error)
	FindJobByID(ctx context.Context, id string) (*models.Job, error)
	FindJobs(ctx context.Context, filter bson.M) ([]models.Job, error)
	UpdateJob(ctx context.Context, id string, fields bson.M) error
	PushPhoto(ctx context.Context, id string, photoURL string) error
}

// MongoJobCollection implements JobCollection for MongoDB
type MongoJobCollection struct {
	Collection *mongo.Collection
}

// InsertJob inserts a job record and returns its generated id.
func (c *MongoJobCollection) InsertJob(ctx context.Context, job models.Job) (string, error) {
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	job.CreatedAt = time.Now()
	if job.Photos == nil {
		job.Photos = []string{}
	}

	_, err := c.Collection.InsertOne(ctx, job)
	if err != nil {
		return "", err
	}
	return job.ID.Hex(), nil
}

// FindJobByID finds a job by its ID.
func (c *MongoJobCollection) FindJobByID(ctx context.Context, id string) (*models.Job, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var job models.Job
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &job, nil
}

// FindJobs queries job records matching the filter.
func (c *MongoJobCollection) FindJobs(ctx context.Context, filter bson.M) ([]models.Job, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateJob applies a partial $set update to a job.
func (c *MongoJobCollection) UpdateJob(ctx context.Context, id string, fields bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PushPhoto appends a photo data URL to a job's photos array.
func (c *MongoJobCollection) PushPhoto(ctx context.Context, id string, photoURL string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$push": bson.M{"photos": photoURL}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
