// internal/app/store/participations/participationstore.go
package participationstore

import (
	"context"
	"time"

	"github.com/dalemusser/wallcharts/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("participations")}
}

// Add records that the worker joined the test. Joining twice is a no-op.
func (s *Store) Add(ctx context.Context, workerID, testID primitive.ObjectID) error {
	doc := models.Participation{
		ID:              primitive.NewObjectID(),
		WorkerID:        workerID,
		StructureTestID: testID,
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return nil
		}
		return err
	}
	return nil
}

// Remove deletes the participation for (workerID, testID). Absence is not an error.
func (s *Store) Remove(ctx context.Context, workerID, testID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"worker_id": workerID, "structure_test_id": testID})
	return err
}

// Exists reports whether the worker participates in the test.
func (s *Store) Exists(ctx context.Context, workerID, testID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"worker_id": workerID, "structure_test_id": testID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
