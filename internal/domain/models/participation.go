// internal/domain/models/participation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation joins a worker to a structure test.
// Exactly one document per (worker_id, structure_test_id); absence means "not participating".
type Participation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkerID        primitive.ObjectID `bson:"worker_id" json:"worker_id"`
	StructureTestID primitive.ObjectID `bson:"structure_test_id" json:"structure_test_id"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
