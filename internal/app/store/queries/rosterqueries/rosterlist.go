package rosterqueries

import (
	"context"

	"github.com/dalemusser/wallcharts/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RosterEntry is one worker with the structure tests they joined.
type RosterEntry struct {
	Worker         models.Worker          `bson:"worker" json:"worker"`
	Participations []models.Participation `bson:"participations" json:"participations"`
}

// Joined reports whether the worker participates in the test.
func (e RosterEntry) Joined(testID primitive.ObjectID) bool {
	for _, p := range e.Participations {
		if p.StructureTestID == testID {
			return true
		}
	}
	return false
}

// ListRoster returns the workers organized by dept, ordered by name, each
// left-joined with its participations. Workers without participations carry
// an empty slice.
func ListRoster(ctx context.Context, db *mongo.Database, dept primitive.ObjectID) ([]RosterEntry, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"organizing_dept_id": dept}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "participations",
			"localField":   "_id",
			"foreignField": "worker_id",
			"as":           "participations",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":            0,
			"worker":         "$$ROOT",
			"participations": 1,
		}}},
	}

	cur, err := db.Collection("workers").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []RosterEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Participations == nil {
			out[i].Participations = []models.Participation{}
		}
	}
	return out, nil
}
