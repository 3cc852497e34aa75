// internal/app/store/structuretests/structureteststore.go
package structureteststore

import (
	"context"

	"github.com/dalemusser/wallcharts/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("structure_tests")}
}

// GetOrCreate returns the structure test named name (case-insensitive),
// creating it active with the given description and added date when absent.
// The description of an existing test is left as is.
func (s *Store) GetOrCreate(ctx context.Context, st models.StructureTest) (models.StructureTest, bool, error) {
	filter := bson.M{"name_ci": text.Fold(st.Name)}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":         primitive.NewObjectID(),
		"name":        st.Name,
		"description": st.Description,
		"active":      true,
		"added":       st.Added,
	}}

	res, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !wafflemongo.IsDup(err) {
		return models.StructureTest{}, false, err
	}
	created := err == nil && res.UpsertedID != nil

	var out models.StructureTest
	if err := s.c.FindOne(ctx, filter).Decode(&out); err != nil {
		return models.StructureTest{}, false, err
	}
	return out, created, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.StructureTest, error) {
	var st models.StructureTest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return models.StructureTest{}, err
	}
	return st, nil
}

// List returns all structure tests in the order they were added.
func (s *Store) List(ctx context.Context) ([]models.StructureTest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.StructureTest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
