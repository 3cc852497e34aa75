// internal/app/store/departments/departmentstore.go
package departmentstore

import (
	"context"
	"time"

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
	return &Store{c: db.Collection("departments")}
}

// GetOrCreate returns the department whose folded name matches name,
// inserting it with the given slug when absent. created reports whether
// this call inserted it. Outside a session a concurrent insert of the same
// name surfaces as a duplicate key and is retried once as a lookup. Inside a
// transaction the duplicate key is returned, since the aborted transaction
// cannot serve the lookup.
func (s *Store) GetOrCreate(ctx context.Context, name, slug string) (models.Department, bool, error) {
	nameCI := text.Fold(name)
	filter := bson.M{"name_ci": nameCI}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        primitive.NewObjectID(),
		"name":       name,
		"slug":       slug,
		"created_at": time.Now().UTC(),
	}}

	res, upsertErr := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if upsertErr != nil && (!wafflemongo.IsDup(upsertErr) || mongo.SessionFromContext(ctx) != nil) {
		return models.Department{}, false, upsertErr
	}
	created := upsertErr == nil && res.UpsertedID != nil

	var d models.Department
	if err := s.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return models.Department{}, false, err
	}
	return d, created, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Department, error) {
	var d models.Department
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return models.Department{}, err
	}
	return d, nil
}

// GetBySlug returns the oldest department with the given slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Department, error) {
	var d models.Department
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}, opts).Decode(&d); err != nil {
		return models.Department{}, err
	}
	return d, nil
}

// List returns all departments ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	depts := []models.Department{}
	if err := cur.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

// SetUnit attaches a department to a unit. Returns mongo.ErrNoDocuments when
// the department does not exist.
func (s *Store) SetUnit(ctx context.Context, id, unitID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"unit_id": unitID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
