package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin overview.
type Counts struct {
	Units          int64 `json:"units"`
	Departments    int64 `json:"departments"`
	Workers        int64 `json:"workers"`
	ActiveWorkers  int64 `json:"active_workers"`
	StructureTests int64 `json:"structure_tests"`
	Participations int64 `json:"participations"`
	Organizers     int64 `json:"organizers"`
	Admins         int64 `json:"admins"`
}

// FetchDashboardCounts returns the high-level counts used by the admin overview.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	count := func(coll string, filter bson.M, dst *int64) {
		if n, err := db.Collection(coll).CountDocuments(ctx, filter); err == nil {
			*dst = n
		}
	}

	count("units", bson.M{}, &out.Units)
	count("departments", bson.M{}, &out.Departments)
	count("workers", bson.M{}, &out.Workers)
	count("workers", bson.M{"active": true}, &out.ActiveWorkers)
	count("structure_tests", bson.M{}, &out.StructureTests)
	count("participations", bson.M{}, &out.Participations)

	// Organizers carry a department; administrators have none.
	count("users", bson.M{"department_id": bson.M{"$type": "objectId"}}, &out.Organizers)
	count("users", bson.M{"department_id": bson.M{"$exists": false}}, &out.Admins)

	return out
}

// DepartmentCount is the worker total for one organizing department.
type DepartmentCount struct {
	DepartmentID primitive.ObjectID `bson:"_id" json:"department_id"`
	Workers      int64              `bson:"workers" json:"workers"`
	Active       int64              `bson:"active" json:"active"`
}

// WorkersByDepartment groups workers by organizing department, largest first.
func WorkersByDepartment(ctx context.Context, db *mongo.Database) ([]DepartmentCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$organizing_dept_id",
			"workers": bson.M{"$sum": 1},
			"active":  bson.M{"$sum": bson.M{"$cond": bson.A{"$active", 1, 0}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "workers", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cur, err := db.Collection("workers").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []DepartmentCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
